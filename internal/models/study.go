// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package models

// Mistake is a recorded wrong answer to a practice problem.
// Difficulty and Note are nil when not supplied.
type Mistake struct {
	ID         string   `json:"id"`
	TitleSlug  string   `json:"titleSlug"`
	Title      string   `json:"title"`
	Difficulty *string  `json:"difficulty"`
	Tags       []string `json:"tags"`
	Note       *string  `json:"note"`
	CreatedAt  string   `json:"createdAt"`
}

// TrendPoint is the number of mistakes recorded on one UTC day.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats aggregates a user's mistakes over a trailing window of days.
type Stats struct {
	Total        int            `json:"total"`
	ByDifficulty map[string]int `json:"byDifficulty"`
	ByTag        map[string]int `json:"byTag"`
	RecentTrend  []TrendPoint   `json:"recentTrend"`
}

// Recommendation suggests a problem to revisit.
type Recommendation struct {
	TitleSlug string `json:"titleSlug"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`
}
