// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package study

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/ning/internal/models"
)

const (
	DefaultStatsDays = 7
	MaxStatsDays     = 365

	DefaultRecommendations = 10
	MaxRecommendations     = 50

	dateLayout = "2006-01-02"
)

// Difficulties always present in Stats.ByDifficulty.
var baseDifficulties = []string{"Easy", "Medium", "Hard"}

func clamp(v, def, maxV int) int {
	switch {
	case v <= 0:
		return def
	case v > maxV:
		return maxV
	}
	return v
}

func createdDay(m *models.Mistake) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, m.CreatedAt)
	if err != nil {
		return time.Time{}, false
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// Stats aggregates user's mistakes over the last days UTC calendar days,
// today included.
func (s *Service) Stats(ctx context.Context, user *models.User, days int) (*models.Stats, error) {
	days = clamp(days, DefaultStatsDays, MaxStatsDays)
	items, err := s.ListMistakes(ctx, user)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	stats := &models.Stats{
		ByDifficulty: make(map[string]int, len(baseDifficulties)),
		ByTag:        map[string]int{},
		RecentTrend:  make([]models.TrendPoint, days),
	}
	for _, d := range baseDifficulties {
		stats.ByDifficulty[d] = 0
	}
	for i := range stats.RecentTrend {
		stats.RecentTrend[i].Date = start.AddDate(0, 0, i).Format(dateLayout)
	}

	for i := range items {
		m := &items[i]
		day, ok := createdDay(m)
		if !ok || day.Before(start) || day.After(today) {
			continue
		}
		stats.Total++
		if m.Difficulty != nil && *m.Difficulty != "" {
			stats.ByDifficulty[*m.Difficulty]++
		}
		for _, tag := range m.Tags {
			stats.ByTag[tag]++
		}
		idx := int(day.Sub(start).Hours() / 24)
		stats.RecentTrend[idx].Count++
	}
	return stats, nil
}

type slugGroup struct {
	slug     string
	title    string
	count    int
	lastMiss string
	tags     map[string]int
}

// Recommendations ranks the problems user should revisit: most missed
// first, then least recently missed, then by slug.
func (s *Service) Recommendations(ctx context.Context, user *models.User, limit int) ([]models.Recommendation, error) {
	limit = clamp(limit, DefaultRecommendations, MaxRecommendations)
	items, err := s.ListMistakes(ctx, user)
	if err != nil {
		return nil, err
	}

	groups := map[string]*slugGroup{}
	for _, m := range items {
		g, ok := groups[m.TitleSlug]
		if !ok {
			g = &slugGroup{slug: m.TitleSlug, tags: map[string]int{}}
			groups[m.TitleSlug] = g
		}
		g.count++
		// RFC 3339 UTC timestamps order lexically
		if m.CreatedAt >= g.lastMiss {
			g.lastMiss = m.CreatedAt
			g.title = m.Title
		}
		for _, tag := range m.Tags {
			g.tags[tag]++
		}
	}

	ranked := make([]*slugGroup, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.lastMiss != b.lastMiss {
			return a.lastMiss < b.lastMiss
		}
		return a.slug < b.slug
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recs := make([]models.Recommendation, 0, len(ranked))
	for _, g := range ranked {
		recs = append(recs, models.Recommendation{
			TitleSlug: g.slug,
			Title:     g.title,
			Reason:    reason(g),
		})
	}
	return recs, nil
}

func reason(g *slugGroup) string {
	var b strings.Builder
	if g.count == 1 {
		b.WriteString("Missed 1 time")
	} else {
		fmt.Fprintf(&b, "Missed %d times", g.count)
	}
	if top := topTags(g.tags, 3); len(top) > 0 {
		b.WriteString("; review ")
		b.WriteString(strings.Join(top, ", "))
	}
	return b.String()
}

func topTags(counts map[string]int, n int) []string {
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
