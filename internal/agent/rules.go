// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package agent

import (
	"strings"
	"unicode"
)

// SessionContext is the interview setting a reply is generated for.
type SessionContext struct {
	Role  string
	Focus string
}

// Reply is a generated interviewer answer. Tips and Score are nil when the
// matched rule does not provide them.
type Reply struct {
	Rule  string
	Text  string
	Tips  *string
	Score *int
}

type rule struct {
	name     string
	keywords []string
	text     string
	tips     string
	score    int
}

// Rules are checked in order; the first match wins.
var rules = []rule{
	{
		name:     "greeting",
		keywords: []string{"hello", "hi", "你好"},
		text:     "Hello, I am your mock interviewer. Please briefly introduce yourself and the areas you are strongest in.",
		tips:     "Keep it structured and highlight your key achievements.",
	},
	{
		name:     "binary_search",
		keywords: []string{"binary search", "二分"},
		text:     "What is the time complexity of binary search, and how would you apply it to a rotated sorted array?",
		tips:     "Start with O(log n), then explain the loop invariant and how you handle the boundaries.",
		score:    7,
	},
	{
		name:     "hashing",
		keywords: []string{"hash", "hashing", "hashmap", "hash table", "哈希"},
		text:     "Describe the common strategies for resolving hash collisions and when each one fits.",
		tips:     "Separate chaining, open addressing, rehashing.",
	},
	{
		name:     "dynamic_programming",
		keywords: []string{"dp", "dynamic programming", "动态规划"},
		text:     "Give the state definition and transition for a knapsack or longest-subsequence style DP problem.",
		tips:     "State compression earns extra credit.",
		score:    8,
	},
	{
		name:     "tcp",
		keywords: []string{"tcp", "三次握手", "四次挥手"},
		text:     "Walk me through the TCP three-way handshake and four-way teardown, and why each step is needed.",
		tips:     "Mention half-close, TIME_WAIT and RST.",
	},
}

const fallbackTips = "Structure your answer as Background-Problem-Solution-Result-Retrospective."

// normalize lowercases text and collapses every run of ASCII punctuation or
// whitespace into one space, padding both ends so whole words can be found
// with a plain substring search.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 2)
	b.WriteByte(' ')
	space := true
	for _, r := range strings.ToLower(text) {
		if r < unicode.MaxASCII && !unicode.IsLetter(r) && !unicode.IsDigit(r) || unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	if !space {
		b.WriteByte(' ')
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= unicode.MaxASCII {
			return false
		}
	}
	return true
}

// matches reports whether normalized text contains keyword. ASCII keywords
// must match whole words; others match anywhere.
func matches(normalized, keyword string) bool {
	if isASCII(keyword) {
		return strings.Contains(normalized, " "+keyword+" ")
	}
	return strings.Contains(normalized, keyword)
}

// Generate derives the interviewer's reply to message. It is a pure
// function of its inputs.
func Generate(sc SessionContext, message string) Reply {
	text := normalize(message)
	for i := range rules {
		r := &rules[i]
		for _, kw := range r.keywords {
			if matches(text, kw) {
				return r.reply()
			}
		}
	}

	role := strings.TrimSpace(sc.Role)
	if role == "" {
		role = "a general position"
	}
	focus := strings.TrimSpace(sc.Focus)
	if focus == "" {
		focus = "comprehensive"
	}
	tips := fallbackTips
	return Reply{
		Rule: "fallback",
		Text: "For " + role + " (focus: " + focus + "), describe the hardest problem in the project you know best and how you optimized it.",
		Tips: &tips,
	}
}

func (r *rule) reply() Reply {
	out := Reply{Rule: r.name, Text: r.text}
	if r.tips != "" {
		tips := r.tips
		out.Tips = &tips
	}
	if r.score != 0 {
		score := r.score
		out.Score = &score
	}
	return out
}
