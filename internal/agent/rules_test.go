// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package agent

import (
	"strings"
	"testing"
)

func TestGenerate_Rules(t *testing.T) {
	tests := []struct {
		message string
		rule    string
		score   int
		tips    bool
	}{
		{"Hello there", "greeting", 0, true},
		{"hi!", "greeting", 0, true},
		{"你好，面试官", "greeting", 0, true},
		{"Can we talk about Binary   Search?", "binary_search", 7, true},
		{"二分查找怎么写", "binary_search", 7, true},
		{"how does a HashMap work", "hashing", 0, true},
		{"哈希冲突", "hashing", 0, true},
		{"DP on trees", "dynamic_programming", 8, true},
		{"动态规划入门", "dynamic_programming", 8, true},
		{"explain TCP", "tcp", 0, true},
		{"三次握手", "tcp", 0, true},
		// substrings of longer words do not trigger ASCII keywords
		{"this is which thing", "fallback", 0, true},
		{"graph coloring", "fallback", 0, true},
		// first matching rule wins
		{"hello, binary search please", "greeting", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := Generate(SessionContext{}, tt.message)
			if r.Rule != tt.rule {
				t.Fatalf("rule = %s, want %s", r.Rule, tt.rule)
			}
			if r.Text == "" {
				t.Error("empty reply text")
			}
			if (r.Tips != nil) != tt.tips {
				t.Errorf("tips = %v, want present=%v", r.Tips, tt.tips)
			}
			switch {
			case tt.score == 0 && r.Score != nil:
				t.Errorf("score = %d, want none", *r.Score)
			case tt.score != 0 && (r.Score == nil || *r.Score != tt.score):
				t.Errorf("score = %v, want %d", r.Score, tt.score)
			}
		})
	}
}

func TestGenerate_FallbackUsesContext(t *testing.T) {
	r := Generate(SessionContext{Role: "backend engineer", Focus: "databases"}, "tell me more")
	if !strings.Contains(r.Text, "backend engineer") || !strings.Contains(r.Text, "databases") {
		t.Errorf("fallback text = %q", r.Text)
	}
	if r.Tips == nil || *r.Tips != fallbackTips {
		t.Errorf("tips = %v", r.Tips)
	}

	r = Generate(SessionContext{}, "tell me more")
	if !strings.Contains(r.Text, "a general position") || !strings.Contains(r.Text, "comprehensive") {
		t.Errorf("default fallback text = %q", r.Text)
	}
}

func TestGenerate_Pure(t *testing.T) {
	sc := SessionContext{Role: "sre", Focus: "networking"}
	a := Generate(sc, "what about tcp")
	b := Generate(sc, "what about tcp")
	if a.Text != b.Text || a.Rule != b.Rule {
		t.Errorf("Generate is not deterministic: %+v vs %+v", a, b)
	}
	// the returned pointers are fresh copies
	if a.Tips == b.Tips {
		t.Error("Tips pointers are shared between calls")
	}
}
