package profile

import (
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/gradebook/core"
)

const (
	// suggestions scoring below this similarity are dropped
	minSuggestionRatio = 0.5
	maxHistory         = 100
)

// HistoryEntry is a course code seen in saved semesters, with the last name it was given.
type HistoryEntry struct {
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}

// courseHistory collects the courses of every profile, most used first.
func courseHistory(doc Document) []HistoryEntry {
	byCode := make(map[string]*HistoryEntry)
	for _, p := range doc.Profiles {
		for _, s := range p.Semesters {
			for _, c := range s.Courses {
				code := core.CleanCode(c.Code)
				if code == "" {
					continue
				}
				e, ok := byCode[code]
				if !ok {
					e = &HistoryEntry{Code: code}
					byCode[code] = e
				}
				e.Count++
				if !s.SavedAt.Before(e.LastUsed) {
					e.LastUsed = s.SavedAt
					if c.Name.Valid && c.Name.String != "" {
						e.Name = c.Name.String
					}
				} else if e.Name == "" && c.Name.Valid {
					e.Name = c.Name.String
				}
			}
		}
	}

	entries := make([]HistoryEntry, 0, len(byCode))
	for _, e := range byCode {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Code < entries[j].Code
	})
	if len(entries) > maxHistory {
		entries = entries[:maxHistory]
	}
	return entries
}

type scoredEntry struct {
	HistoryEntry
	score float64
}

// suggest ranks history entries against query. Codes or names starting with the query
// come first, then fuzzy matches on either of them.
func suggest(history []HistoryEntry, query string, limit int) []HistoryEntry {
	q := strings.ToLower(core.CleanString(query))
	if q == "" {
		if limit > 0 && len(history) > limit {
			return history[:limit]
		}
		return history
	}

	ratio := func(a, b string) float64 {
		if b == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
	}

	var scored []scoredEntry
	for _, e := range history {
		code, name := strings.ToLower(e.Code), strings.ToLower(e.Name)
		var score float64
		switch {
		case strings.HasPrefix(code, q) || strings.HasPrefix(name, q):
			score = 2
		case strings.Contains(code, q) || strings.Contains(name, q):
			score = 1.5
		default:
			score = ratio(q, code)
			if r := ratio(q, name); r > score {
				score = r
			}
		}
		if score >= minSuggestionRatio {
			scored = append(scored, scoredEntry{HistoryEntry: e, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]HistoryEntry, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.HistoryEntry)
	}
	return out
}
