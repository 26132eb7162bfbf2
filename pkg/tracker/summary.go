// Package tracker turns a user's public GitHub events into the light and
// dark tracker SVGs and publishes them with a diff-gated commit.
package tracker

import (
	"sort"

	"github.com/gittracker/git-tracker/pkg/github"
)

// TypeCount is the number of events of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Summary is a list of event counts, most frequent first.
type Summary []TypeCount

// Total returns the number of events the summary covers.
func (s Summary) Total() int {
	total := 0
	for _, tc := range s {
		total += tc.Count
	}
	return total
}

// Summarize counts events by type. The result is ordered by count
// descending and then by type name, so identical input renders identical
// bytes.
func Summarize(events []github.Event) Summary {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Type == "" {
			continue
		}
		counts[e.Type]++
	}

	summary := make(Summary, 0, len(counts))
	for typ, n := range counts {
		summary = append(summary, TypeCount{Type: typ, Count: n})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Type < summary[j].Type
	})
	return summary
}
