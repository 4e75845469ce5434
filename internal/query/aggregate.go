package query

import (
	"sort"

	"github.com/starling/noteboard/internal/models"
)

// TagCount is one entry of the tag cloud.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Authors returns the distinct author names across the entire collection,
// sorted ascending. It always operates on the unfiltered set so the author
// selector stays complete regardless of active filters.
func Authors(notes []models.Note) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range notes {
		if _, ok := seen[n.Author]; ok {
			continue
		}
		seen[n.Author] = struct{}{}
		out = append(out, n.Author)
	}
	sort.Strings(out)
	return out
}

// TagCloud counts tag occurrences across every note's tag set (hashtags
// excluded) and returns them sorted by count descending.
func TagCloud(notes []models.Note) []TagCount {
	counts := make(map[string]int)
	for _, n := range notes {
		for _, t := range n.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TagCount{Tag: t, Count: c})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
