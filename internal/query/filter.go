// Package query implements the pure note-collection pipeline: filtering,
// sorting, pagination, and aggregation. Nothing here touches storage.
package query

import (
	"strings"
	"time"

	"github.com/starling/noteboard/internal/models"
)

// All is the selector value that disables a filter dimension.
const All = "All"

// Date range selectors.
const (
	DateAll   = "All"
	DateToday = "Today"
	DateWeek  = "Week"
	DateMonth = "Month"
)

// Spec captures every selector of a single listing request.
type Spec struct {
	Class  string
	Author string
	Search string
	Tag    string
	Date   string
	Sort   SortKey
	Page   int
}

// DefaultSpec returns a spec that matches everything, sorted by most recent.
func DefaultSpec() Spec {
	return Spec{
		Class:  All,
		Author: All,
		Search: "",
		Tag:    All,
		Date:   DateAll,
		Sort:   SortRecent,
		Page:   1,
	}
}

// Filter applies every selector of spec to notes and returns the surviving
// subset. Each selector is an independent intersection; order of the result
// follows the input. An empty result is not an error.
func Filter(notes []models.Note, spec Spec, now time.Time) []models.Note {
	search := strings.ToLower(strings.TrimSpace(spec.Search))
	cutoff, hasCutoff := dateCutoff(spec.Date, now)

	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if spec.Class != "" && spec.Class != All && n.ClassCode != spec.Class {
			continue
		}
		if spec.Author != "" && spec.Author != All && n.Author != spec.Author {
			continue
		}
		if search != "" && !matchesSearch(n, search) {
			continue
		}
		if spec.Tag != "" && spec.Tag != All && !hasTag(n, spec.Tag) {
			continue
		}
		if hasCutoff && n.Created.Before(cutoff) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func matchesSearch(n models.Note, lowered string) bool {
	return strings.Contains(strings.ToLower(n.Title), lowered) ||
		strings.Contains(strings.ToLower(n.Body), lowered)
}

func hasTag(n models.Note, tag string) bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// dateCutoff maps a date selector to its inclusive lower bound.
// Unknown selectors behave like DateAll.
func dateCutoff(sel string, now time.Time) (time.Time, bool) {
	switch sel {
	case DateToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case DateWeek:
		return now.AddDate(0, 0, -7), true
	case DateMonth:
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}
