package query

import (
	"sort"
	"strings"

	"github.com/starling/noteboard/internal/models"
)

// SortKey selects a listing order.
type SortKey string

const (
	SortRecent        SortKey = "recent"
	SortOldest        SortKey = "oldest"
	SortTitle         SortKey = "title"
	SortAuthor        SortKey = "author"
	SortMostLiked     SortKey = "most_liked"
	SortMostCommented SortKey = "most_commented"
	SortPopular       SortKey = "popular"
)

// Sort returns a copy of notes ordered by key. The sort is stable, so ties
// keep their prior relative order. An unknown key leaves the order as-is.
func Sort(notes []models.Note, key SortKey) []models.Note {
	out := make([]models.Note, len(notes))
	copy(out, notes)

	var less func(a, b models.Note) bool
	switch key {
	case SortRecent:
		less = func(a, b models.Note) bool { return a.ID > b.ID }
	case SortOldest:
		less = func(a, b models.Note) bool { return a.ID < b.ID }
	case SortTitle:
		less = func(a, b models.Note) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortAuthor:
		less = func(a, b models.Note) bool {
			return strings.ToLower(a.Author) < strings.ToLower(b.Author)
		}
	case SortMostLiked:
		less = func(a, b models.Note) bool { return a.Likes > b.Likes }
	case SortMostCommented:
		less = func(a, b models.Note) bool { return len(a.Comments) > len(b.Comments) }
	case SortPopular:
		less = func(a, b models.Note) bool {
			if len(a.Comments) != len(b.Comments) {
				return len(a.Comments) > len(b.Comments)
			}
			if a.Likes != b.Likes {
				return a.Likes > b.Likes
			}
			return a.ID > b.ID
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
