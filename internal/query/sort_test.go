package query

import (
	"testing"

	"github.com/starling/noteboard/internal/models"
)

func sortFixture() []models.Note {
	return []models.Note{
		{ID: 1, Title: "banana", Author: "Zoe", Likes: 5, Comments: make([]models.Comment, 1)},
		{ID: 2, Title: "Apple", Author: "amy", Likes: 2, Comments: make([]models.Comment, 3)},
		{ID: 3, Title: "cherry", Author: "Bob", Likes: 5, Comments: make([]models.Comment, 3)},
	}
}

func ids(notes []models.Note) []int64 {
	out := make([]int64, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Note, want ...int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d notes, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestSortKeys(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int64
	}{
		{SortRecent, []int64{3, 2, 1}},
		{SortOldest, []int64{1, 2, 3}},
		{SortTitle, []int64{2, 1, 3}},
		{SortAuthor, []int64{2, 3, 1}},
		{SortMostLiked, []int64{1, 3, 2}},     // stable: 1 before 3 on tied likes
		{SortMostCommented, []int64{2, 3, 1}}, // stable: 2 before 3 on tied comments
		{SortPopular, []int64{3, 2, 1}},       // comments first, then likes
		{SortKey("bogus"), []int64{1, 2, 3}},  // unknown key keeps order
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assertOrder(t, Sort(sortFixture(), tt.key), tt.want...)
		})
	}
}

func TestSortRecentThenOldestReverses(t *testing.T) {
	recent := Sort(sortFixture(), SortRecent)
	oldest := Sort(recent, SortOldest)
	assertOrder(t, oldest, 1, 2, 3)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := sortFixture()
	_ = Sort(in, SortRecent)
	assertOrder(t, in, 1, 2, 3)
}

func TestSortPopularTertiaryID(t *testing.T) {
	notes := []models.Note{
		{ID: 1, Likes: 4, Comments: make([]models.Comment, 2)},
		{ID: 2, Likes: 4, Comments: make([]models.Comment, 2)},
	}
	assertOrder(t, Sort(notes, SortPopular), 2, 1)
}
