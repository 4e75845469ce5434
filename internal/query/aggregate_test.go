package query

import (
	"reflect"
	"testing"

	"github.com/starling/noteboard/internal/models"
)

func TestAuthors(t *testing.T) {
	notes := []models.Note{
		{Author: "carol"},
		{Author: "alice"},
		{Author: "carol"},
		{Author: "bob"},
	}
	got := Authors(notes)
	want := []string{"alice", "bob", "carol"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Authors = %v, want %v", got, want)
	}
}

func TestAuthorsEmpty(t *testing.T) {
	if got := Authors(nil); len(got) != 0 {
		t.Fatalf("Authors(nil) = %v", got)
	}
}

func TestTagCloud(t *testing.T) {
	notes := []models.Note{
		{Tags: []string{"review", "exam"}, Hashtags: []string{"ignored"}},
		{Tags: []string{"review"}},
		{Tags: []string{"review", "calc"}},
	}
	got := TagCloud(notes)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Tag != "review" || got[0].Count != 3 {
		t.Errorf("top entry = %+v, want review/3", got[0])
	}
	for _, tc := range got {
		if tc.Tag == "ignored" {
			t.Error("hashtags must not feed the tag cloud")
		}
	}
	// Counts are non-increasing.
	for i := 1; i < len(got); i++ {
		if got[i].Count > got[i-1].Count {
			t.Errorf("cloud not sorted: %+v", got)
		}
	}
}
