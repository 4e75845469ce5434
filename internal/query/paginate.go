package query

import "github.com/starling/noteboard/internal/models"

// Paginate slices one 1-based page out of the ordered note sequence.
// A non-positive page is coerced to 1 and an out-of-range page yields an
// empty slice; neither is an error. hasMore reports whether notes exist
// past the returned page.
func Paginate(notes []models.Note, page, pageSize int) (slice []models.Note, hasMore bool, total int) {
	total = len(notes)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []models.Note{}, false, total
	}

	// Bound the page before multiplying: (page-1)*pageSize overflows for
	// huge parsable page numbers and would wrap into a bad slice index.
	maxPage := (total-1)/pageSize + 1
	if page > maxPage {
		return []models.Note{}, false, total
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []models.Note{}, false, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return notes[start:end], end < total, total
}
