package sync

import (
	"strings"

	"github.com/vmunix/anitrack/internal/library"
)

// ImportedReview is the rating/comment side of one remote collection entry.
// A score of 0 and a blank comment both mean "nothing entered remotely".
type ImportedReview struct {
	Score   int
	Comment string
}

// ResolvedReview is the outcome of merging an imported review with the
// local one.
type ResolvedReview struct {
	Score   *int
	Comment *string
}

// MergeReview combines one imported score/comment with the existing local
// review, which may be nil. Local data wins when present and non-trivial:
// a sync must never erase something the user typed.
//
// The returned write flag is false when nothing would change, so callers
// can skip the store write and leave reviewed_at untouched.
func MergeReview(existing *library.Review, imported ImportedReview) (ResolvedReview, bool) {
	var resolved ResolvedReview

	if existing != nil && existing.Score != nil && *existing.Score > 0 {
		resolved.Score = existing.Score
	} else if imported.Score > 0 {
		score := imported.Score
		resolved.Score = &score
	}

	if existing != nil && existing.Comment != nil && strings.TrimSpace(*existing.Comment) != "" {
		resolved.Comment = existing.Comment
	} else if strings.TrimSpace(imported.Comment) != "" {
		comment := imported.Comment
		resolved.Comment = &comment
	}

	if existing == nil {
		// Never create an all-empty review.
		return resolved, resolved.Score != nil || resolved.Comment != nil
	}

	// Compare on normalized values: a stored zero score or blank comment
	// already means "nothing entered", so resolving it to NULL is not a
	// change worth a write.
	changed := scoreValue(existing.Score) != scoreValue(resolved.Score) ||
		commentValue(existing.Comment) != commentValue(resolved.Comment)
	return resolved, changed
}

func scoreValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func commentValue(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
