package sync

import (
	"fmt"
	"time"

	"github.com/vmunix/anitrack/internal/library"
	"github.com/vmunix/anitrack/pkg/bangumi"
)

// Classified is one catalog episode record mapped into the local taxonomy.
type Classified struct {
	Code        string
	Type        library.EpisodeType
	OrdinalHint int
	Title       *string
	AirDate     *time.Time
}

// Classify maps a catalog episode record to an (episode_code, episode_type)
// pair. It is a pure function of the record.
//
// Openings and endings (catalog types 2/3) are imported as op/ed rows, not
// skipped.
func Classify(rec bangumi.EpisodeRecord) Classified {
	c := Classified{
		Code:        codeFor(rec.Type, rec.Sort),
		Type:        typeFor(rec.Type),
		OrdinalHint: ordinalHint(rec.Sort),
		Title:       titleFor(rec),
		AirDate:     parseDate(rec.Airdate),
	}
	return c
}

func typeFor(catalogType int) library.EpisodeType {
	switch catalogType {
	case bangumi.EpisodeTypeMain:
		return library.EpisodeMain
	case bangumi.EpisodeTypeSpecial:
		return library.EpisodeSpecial
	case bangumi.EpisodeTypeOpening:
		return library.EpisodeOpening
	case bangumi.EpisodeTypeEnding:
		return library.EpisodeEnding
	default:
		return library.EpisodeOther
	}
}

func codeFor(catalogType int, sort bangumi.Sort) string {
	switch catalogType {
	case bangumi.EpisodeTypeMain:
		// Zero-padded for integer sorts; the raw sort text otherwise
		// (fractional recap episodes like 13.5 keep their form).
		if n, ok := sort.Int(); ok {
			return fmt.Sprintf("E%02d", n)
		}
		return "E" + string(sort)
	case bangumi.EpisodeTypeSpecial:
		return "SP" + string(sort)
	case bangumi.EpisodeTypeOpening:
		return "OP" + string(sort)
	case bangumi.EpisodeTypeEnding:
		return "ED" + string(sort)
	default:
		return "O" + string(sort)
	}
}

// ordinalHint derives an informational ordering hint from the sort.
// Fractional sorts truncate; non-numeric sorts carry no hint.
func ordinalHint(sort bangumi.Sort) int {
	if n, ok := sort.Int(); ok {
		return n
	}
	if f, ok := sort.Float(); ok {
		return int(f)
	}
	return 0
}

// titleFor prefers the localized name; empty strings are absent.
func titleFor(rec bangumi.EpisodeRecord) *string {
	if rec.NameCN != "" {
		name := rec.NameCN
		return &name
	}
	if rec.Name != "" {
		name := rec.Name
		return &name
	}
	return nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
