// Package bangumi provides a client for the Bangumi public API.
package bangumi

import (
	"bytes"
	"fmt"
	"strconv"
)

// Collection types as used by the user-collection endpoint.
const (
	CollectionWish       = 1
	CollectionCollect    = 2
	CollectionInProgress = 3
	CollectionOnHold     = 4
	CollectionDropped    = 5
)

// Episode type codes as reported by the catalog.
const (
	EpisodeTypeMain    = 0
	EpisodeTypeSpecial = 1
	EpisodeTypeOpening = 2
	EpisodeTypeEnding  = 3
)

// Subject is one catalog entry (a series).
type Subject struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameCN string `json:"name_cn"`
	Date   string `json:"date"` // YYYY-MM-DD, may be empty
	Eps    int    `json:"eps"`
	Images Images `json:"images"`
}

// Images holds cover image URLs in decreasing size.
type Images struct {
	Large  string `json:"large"`
	Common string `json:"common"`
	Medium string `json:"medium"`
}

// CoverURL returns the preferred cover image, or "" when none is available.
func (i Images) CoverURL() string {
	switch {
	case i.Large != "":
		return i.Large
	case i.Common != "":
		return i.Common
	default:
		return i.Medium
	}
}

// Sort is an episode ordinal as sent by the catalog. It is usually an
// integer, sometimes fractional (24.5) and occasionally not a number at
// all; the verbatim text is preserved.
type Sort string

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (s *Sort) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("unquote sort: %w", err)
		}
		*s = Sort(unquoted)
		return nil
	}
	*s = Sort(data)
	return nil
}

// Int parses the sort as an integer.
func (s Sort) Int() (int, bool) {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float parses the sort as a number (integer or fractional).
func (s Sort) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// EpisodeRecord is one entry of the subject episode list.
type EpisodeRecord struct {
	Type    int    `json:"type"`
	Sort    Sort   `json:"sort"`
	Name    string `json:"name"`
	NameCN  string `json:"name_cn"`
	Airdate string `json:"airdate"` // YYYY-MM-DD, may be empty
}

// CollectionEntry is one item of a user's collection page.
// Subject may be nil when the catalog returns a malformed entry.
type CollectionEntry struct {
	Subject *Subject `json:"subject"`
	Rate    int      `json:"rate"`
	Comment string   `json:"comment"`
}

// CollectionPage is one page of a user's collection.
type CollectionPage struct {
	Data  []CollectionEntry `json:"data"`
	Total int               `json:"total"`
}

// episodesResponse is the episode list API response.
type episodesResponse struct {
	Data []EpisodeRecord `json:"data"`
}
