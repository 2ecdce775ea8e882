package sync

import (
	"strconv"
	"strings"
)

// RefPrefix scopes external references to the Bangumi catalog.
const RefPrefix = "BGM-"

// RefFor builds the external reference for a catalog subject ID.
func RefFor(subjectID int64) string {
	return RefPrefix + strconv.FormatInt(subjectID, 10)
}

// SubjectIDFromRef extracts the catalog subject ID from an external
// reference. Returns false when the reference is not from this catalog.
func SubjectIDFromRef(ref string) (int64, bool) {
	rest, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
