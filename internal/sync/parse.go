package sync

import (
	"fmt"
	"net/url"
	"strings"
)

// collection URL path words to kinds, as the catalog's web UI uses them.
var pathKinds = map[string]Kind{
	"wish":    KindWish,
	"collect": KindCollect,
	"do":      KindInProgress,
	"on_hold": KindOnHold,
	"dropped": KindDropped,
}

var catalogHosts = map[string]bool{
	"bgm.tv":         true,
	"bangumi.tv":     true,
	"chii.in":        true,
	"www.bgm.tv":     true,
	"www.bangumi.tv": true,
}

// ParseCollectionURL extracts the username and collection kind from a
// catalog collection URL of the form
//
//	https://bgm.tv/anime/list/<username>/<kind>
//
// Returns ErrBadRequest for any other shape.
func ParseCollectionURL(raw string) (string, Kind, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("%w: empty collection URL", ErrBadRequest)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if !catalogHosts[strings.ToLower(u.Host)] {
		return "", "", fmt.Errorf("%w: unrecognized catalog host %q", ErrBadRequest, u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 4 || parts[0] != "anime" || parts[1] != "list" {
		return "", "", fmt.Errorf("%w: unrecognized collection path %q", ErrBadRequest, u.Path)
	}

	username := parts[2]
	if username == "" {
		return "", "", fmt.Errorf("%w: missing username", ErrBadRequest)
	}
	kind, ok := pathKinds[parts[3]]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown collection kind %q", ErrBadRequest, parts[3])
	}
	return username, kind, nil
}
