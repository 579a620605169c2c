package identity

import (
	"strings"
	"unicode"
)

// handlePrefixes are the URL forms a handle is sometimes recorded in.
var handlePrefixes = []string{
	"https://twitter.com/",
	"http://twitter.com/",
	"https://www.twitter.com/",
	"http://www.twitter.com/",
	"https://x.com/",
	"http://x.com/",
	"https://www.x.com/",
	"twitter.com/",
	"www.twitter.com/",
	"x.com/",
}

// NormalizeHandle reduces a recorded handle to the bare screen name:
// surrounding space, a profile URL prefix, a leading "@" and any trailing
// path or query are removed. Case is preserved.
func NormalizeHandle(raw string) string {
	h := strings.TrimSpace(raw)
	lower := strings.ToLower(h)
	for _, prefix := range handlePrefixes {
		if strings.HasPrefix(lower, prefix) {
			h = h[len(prefix):]
			break
		}
	}
	h = strings.TrimPrefix(h, "@")
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}
	return h
}

// ValidHandle reports whether h can be sent to the directory as one screen
// name. Lookups join keys with commas, so a comma or any space inside h would
// split it into several names on the wire.
func ValidHandle(h string) bool {
	if h == "" {
		return false
	}
	return !strings.ContainsFunc(h, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// HandleKey returns the case-insensitive matching key for a handle.
func HandleKey(handle string) string {
	return strings.ToLower(handle)
}
