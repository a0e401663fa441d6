package catalog

import (
	"net/url"
	"strings"
)

// cleanCutset is the fixed set of delimiter characters stripped from raw
// image references, in addition to surrounding whitespace. Some dataset
// exports wrap URLs in angle brackets.
const cleanCutset = "<> \t\r\n"

// CleanImageRef normalizes a raw image reference from the dataset: it
// strips the delimiter characters and surrounding whitespace, and returns
// the empty string when the remainder is not a usable absolute URL.
func CleanImageRef(raw string) string {
	ref := strings.Trim(raw, cleanCutset)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return ref
}
