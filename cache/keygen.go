package cache

import (
	"crypto/md5"
	"fmt"
	"net/url"
	"strings"
)

// KeyForURL converts a request URL into a stable cache key that is safe to
// use as a filename. Identical URLs always produce identical keys.
func KeyForURL(requestURL string) string {
	u, err := url.Parse(requestURL)
	if err != nil {
		// Fallback to sanitized URL
		return sanitizeForFilename(requestURL)
	}

	// Build key from host + path + query
	parts := []string{u.Host}
	if u.Path != "" {
		parts = append(parts, strings.Trim(u.Path, "/"))
	}
	if u.RawQuery != "" {
		// Hash query params if too long
		if len(u.RawQuery) > 100 {
			hash := md5.Sum([]byte(u.RawQuery))
			parts = append(parts, fmt.Sprintf("q_%x", hash))
		} else {
			parts = append(parts, u.RawQuery)
		}
	}

	return sanitizeForFilename(strings.Join(parts, "_"))
}

// sanitizeForFilename makes a string safe for use as a filename
func sanitizeForFilename(s string) string {
	replacements := map[string]string{
		"/":  "_",
		"\\": "_",
		":":  "_",
		"*":  "_",
		"?":  "_",
		"\"": "_",
		"<":  "_",
		">":  "_",
		"|":  "_",
		"#":  "_",
		"&":  "_",
		"=":  "_",
		"%":  "_",
		" ":  "_",
	}

	result := s
	for old, new := range replacements {
		result = strings.ReplaceAll(result, old, new)
	}

	// Limit length and use hash for very long keys
	if len(result) > 200 {
		hash := md5.Sum([]byte(s))
		return fmt.Sprintf("long_%x", hash)
	}

	return result + ".bin"
}
