package crawler

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

// File names are capped at 150 characters including the extension.
const maxNameLen = 150

const fileExt = ".md"

var (
	hostileChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	separatorRuns = regexp.MustCompile(`[\s._-]+`)
)

// FileName maps a URL to a deterministic, filesystem-safe file name derived
// from host + path + truncated query. Distinct paths and queries commonly
// yield distinct names; exact collision-freedom is not guaranteed.
func FileName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "error_parsing_" + hashURL(rawURL) + fileExt
	}

	host := strings.ReplaceAll(parsed.Host, ".", "_")
	path := strings.Trim(parsed.Path, "/")
	path = strings.ReplaceAll(path, "/", "_")
	path = strings.ReplaceAll(path, ".", "_")
	if path == "" {
		path = "index"
	}

	name := host + "_" + path
	if query := parsed.RawQuery; query != "" {
		if len(query) > 50 {
			query = query[:50]
		}
		query = strings.ReplaceAll(query, "=", "-")
		query = strings.ReplaceAll(query, "&", "_")
		name += "_" + query
	}

	name = sanitizeName(name)
	if name == "" {
		name = "url_" + hashURL(rawURL)
	}

	if limit := maxNameLen - len(fileExt); len(name) > limit {
		name = name[:limit]
	}
	return name + fileExt
}

// DirName maps a URL's host to the per-site output directory name, applying
// the same sanitization as FileName but to the host component only.
func DirName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "domain_error_" + hashURL(rawURL)
	}

	name := sanitizeName(strings.ReplaceAll(parsed.Host, ".", "_"))
	if name == "" {
		name = "domain_" + hashURL(rawURL)
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

func sanitizeName(name string) string {
	name = hostileChars.ReplaceAllString(name, "_")
	name = separatorRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

func hashURL(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

// matchesExclusion reports whether a sanitized file name contains one of the
// binary-asset keywords.
func matchesExclusion(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, keyword := range ExcludeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
