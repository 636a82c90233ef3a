package crawler

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ParseURLList reads start URLs from r, one per line. Only absolute http or
// https URLs with a recognizable host are kept; every rejected line comes
// back as a diagnostic so callers can report it without failing the batch.
func ParseURLList(r io.Reader) (urls []string, skipped []string) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
			skipped = append(skipped, fmt.Sprintf("line %d: not an http(s) URL: %q", line, raw))
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: invalid URL format: %q", line, raw))
			continue
		}
		if parsed.Host == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: no recognizable domain: %q", line, raw))
			continue
		}
		urls = append(urls, raw)
	}
	if err := scanner.Err(); err != nil {
		skipped = append(skipped, fmt.Sprintf("read error after line %d: %v", line, err))
	}
	return urls, skipped
}
