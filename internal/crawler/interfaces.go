package crawler

import (
	"context"
	"time"
)

// Fetcher retrieves a page and returns its markdown body plus outbound links.
// Transport concerns (timeouts, redirects, TLS) live behind this interface.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (FetchResult, error)
}

// Sink durably stores one artifact per page. The caller is responsible for
// ensuring the parent directory exists before calling Write.
type Sink interface {
	Write(ctx context.Context, path string, data []byte) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
