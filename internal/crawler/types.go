package crawler

import "time"

// Outcome is the terminal state of a visited URL within one site crawl.
type Outcome string

// Outcome values recorded in the per-site result lists.
const (
	OutcomeSaved    Outcome = "saved"
	OutcomeFailed   Outcome = "failed"
	OutcomeFiltered Outcome = "filtered"
)

// Entry is one unit of frontier work: a URL and its hop distance from the seed.
// Entries are created on first discovery and consumed exactly once.
type Entry struct {
	URL   string
	Depth int
}

// Link is an outbound reference extracted from a fetched page. The href is
// raw, exactly as it appeared in the document, and not yet resolved.
type Link struct {
	Href string `json:"href"`
}

// FetchResult is what a Fetcher returns for a single page: the document body
// converted to markdown plus the page's outbound links.
type FetchResult struct {
	Content string
	Links   []Link
}

// PageResult records the terminal outcome of one URL.
type PageResult struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// SiteResult aggregates every page outcome for one site crawl. Owned by the
// site orchestrator while the crawl runs, read-only afterwards.
type SiteResult struct {
	InitialURL string       `json:"initial_url"`
	Succeeded  []PageResult `json:"success"`
	Failed     []PageResult `json:"failed"`
	Filtered   []string     `json:"skipped_by_filter"`
}

// BatchResult is the combined summary across all start URLs of one batch run.
type BatchResult struct {
	TotalURLs    int                   `json:"total_urls"`
	Sites        map[string]SiteResult `json:"site_crawl_results"`
	GeneratedAt  time.Time             `json:"generated_at"`
	MetadataPath string                `json:"metadata_path,omitempty"`
}

// Params carries the per-call crawl knobs shared by the CLI and the API.
type Params struct {
	OutputDir      string
	MaxConcurrency int
	MaxDepth       int
	Workers        int
}

// ExcludeKeywords suppresses content writes for binary asset URLs. A sanitized
// file name containing any of these (case-insensitive) is filtered: no artifact
// is written, but the page's in-domain links are still followed.
var ExcludeKeywords = []string{"pdf", "jpeg", "jpg", "png", "webp"}
