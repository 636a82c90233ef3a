package crawler

import (
	"fmt"
	"net/url"
)

// ResolveLink resolves an href found on a page against that page's URL,
// following standard URL-resolution rules (relative, absolute, and
// protocol-relative hrefs are all handled by url.URL.Parse).
func ResolveLink(base *url.URL, href string) (*url.URL, error) {
	resolved, err := base.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("resolve link %q: %w", href, err)
	}
	return resolved, nil
}

// InDomain reports whether u belongs to the crawl identified by host.
// Only exact netloc matches count: sub-domains and foreign hosts are
// out-of-domain and never queued.
func InDomain(u *url.URL, host string) bool {
	if u == nil || host == "" {
		return false
	}
	return u.Host == host
}
