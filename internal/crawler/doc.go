// Package crawler implements the concurrent, domain-scoped site crawler:
// frontier bookkeeping, the worker pool, URL and name sanitization, markdown
// cleaning, and the per-site and batch orchestrators.
package crawler
