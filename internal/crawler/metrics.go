package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pagesTotal tracks visited pages by site and terminal outcome.
	pagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitetext_pages_total",
		Help: "Total number of pages visited, labeled by site and outcome.",
	}, []string{"site", "outcome"})

	// fetchesInFlight tracks fetches currently holding a concurrency-gate slot.
	fetchesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sitetext_fetches_in_flight",
		Help: "Number of network fetches currently in flight.",
	})

	// linksDiscovered tracks in-domain links accepted into a frontier.
	linksDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitetext_links_discovered_total",
		Help: "Total number of newly discovered in-domain links enqueued.",
	})

	// sitesTotal tracks completed site crawls per batch orchestrator run.
	sitesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitetext_sites_total",
		Help: "Total number of site crawls completed.",
	})
)

func observePage(site string, outcome Outcome) {
	pagesTotal.WithLabelValues(site, string(outcome)).Inc()
}
