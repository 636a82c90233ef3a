package crawler

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const defaultWorkers = 8

// SiteCrawler crawls every reachable page of one site, starting from a seed
// URL and staying on the seed's host up to a bounded depth. One instance can
// be reused across sites; all per-crawl state lives in the run created by
// Crawl.
type SiteCrawler struct {
	fetcher Fetcher
	sink    Sink
	logger  *zap.Logger
	params  Params
}

// NewSiteCrawler constructs a SiteCrawler.
func NewSiteCrawler(fetcher Fetcher, sink Sink, params Params, logger *zap.Logger) *SiteCrawler {
	if params.Workers < 1 {
		params.Workers = defaultWorkers
	}
	if params.MaxConcurrency < 1 {
		params.MaxConcurrency = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SiteCrawler{
		fetcher: fetcher,
		sink:    sink,
		logger:  logger,
		params:  params,
	}
}

// Crawl runs one site crawl to completion and returns the aggregated result.
// It never returns an error: every failure is recorded inside the SiteResult,
// so the batch orchestrator always receives a result object.
func (s *SiteCrawler) Crawl(ctx context.Context, startURL string) SiteResult {
	run := &siteRun{
		SiteCrawler: s,
		frontier:    NewFrontier(),
		gate:        semaphore.NewWeighted(int64(s.params.MaxConcurrency)),
		result: SiteResult{
			InitialURL: startURL,
			Succeeded:  []PageResult{},
			Failed:     []PageResult{},
			Filtered:   []string{},
		},
	}

	seed, err := url.Parse(startURL)
	if err != nil || seed.Host == "" {
		run.recordFailed(startURL, "could not extract domain from start URL")
		return run.result
	}
	run.host = seed.Host

	outDir, err := filepath.Abs(filepath.Join(s.params.OutputDir, DirName(startURL)))
	if err == nil {
		err = os.MkdirAll(outDir, 0o750)
	}
	if err != nil {
		run.recordFailed(startURL, fmt.Sprintf("cannot create output directory: %v", err))
		return run.result
	}
	run.outDir = outDir

	s.logger.Info("starting site crawl",
		zap.String("start_url", startURL),
		zap.String("host", run.host),
		zap.String("output_dir", outDir),
		zap.Int("max_depth", s.params.MaxDepth),
		zap.Int("max_concurrency", s.params.MaxConcurrency),
	)

	// The post-processing pool keeps clean+write off the worker goroutine so
	// disk I/O for one page never holds up the fetch of the next.
	run.savers = &errgroup.Group{}
	run.savers.SetLimit(s.params.MaxConcurrency)

	run.frontier.Enqueue(startURL, 0)

	// Release workers blocked on the frontier if the caller gives up.
	stop := context.AfterFunc(ctx, run.frontier.Close)
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < s.params.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run.workerLoop(ctx)
		}()
	}
	wg.Wait()
	// Workers are done feeding the save pool; wait for in-flight writes.
	_ = run.savers.Wait() //nolint:errcheck // save tasks record their own failures

	s.logger.Info("site crawl finished",
		zap.String("start_url", startURL),
		zap.Int("saved", len(run.result.Succeeded)),
		zap.Int("failed", len(run.result.Failed)),
		zap.Int("filtered", len(run.result.Filtered)),
	)
	return run.result
}

// siteRun holds the mutable state of one crawl: the frontier, the fetch gate,
// the save pool, and the result lists. Workers share it under the frontier's
// and the result mutex's discipline; nothing here outlives Crawl.
type siteRun struct {
	*SiteCrawler

	host     string
	outDir   string
	frontier *Frontier
	gate     *semaphore.Weighted
	savers   *errgroup.Group

	resultMu sync.Mutex
	result   SiteResult
}

func (r *siteRun) workerLoop(ctx context.Context) {
	for {
		entry, ok := r.frontier.Next()
		if !ok {
			return
		}
		r.processEntry(ctx, entry)
		r.frontier.Done()
	}
}

// processEntry drives one URL through its state machine. Any panic inside an
// iteration is caught so a single bad page cannot take down the pool.
func (r *siteRun) processEntry(ctx context.Context, entry Entry) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("worker iteration panicked",
				zap.String("url", entry.URL),
				zap.Any("panic", rec),
			)
			r.recordFailed(entry.URL, fmt.Sprintf("worker panic: %v", rec))
		}
	}()

	// Visited is recorded before any fetch decision so a racing re-discovery
	// of this URL cannot re-enqueue it.
	if !r.frontier.MarkVisited(entry.URL) {
		return
	}

	parsed, err := url.Parse(entry.URL)
	if err != nil || parsed.Host != r.host {
		// A malformed relative link can resolve onto a foreign host; such
		// entries are skipped silently, with no fetch and no error.
		r.logger.Debug("skipping off-host url", zap.String("url", entry.URL))
		return
	}

	fileName := FileName(entry.URL)

	if matchesExclusion(fileName) {
		r.recordFiltered(entry.URL)
		observePage(r.host, OutcomeFiltered)
		// No artifact for binary assets, but their outbound links still
		// count toward discovery within the depth bound.
		if entry.Depth < r.params.MaxDepth {
			res, err := r.fetch(ctx, entry.URL)
			if err != nil {
				r.logger.Warn("link discovery fetch failed",
					zap.String("url", entry.URL),
					zap.Error(err),
				)
				return
			}
			r.enqueueLinks(parsed, res.Links, entry.Depth)
		}
		return
	}

	res, err := r.fetch(ctx, entry.URL)
	if err != nil {
		r.recordFailed(entry.URL, err.Error())
		observePage(r.host, OutcomeFailed)
		return
	}

	if entry.Depth < r.params.MaxDepth {
		r.enqueueLinks(parsed, res.Links, entry.Depth)
	}

	target := filepath.Join(r.outDir, fileName)
	pageURL, content := entry.URL, res.Content
	r.savers.Go(func() error {
		if err := r.sink.Write(ctx, target, RenderArtifact(pageURL, content)); err != nil {
			r.recordFailed(pageURL, err.Error())
			observePage(r.host, OutcomeFailed)
			return nil
		}
		r.recordSaved(pageURL)
		observePage(r.host, OutcomeSaved)
		return nil
	})
}

// fetch performs one network fetch under the concurrency gate so the number
// of simultaneous in-flight requests never exceeds the configured cap,
// independent of how many workers are scheduled.
func (r *siteRun) fetch(ctx context.Context, rawURL string) (FetchResult, error) {
	if err := r.gate.Acquire(ctx, 1); err != nil {
		return FetchResult{}, fmt.Errorf("acquire fetch slot: %w", err)
	}
	defer r.gate.Release(1)

	fetchesInFlight.Inc()
	defer fetchesInFlight.Dec()

	res, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return res, nil
}

// enqueueLinks resolves each discovered href against the discovering page and
// feeds in-domain URLs back into the frontier one hop deeper. Malformed and
// out-of-domain links are dropped; the frontier itself rejects duplicates.
func (r *siteRun) enqueueLinks(page *url.URL, links []Link, depth int) {
	for _, link := range links {
		resolved, err := ResolveLink(page, link.Href)
		if err != nil {
			r.logger.Debug("dropping malformed link",
				zap.String("page", page.String()),
				zap.String("href", link.Href),
				zap.Error(err),
			)
			continue
		}
		if !InDomain(resolved, r.host) {
			continue
		}
		if r.frontier.Enqueue(resolved.String(), depth+1) {
			linksDiscovered.Inc()
		}
	}
}

func (r *siteRun) recordSaved(pageURL string) {
	r.resultMu.Lock()
	defer r.resultMu.Unlock()
	r.result.Succeeded = append(r.result.Succeeded, PageResult{URL: pageURL})
}

func (r *siteRun) recordFailed(pageURL, errText string) {
	r.resultMu.Lock()
	defer r.resultMu.Unlock()
	r.result.Failed = append(r.result.Failed, PageResult{URL: pageURL, Error: errText})
}

func (r *siteRun) recordFiltered(pageURL string) {
	r.resultMu.Lock()
	defer r.resultMu.Unlock()
	r.result.Filtered = append(r.result.Filtered, pageURL)
}
