package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MetadataFileName is the combined summary artifact written under the batch
// output directory.
const MetadataFileName = "overall_metadata.json"

// Batch runs one site crawl per start URL, sequentially across sites, and
// writes the aggregate summary artifact when all sites are done. Only pages
// within a site are crawled in parallel.
type Batch struct {
	fetcher Fetcher
	sink    Sink
	clock   Clock
	logger  *zap.Logger
}

// NewBatch constructs a Batch orchestrator.
func NewBatch(fetcher Fetcher, sink Sink, clock Clock, logger *zap.Logger) *Batch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batch{
		fetcher: fetcher,
		sink:    sink,
		clock:   clock,
		logger:  logger,
	}
}

// Run crawls every start URL and returns the combined result. The only error
// it can return is a non-creatable batch output directory; per-site failures
// of any kind are recorded in the result and never stop subsequent sites.
func (b *Batch) Run(ctx context.Context, startURLs []string, params Params) (BatchResult, error) {
	outputDir, err := filepath.Abs(params.OutputDir)
	if err == nil {
		err = os.MkdirAll(outputDir, 0o750)
	}
	if err != nil {
		return BatchResult{}, fmt.Errorf("create batch output directory %s: %w", params.OutputDir, err)
	}
	params.OutputDir = outputDir

	result := BatchResult{
		TotalURLs: len(startURLs),
		Sites:     make(map[string]SiteResult, len(startURLs)),
	}

	site := NewSiteCrawler(b.fetcher, b.sink, params, b.logger)
	for i, startURL := range startURLs {
		b.logger.Info("processing site",
			zap.Int("index", i+1),
			zap.Int("total", len(startURLs)),
			zap.String("start_url", startURL),
		)
		result.Sites[startURL] = b.crawlSite(ctx, site, startURL)
		sitesTotal.Inc()
	}

	result.GeneratedAt = b.clock.Now()

	metadataPath := filepath.Join(outputDir, MetadataFileName)
	if err := b.writeMetadata(ctx, metadataPath, result); err != nil {
		// The per-site artifacts are already on disk; a summary write
		// failure is reported but does not fail the batch.
		b.logger.Warn("failed to write batch metadata", zap.Error(err))
	} else {
		result.MetadataPath = metadataPath
	}
	return result, nil
}

// crawlSite isolates one site crawl: a panic escaping the site orchestrator
// is recorded as that site's failure and the batch moves on.
func (b *Batch) crawlSite(ctx context.Context, site *SiteCrawler, startURL string) (res SiteResult) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error("site crawl panicked",
				zap.String("start_url", startURL),
				zap.Any("panic", rec),
			)
			res = SiteResult{
				InitialURL: startURL,
				Succeeded:  []PageResult{},
				Failed: []PageResult{{
					URL:   startURL,
					Error: fmt.Sprintf("unexpected error during site processing: %v", rec),
				}},
				Filtered: []string{},
			}
		}
	}()
	return site.Crawl(ctx, startURL)
}

func (b *Batch) writeMetadata(ctx context.Context, path string, result BatchResult) error {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch metadata: %w", err)
	}
	if err := b.sink.Write(ctx, path, payload); err != nil {
		return fmt.Errorf("write batch metadata %s: %w", path, err)
	}
	return nil
}
