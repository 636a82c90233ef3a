package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyFetcher implements the Fetcher interface using the Colly collector.
// It owns the transport concerns (timeouts, redirects, TLS) and converts the
// fetched HTML to markdown before handing it back.
type CollyFetcher struct {
	baseCollector *colly.Collector
	converter     *md.Converter
	logger        *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg Config, logger *zap.Logger) (*CollyFetcher, error) {
	base := colly.NewCollector(
		colly.Async(true),
		colly.UserAgent(cfg.UserAgent),
	)
	// Revisit bookkeeping belongs to the frontier; the transport must not
	// second-guess it across site crawls.
	base.AllowURLRevisit = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   32,
		MaxConnsPerHost:       cfg.MaxConcurrency * 2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	base.SetRequestTimeout(cfg.RequestTimeout)

	if err := base.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.MaxConcurrency,
	}); err != nil {
		return nil, fmt.Errorf("set collector limits: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &CollyFetcher{
		baseCollector: base,
		converter:     converter,
		logger:        logger,
	}, nil
}

// Fetch retrieves one page, returning its markdown body plus the raw hrefs of
// every anchor on the page. Transport failures and non-2xx statuses surface
// as errors.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (FetchResult, error) {
	collector := f.baseCollector.Clone()

	var (
		mu       sync.Mutex
		body     []byte
		gotBody  bool
		links    []Link
		status   int
		fetchErr error
	)

	collector.OnResponse(func(r *colly.Response) {
		mu.Lock()
		defer mu.Unlock()
		body = append([]byte{}, r.Body...)
		gotBody = true
		status = r.StatusCode
	})

	// Hrefs are handed back raw; resolution against the page URL is the
	// link normalizer's job.
	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		links = append(links, Link{Href: e.Attr("href")})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if err == nil {
			err = errors.New("unknown colly error")
		}
		mu.Lock()
		defer mu.Unlock()
		fetchErr = err
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := collector.Visit(rawURL); err != nil {
		return FetchResult{}, fmt.Errorf("visit %s: %w", rawURL, err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return FetchResult{}, err
	}

	mu.Lock()
	defer mu.Unlock()
	if fetchErr != nil {
		return FetchResult{}, fmt.Errorf("fetch %s (status %d): %w", rawURL, status, fetchErr)
	}
	if !gotBody {
		return FetchResult{}, fmt.Errorf("fetch %s produced no response", rawURL)
	}

	markdown, err := f.converter.ConvertString(string(body))
	if err != nil {
		return FetchResult{}, fmt.Errorf("convert %s to markdown: %w", rawURL, err)
	}

	f.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.Int("status", status),
		zap.Int("links", len(links)),
	)
	return FetchResult{Content: markdown, Links: links}, nil
}
