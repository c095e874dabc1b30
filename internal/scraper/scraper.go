package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/gacor/internal/game"
	"github.com/pfrederiksen/gacor/internal/logger"
	"github.com/pfrederiksen/gacor/internal/metrics"
	"github.com/pfrederiksen/gacor/internal/provider"
	"github.com/pfrederiksen/gacor/internal/tracing"
)

const (
	UserAgent      = "Mozilla/5.0 (compatible; GacorBot/1.0; +https://vercel.com)"
	Accept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultTimeout = 12 * time.Second

	maxBodyBytes = 16 << 20
)

// Page is the outcome of a completed upstream request. A non-2xx status is not an
// error; OK reports whether the status was 2xx.
// Truncated is set when the body exceeded the fetcher's size cap and was cut.
type Page struct {
	URL       string
	OK        bool
	Status    int
	Body      string
	Truncated bool
}

// Fetcher performs bounded GET requests against provider pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	maxBody   int64
}

// NewFetcher creates a Fetcher. A zero timeout selects DefaultTimeout and an empty
// userAgent selects UserAgent. Redirects are followed by the default client policy.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: userAgent,
		timeout:   timeout,
		maxBody:   maxBodyBytes,
	}
}

// Fetch downloads url. The request, including reading the body, is cancelled when
// ctx is done or the fetcher's timeout elapses, whichever comes first.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", Accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading page: %w", err)
	}

	truncated := int64(len(body)) > f.maxBody
	if truncated {
		body = body[:f.maxBody]
		logger.Warn("page body truncated, tiles past the limit are lost", logger.Fields{
			"url":       url,
			"max_bytes": f.maxBody,
		})
	}

	return &Page{
		URL:       url,
		OK:        resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status:    resp.StatusCode,
		Body:      string(body),
		Truncated: truncated,
	}, nil
}

// FetchStatus summarises the upstream response.
type FetchStatus struct {
	OK     bool `json:"ok"`
	Status int  `json:"status"`
}

// Result holds the records scraped from one provider. Err is set only by ScrapeAll.
type Result struct {
	Provider provider.Config
	Fetched  FetchStatus
	Items    []game.Record
	Err      error
}

// Scraper combines a Fetcher with an extractor.
type Scraper struct {
	fetcher *Fetcher
	extract ExtractFunc
}

// New creates a Scraper. A nil extract selects ExtractGames.
func New(fetcher *Fetcher, extract ExtractFunc) *Scraper {
	if extract == nil {
		extract = ExtractGames
	}
	return &Scraper{
		fetcher: fetcher,
		extract: extract,
	}
}

// ScrapeProvider fetches the provider's page and extracts its game tiles. The
// provider's own URL is the base for resolving relative image paths.
func (s *Scraper) ScrapeProvider(ctx context.Context, p provider.Config) (*Result, error) {
	if !p.Fetchable() {
		return nil, fmt.Errorf("provider %q has no source page", p.Key)
	}

	ctx, span := tracing.StartSpan(ctx, "scraper.ScrapeProvider",
		trace.WithAttributes(attribute.String("provider", p.Key)))
	defer span.End()

	start := time.Now()
	page, err := s.fetcher.Fetch(ctx, p.URL)
	metrics.ObserveFetch(p.Key, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	if !page.OK {
		logger.Warn("upstream returned non-2xx status", logger.Fields{
			"provider": p.Key,
			"status":   page.Status,
		})
	}

	items := s.extract(page.Body, p.URL, p.Key, p.Label)
	metrics.SetItems(p.Key, len(items))
	span.SetAttributes(
		attribute.Int("http.status", page.Status),
		attribute.Int("items", len(items)),
	)

	return &Result{
		Provider: p,
		Fetched:  FetchStatus{OK: page.OK, Status: page.Status},
		Items:    items,
	}, nil
}

// ScrapeAll scrapes every provider concurrently, running at most concurrency
// fetches at once (unbounded when concurrency <= 0). When limiter is non-nil each
// fetch waits for a token first. Failures are recorded per provider in Result.Err
// and never abort the other scrapes. Results are in the order of providers.
func (s *Scraper) ScrapeAll(ctx context.Context, providers []provider.Config, concurrency int, limiter *rate.Limiter) []*Result {
	results := make([]*Result, len(providers))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, p := range providers {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					results[i] = &Result{Provider: p, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
					return nil
				}
			}

			res, err := s.ScrapeProvider(gctx, p)
			if err != nil {
				logger.Debug("provider scrape failed", logger.Fields{"provider": p.Key, "error": err.Error()})
				res = &Result{Provider: p, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	_ = g.Wait()
	return results
}
