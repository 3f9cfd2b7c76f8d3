// Package sitecontext builds a voice agent's knowledge of a business from
// its public website: it discovers relevant pages through the sitemap,
// extracts structured business facts from each one and folds them into a
// single deduplicated context document.
//
// Everything is best effort. Pages that fail to fetch or parse degrade to
// missing facts; only a site where nothing at all could be fetched surfaces
// an error.
package sitecontext

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tjelz/sitecontext/crawl"
	"github.com/tjelz/sitecontext/pkg/urlutil"
	"github.com/tjelz/sitecontext/scrape"
)

// ErrNoContent is returned when no page of the site, the origin included,
// could be fetched. Every lesser failure yields partial data instead.
var ErrNoContent = errors.New("sitecontext: no pages could be fetched")

// defaultConcurrency bounds the page-fetch fan-out. Three parallel requests
// keep the crawl polite while cutting wall-clock time; results are folded in
// candidate order, so merge semantics do not depend on completion order.
const defaultConcurrency = 3

// StructuredWebsiteData is re-exported for callers of the structured path.
type StructuredWebsiteData = scrape.StructuredWebsiteData

// Options configures a Service. The zero value is usable.
type Options struct {
	// Logger receives debug/diagnostic output; nil disables logging.
	Logger *zap.Logger
	// HTTPClient overrides the client used for all outbound requests.
	HTTPClient *http.Client
	// UserAgent overrides crawl.DefaultUserAgent.
	UserAgent string
	// FetchTimeout is the per-request budget; the caller's context bounds
	// the whole invocation. Defaults to crawl.DefaultFetchTimeout.
	FetchTimeout time.Duration
	// Concurrency is the page-fetch fan-out width, default 3.
	Concurrency int
	// Vocabulary overrides the Polish+English keyword sets.
	Vocabulary *scrape.Vocabulary
	// Speech overrides the Polish spoken-token table used by the
	// receptionist knowledge formatter.
	Speech *scrape.SpeechLocale
}

// Service is the public entry point of the pipeline. It is stateless across
// invocations and safe for concurrent use.
type Service struct {
	crawler     *crawl.Crawler
	fetcher     *crawl.Fetcher
	vocab       scrape.Vocabulary
	speech      scrape.SpeechLocale
	logger      *zap.Logger
	concurrency int
}

// New builds a Service from Options.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fetcher := crawl.NewFetcher(
		crawl.WithHTTPClient(opts.HTTPClient),
		crawl.WithUserAgent(opts.UserAgent),
		crawl.WithTimeout(opts.FetchTimeout),
		crawl.WithLogger(logger),
	)

	vocab := scrape.DefaultVocabulary()
	if opts.Vocabulary != nil {
		vocab = *opts.Vocabulary
	}
	speech := scrape.PolishSpeech()
	if opts.Speech != nil {
		speech = *opts.Speech
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Service{
		crawler:     crawl.NewCrawler(fetcher, logger),
		fetcher:     fetcher,
		vocab:       vocab,
		speech:      speech,
		logger:      logger,
		concurrency: concurrency,
	}
}

// BuildWebsiteContext crawls the site and renders the aggregated knowledge
// as a Markdown document. It returns ErrNoContent when not a single page
// could be fetched.
func (s *Service) BuildWebsiteContext(ctx context.Context, siteURL string) (string, error) {
	agg, err := s.scrapeSite(ctx, siteURL)
	if err != nil {
		return "", err
	}
	return scrape.RenderMarkdown(agg), nil
}

// GetStructuredWebsiteData crawls the site and returns the typed aggregate
// record. Same failure contract as BuildWebsiteContext.
func (s *Service) GetStructuredWebsiteData(ctx context.Context, siteURL string) (*StructuredWebsiteData, error) {
	agg, err := s.scrapeSite(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	return scrape.StructuredFromAggregate(agg), nil
}

// Aggregate runs the crawl once and returns the merged context, for callers
// that need both the Markdown and the structured rendering of one build.
func (s *Service) Aggregate(ctx context.Context, siteURL string) (*scrape.AggregatedContext, error) {
	return s.scrapeSite(ctx, siteURL)
}

// BuildReceptionistKnowledgeContext formats already-extracted fields into
// the TTS-friendly knowledge document for the agent prompt. Pure, no I/O.
func (s *Service) BuildReceptionistKnowledgeContext(data *StructuredWebsiteData) string {
	return scrape.BuildReceptionistKnowledgeContext(data, s.speech)
}

func (s *Service) scrapeSite(ctx context.Context, siteURL string) (*scrape.AggregatedContext, error) {
	origin, err := urlutil.ParseOrigin(siteURL)
	if err != nil {
		return nil, err
	}

	pages := s.crawler.DiscoverPages(ctx, origin)
	sections := s.scrapePages(ctx, pages)
	if len(sections) == 0 {
		s.logger.Warn("no pages fetched", zap.String("origin", origin.String()))
		return nil, ErrNoContent
	}

	s.logger.Info("website context built",
		zap.String("origin", origin.String()),
		zap.Int("pages_selected", len(pages)),
		zap.Int("pages_scraped", len(sections)))
	return scrape.MergeSections(sections), nil
}

// scrapePages fetches and extracts the selected pages with a bounded
// fan-out. Results land in a slice indexed by candidate position, restoring
// fetch order before the fold so first-wins merging stays deterministic.
func (s *Service) scrapePages(ctx context.Context, pages []string) []*scrape.ScrapedSection {
	results := make([]*scrape.ScrapedSection, len(pages))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, page := range pages {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, page string) {
			defer wg.Done()
			defer func() { <-sem }()

			html, err := s.fetcher.Fetch(ctx, page)
			if err != nil {
				s.logger.Debug("page dropped", zap.String("url", page), zap.Error(err))
				return
			}
			results[i] = scrape.ExtractSection(html, pagePath(page), s.vocab)
		}(i, page)
	}
	wg.Wait()

	sections := make([]*scrape.ScrapedSection, 0, len(results))
	for _, sec := range results {
		if sec != nil {
			sections = append(sections, sec)
		}
	}
	return sections
}

// pagePath returns the page's path relative to the origin for provenance
// annotations.
func pagePath(page string) string {
	u, err := url.Parse(page)
	if err != nil {
		return ""
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
