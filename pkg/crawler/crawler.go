package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amosWeiskopf/linksmith/internal/config"
	"github.com/amosWeiskopf/linksmith/internal/logging"
	"github.com/amosWeiskopf/linksmith/internal/models"
	"github.com/amosWeiskopf/linksmith/pkg/extractor"
	"github.com/amosWeiskopf/linksmith/pkg/reporter"
	"github.com/amosWeiskopf/linksmith/pkg/utils"
)

// Crawler audits the links of a single page.
// It holds no per-crawl state and is safe for concurrent use.
type Crawler struct {
	opts       Options
	pages      PageFetcher
	runner     *Runner
	normalizer utils.Normalizer
	logger     logrus.FieldLogger
}

// New creates a Crawler from its collaborators. A nil logger discards output.
func New(opts Options, pages PageFetcher, statuses StatusFetcher, logger logrus.FieldLogger) (*Crawler, error) {
	if pages == nil || statuses == nil {
		return nil, errors.New("page and status fetchers are required")
	}
	if opts.MaxConcurrency < 0 {
		return nil, fmt.Errorf("max concurrency must not be negative: %d", opts.MaxConcurrency)
	}
	if opts.MaxLinks <= 0 {
		opts.MaxLinks = DefaultMaxLinks
	}
	if logger == nil {
		logger = logging.Discard()
	}

	verifier := NewVerifier(statuses, opts.Timeout, opts.RequestsPerSecond)
	return &Crawler{
		opts:       opts,
		pages:      pages,
		runner:     NewRunner(verifier, opts.MaxConcurrency, logger),
		normalizer: utils.Normalizer{ResolveRelative: opts.ResolveRelative},
		logger:     logger,
	}, nil
}

// NewFromConfig wires a Crawler backed by HTTPFetcher
func NewFromConfig(cfg *config.Config, logger logrus.FieldLogger) (*Crawler, error) {
	fetcher := NewHTTPFetcher(cfg.Checker)
	return New(OptionsFromConfig(cfg.Checker), fetcher, fetcher, logger)
}

// Crawl fetches rawURL, checks every link on it and returns the report.
// Only an unusable page URL or a failed page fetch produce an error;
// per-link failures are recorded in the report.
func (c *Crawler) Crawl(ctx context.Context, rawURL string) (*models.CrawlReport, error) {
	start := time.Now()

	target, err := utils.NormalizePageURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	id := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{"crawl_id": id, "url": target.URL})
	log.Info("Fetching page")

	body, err := c.pages.FetchPage(ctx, target.URL)
	if err != nil {
		log.WithError(err).Warn("Page fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrPageFetch, err)
	}

	set, rejected := c.Discover(body, target.URL)
	log.WithFields(logrus.Fields{
		"candidates":  set.Len(),
		"skipped_cap": set.Skipped,
		"unsupported": rejected,
	}).Debug("Links discovered")

	statuses := c.runner.Run(ctx, set)
	for i := range statuses {
		statuses[i].Internal = utils.SameSite(statuses[i].URL, target.URL)
	}

	report := reporter.Assemble(statuses)
	report.ID = id
	report.Page = target
	report.PageTitle = extractor.PageTitle(body)
	report.SkippedByCap = set.Skipped
	report.SkippedUnsupported = rejected
	report.CheckedAt = start.UTC()
	report.Duration = time.Since(start)

	log.WithFields(logrus.Fields{
		"total":    report.Total,
		"broken":   report.Broken,
		"duration": report.Duration.String(),
	}).Info("Crawl finished")

	return report, nil
}

// Discover extracts, normalizes and deduplicates the links of doc.
// It also returns how many hrefs were rejected by normalization.
func (c *Crawler) Discover(doc, base string) (models.LinkSet, int) {
	rejected := 0
	candidates := func(yield func(string) bool) {
		for href := range extractor.Hrefs(doc) {
			abs, ok := c.normalizer.Normalize(href, base)
			if !ok {
				rejected++
				continue
			}
			if !yield(abs) {
				return
			}
		}
	}

	set := Dedupe(candidates, c.opts.MaxLinks)
	return set, rejected
}
