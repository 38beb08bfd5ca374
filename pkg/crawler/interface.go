package crawler

import (
	"context"
	"time"

	"github.com/amosWeiskopf/linksmith/internal/config"
)

// PageFetcher retrieves the raw HTML of the page being audited
type PageFetcher interface {
	// FetchPage returns the document body, or an error when the page is unusable
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// StatusFetcher retrieves the HTTP status of a single link
type StatusFetcher interface {
	// FetchStatus returns the status code and text. A transport failure is an error.
	FetchStatus(ctx context.Context, link string) (int, string, error)
}

// Options contains configuration for the crawler
type Options struct {
	MaxLinks          int           // Maximum links verified per page
	MaxConcurrency    int           // Concurrent checks, 0 means one per link
	Timeout           time.Duration // Per-link check timeout
	RequestsPerSecond float64       // Check rate, 0 means unlimited
	ResolveRelative   bool          // Resolve path-relative hrefs
}

// OptionsFromConfig maps the checker section of the configuration onto Options
func OptionsFromConfig(cfg config.CheckerConfig) Options {
	return Options{
		MaxLinks:          cfg.MaxLinks,
		MaxConcurrency:    cfg.MaxConcurrency,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		ResolveRelative:   cfg.ResolveRelative,
	}
}
