package analyzer

import (
	"sort"

	"github.com/amosWeiskopf/linksmith/internal/models"
	"github.com/amosWeiskopf/linksmith/pkg/utils"
)

// Status classes used in a breakdown
const (
	ClassSuccess     = "2xx"
	ClassRedirect    = "3xx"
	ClassClientError = "4xx"
	ClassServerError = "5xx"
	ClassFailed      = "failed"
	ClassOther       = "other"
)

// Analyzer summarizes crawl reports
type Analyzer struct {
	config *Config
}

// Config holds analyzer configuration
type Config struct {
	// TopHosts limits the broken-by-host list, 0 keeps every host
	TopHosts int
}

// New creates a new Analyzer instance
func New() *Analyzer {
	return &Analyzer{config: &Config{}}
}

// NewWithConfig creates an Analyzer with custom configuration
func NewWithConfig(config *Config) *Analyzer {
	if config == nil {
		config = &Config{}
	}
	return &Analyzer{config: config}
}

// Analyze breaks a report down by status class, host and locality
func (a *Analyzer) Analyze(report *models.CrawlReport) *models.LinkBreakdown {
	breakdown := &models.LinkBreakdown{
		ByClass: make(map[string]int),
		ByHost:  []models.HostCount{},
	}
	if report == nil {
		return breakdown
	}

	brokenByHost := make(map[string]int)
	for _, link := range report.Links {
		breakdown.ByClass[Classify(link)]++
		if link.Internal {
			breakdown.Internal++
		} else {
			breakdown.External++
		}
		if link.Broken {
			host := utils.HostOf(link.URL)
			if host == "" {
				host = "unknown"
			}
			brokenByHost[host]++
		}
	}

	for host, count := range brokenByHost {
		breakdown.ByHost = append(breakdown.ByHost, models.HostCount{Host: host, Count: count})
	}
	sort.Slice(breakdown.ByHost, func(i, j int) bool {
		if breakdown.ByHost[i].Count == breakdown.ByHost[j].Count {
			return breakdown.ByHost[i].Host < breakdown.ByHost[j].Host
		}
		return breakdown.ByHost[i].Count > breakdown.ByHost[j].Count
	})
	if a.config.TopHosts > 0 && len(breakdown.ByHost) > a.config.TopHosts {
		breakdown.ByHost = breakdown.ByHost[:a.config.TopHosts]
	}

	return breakdown
}

// Classify maps a link status onto its status class
func Classify(link models.LinkStatus) string {
	switch {
	case link.Failed():
		return ClassFailed
	case link.Status >= 200 && link.Status < 300:
		return ClassSuccess
	case link.Status >= 300 && link.Status < 400:
		return ClassRedirect
	case link.Status >= 400 && link.Status < 500:
		return ClassClientError
	case link.Status >= 500 && link.Status < 600:
		return ClassServerError
	default:
		return ClassOther
	}
}
