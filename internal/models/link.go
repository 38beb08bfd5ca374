package models

import "time"

// FailedStatusText is recorded for links whose check never produced an HTTP response
const FailedStatusText = "Failed to check"

// PageTarget is the page submitted for auditing
type PageTarget struct {
	Raw string `json:"raw"`
	URL string `json:"url"`
}

// RawLink represents an anchor as it appears in the source document
type RawLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// LinkSet is the deduplicated, capped list of candidate URLs for one crawl
type LinkSet struct {
	URLs    []string `json:"urls"`
	Skipped int      `json:"skipped"` // unique candidates dropped by the cap
}

// Len returns the number of URLs that will be verified
func (s LinkSet) Len() int {
	return len(s.URLs)
}

// LinkStatus is the outcome of verifying one candidate URL
type LinkStatus struct {
	URL        string `json:"url"`
	Status     int    `json:"status"`
	StatusText string `json:"status_text"`
	Broken     bool   `json:"broken"`
	Internal   bool   `json:"internal"`
}

// Failed reports whether the check never reached the remote server
func (s LinkStatus) Failed() bool {
	return s.Status == 0
}

// CrawlReport contains the results of checking every link on one page
type CrawlReport struct {
	ID                 string        `json:"id"`
	Page               PageTarget    `json:"page"`
	PageTitle          string        `json:"page_title,omitempty"`
	Total              int           `json:"total"`
	Working            int           `json:"working"`
	Broken             int           `json:"broken"`
	Links              []LinkStatus  `json:"links"`
	BrokenLinks        []LinkStatus  `json:"broken_links"`
	WorkingLinks       []LinkStatus  `json:"working_links"`
	SkippedByCap       int           `json:"skipped_by_cap"`
	SkippedUnsupported int           `json:"skipped_unsupported"`
	CheckedAt          time.Time     `json:"checked_at"`
	Duration           time.Duration `json:"duration_ns"`
}

// HostCount pairs a host with the number of broken links pointing at it
type HostCount struct {
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// LinkBreakdown summarizes a report by status class and host
type LinkBreakdown struct {
	ByClass  map[string]int `json:"by_class"`
	ByHost   []HostCount    `json:"broken_by_host"`
	Internal int            `json:"internal"`
	External int            `json:"external"`
}
