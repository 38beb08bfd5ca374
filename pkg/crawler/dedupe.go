package crawler

import (
	"iter"

	"github.com/amosWeiskopf/linksmith/internal/models"
)

// DefaultMaxLinks caps the links verified for one page
const DefaultMaxLinks = 50

// Dedupe collapses urls to a LinkSet in first-seen order using exact string equality.
// Only the first max unique URLs are kept; the rest are counted in Skipped.
// A non-positive max uses DefaultMaxLinks.
func Dedupe(urls iter.Seq[string], max int) models.LinkSet {
	if max <= 0 {
		max = DefaultMaxLinks
	}

	set := models.LinkSet{URLs: []string{}}
	seen := make(map[string]struct{})
	for u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		if len(set.URLs) < max {
			set.URLs = append(set.URLs, u)
		} else {
			set.Skipped++
		}
	}
	return set
}
