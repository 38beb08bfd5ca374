package crawler

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/amosWeiskopf/linksmith/internal/models"
)

// Runner verifies a LinkSet concurrently and joins on completion
type Runner struct {
	verifier       *Verifier
	maxConcurrency int
	logger         logrus.FieldLogger
}

// NewRunner creates a Runner. maxConcurrency <= 0 runs one check per link at once.
func NewRunner(verifier *Verifier, maxConcurrency int, logger logrus.FieldLogger) *Runner {
	return &Runner{
		verifier:       verifier,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}
}

// Run returns one LinkStatus per URL, in LinkSet order.
// A check that fails, or panics, only affects its own entry.
func (r *Runner) Run(ctx context.Context, set models.LinkSet) []models.LinkStatus {
	results := make([]models.LinkStatus, set.Len())
	if set.Len() == 0 {
		return results
	}

	limit := r.maxConcurrency
	if limit <= 0 || limit > set.Len() {
		limit = set.Len()
	}

	// plain Group: checks share no derived context
	var g errgroup.Group
	g.SetLimit(limit)

	for i, link := range set.URLs {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					r.logger.WithField("url", link).Errorf("link check panicked: %v", p)
					results[i] = failedStatus(link)
				}
			}()
			results[i] = r.verifier.Verify(ctx, link)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
