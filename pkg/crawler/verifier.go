package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/amosWeiskopf/linksmith/internal/models"
)

// Verifier checks one link with a single request and classifies the outcome
type Verifier struct {
	fetcher StatusFetcher
	timeout time.Duration
	limiter *rate.Limiter
}

// NewVerifier creates a Verifier. A zero timeout leaves deadlines to the fetcher;
// a non-positive requestsPerSecond disables rate limiting.
func NewVerifier(fetcher StatusFetcher, timeout time.Duration, requestsPerSecond float64) *Verifier {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Verifier{
		fetcher: fetcher,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Verify never returns an error: transport failures become status 0 and broken
func (v *Verifier) Verify(ctx context.Context, link string) models.LinkStatus {
	if err := v.limiter.Wait(ctx); err != nil {
		return failedStatus(link)
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	code, text, err := v.fetcher.FetchStatus(ctx, link)
	if err != nil || code <= 0 {
		return failedStatus(link)
	}

	return models.LinkStatus{
		URL:        link,
		Status:     code,
		StatusText: text,
		Broken:     code >= 400,
	}
}

func failedStatus(link string) models.LinkStatus {
	return models.LinkStatus{
		URL:        link,
		Status:     0,
		StatusText: models.FailedStatusText,
		Broken:     true,
	}
}
