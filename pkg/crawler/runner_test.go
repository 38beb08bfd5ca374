package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/linksmith/internal/logging"
	"github.com/amosWeiskopf/linksmith/internal/models"
)

func TestRunnerOrderAndIsolation(t *testing.T) {
	statuses := &stubStatuses{
		codes:  map[string]int{"https://c.com": 404},
		errs:   map[string]error{"https://b.com": errors.New("connection refused")},
		panics: map[string]bool{"https://d.com": true},
	}
	r := NewRunner(NewVerifier(statuses, time.Second, 0), 0, logging.Discard())
	set := models.LinkSet{URLs: []string{"https://a.com", "https://b.com", "https://c.com", "https://d.com", "https://e.com"}}

	got := r.Run(context.Background(), set)

	require.Len(t, got, 5)
	for i, u := range set.URLs {
		assert.Equal(t, u, got[i].URL)
	}
	assert.Equal(t, 200, got[0].Status)
	assert.Equal(t, 0, got[1].Status)
	assert.Equal(t, 404, got[2].Status)
	assert.Equal(t, 0, got[3].Status, "a panicking check is recorded as failed")
	assert.Equal(t, models.FailedStatusText, got[3].StatusText)
	assert.Equal(t, 200, got[4].Status, "siblings of a failure still complete")
}

func TestRunnerConcurrency(t *testing.T) {
	var urls []string
	for i := 0; i < 20; i++ {
		urls = append(urls, fmt.Sprintf("https://site.com/%d", i))
	}
	set := models.LinkSet{URLs: urls}

	t.Run("unbounded runs all at once", func(t *testing.T) {
		f := &countingFetcher{delay: 50 * time.Millisecond}
		r := NewRunner(NewVerifier(f, time.Second, 0), 0, logging.Discard())

		start := time.Now()
		got := r.Run(context.Background(), set)
		assert.Len(t, got, 20)
		assert.Equal(t, int32(20), f.calls.Load())
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("limit respected", func(t *testing.T) {
		f := &countingFetcher{delay: 10 * time.Millisecond}
		r := NewRunner(NewVerifier(f, time.Second, 0), 3, logging.Discard())

		got := r.Run(context.Background(), set)
		assert.Len(t, got, 20)
		assert.LessOrEqual(t, f.peak.Load(), int32(3))
	})
}

func TestRunnerEmpty(t *testing.T) {
	r := NewRunner(NewVerifier(&stubStatuses{}, time.Second, 0), 0, logging.Discard())
	assert.Empty(t, r.Run(context.Background(), models.LinkSet{}))
}
