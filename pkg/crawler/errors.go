package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when the page URL cannot be audited
	ErrInvalidURL = errors.New("invalid page URL")

	// ErrPageFetch is returned when the page itself could not be retrieved
	ErrPageFetch = errors.New("failed to fetch page")
)

// PageStatusError reports a page that answered with a non-2xx status
type PageStatusError struct {
	Code   int
	Status string
}

func (e *PageStatusError) Error() string {
	return fmt.Sprintf("unexpected page status: %s", e.Status)
}
