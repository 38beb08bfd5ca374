package crawler

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amosWeiskopf/linksmith/internal/config"
)

const (
	maxPageBytes  = 4 << 20 // 4 MiB
	maxDrainBytes = 64 << 10
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0",
}

func getRandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// HTTPFetcher implements PageFetcher and StatusFetcher over net/http.
// Redirects are followed by the client, so checks report the final status.
// It keeps no cookies: every request is independent of the ones before it.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	method      string
	pageTimeout time.Duration
}

// NewHTTPFetcher builds a fetcher from the checker configuration.
// An empty user agent rotates through common browser strings.
func NewHTTPFetcher(cfg config.CheckerConfig) *HTTPFetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	method := strings.ToUpper(cfg.Method)
	if method == "" {
		method = http.MethodGet
	}

	return &HTTPFetcher{
		client:      &http.Client{Transport: transport},
		userAgent:   cfg.UserAgent,
		method:      method,
		pageTimeout: cfg.PageTimeout,
	}
}

// FetchPage downloads the page body. Non-2xx answers are reported as *PageStatusError.
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if f.pageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.pageTimeout)
		defer cancel()
	}

	req, err := f.newRequest(ctx, http.MethodGet, pageURL)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &PageStatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed reading response body: %w", err)
	}
	return string(body), nil
}

// FetchStatus performs one request against link and reports its status
func (f *HTTPFetcher) FetchStatus(ctx context.Context, link string) (int, string, error) {
	req, err := f.newRequest(ctx, f.method, link)
	if err != nil {
		return 0, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	// drain a little so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return resp.StatusCode, statusText(resp), nil
}

func (f *HTTPFetcher) newRequest(ctx context.Context, method, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	ua := f.userAgent
	if ua == "" {
		ua = getRandomUserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	return req, nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found")
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
