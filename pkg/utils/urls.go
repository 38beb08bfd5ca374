package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/amosWeiskopf/linksmith/internal/models"
)

// Normalizer turns raw href values into absolute http(s) URLs.
// The zero value only resolves absolute, protocol-relative and root-relative hrefs.
type Normalizer struct {
	// ResolveRelative enables RFC 3986 resolution of path-relative hrefs such as "img/x.png"
	ResolveRelative bool
}

// NormalizeLink resolves href against base with the default Normalizer
func NormalizeLink(href, base string) (string, bool) {
	return Normalizer{}.Normalize(href, base)
}

// Normalize returns the absolute URL for href, or false when href cannot be a candidate link.
// Absolute http(s) hrefs are returned verbatim, including query and fragment.
func (n Normalizer) Normalize(href, base string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if HasHTTPScheme(href) {
		return href, true
	}

	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil || (baseURL.Scheme != "http" && baseURL.Scheme != "https") || baseURL.Host == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(href, "//"):
		return baseURL.Scheme + ":" + href, true
	case strings.HasPrefix(href, "/"):
		return baseURL.Scheme + "://" + baseURL.Host + href, true
	case strings.HasPrefix(href, "#"):
		return "", false
	}

	if !n.ResolveRelative {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil || ref.Scheme != "" {
		// mailto:, tel:, javascript: and friends
		return "", false
	}
	return baseURL.ResolveReference(ref).String(), true
}

// HasHTTPScheme reports whether s starts with http:// or https://, ignoring case
func HasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// schemePrefix matches a leading RFC 3986 scheme followed by "://"
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// NormalizePageURL validates the page a caller asked to audit,
// prepending https:// when the input carries no scheme.
func NormalizePageURL(raw string) (models.PageTarget, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.PageTarget{}, errors.New("empty URL")
	}
	if !schemePrefix.MatchString(trimmed) {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return models.PageTarget{}, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.PageTarget{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return models.PageTarget{}, errors.New("missing host")
	}

	return models.PageTarget{Raw: raw, URL: u.String()}, nil
}

// SameSite reports whether two URLs share a registrable domain (eTLD+1).
// Hosts without a public suffix, like localhost or IP addresses, must match exactly.
func SameSite(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	ha, hb := strings.ToLower(ua.Hostname()), strings.ToLower(ub.Hostname())
	if ha == "" || hb == "" {
		return false
	}
	if ha == hb {
		return true
	}
	if net.ParseIP(ha) != nil || net.ParseIP(hb) != nil {
		return false
	}

	da, err := publicsuffix.EffectiveTLDPlusOne(ha)
	if err != nil {
		return false
	}
	db, err := publicsuffix.EffectiveTLDPlusOne(hb)
	if err != nil {
		return false
	}
	return da == db
}

// HostOf returns the lower-cased host of rawURL, or "" when it cannot be parsed
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
