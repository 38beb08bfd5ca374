package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amosWeiskopf/linksmith/internal/models"
	"github.com/amosWeiskopf/linksmith/pkg/reporter"
)

func TestAnalyze(t *testing.T) {
	report := reporter.Assemble([]models.LinkStatus{
		{URL: "https://site.com/", Status: 200, StatusText: "OK", Internal: true},
		{URL: "https://site.com/old", Status: 301, StatusText: "Moved Permanently", Internal: true},
		{URL: "https://site.com/gone", Status: 404, StatusText: "Not Found", Broken: true, Internal: true},
		{URL: "https://site.com/err", Status: 503, StatusText: "Service Unavailable", Broken: true, Internal: true},
		{URL: "https://cdn.example/x", Status: 410, StatusText: "Gone", Broken: true},
		{URL: "https://down.example", StatusText: models.FailedStatusText, Broken: true},
	})

	b := New().Analyze(report)

	assert.Equal(t, map[string]int{
		ClassSuccess:     1,
		ClassRedirect:    1,
		ClassClientError: 2,
		ClassServerError: 1,
		ClassFailed:      1,
	}, b.ByClass)
	assert.Equal(t, 4, b.Internal)
	assert.Equal(t, 2, b.External)
	assert.Equal(t, []models.HostCount{
		{Host: "site.com", Count: 2},
		{Host: "cdn.example", Count: 1},
		{Host: "down.example", Count: 1},
	}, b.ByHost)
}

func TestAnalyzeTopHosts(t *testing.T) {
	report := reporter.Assemble([]models.LinkStatus{
		{URL: "https://a.example", Status: 404, Broken: true},
		{URL: "https://b.example", Status: 404, Broken: true},
		{URL: "https://b.example/2", Status: 500, Broken: true},
	})

	b := NewWithConfig(&Config{TopHosts: 1}).Analyze(report)
	assert.Equal(t, []models.HostCount{{Host: "b.example", Count: 2}}, b.ByHost)
}

func TestNewWithNilConfig(t *testing.T) {
	report := reporter.Assemble([]models.LinkStatus{
		{URL: "https://a.example/1", Status: 404, Broken: true},
		{URL: "https://b.example/1", Status: 500, Broken: true},
	})

	b := NewWithConfig(nil).Analyze(report)
	assert.Len(t, b.ByHost, 2)
}

func TestAnalyzeNil(t *testing.T) {
	b := New().Analyze(nil)
	assert.Empty(t, b.ByClass)
	assert.Empty(t, b.ByHost)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{0, ClassFailed},
		{204, ClassSuccess},
		{302, ClassRedirect},
		{429, ClassClientError},
		{599, ClassServerError},
		{103, ClassOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(models.LinkStatus{Status: tt.status}), "status %d", tt.status)
	}
}
