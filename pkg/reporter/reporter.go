package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/amosWeiskopf/linksmith/internal/models"
	"github.com/amosWeiskopf/linksmith/pkg/utils"
)

// Supported output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Document is the serialized form of one crawl
type Document struct {
	Report    *models.CrawlReport   `json:"report"`
	Breakdown *models.LinkBreakdown `json:"breakdown,omitempty"`
}

// Reporter handles report generation in various formats
type Reporter struct {
	colorize bool
	urlWidth int
}

// New creates a new Reporter instance
func New() *Reporter {
	return &Reporter{
		colorize: !color.NoColor,
		urlWidth: 80,
	}
}

// WithColor forces colored text output on or off
func (r *Reporter) WithColor(enabled bool) *Reporter {
	r.colorize = enabled
	return r
}

// Render writes the report in the requested format
func (r *Reporter) Render(w io.Writer, doc Document, format string) error {
	if doc.Report == nil {
		return fmt.Errorf("nothing to render")
	}

	switch format {
	case FormatText, "":
		return r.renderText(w, doc)
	case FormatJSON:
		return r.renderJSON(w, doc)
	case FormatMarkdown:
		return r.renderMarkdown(w, doc)
	case FormatHTML:
		return r.renderHTML(w, doc)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// RenderString is Render into a string
func (r *Reporter) RenderString(doc Document, format string) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Reporter) renderJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (r *Reporter) renderText(w io.Writer, doc Document) error {
	report := doc.Report

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	header := color.New(color.FgCyan, color.Underline)
	if !r.colorize {
		ok.DisableColor()
		bad.DisableColor()
		header.DisableColor()
	}

	fmt.Fprintf(w, "Checked %s\n", report.Page.URL)
	if report.PageTitle != "" {
		fmt.Fprintf(w, "Title: %s\n", report.PageTitle)
	}
	fmt.Fprintln(w)

	tbl := table.New("", "Status", "URL").WithWriter(w)
	tbl.WithHeaderFormatter(header.SprintfFunc())
	for _, link := range report.Links {
		mark := ok.Sprint("✓")
		if link.Broken {
			mark = bad.Sprint("✗")
		}
		tbl.AddRow(mark, statusLabel(link), utils.TruncateText(link.URL, r.urlWidth))
	}
	tbl.Print()

	fmt.Fprintf(w, "\nSummary: %d checked, %d working, %d broken\n", report.Total, report.Working, report.Broken)
	if report.SkippedByCap > 0 || report.SkippedUnsupported > 0 {
		fmt.Fprintf(w, "Skipped: %d over the link cap, %d unsupported hrefs\n", report.SkippedByCap, report.SkippedUnsupported)
	}
	if report.Duration > 0 {
		fmt.Fprintf(w, "Took %s\n", report.Duration.Round(time.Millisecond))
	}
	return nil
}

func (r *Reporter) renderMarkdown(w io.Writer, doc Document) error {
	report := doc.Report
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Link Report for %s\n\n", report.Page.URL)
	if report.PageTitle != "" {
		fmt.Fprintf(&buf, "*%s*\n\n", report.PageTitle)
	}
	if !report.CheckedAt.IsZero() {
		fmt.Fprintf(&buf, "Checked on %s\n\n", report.CheckedAt.Format("January 2, 2006 15:04 MST"))
	}

	fmt.Fprintf(&buf, "## Summary\n\n")
	fmt.Fprintf(&buf, "| Metric | Count |\n")
	fmt.Fprintf(&buf, "|--------|-------|\n")
	fmt.Fprintf(&buf, "| Total | %d |\n", report.Total)
	fmt.Fprintf(&buf, "| Working | %d |\n", report.Working)
	fmt.Fprintf(&buf, "| Broken | %d |\n", report.Broken)
	fmt.Fprintf(&buf, "| Skipped (cap) | %d |\n", report.SkippedByCap)
	fmt.Fprintf(&buf, "| Skipped (unsupported) | %d |\n\n", report.SkippedUnsupported)

	if len(report.BrokenLinks) > 0 {
		fmt.Fprintf(&buf, "## Broken Links\n\n")
		for _, link := range report.BrokenLinks {
			fmt.Fprintf(&buf, "- `%s` %s\n", statusLabel(link), link.URL)
		}
		fmt.Fprintf(&buf, "\n")
	}

	if len(report.WorkingLinks) > 0 {
		fmt.Fprintf(&buf, "## Working Links\n\n")
		for _, link := range report.WorkingLinks {
			fmt.Fprintf(&buf, "- `%s` %s\n", statusLabel(link), link.URL)
		}
		fmt.Fprintf(&buf, "\n")
	}

	if b := doc.Breakdown; b != nil && len(b.ByHost) > 0 {
		fmt.Fprintf(&buf, "## Broken Links by Host\n\n")
		fmt.Fprintf(&buf, "| Host | Broken |\n")
		fmt.Fprintf(&buf, "|------|--------|\n")
		for _, hc := range b.ByHost {
			fmt.Fprintf(&buf, "| %s | %d |\n", hc.Host, hc.Count)
		}
		fmt.Fprintf(&buf, "\n")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"status": statusLabel,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Link Report - {{.Report.Page.URL}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; color: #333; max-width: 1100px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 2rem; border-radius: 10px; margin-bottom: 2rem; }
        .card { background: white; border-radius: 10px; padding: 1.5rem; margin-bottom: 1.5rem; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 1rem; }
        .metric { text-align: center; padding: 1rem; background: #f8f9fa; border-radius: 8px; }
        .value { font-size: 2rem; font-weight: bold; color: #667eea; }
        .link { padding: 0.5rem 0.75rem; margin: 0.25rem 0; border-left: 4px solid #28a745; word-break: break-all; }
        .link.broken { border-left-color: #dc3545; }
        .code { font-family: monospace; margin-right: 0.5rem; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Link Report</h1>
        <p>{{.Report.Page.URL}}{{if .Report.PageTitle}} &middot; {{.Report.PageTitle}}{{end}}</p>
    </div>

    <div class="card">
        <div class="grid">
            <div class="metric"><div class="value">{{.Report.Total}}</div>Checked</div>
            <div class="metric"><div class="value">{{.Report.Working}}</div>Working</div>
            <div class="metric"><div class="value">{{.Report.Broken}}</div>Broken</div>
        </div>
    </div>

    {{if .Report.BrokenLinks}}
    <div class="card">
        <h2>Broken Links</h2>
        {{range .Report.BrokenLinks}}
        <div class="link broken"><span class="code">{{status .}}</span>{{.URL}}</div>
        {{end}}
    </div>
    {{end}}

    {{if .Report.WorkingLinks}}
    <div class="card">
        <h2>Working Links</h2>
        {{range .Report.WorkingLinks}}
        <div class="link"><span class="code">{{status .}}</span>{{.URL}}</div>
        {{end}}
    </div>
    {{end}}
</body>
</html>
`))

func (r *Reporter) renderHTML(w io.Writer, doc Document) error {
	if err := htmlReport.Execute(w, doc); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// statusLabel renders "404 Not Found" or "Failed to check" for transport failures
func statusLabel(link models.LinkStatus) string {
	if link.Failed() {
		return link.StatusText
	}
	if link.StatusText == "" {
		return strconv.Itoa(link.Status)
	}
	return strconv.Itoa(link.Status) + " " + link.StatusText
}
