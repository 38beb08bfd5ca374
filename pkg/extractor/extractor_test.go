package extractor

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amosWeiskopf/linksmith/internal/models"
)

func TestLinks(t *testing.T) {
	doc := `<a href="/about">About</a><a href="/about">Dup</a><a href="mailto:a@b.com">Mail</a><a href="https://ext.com/x">Ext</a>`

	got := slices.Collect(Links(doc))

	assert.Equal(t, []models.RawLink{
		{Href: "/about", Text: "About"},
		{Href: "/about", Text: "Dup"},
		{Href: "mailto:a@b.com", Text: "Mail"},
		{Href: "https://ext.com/x", Text: "Ext"},
	}, got)
}

func TestLinksQuotingAndCase(t *testing.T) {
	doc := `
		<A HREF='/single'>Single</A>
		<a Href="/double">Double</a>
		<a href=/bare>Bare</a>
		<a class="btn" data-x="1" href="/late">Late attribute</a>
		<a name="anchor-only">No href</a>
	`

	assert.Equal(t, []string{"/single", "/double", "/bare", "/late"}, slices.Collect(Hrefs(doc)))
}

func TestLinksAnchorText(t *testing.T) {
	doc := `
		<a href="/nested"><span>Read</span>
			<strong>more</strong></a>
		<a href="/img"><img src="/logo.png" alt="Company logo"></a>
		<a href="/entities">Fish &amp; Chips</a>
	`

	got := slices.Collect(Links(doc))
	require.Len(t, got, 3)
	assert.Equal(t, "Read more", got[0].Text)
	assert.Equal(t, "Company logo", got[1].Text)
	assert.Equal(t, "Fish & Chips", got[2].Text)
}

func TestLinksMalformed(t *testing.T) {
	doc := `<div><a href="/one">One<a href="/two">Two</div><p><a href="/three">unterminated`

	got := slices.Collect(Links(doc))
	require.Len(t, got, 3)
	assert.Equal(t, "/one", got[0].Href)
	assert.Equal(t, "One", got[0].Text)
	assert.Equal(t, "/two", got[1].Href)
	assert.Equal(t, "/three", got[2].Href)
	assert.Equal(t, "unterminated", got[2].Text)
}

func TestLinksRestartable(t *testing.T) {
	doc := `<a href="/a">A</a><a href="/b">B</a>`
	seq := Links(doc)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestLinksEarlyStop(t *testing.T) {
	doc := `<a href="/a">A</a><a href="/b">B</a><a href="/c">C</a>`

	var seen []string
	for href := range Hrefs(doc) {
		seen = append(seen, href)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"/a", "/b"}, seen)
}

func TestLinksEmptyDocument(t *testing.T) {
	assert.Empty(t, slices.Collect(Links("")))
	assert.Empty(t, slices.Collect(Links("plain text, no markup")))
}

func TestPageTitle(t *testing.T) {
	doc := `<html><head><title>  Pricing
		Plans </title></head><body><p>hello</p></body></html>`

	assert.Equal(t, "Pricing Plans", PageTitle(doc))
	assert.Equal(t, "", fallbackTitle(`<html><body>untitled</body></html>`))
}
