package extractor

import (
	"iter"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/amosWeiskopf/linksmith/internal/models"
	"github.com/amosWeiskopf/linksmith/pkg/utils"
)

// Links returns the anchors of an HTML document in document order.
//
// The sequence is lazy and can be ranged over any number of times; each pass
// tokenizes the document again. Malformed markup never stops the scan, anchors
// the tokenizer cannot recognise are skipped. Duplicate hrefs are yielded every
// time they appear.
func Links(doc string) iter.Seq[models.RawLink] {
	return func(yield func(models.RawLink) bool) {
		z := html.NewTokenizer(strings.NewReader(doc))

		var (
			open    bool
			current models.RawLink
			text    strings.Builder
			imgAlt  string
		)
		emit := func() bool {
			current.Text = utils.CleanText(text.String())
			if current.Text == "" {
				current.Text = utils.CleanText(imgAlt)
			}
			open = false
			text.Reset()
			imgAlt = ""
			return yield(current)
		}

		for {
			tt := z.Next()
			switch tt {
			case html.ErrorToken:
				// io.EOF or a tokenizer failure; either way the document is done
				if open {
					emit()
				}
				return

			case html.StartTagToken, html.SelfClosingTagToken:
				name, hasAttr := z.TagName()
				switch string(name) {
				case "a":
					if open && !emit() {
						return
					}
					href, ok := attr(z, hasAttr, "href")
					if !ok {
						continue
					}
					current = models.RawLink{Href: href}
					open = true
					if tt == html.SelfClosingTagToken && !emit() {
						return
					}
				case "img":
					if open && imgAlt == "" {
						imgAlt, _ = attr(z, hasAttr, "alt")
					}
				}

			case html.TextToken:
				if open {
					text.Write(z.Text())
				}

			case html.EndTagToken:
				name, _ := z.TagName()
				if string(name) == "a" && open && !emit() {
					return
				}
			}
		}
	}
}

// Hrefs is a convenience projection of Links onto the raw href values
func Hrefs(doc string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for link := range Links(doc) {
			if !yield(link.Href) {
				return
			}
		}
	}
}

// PageTitle returns the document title, preferring trafilatura's metadata
// and falling back to the first <title> element.
func PageTitle(doc string) string {
	result, err := trafilatura.Extract(strings.NewReader(doc), trafilatura.Options{})
	if err == nil && result != nil && result.Metadata.Title != "" {
		return utils.CleanText(result.Metadata.Title)
	}
	return fallbackTitle(doc)
}

func fallbackTitle(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.TextToken:
			if inTitle {
				return utils.CleanText(string(z.Text()))
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}

// attr scans the remaining attributes of the current tag for key.
// The tokenizer lower-cases attribute names, so matching is case-insensitive.
func attr(z *html.Tokenizer, hasAttr bool, key string) (string, bool) {
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = z.TagAttr()
		if string(k) == key {
			return string(v), true
		}
	}
	return "", false
}
