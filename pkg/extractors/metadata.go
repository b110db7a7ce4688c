package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata is the page-level metadata found in <head>.
type Metadata struct {
	Title           string
	MetaDescription string
	Canonical       string
	HasHreflang     bool
}

// ExtractMetadata reads title, meta description, canonical and hreflang.
// Missing tags give empty values.
func ExtractMetadata(doc *goquery.Document) Metadata {
	var md Metadata

	if title := doc.Find("title").First(); title.Length() > 0 {
		md.Title = strings.TrimSpace(title.Text())
	}

	// Attribute value match is case-sensitive: name="Description" is ignored.
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		md.MetaDescription = desc
	}

	if href, ok := doc.Find(`link[rel~="canonical"]`).First().Attr("href"); ok {
		md.Canonical = href
	}

	md.HasHreflang = doc.Find(`link[rel~="alternate"][hreflang]`).Length() > 0

	return md
}
