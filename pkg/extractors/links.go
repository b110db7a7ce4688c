package extractors

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-product-parser/models"
)

var skippedHrefPrefixes = []string{"#", "javascript:", "mailto:", "tel:"}

// ExtractLinks resolves every anchor against source and splits the results
// into internal (same host or a subdomain of it) and external lists. Each
// list keeps the first occurrence of a URL.
func ExtractLinks(doc *goquery.Document, source *url.URL) models.LinkSet {
	links := models.LinkSet{
		Internal: []models.Link{},
		External: []models.Link{},
	}
	baseHost := strings.ToLower(source.Host)
	seenInternal := map[string]struct{}{}
	seenExternal := map[string]struct{}{}

	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if skipHref(href) {
			return
		}

		resolved, err := source.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		link := models.Link{
			URL:        resolved.String(),
			AnchorText: selectionText(a),
		}

		if isSameSite(strings.ToLower(resolved.Host), baseHost) {
			if _, dup := seenInternal[link.URL]; !dup {
				seenInternal[link.URL] = struct{}{}
				links.Internal = append(links.Internal, link)
			}
			return
		}
		if _, dup := seenExternal[link.URL]; !dup {
			seenExternal[link.URL] = struct{}{}
			links.External = append(links.External, link)
		}
	})

	return links
}

func skipHref(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range skippedHrefPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// isSameSite: exact host match or a subdomain of base.
func isSameSite(host, base string) bool {
	return host == base || strings.HasSuffix(host, "."+base)
}
