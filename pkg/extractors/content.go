package extractors

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-product-parser/models"
	"golang.org/x/net/html/atom"
)

const (
	MaxFeatures     = 20
	minFeatureLen   = 10 // exclusive
	minListItems    = 2
	maxListItems    = 20
	minSpecRows     = 2
	minSpecLen      = 2
	maxSpecKeyLen   = 100
	maxSpecValueLen = 300
	specCellsPerRow = 2
	maxHeadingLevel = 6
	faqSchemaType   = "FAQPage"
)

// navLabels are generic navigation items never treated as features.
var navLabels = map[string]struct{}{
	"home":    {},
	"about":   {},
	"contact": {},
}

// ExtractHeadings collects h1..h6 grouped by level, document order within
// each level.
func ExtractHeadings(doc *goquery.Document) []models.Heading {
	headings := []models.Heading{}
	for level := 1; level <= maxHeadingLevel; level++ {
		tag := fmt.Sprintf("h%d", level)
		doc.Find(tag).Each(func(i int, s *goquery.Selection) {
			headings = append(headings, models.Heading{
				Level: tag,
				Text:  selectionText(s),
			})
		})
	}
	return headings
}

// ExtractFeatures collects bullet points from content lists. Lists inside
// nav, footer or header are skipped, and a list only counts when it yields
// between 2 and 20 usable items.
func ExtractFeatures(doc *goquery.Document) []string {
	var candidates []string

	doc.Find("ul").Each(func(i int, ul *goquery.Selection) {
		if selectionHasAncestor(ul, atom.Nav, atom.Footer, atom.Header) {
			return
		}

		var items []string
		ul.Find("li").Each(func(j int, li *goquery.Selection) {
			text := selectionText(li)
			if utf8.RuneCountInString(text) <= minFeatureLen {
				return
			}
			if _, junk := navLabels[strings.ToLower(text)]; junk {
				return
			}
			items = append(items, text)
		})

		if len(items) >= minListItems && len(items) <= maxListItems {
			candidates = append(candidates, items...)
		}
	})

	seen := make(map[string]struct{}, len(candidates))
	features := []string{}
	for _, f := range candidates {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		features = append(features, f)
		if len(features) == MaxFeatures {
			break
		}
	}
	return features
}

// ExtractSpecifications reads two-cell table rows as key/value pairs.
// A key seen twice keeps both values.
func ExtractSpecifications(doc *goquery.Document) models.Specifications {
	specs := models.Specifications{}

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		if selectionHasAncestor(table, atom.Nav, atom.Footer) {
			return
		}

		rows := table.Find("tr")
		if rows.Length() < minSpecRows {
			return
		}

		rows.Each(func(j int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() != specCellsPerRow {
				return
			}
			key := selectionText(cells.Eq(0))
			value := selectionText(cells.Eq(1))

			keyLen := utf8.RuneCountInString(key)
			valueLen := utf8.RuneCountInString(value)
			if keyLen < minSpecLen || valueLen < minSpecLen {
				return
			}
			if keyLen > maxSpecKeyLen || valueLen > maxSpecValueLen {
				return
			}
			specs = specs.Add(key, value)
		})
	})

	return specs
}

// ExtractImages lists every <img> with its src and trimmed alt text.
func ExtractImages(doc *goquery.Document) []models.Image {
	var images []models.Image
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, _ := s.Attr("alt")
		images = append(images, models.Image{
			Src: strings.TrimSpace(src),
			Alt: collapseSpace(alt),
		})
	})
	return images
}

// DetectFAQ reports an FAQ section: an FAQPage JSON-LD block or a heading
// that names one.
func DetectFAQ(blocks []map[string]any, headings []models.Heading) bool {
	if HasType(blocks, faqSchemaType) {
		return true
	}
	for _, h := range headings {
		text := strings.ToLower(h.Text)
		if strings.Contains(text, "faq") || strings.Contains(text, "frequently asked") {
			return true
		}
	}
	return false
}
