package extractors

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-product-parser/models"
)

const productType = "Product"

// ExtractSchema returns every JSON-LD object on the page in document order.
// A script holding an array contributes each object element. Scripts that
// fail to parse and non-object entries are skipped.
func ExtractSchema(doc *goquery.Document) []map[string]any {
	blocks := []map[string]any{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "<!--"), "-->"))
		if raw == "" {
			return
		}

		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var data any
		if err := dec.Decode(&data); err != nil {
			return
		}

		switch v := data.(type) {
		case map[string]any:
			blocks = append(blocks, v)
		case []any:
			for _, item := range v {
				if obj, ok := item.(map[string]any); ok {
					blocks = append(blocks, obj)
				}
			}
		}
	})

	return blocks
}

// MapProduct folds the blocks into a ProductRecord. Every block typed
// "Product" overwrites the record in document order, so a later Product
// block wins on conflict; earlier values are not merged in.
func MapProduct(blocks []map[string]any) models.ProductRecord {
	var rec models.ProductRecord

	for _, block := range blocks {
		if t, _ := block["@type"].(string); t != productType {
			continue
		}

		rec.Name = stringField(block, "name")
		rec.SKU = stringField(block, "sku")
		rec.Category = nameOrString(block["category"])
		rec.GTIN = firstString(block, "gtin", "gtin13", "gtin12", "gtin14", "gtin8")

		switch brand := block["brand"].(type) {
		case map[string]any:
			rec.Brand = stringField(brand, "name")
		case string:
			rec.Brand = brand
		}

		// A missing offers object reads as an empty one. Only the direct
		// object shape is understood; an offers list leaves the fields alone.
		offers, present := block["offers"]
		if !present {
			offers = map[string]any{}
		}
		if o, ok := offers.(map[string]any); ok {
			rec.Price = scalarField(o, "price")
			rec.Currency = stringField(o, "priceCurrency")
			rec.Availability = stringField(o, "availability")
		}

		rating, present := block["aggregateRating"]
		if !present {
			rating = map[string]any{}
		}
		if r, ok := rating.(map[string]any); ok {
			rec.Rating = scalarField(r, "ratingValue")
			rec.ReviewCount = scalarField(r, "reviewCount")
		}
	}

	return rec
}

// HasType reports whether any block declares the given @type.
func HasType(blocks []map[string]any, typ string) bool {
	for _, block := range blocks {
		if t, _ := block["@type"].(string); t == typ {
			return true
		}
	}
	return false
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringField(m, key); v != "" {
			return v
		}
	}
	return ""
}

func nameOrString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return stringField(t, "name")
	}
	return ""
}

func scalarField(m map[string]any, key string) *models.Scalar {
	switch v := m[key].(type) {
	case json.Number:
		return models.NumberScalar(v.String())
	case string:
		return models.StringScalar(v)
	}
	return nil
}
