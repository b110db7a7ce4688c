package extractors

import (
	"regexp"

	"github.com/dtnitsch/llm-product-parser/models"
)

// pricePattern: a currency symbol, an optional space, then digits with
// optional thousands separators and decimals.
var pricePattern = regexp.MustCompile(`(₹|\$|€|£)\s?\d{1,3}(?:,\d{3})*(?:\.\d+)?`)

// FallbackPrice returns the first price-looking substring of text verbatim,
// symbol included, or nil when there is none.
func FallbackPrice(text string) *models.Scalar {
	match := pricePattern.FindString(text)
	if match == "" {
		return nil
	}
	return models.StringScalar(match)
}
