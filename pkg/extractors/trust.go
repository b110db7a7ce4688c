package extractors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-product-parser/models"
)

var (
	phonePattern = regexp.MustCompile(`\+?\d[\d\s-]{8,}`)
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// DetectTrustSignals tests the visible page text and anchor texts against
// fixed keyword sets. visibleText is the page text without script/style.
// HTTPS is taken from the source URL scheme, not from page content.
func DetectTrustSignals(doc *goquery.Document, visibleText, sourceURL string) models.TrustSignals {
	text := strings.ToLower(visibleText)

	var anchors []string
	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		anchors = append(anchors, strings.ToLower(selectionText(a)))
	})

	return models.TrustSignals{
		HasReturnPolicy:       containsAny(text, "return policy", "returns"),
		HasRefundPolicy:       containsAny(text, "refund policy", "refunds"),
		HasWarrantyInfo:       containsAny(text, "warranty"),
		HasShippingInfo:       containsAny(text, "shipping", "delivery"),
		HasCancellationPolicy: containsAny(text, "cancellation"),

		UsesHTTPS:             strings.HasPrefix(strings.ToLower(sourceURL), "https"),
		MentionsSecurePayment: containsAny(text, "secure payment", "100% secure", "ssl"),
		HasCODOption:          containsAny(text, "cash on delivery", "cod"),

		HasContactPage: anyContains(anchors, "contact"),
		HasAboutPage:   anyContains(anchors, "about"),
		MentionsPhone:  phonePattern.MatchString(text),
		MentionsEmail:  emailPattern.MatchString(text),

		MentionsReviews:      containsAny(text, "review", "ratings"),
		MentionsTestimonials: containsAny(text, "testimonial"),

		OfficialStoreClaim: containsAny(text, "official store", "authorized seller"),
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func anyContains(list []string, keyword string) bool {
	for _, s := range list {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
