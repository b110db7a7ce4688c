package detector

import (
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/pemistahl/lingua-go"
)

// languageSample caps how much text the language detector reads.
const languageSample = 2000

// Detection contains the cheap classification results for a page.
type Detection struct {
	PageType           models.PageType
	Language           string  // ISO-639-1, lower case; "" when unknown
	LanguageConfidence float64 // 0-1
	Country            string  // TLD-based guess
}

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

// supportedLanguages are the storefront languages we try to tell apart.
var supportedLanguages = []lingua.Language{
	lingua.English,
	lingua.Hindi,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Japanese,
	lingua.Chinese,
}

func detectorInstance() lingua.LanguageDetector {
	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supportedLanguages...).
			WithLowAccuracyMode().
			Build()
	})
	return languageDetector
}

// Analyze classifies a page from its source URL, product record and text.
func Analyze(rawURL string, product models.ProductRecord, text string) Detection {
	d := Detection{PageType: ClassifyPageType(product)}
	d.Language, d.LanguageConfidence = DetectLanguage(text)

	if u, err := url.Parse(rawURL); err == nil {
		d.Country = DetectCountry(u)
	}
	return d
}

// ClassifyPageType: a named product makes a product page.
func ClassifyPageType(product models.ProductRecord) models.PageType {
	if product.Name != "" {
		return models.PageTypeProduct
	}
	return models.PageTypeUnknown
}

// DetectLanguage guesses the language of text. Empty text gives "".
func DetectLanguage(text string) (string, float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", 0
	}
	if utf8.RuneCountInString(text) > languageSample {
		text = string([]rune(text)[:languageSample])
	}

	det := detectorInstance()
	lang, ok := det.DetectLanguageOf(text)
	if !ok {
		return "", 0
	}
	return strings.ToLower(lang.IsoCode639_1().String()), det.ComputeLanguageConfidence(text, lang)
}

// DetectCountry extracts a country from the TLD.
func DetectCountry(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	parts := strings.Split(host, ".")

	if len(parts) < 2 {
		return "unknown"
	}

	tld := parts[len(parts)-1]

	countries := map[string]string{
		"uk": "uk", "de": "de", "fr": "fr", "jp": "jp", "cn": "cn",
		"au": "au", "ca": "ca", "in": "in", "br": "br", "ru": "ru",
		"it": "it", "es": "es", "nl": "nl", "se": "se", "ch": "ch",
	}

	if country, ok := countries[tld]; ok {
		return country
	}

	return "unknown"
}
