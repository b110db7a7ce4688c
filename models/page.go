package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PageType classifies an extracted page.
type PageType string

const (
	PageTypeProduct PageType = "PRODUCT"
	PageTypeUnknown PageType = "UNKNOWN"
)

// PageSnapshot is the assembled, immutable record of one fetched page.
type PageSnapshot struct {
	PageInfo     PageInfo         `json:"page_info" yaml:"page_info"`
	Product      ProductRecord    `json:"product" yaml:"product"`
	Content      ContentBlock     `json:"content" yaml:"content"`
	SchemaData   []map[string]any `json:"schema_data" yaml:"schema_data"`
	Links        LinkSet          `json:"links" yaml:"links"`
	TrustSignals TrustSignals     `json:"trust_signals" yaml:"trust_signals"`
	CleanText    string           `json:"clean_text" yaml:"clean_text"`

	// Meta is the optional page-level side-channel read by the
	// extractability rubric. Nil means "unknown" and scores zero.
	Meta *PageMeta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// PageInfo holds page identity and transport facts.
type PageInfo struct {
	URL                string   `json:"url" yaml:"url"`
	FinalURL           string   `json:"final_url" yaml:"final_url"`
	StatusCode         int      `json:"status_code" yaml:"status_code"`
	CanonicalURL       string   `json:"canonical_url" yaml:"canonical_url"`
	Title              string   `json:"title" yaml:"title"`
	MetaDescription    string   `json:"meta_description" yaml:"meta_description"`
	HTTPS              bool     `json:"https" yaml:"https"`
	LoadTimeMS         int64    `json:"load_time_ms" yaml:"load_time_ms"`
	PageType           PageType `json:"page_type" yaml:"page_type"`
	CrawlTimestamp     string   `json:"crawl_timestamp" yaml:"crawl_timestamp"`
	Language           string   `json:"language,omitempty" yaml:"language,omitempty"`
	LanguageConfidence float64  `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`
	Country            string   `json:"country,omitempty" yaml:"country,omitempty"`
}

// PageMeta records which page-level metadata is present.
type PageMeta struct {
	Title       bool `json:"title" yaml:"title"`
	Description bool `json:"description" yaml:"description"`
	Canonical   bool `json:"canonical" yaml:"canonical"`
	Hreflang    bool `json:"hreflang" yaml:"hreflang"`
}

// ProductRecord is the normalized product entity. Every field is optional.
type ProductRecord struct {
	Name         string  `json:"name" yaml:"name"`
	Brand        string  `json:"brand" yaml:"brand"`
	SKU          string  `json:"sku" yaml:"sku"`
	Price        *Scalar `json:"price" yaml:"price"`
	Currency     string  `json:"currency" yaml:"currency"`
	Availability string  `json:"availability" yaml:"availability"`
	Rating       *Scalar `json:"rating" yaml:"rating"`
	ReviewCount  *Scalar `json:"review_count" yaml:"review_count"`
	Category     string  `json:"category,omitempty" yaml:"category,omitempty"`
	GTIN         string  `json:"gtin,omitempty" yaml:"gtin,omitempty"`
}

// HasPrice reports whether a usable price is present.
func (p ProductRecord) HasPrice() bool {
	return p.Price.IsSet()
}

// Scalar is a JSON-LD leaf value that may arrive as a number or a string.
// The textual form is kept verbatim so "1999" and "19.99" survive a round trip.
type Scalar struct {
	Text    string
	Numeric bool
}

// NumberScalar returns a numeric scalar.
func NumberScalar(text string) *Scalar {
	return &Scalar{Text: text, Numeric: true}
}

// StringScalar returns a textual scalar.
func StringScalar(text string) *Scalar {
	return &Scalar{Text: text}
}

// IsSet mirrors truthiness: nil, empty text and numeric zero are unset.
func (s *Scalar) IsSet() bool {
	if s == nil || s.Text == "" {
		return false
	}
	if s.Numeric {
		return strings.Trim(s.Text, "0.-+") != ""
	}
	return true
}

// String returns the textual form, or "" for nil.
func (s *Scalar) String() string {
	if s == nil {
		return ""
	}
	return s.Text
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.Numeric {
		return []byte(s.Text), nil
	}
	return json.Marshal(s.Text)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case json.Number:
		*s = Scalar{Text: t.String(), Numeric: true}
	case string:
		*s = Scalar{Text: t}
	default:
		return fmt.Errorf("scalar: unsupported JSON value %s", string(data))
	}
	return nil
}

func (s Scalar) MarshalYAML() (any, error) {
	return s.Text, nil
}

// Heading is one h1..h6 element.
type Heading struct {
	Level string `json:"level" yaml:"level"` // "h1".."h6"
	Text  string `json:"text" yaml:"text"`
}

// Image is one <img> element.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt" yaml:"alt"`
}

// ContentBlock holds the heuristic content extraction results.
type ContentBlock struct {
	Headings       []Heading      `json:"headings" yaml:"headings"`
	Features       []string       `json:"features" yaml:"features"`
	Specifications Specifications `json:"specifications" yaml:"specifications"`
	WordCount      int            `json:"word_count" yaml:"word_count"`
	Images         []Image        `json:"images,omitempty" yaml:"images,omitempty"`
	FAQ            bool           `json:"faq,omitempty" yaml:"faq,omitempty"`
}

// Link is one resolved anchor.
type Link struct {
	URL        string `json:"url" yaml:"url"`
	AnchorText string `json:"anchor_text" yaml:"anchor_text"`
}

// LinkSet splits links into same-site and off-site lists.
type LinkSet struct {
	Internal []Link `json:"internal" yaml:"internal"`
	External []Link `json:"external" yaml:"external"`
}

// TrustSignals is the fixed set of keyword and pattern checks.
type TrustSignals struct {
	HasReturnPolicy       bool `json:"has_return_policy" yaml:"has_return_policy"`
	HasRefundPolicy       bool `json:"has_refund_policy" yaml:"has_refund_policy"`
	HasWarrantyInfo       bool `json:"has_warranty_info" yaml:"has_warranty_info"`
	HasShippingInfo       bool `json:"has_shipping_info" yaml:"has_shipping_info"`
	HasCancellationPolicy bool `json:"has_cancellation_policy" yaml:"has_cancellation_policy"`

	UsesHTTPS             bool `json:"uses_https" yaml:"uses_https"`
	MentionsSecurePayment bool `json:"mentions_secure_payment" yaml:"mentions_secure_payment"`
	HasCODOption          bool `json:"has_cod_option" yaml:"has_cod_option"`

	HasContactPage bool `json:"has_contact_page" yaml:"has_contact_page"`
	HasAboutPage   bool `json:"has_about_page" yaml:"has_about_page"`
	MentionsPhone  bool `json:"mentions_phone" yaml:"mentions_phone"`
	MentionsEmail  bool `json:"mentions_email" yaml:"mentions_email"`

	MentionsReviews      bool `json:"mentions_reviews" yaml:"mentions_reviews"`
	MentionsTestimonials bool `json:"mentions_testimonials" yaml:"mentions_testimonials"`

	OfficialStoreClaim bool `json:"official_store_claim" yaml:"official_store_claim"`
}
