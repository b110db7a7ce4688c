package models

// Section names one scoring rubric.
type Section string

const (
	SectionSchema         Section = "schema"
	SectionEntity         Section = "entity"
	SectionContent        Section = "content"
	SectionTrust          Section = "trust"
	SectionExtractability Section = "extractability"
)

// Sections is the fixed rubric order. Ties in priority ordering follow it.
var Sections = []Section{
	SectionSchema,
	SectionEntity,
	SectionContent,
	SectionTrust,
	SectionExtractability,
}

// Signal is one named contribution inside a breakdown.
type Signal struct {
	Name   string
	Points int
}

// Breakdown is implemented by every rubric's typed breakdown record.
type Breakdown interface {
	Signals() []Signal
}

// SumSignals adds the points of every signal in b.
func SumSignals(b Breakdown) int {
	total := 0
	for _, s := range b.Signals() {
		total += s.Points
	}
	return total
}

type SchemaBreakdown struct {
	Name             int `json:"name" yaml:"name"`
	Price            int `json:"price" yaml:"price"`
	Currency         int `json:"currency" yaml:"currency"`
	Brand            int `json:"brand" yaml:"brand"`
	Availability     int `json:"availability" yaml:"availability"`
	PriceFormatBonus int `json:"price_format_bonus" yaml:"price_format_bonus"`
	SchemaMarkup     int `json:"schema_markup" yaml:"schema_markup"`
	ProductSchema    int `json:"product_schema" yaml:"product_schema"`
}

func (b SchemaBreakdown) Signals() []Signal {
	return []Signal{
		{"name", b.Name},
		{"price", b.Price},
		{"currency", b.Currency},
		{"brand", b.Brand},
		{"availability", b.Availability},
		{"price_format_bonus", b.PriceFormatBonus},
		{"schema_markup", b.SchemaMarkup},
		{"product_schema", b.ProductSchema},
	}
}

// EntityBreakdown omits name_quality when the product has no name at all.
type EntityBreakdown struct {
	Name        int  `json:"name" yaml:"name"`
	Brand       int  `json:"brand" yaml:"brand"`
	SKU         int  `json:"sku" yaml:"sku"`
	Category    int  `json:"category" yaml:"category"`
	GTIN        int  `json:"gtin" yaml:"gtin"`
	NameQuality *int `json:"name_quality,omitempty" yaml:"name_quality,omitempty"`
}

func (b EntityBreakdown) Signals() []Signal {
	signals := []Signal{
		{"name", b.Name},
		{"brand", b.Brand},
		{"sku", b.SKU},
		{"category", b.Category},
		{"gtin", b.GTIN},
	}
	if b.NameQuality != nil {
		signals = append(signals, Signal{"name_quality", *b.NameQuality})
	}
	return signals
}

type ContentBreakdown struct {
	WordCount      int `json:"word_count" yaml:"word_count"`
	Headings       int `json:"headings" yaml:"headings"`
	Features       int `json:"features" yaml:"features"`
	Specifications int `json:"specifications" yaml:"specifications"`
	ImageAltText   int `json:"image_alt_text" yaml:"image_alt_text"`
	FAQ            int `json:"faq" yaml:"faq"`
}

func (b ContentBreakdown) Signals() []Signal {
	return []Signal{
		{"word_count", b.WordCount},
		{"headings", b.Headings},
		{"features", b.Features},
		{"specifications", b.Specifications},
		{"image_alt_text", b.ImageAltText},
		{"faq", b.FAQ},
	}
}

type TrustBreakdown struct {
	HasReturnPolicy       int `json:"has_return_policy" yaml:"has_return_policy"`
	HasWarrantyInfo       int `json:"has_warranty_info" yaml:"has_warranty_info"`
	HasShippingInfo       int `json:"has_shipping_info" yaml:"has_shipping_info"`
	MentionsSecurePayment int `json:"mentions_secure_payment" yaml:"mentions_secure_payment"`
	HasContactPage        int `json:"has_contact_page" yaml:"has_contact_page"`
	MentionsReviews       int `json:"mentions_reviews" yaml:"mentions_reviews"`
	UsesHTTPS             int `json:"uses_https" yaml:"uses_https"`
}

func (b TrustBreakdown) Signals() []Signal {
	return []Signal{
		{"has_return_policy", b.HasReturnPolicy},
		{"has_warranty_info", b.HasWarrantyInfo},
		{"has_shipping_info", b.HasShippingInfo},
		{"mentions_secure_payment", b.MentionsSecurePayment},
		{"has_contact_page", b.HasContactPage},
		{"mentions_reviews", b.MentionsReviews},
		{"uses_https", b.UsesHTTPS},
	}
}

type ExtractabilityBreakdown struct {
	SchemaPresent    int `json:"schema_present" yaml:"schema_present"`
	HeadingHierarchy int `json:"heading_hierarchy" yaml:"heading_hierarchy"`
	SpecsTable       int `json:"specs_table" yaml:"specs_table"`
	MetaTitle        int `json:"meta_title" yaml:"meta_title"`
	MetaDescription  int `json:"meta_description" yaml:"meta_description"`
	CanonicalURL     int `json:"canonical_url" yaml:"canonical_url"`
	Hreflang         int `json:"hreflang" yaml:"hreflang"`
}

func (b ExtractabilityBreakdown) Signals() []Signal {
	return []Signal{
		{"schema_present", b.SchemaPresent},
		{"heading_hierarchy", b.HeadingHierarchy},
		{"specs_table", b.SpecsTable},
		{"meta_title", b.MetaTitle},
		{"meta_description", b.MetaDescription},
		{"canonical_url", b.CanonicalURL},
		{"hreflang", b.Hreflang},
	}
}

// Breakdowns nests the five rubric breakdowns.
type Breakdowns struct {
	Schema         SchemaBreakdown         `json:"schema" yaml:"schema"`
	Entity         EntityBreakdown         `json:"entity" yaml:"entity"`
	Content        ContentBreakdown        `json:"content" yaml:"content"`
	Trust          TrustBreakdown          `json:"trust" yaml:"trust"`
	Extractability ExtractabilityBreakdown `json:"extractability" yaml:"extractability"`
}

// Section returns the breakdown for one rubric.
func (b Breakdowns) Section(s Section) Breakdown {
	switch s {
	case SectionSchema:
		return b.Schema
	case SectionEntity:
		return b.Entity
	case SectionContent:
		return b.Content
	case SectionTrust:
		return b.Trust
	case SectionExtractability:
		return b.Extractability
	}
	return nil
}

// Penalties are independent negative deductions. Zero means "not applied".
type Penalties struct {
	MissingPrice       int `json:"missing_price,omitempty" yaml:"missing_price,omitempty"`
	MissingProductName int `json:"missing_product_name,omitempty" yaml:"missing_product_name,omitempty"`
	NoSchemaMarkup     int `json:"no_schema_markup,omitempty" yaml:"no_schema_markup,omitempty"`
	ThinContent        int `json:"thin_content,omitempty" yaml:"thin_content,omitempty"`
}

// Applied lists the penalties that were charged, in declaration order.
func (p Penalties) Applied() []Signal {
	var out []Signal
	for _, s := range []Signal{
		{"missing_price", p.MissingPrice},
		{"missing_product_name", p.MissingProductName},
		{"no_schema_markup", p.NoSchemaMarkup},
		{"thin_content", p.ThinContent},
	} {
		if s.Points != 0 {
			out = append(out, s)
		}
	}
	return out
}

// Total sums every applied penalty; the result is zero or negative.
func (p Penalties) Total() int {
	return p.MissingPrice + p.MissingProductName + p.NoSchemaMarkup + p.ThinContent
}

// Band is the qualitative readiness label for a percentage.
type Band string

const (
	BandExcellent Band = "Excellent"
	BandGood      Band = "Good"
	BandFair      Band = "Fair"
	BandPoor      Band = "Poor"
	BandCritical  Band = "Critical"
)

// Description is the long-form label shown to humans.
func (b Band) Description() string {
	switch b {
	case BandExcellent:
		return "Excellent — AI/GEO Ready"
	case BandGood:
		return "Good — Minor Gaps"
	case BandFair:
		return "Fair — Needs Improvement"
	case BandPoor:
		return "Poor — Significant Issues"
	}
	return "Critical — Not AI-Ready"
}

// ScoreResult is the output of the scoring engine.
type ScoreResult struct {
	SchemaScore         int `json:"schema_score" yaml:"schema_score"`
	EntityScore         int `json:"entity_score" yaml:"entity_score"`
	ContentScore        int `json:"content_score" yaml:"content_score"`
	TrustScore          int `json:"trust_score" yaml:"trust_score"`
	ExtractabilityScore int `json:"extractability_score" yaml:"extractability_score"`

	Penalties    Penalties `json:"penalties" yaml:"penalties"`
	PenaltyTotal int       `json:"penalty_total" yaml:"penalty_total"`

	RawScore       int     `json:"raw_score" yaml:"raw_score"`
	FinalScore     int     `json:"final_score" yaml:"final_score"`
	MaxPossible    int     `json:"max_possible" yaml:"max_possible"`
	ReadinessPct   float64 `json:"ai_readiness_pct" yaml:"ai_readiness_pct"`
	ReadinessBand  Band    `json:"readiness_band" yaml:"readiness_band"`
	BandDescriptor string  `json:"readiness_description" yaml:"readiness_description"`

	Breakdowns Breakdowns `json:"breakdowns" yaml:"breakdowns"`
}

// SectionScore returns the clamped score for one rubric.
func (r ScoreResult) SectionScore(s Section) int {
	switch s {
	case SectionSchema:
		return r.SchemaScore
	case SectionEntity:
		return r.EntityScore
	case SectionContent:
		return r.ContentScore
	case SectionTrust:
		return r.TrustScore
	case SectionExtractability:
		return r.ExtractabilityScore
	}
	return 0
}
