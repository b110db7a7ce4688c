package models

// LLMContext is the bounded digest handed to a language model.
type LLMContext struct {
	PageIdentity        PageIdentity         `json:"page_identity" yaml:"page_identity"`
	ProductSummary      ProductSummary       `json:"product_summary" yaml:"product_summary"`
	ContentMetrics      ContentMetrics       `json:"content_metrics" yaml:"content_metrics"`
	AIVisibilitySummary AIVisibilitySummary  `json:"ai_visibility_summary" yaml:"ai_visibility_summary"`
	SectionScores       SectionScores        `json:"section_scores" yaml:"section_scores"`
	PriorityOrder       []Section            `json:"priority_order" yaml:"priority_order"`
	WeakAreas           map[Section][]string `json:"weak_areas" yaml:"weak_areas"`
	Penalties           Penalties            `json:"penalties" yaml:"penalties"`
	ContentExcerpt      string               `json:"content_excerpt" yaml:"content_excerpt"`
}

type PageIdentity struct {
	URL             string `json:"url" yaml:"url"`
	Title           string `json:"title" yaml:"title"`
	MetaDescription string `json:"meta_description" yaml:"meta_description"`
	Language        string `json:"language,omitempty" yaml:"language,omitempty"`
}

type ProductSummary struct {
	Name         string  `json:"name" yaml:"name"`
	Brand        string  `json:"brand" yaml:"brand"`
	Price        *Scalar `json:"price" yaml:"price"`
	Currency     string  `json:"currency" yaml:"currency"`
	Availability string  `json:"availability" yaml:"availability"`
	Rating       *Scalar `json:"rating" yaml:"rating"`
	ReviewCount  *Scalar `json:"review_count" yaml:"review_count"`
}

type ContentMetrics struct {
	WordCount          int      `json:"word_count" yaml:"word_count"`
	HeadingCount       int      `json:"heading_count" yaml:"heading_count"`
	FeatureCount       int      `json:"feature_count" yaml:"feature_count"`
	SpecificationCount int      `json:"specification_count" yaml:"specification_count"`
	TopKeywords        []string `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}

type AIVisibilitySummary struct {
	FinalScore    int     `json:"final_score" yaml:"final_score"`
	MaxPossible   int     `json:"max_possible" yaml:"max_possible"`
	ReadinessPct  float64 `json:"ai_readiness_pct" yaml:"ai_readiness_pct"`
	ReadinessBand Band    `json:"readiness_band" yaml:"readiness_band"`
}

type SectionScores struct {
	Schema         int `json:"schema" yaml:"schema"`
	Entity         int `json:"entity" yaml:"entity"`
	Content        int `json:"content" yaml:"content"`
	Trust          int `json:"trust" yaml:"trust"`
	Extractability int `json:"extractability" yaml:"extractability"`
}
