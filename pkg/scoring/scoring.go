// Package scoring rates a page snapshot on five AI-visibility rubrics and
// turns the total into a readiness band.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/dtnitsch/llm-product-parser/models"
)

// Rubric maxima. Section scores are clamped to these, never scaled.
const (
	MaxSchema         = 20
	MaxEntity         = 15
	MaxContent        = 25
	MaxTrust          = 20
	MaxExtractability = 20

	MaxPossible = MaxSchema + MaxEntity + MaxContent + MaxTrust + MaxExtractability
)

const (
	PenaltyMissingPrice       = -5
	PenaltyMissingProductName = -10
	PenaltyNoSchemaMarkup     = -5
	PenaltyThinContent        = -8

	thinContentWords = 100
)

var priceFormat = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// tier maps a count to points: the first threshold the count reaches wins.
type tier struct {
	min    int
	points int
}

var (
	wordCountTiers = []tier{{1501, 8}, {801, 6}, {401, 4}, {151, 2}}
	headingTiers   = []tier{{8, 4}, {4, 2}, {1, 1}}
	featureTiers   = []tier{{6, 4}, {3, 2}, {1, 1}}
	specTiers      = []tier{{8, 5}, {4, 3}, {1, 1}}
	specTableTiers = []tier{{5, 4}, {1, 2}}
)

func tierPoints(n int, tiers []tier) int {
	for _, t := range tiers {
		if n >= t.min {
			return t.points
		}
	}
	return 0
}

func points(ok bool, weight int) int {
	if ok {
		return weight
	}
	return 0
}

// Score computes every rubric, the penalties and the readiness band. It is a
// pure function of snap.
func Score(snap *models.PageSnapshot) models.ScoreResult {
	b := models.Breakdowns{
		Schema:         schemaBreakdown(snap),
		Entity:         entityBreakdown(snap.Product),
		Content:        contentBreakdown(snap.Content),
		Trust:          trustBreakdown(snap.TrustSignals),
		Extractability: extractabilityBreakdown(snap),
	}

	r := models.ScoreResult{
		SchemaScore:         clamp(models.SumSignals(b.Schema), MaxSchema),
		EntityScore:         clamp(models.SumSignals(b.Entity), MaxEntity),
		ContentScore:        clamp(models.SumSignals(b.Content), MaxContent),
		TrustScore:          clamp(models.SumSignals(b.Trust), MaxTrust),
		ExtractabilityScore: clamp(models.SumSignals(b.Extractability), MaxExtractability),
		Penalties:           penalties(snap),
		MaxPossible:         MaxPossible,
		Breakdowns:          b,
	}

	r.PenaltyTotal = r.Penalties.Total()
	r.RawScore = r.SchemaScore + r.EntityScore + r.ContentScore + r.TrustScore + r.ExtractabilityScore
	r.FinalScore = max(0, r.RawScore+r.PenaltyTotal)
	r.ReadinessPct = Percentage(r.FinalScore, MaxPossible)
	r.ReadinessBand = BandFor(r.ReadinessPct)
	r.BandDescriptor = r.ReadinessBand.Description()

	return r
}

func clamp(score, limit int) int {
	return max(0, min(score, limit))
}

// Percentage is final/max*100 rounded to two decimals.
func Percentage(final, maxPossible int) float64 {
	if maxPossible <= 0 {
		return 0
	}
	return math.Round(float64(final)/float64(maxPossible)*100*100) / 100
}

// BandFor evaluates the tiers top-down; each lower bound is inclusive.
func BandFor(pct float64) models.Band {
	switch {
	case pct >= 85:
		return models.BandExcellent
	case pct >= 70:
		return models.BandGood
	case pct >= 50:
		return models.BandFair
	case pct >= 30:
		return models.BandPoor
	}
	return models.BandCritical
}

func schemaBreakdown(snap *models.PageSnapshot) models.SchemaBreakdown {
	p := snap.Product

	product := false
	for _, block := range snap.SchemaData {
		if t, _ := block["@type"].(string); t == "Product" {
			product = true
			break
		}
	}

	return models.SchemaBreakdown{
		Name:             points(p.Name != "", 4),
		Price:            points(p.HasPrice(), 4),
		Currency:         points(p.Currency != "", 2),
		Brand:            points(p.Brand != "", 2),
		Availability:     points(p.Availability != "", 2),
		PriceFormatBonus: points(p.Price != nil && priceFormat.MatchString(p.Price.String()), 2),
		SchemaMarkup:     points(len(snap.SchemaData) > 0, 2),
		ProductSchema:    points(product, 2),
	}
}

func entityBreakdown(p models.ProductRecord) models.EntityBreakdown {
	b := models.EntityBreakdown{
		Name:     points(p.Name != "", 4),
		Brand:    points(p.Brand != "", 3),
		SKU:      points(p.SKU != "", 2),
		Category: points(p.Category != "", 2),
		GTIN:     points(p.GTIN != "", 2),
	}
	if p.Name != "" {
		q := nameQuality(p.Name)
		b.NameQuality = &q
	}
	return b
}

func nameQuality(name string) int {
	switch words := len(strings.Fields(name)); {
	case words >= 4:
		return 2
	case words >= 2:
		return 1
	}
	return 0
}

func contentBreakdown(c models.ContentBlock) models.ContentBreakdown {
	withAlt := false
	for _, img := range c.Images {
		if img.Alt != "" {
			withAlt = true
			break
		}
	}

	return models.ContentBreakdown{
		WordCount:      tierPoints(c.WordCount, wordCountTiers),
		Headings:       tierPoints(len(c.Headings), headingTiers),
		Features:       tierPoints(len(c.Features), featureTiers),
		Specifications: tierPoints(len(c.Specifications), specTiers),
		ImageAltText:   points(withAlt, 2),
		FAQ:            points(c.FAQ, 2),
	}
}

func trustBreakdown(ts models.TrustSignals) models.TrustBreakdown {
	return models.TrustBreakdown{
		HasReturnPolicy:       points(ts.HasReturnPolicy, 3),
		HasWarrantyInfo:       points(ts.HasWarrantyInfo, 3),
		HasShippingInfo:       points(ts.HasShippingInfo, 2),
		MentionsSecurePayment: points(ts.MentionsSecurePayment, 2),
		HasContactPage:        points(ts.HasContactPage, 2),
		MentionsReviews:       points(ts.MentionsReviews, 3),
		UsesHTTPS:             points(ts.UsesHTTPS, 1),
	}
}

func extractabilityBreakdown(snap *models.PageSnapshot) models.ExtractabilityBreakdown {
	var h1, h2 bool
	for _, h := range snap.Content.Headings {
		switch h.Level {
		case "h1":
			h1 = true
		case "h2":
			h2 = true
		}
	}
	hierarchy := 0
	if h1 && h2 {
		hierarchy = 2
	} else if len(snap.Content.Headings) > 0 {
		hierarchy = 1
	}

	meta := models.PageMeta{}
	if snap.Meta != nil {
		meta = *snap.Meta
	}

	return models.ExtractabilityBreakdown{
		SchemaPresent:    points(len(snap.SchemaData) > 0, 4),
		HeadingHierarchy: hierarchy,
		SpecsTable:       tierPoints(len(snap.Content.Specifications), specTableTiers),
		MetaTitle:        points(meta.Title, 2),
		MetaDescription:  points(meta.Description, 2),
		CanonicalURL:     points(meta.Canonical, 2),
		Hreflang:         points(meta.Hreflang, 4),
	}
}

func penalties(snap *models.PageSnapshot) models.Penalties {
	var p models.Penalties
	if !snap.Product.HasPrice() {
		p.MissingPrice = PenaltyMissingPrice
	}
	if snap.Product.Name == "" {
		p.MissingProductName = PenaltyMissingProductName
	}
	if len(snap.SchemaData) == 0 {
		p.NoSchemaMarkup = PenaltyNoSchemaMarkup
	}
	if snap.Content.WordCount < thinContentWords {
		p.ThinContent = PenaltyThinContent
	}
	return p
}
