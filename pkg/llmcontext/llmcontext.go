// Package llmcontext condenses a snapshot and its score into the bounded
// payload handed to a language model.
package llmcontext

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/analytics"
)

const (
	DefaultExcerptLimit = 1200
	DefaultKeywords     = 10

	cleanTextChars  = 600
	excerptFeatures = 6
	excerptSpecs    = 5
)

type Options struct {
	// ExcerptLimit bounds the excerpt in characters. Zero means the default.
	ExcerptLimit int
	// Keywords is how many top keywords to report. Zero means the default,
	// negative disables them.
	Keywords int
}

// Build assembles the context. It does no I/O and never fails.
func Build(snap *models.PageSnapshot, score models.ScoreResult, opts Options) models.LLMContext {
	limit := opts.ExcerptLimit
	if limit <= 0 {
		limit = DefaultExcerptLimit
	}
	keywords := opts.Keywords
	if keywords == 0 {
		keywords = DefaultKeywords
	}

	p := snap.Product
	ctx := models.LLMContext{
		PageIdentity: models.PageIdentity{
			URL:             snap.PageInfo.URL,
			Title:           snap.PageInfo.Title,
			MetaDescription: snap.PageInfo.MetaDescription,
			Language:        snap.PageInfo.Language,
		},
		ProductSummary: models.ProductSummary{
			Name:         p.Name,
			Brand:        p.Brand,
			Price:        p.Price,
			Currency:     p.Currency,
			Availability: p.Availability,
			Rating:       p.Rating,
			ReviewCount:  p.ReviewCount,
		},
		ContentMetrics: models.ContentMetrics{
			WordCount:          snap.Content.WordCount,
			HeadingCount:       len(snap.Content.Headings),
			FeatureCount:       len(snap.Content.Features),
			SpecificationCount: len(snap.Content.Specifications),
		},
		AIVisibilitySummary: models.AIVisibilitySummary{
			FinalScore:    score.FinalScore,
			MaxPossible:   score.MaxPossible,
			ReadinessPct:  score.ReadinessPct,
			ReadinessBand: score.ReadinessBand,
		},
		SectionScores: models.SectionScores{
			Schema:         score.SchemaScore,
			Entity:         score.EntityScore,
			Content:        score.ContentScore,
			Trust:          score.TrustScore,
			Extractability: score.ExtractabilityScore,
		},
		PriorityOrder:  PriorityOrder(score),
		WeakAreas:      WeakAreas(score),
		Penalties:      score.Penalties,
		ContentExcerpt: Excerpt(snap, limit),
	}

	if keywords > 0 {
		ctx.ContentMetrics.TopKeywords = analytics.TopKeywords(snap.CleanText, keywords)
	}

	return ctx
}

// WeakAreas lists, per section, the signals that scored exactly zero.
// Sections without such a signal are left out.
func WeakAreas(score models.ScoreResult) map[models.Section][]string {
	weak := map[models.Section][]string{}
	for _, s := range models.Sections {
		var missing []string
		for _, sig := range score.Breakdowns.Section(s).Signals() {
			if sig.Points == 0 {
				missing = append(missing, sig.Name)
			}
		}
		if len(missing) > 0 {
			weak[s] = missing
		}
	}
	return weak
}

// PriorityOrder sorts sections from lowest to highest score. Ties keep the
// fixed section order.
func PriorityOrder(score models.ScoreResult) []models.Section {
	order := make([]models.Section, len(models.Sections))
	copy(order, models.Sections)
	sort.SliceStable(order, func(i, j int) bool {
		return score.SectionScore(order[i]) < score.SectionScore(order[j])
	})
	return order
}

// Excerpt joins the leading clean text, up to six features and up to five
// specifications, then cuts the result to limit characters, backing off to
// the last period inside the window when there is one.
func Excerpt(snap *models.PageSnapshot, limit int) string {
	var blocks []string

	if text := strings.Join(strings.Fields(snap.CleanText), " "); text != "" {
		blocks = append(blocks, truncateRunes(text, cleanTextChars))
	}

	if features := snap.Content.Features; len(features) > 0 {
		features = features[:min(len(features), excerptFeatures)]
		blocks = append(blocks, "Key features: "+strings.Join(features, "."))
	}

	if specs := snap.Content.Specifications; len(specs) > 0 {
		specs = specs[:min(len(specs), excerptSpecs)]
		pairs := make([]string, len(specs))
		for i, s := range specs {
			pairs[i] = s.Key + ": " + s.Value()
		}
		blocks = append(blocks, "Specifications: "+strings.Join(pairs, ". "))
	}

	combined := strings.Join(blocks, " ")
	if utf8.RuneCountInString(combined) <= limit {
		return combined
	}

	truncated := truncateRunes(combined, limit)
	if i := strings.LastIndex(truncated, "."); i != -1 {
		return truncated[:i+1]
	}
	return truncated
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
