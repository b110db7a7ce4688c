package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/detector"
	"github.com/dtnitsch/llm-product-parser/pkg/extractors"
	"github.com/dtnitsch/llm-product-parser/pkg/fetcher"
)

// PageFetcher is the one-GET collaborator ExtractPage depends on.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Result, error)
}

type Parser struct {
	// Now stamps snapshots when the request carries no CrawledAt.
	Now func() time.Time
}

// ExtractPage fetches rawURL and assembles its snapshot. A transport failure
// or a non-200 status returns an error and no snapshot.
func ExtractPage(ctx context.Context, f PageFetcher, rawURL string) (*models.PageSnapshot, error) {
	res, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, &fetcher.StatusError{URL: rawURL, StatusCode: res.StatusCode}
	}

	p := &Parser{}
	return p.Parse(models.ParseRequest{
		URL:        rawURL,
		FinalURL:   res.FinalURL,
		HTML:       string(res.Body),
		StatusCode: res.StatusCode,
		ElapsedMS:  res.ElapsedMS,
	})
}

// Parse runs every extractor over one fetched document and composes the
// snapshot. Link resolution, the HTTPS flag and trust checks use the
// requested URL, not the post-redirect one.
func (p *Parser) Parse(req models.ParseRequest) (*models.PageSnapshot, error) {
	source, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", req.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	meta := extractors.ExtractMetadata(doc)
	blocks := extractors.ExtractSchema(doc)
	product := extractors.MapProduct(blocks)
	headings := extractors.ExtractHeadings(doc)
	text := extractors.ExtractCleanText(req.HTML, source)

	if !product.HasPrice() {
		product.Price = extractors.FallbackPrice(text.Text)
	}

	det := detector.Analyze(req.URL, product, text.Text)

	snap := &models.PageSnapshot{
		PageInfo: models.PageInfo{
			URL:                req.URL,
			FinalURL:           req.FinalURL,
			StatusCode:         req.StatusCode,
			CanonicalURL:       meta.Canonical,
			Title:              meta.Title,
			MetaDescription:    meta.MetaDescription,
			HTTPS:              strings.HasPrefix(req.URL, "https"),
			LoadTimeMS:         req.ElapsedMS,
			PageType:           det.PageType,
			CrawlTimestamp:     p.timestamp(req.CrawledAt),
			Language:           det.Language,
			LanguageConfidence: det.LanguageConfidence,
			Country:            det.Country,
		},
		Product: product,
		Content: models.ContentBlock{
			Headings:       headings,
			Features:       extractors.ExtractFeatures(doc),
			Specifications: extractors.ExtractSpecifications(doc),
			WordCount:      text.WordCount,
			Images:         extractors.ExtractImages(doc),
			FAQ:            extractors.DetectFAQ(blocks, headings),
		},
		SchemaData:   blocks,
		Links:        extractors.ExtractLinks(doc, source),
		TrustSignals: extractors.DetectTrustSignals(doc, text.RawText, req.URL),
		CleanText:    text.Text,
		Meta: &models.PageMeta{
			Title:       meta.Title != "",
			Description: meta.MetaDescription != "",
			Canonical:   meta.Canonical != "",
			Hreflang:    meta.HasHreflang,
		},
	}

	if snap.SchemaData == nil {
		snap.SchemaData = []map[string]any{}
	}

	return snap, nil
}

func (p *Parser) timestamp(t time.Time) string {
	if t.IsZero() {
		if p.Now != nil {
			t = p.Now()
		} else {
			t = time.Now()
		}
	}
	return t.UTC().Format(time.RFC3339)
}
