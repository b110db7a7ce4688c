package analyze

import (
	"context"

	"github.com/dtnitsch/llm-product-parser/pkg/llmcontext"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
	"github.com/dtnitsch/llm-product-parser/pkg/scoring"
)

// Analyze runs the full pipeline for one URL.
func Analyze(ctx context.Context, f parser.PageFetcher, rawURL string, excerptLimit int) (*Report, error) {
	snap, err := parser.ExtractPage(ctx, f, rawURL)
	if err != nil {
		return nil, err
	}

	score := scoring.Score(snap)
	return &Report{
		Snapshot: snap,
		Score:    score,
		Context:  llmcontext.Build(snap, score, llmcontext.Options{ExcerptLimit: excerptLimit}),
	}, nil
}
