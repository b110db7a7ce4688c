package analyze

import (
	"fmt"
	"io"

	"github.com/dtnitsch/llm-product-parser/internal/common"
	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/fetcher"
	"github.com/dtnitsch/llm-product-parser/pkg/mapreduce"
	"github.com/urfave/cli/v2"
)

// Report bundles everything computed for one page.
type Report struct {
	Snapshot *models.PageSnapshot `json:"snapshot" yaml:"snapshot"`
	Score    models.ScoreResult   `json:"score" yaml:"score"`
	Context  models.LLMContext    `json:"llm_context" yaml:"llm_context"`
}

// AnalyzeAction extracts, scores and builds the context for one URL without
// writing anything to disk.
func AnalyzeAction(c *cli.Context) error {
	logger := common.Logger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	urls, invalid := common.SanitizeAndValidateURLs([]string{c.String("url")})
	if len(invalid) > 0 || len(urls) == 0 {
		return fmt.Errorf("invalid --url %q", c.String("url"))
	}

	f := fetcher.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
	logger.Info("Analyzing page", "url", urls[0])

	report, err := Analyze(c.Context, f, urls[0], cfg.Context.ExcerptLimit)
	if err != nil {
		extractErr := models.NewExtractError(urls[0], err)
		logger.Error("Error extracting page", "url", urls[0], "error", err)
		common.WriteOutput(c.App.Writer, extractErr, c.String("format"))
		return cli.Exit("", 1)
	}

	if c.Bool("summary") {
		printSummary(c.App.Writer, report)
		return nil
	}
	return common.WriteOutput(c.App.Writer, report, c.String("format"))
}

func printSummary(w io.Writer, r *Report) {
	fmt.Fprintf(w, "%s\n  product: %s\n  score:   %d/%d (%.2f%%) %s\n",
		r.Snapshot.PageInfo.URL, r.Snapshot.Product.Name,
		r.Score.FinalScore, r.Score.MaxPossible, r.Score.ReadinessPct, r.Score.BandDescriptor)

	for _, p := range r.Score.Penalties.Applied() {
		fmt.Fprintf(w, "  penalty: %s %d\n", p.Name, p.Points)
	}
	if len(r.Context.PriorityOrder) > 0 {
		fmt.Fprintf(w, "  weakest: %s\n", r.Context.PriorityOrder[0])
	}

	fmt.Fprintln(w, "  keywords:")
	mapreduce.PrintTopKeywords(w, mapreduce.Map(r.Snapshot), 10)
}
