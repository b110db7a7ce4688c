package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/llm-product-parser/internal/common"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dtnitsch/llm-product-parser/pkg/fetcher"
	"github.com/dtnitsch/llm-product-parser/pkg/mapreduce"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

const topKeywordCount = 25

// Exit codes for a batch run.
const (
	ExitPartialFailure = 1
	ExitTotalFailure   = 2
)

func ExtractAction(c *cli.Context) error {
	logger := common.Logger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitTotalFailure)
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}

	rawURLs := common.SplitURLs(c.String("urls"))
	if len(rawURLs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  lpp extract --urls "https://shop.example.com/p/1,https://shop.example.com/p/2"`)
		return cli.Exit("", ExitPartialFailure)
	}

	p := newPool(logger, fetcher.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent), nil, nil)

	if !c.Bool("no-store") {
		manager, err := artifact_manager.NewManager(cfg.Storage.DataDir)
		if err != nil {
			logger.Error("failed to initialize artifact manager", "error", err)
			return cli.Exit("", ExitTotalFailure)
		}
		database, err := db.Open(cfg.Storage.DBPath)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return cli.Exit("", ExitTotalFailure)
		}
		defer database.Close()

		p.manager = manager
		p.store = database
	}

	out, err := p.Run(c.Context, rawURLs, cfg.Workers)
	if werr := common.WriteOutput(c.App.Writer, out, c.String("format")); werr != nil {
		return werr
	}
	if err != nil {
		return cli.Exit("", exitCode(out.Stats))
	}
	return nil
}

// Run validates urls, extracts them concurrently and builds the run output.
// The returned error is non-nil when any URL was rejected or failed.
func (p *pool) Run(ctx context.Context, rawURLs []string, workerCount int) (FinalOutput, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	urls, invalidURLs := common.SanitizeAndValidateURLs(rawURLs)
	for _, bad := range invalidURLs {
		p.logger.Warn("skipping malformed URL", "url", bad)
	}

	allResults, finalWordCounts, runErr := p.run(ctx, urls, workerCount)

	stats := Stats{
		TotalURLs:   len(rawURLs),
		Failed:      len(invalidURLs),
		InvalidURLs: invalidURLs,
		TopKeywords: mapreduce.TopKeywords(finalWordCounts, topKeywordCount),
	}

	summaries := make([]ResultSummary, 0, len(allResults))
	for _, r := range allResults {
		summaries = append(summaries, summarize(r))
		if r.Error != nil {
			stats.Failed++
		} else {
			stats.Successful++
		}
	}
	stats.TotalTimeSeconds = time.Since(startTime).Seconds()

	out := FinalOutput{Status: status(stats), Results: summaries, Stats: stats}
	if runErr == nil && len(invalidURLs) > 0 {
		runErr = fmt.Errorf("%d malformed URL(s)", len(invalidURLs))
	}
	p.logger.Info("Extract run finished", "successful", stats.Successful, "failed", stats.Failed)
	return out, runErr
}

func summarize(r Result) ResultSummary {
	s := ResultSummary{
		URL:         r.URL,
		ID:          r.ID,
		FilePath:    r.FilePath,
		Status:      "success",
		StatusCode:  r.StatusCode,
		ContentHash: r.ContentHash,
	}
	if r.FileSizeBytes > 0 {
		s.FileSize = humanize.Bytes(uint64(r.FileSizeBytes))
	}
	if r.Snapshot != nil {
		s.ProductName = r.Snapshot.Product.Name
	}
	if r.Score != nil {
		s.FinalScore = r.Score.FinalScore
		s.ReadinessPct = r.Score.ReadinessPct
		s.ReadinessBand = r.Score.ReadinessBand
	}
	if r.Error != nil {
		s.Status = "failed"
		s.Error = r.Error.Error()
		s.ErrorType = r.ErrorType
	}
	return s
}

func status(s Stats) string {
	switch {
	case s.Failed == 0:
		return "success"
	case s.Successful == 0:
		return "failed"
	}
	return "partial"
}

func exitCode(s Stats) int {
	if s.Successful == 0 {
		return ExitTotalFailure
	}
	return ExitPartialFailure
}

func newPool(logger *slog.Logger, f parser.PageFetcher, manager *artifact_manager.Manager, store Store) *pool {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &pool{logger: logger, fetcher: f, manager: manager, store: store}
}
