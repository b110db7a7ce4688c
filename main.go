package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/llm-product-parser/internal/analyze"
	dbcmd "github.com/dtnitsch/llm-product-parser/internal/db"
	"github.com/dtnitsch/llm-product-parser/internal/extract"
	"github.com/dtnitsch/llm-product-parser/internal/score"
	"github.com/dtnitsch/llm-product-parser/internal/serve"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "lpp",
		Usage:   "extract product pages, score their AI visibility and build LLM context",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML config file", EnvVars: []string{"LPP_CONFIG"}},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.StringFlag{Name: "data-dir", Usage: "directory for snapshot JSON files"},
			&cli.StringFlag{Name: "db", Usage: "path to the SQLite snapshot index"},
			&cli.DurationFlag{Name: "timeout", Usage: "HTTP fetch timeout"},
			&cli.StringFlag{Name: "user-agent", Usage: "User-Agent header for fetches"},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "fetch, extract and score a batch of product pages",
				Action: extract.ExtractAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "urls", Aliases: []string{"u"}, Usage: "comma-separated product URLs", Required: true},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "concurrent workers"},
					&cli.BoolFlag{Name: "no-store", Usage: "skip the JSON files and the database"},
					formatFlag(),
				},
			},
			{
				Name:   "analyze",
				Usage:  "extract, score and build the LLM context for one URL without storing it",
				Action: analyze.AnalyzeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "product page URL", Required: true},
					&cli.BoolFlag{Name: "summary", Usage: "print a one-line score summary"},
					formatFlag(),
				},
			},
			{
				Name:      "score",
				Usage:     "score a stored snapshot or snapshot file",
				ArgsUsage: "<snapshot-id|file.json>",
				Action:    score.ScoreAction,
				Flags:     []cli.Flag{formatFlag()},
			},
			{
				Name:      "context",
				Usage:     "build the LLM context for a stored snapshot or snapshot file",
				ArgsUsage: "<snapshot-id|file.json>",
				Action:    score.ContextAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "content excerpt length in characters"},
					&cli.IntFlag{Name: "keywords", Value: 10, Usage: "top keywords to include, negative disables"},
					formatFlag(),
				},
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address"},
				},
			},
			{
				Name:  "db",
				Usage: "inspect the snapshot index",
				Subcommands: []*cli.Command{
					{
						Name:   "snapshots",
						Usage:  "list stored snapshots, newest first",
						Action: dbcmd.SnapshotsAction,
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "rows to show, 0 for all"},
						},
					},
				},
			},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "json",
		Usage:   "output format: json or yaml",
	}
}
