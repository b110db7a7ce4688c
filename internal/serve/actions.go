package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/llm-product-parser/internal/common"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dtnitsch/llm-product-parser/pkg/fetcher"
	"github.com/dtnitsch/llm-product-parser/pkg/server"
	"github.com/urfave/cli/v2"
)

// ServeAction runs the HTTP API until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	logger := common.Logger(c)

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	manager, err := artifact_manager.NewManager(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact manager: %w", err)
	}
	database, err := db.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(
		fetcher.NewFetcher(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
		database,
		manager,
		logger,
		cfg.Context.ExcerptLimit,
	)
	logger.Info("Starting server", "addr", addr, "db", database.Path(), "data_dir", manager.BaseDir())
	return s.ListenAndServe(ctx, addr)
}
