package common

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/urfave/cli/v2"
)

// Logger builds the JSON stderr logger; --quiet drops everything below Error.
func Logger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config (if any) and applies flag overrides on top.
func LoadConfig(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("data-dir") {
		cfg.Storage.DataDir = c.String("data-dir")
	}
	if c.IsSet("db") {
		cfg.Storage.DBPath = c.String("db")
	}
	if c.IsSet("timeout") {
		cfg.Fetch.Timeout = c.Duration("timeout")
	}
	if c.IsSet("user-agent") {
		cfg.Fetch.UserAgent = c.String("user-agent")
	}
	return cfg, nil
}

// LoadSnapshot resolves a CLI argument that is either a path to a snapshot
// JSON file or a stored snapshot id.
func LoadSnapshot(arg string, cfg models.Config) (*models.PageSnapshot, string, error) {
	if arg == "" {
		return nil, "", errors.New("snapshot id or file is required")
	}

	if strings.HasSuffix(arg, ".json") {
		if _, err := os.Stat(arg); err == nil {
			snap, err := artifact_manager.LoadSnapshot(arg)
			return snap, "", err
		}
	}

	database, err := db.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	snap, err := database.GetSnapshot(arg)
	if err != nil {
		return nil, "", err
	}
	return snap, arg, nil
}
