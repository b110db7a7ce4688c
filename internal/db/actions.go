package db

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/llm-product-parser/internal/common"
	dbpkg "github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

func SnapshotsAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	database, err := dbpkg.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	snapshots, err := database.ListSnapshots(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	w := c.App.Writer
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	// Print table header
	fmt.Fprintf(w, "%-36s %-16s %-24s %-30s %-6s %-10s\n",
		"ID", "Created", "Domain", "Product", "Score", "Band")
	fmt.Fprintln(w, strings.Repeat("-", 128))

	for _, s := range snapshots {
		score, band := "-", "-"
		if s.FinalScore.Valid {
			score = fmt.Sprintf("%d", s.FinalScore.Int64)
		}
		if s.ReadinessBand.Valid {
			band = s.ReadinessBand.String
		}
		fmt.Fprintf(w, "%-36s %-16s %-24s %-30s %-6s %-10s\n",
			s.ID,
			humanize.Time(s.CreatedAt),
			truncate(s.Domain, 24),
			truncate(s.ProductName, 30),
			score,
			band,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d snapshots\n", len(snapshots))
	fmt.Fprintf(w, "\nTip: Use 'lpp context <id>' to build the LLM context for a snapshot\n")

	return nil
}
