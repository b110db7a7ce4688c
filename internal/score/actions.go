package score

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/llm-product-parser/internal/common"
	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dtnitsch/llm-product-parser/pkg/llmcontext"
	"github.com/dtnitsch/llm-product-parser/pkg/scoring"
	"github.com/urfave/cli/v2"
)

// ScoreAction prints the AI-visibility score of a stored snapshot or a
// snapshot file.
func ScoreAction(c *cli.Context) error {
	snap, err := loadArg(c)
	if err != nil {
		return err
	}
	return common.WriteOutput(c.App.Writer, scoring.Score(snap), c.String("format"))
}

// ContextAction prints the LLM context document for a snapshot.
func ContextAction(c *cli.Context) error {
	snap, err := loadArg(c)
	if err != nil {
		return err
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	limit := cfg.Context.ExcerptLimit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	ctx := llmcontext.Build(snap, scoring.Score(snap), llmcontext.Options{
		ExcerptLimit: limit,
		Keywords:     c.Int("keywords"),
	})
	return common.WriteOutput(c.App.Writer, ctx, c.String("format"))
}

func loadArg(c *cli.Context) (*models.PageSnapshot, error) {
	if c.NArg() == 0 {
		return nil, fmt.Errorf("usage: lpp %s <snapshot-id|file.json>", c.Command.Name)
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}

	snap, _, err := common.LoadSnapshot(c.Args().First(), cfg)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("no snapshot %q. Run 'lpp db snapshots' to list stored ids", c.Args().First())
	}
	return snap, err
}
