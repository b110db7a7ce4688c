package score

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
	"github.com/urfave/cli/v2"
)

func snapshotFile(t *testing.T) string {
	t.Helper()
	html, err := os.ReadFile("../../pkg/parser/testdata/wireless_mouse.html")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	p := &parser.Parser{}
	snap, err := p.Parse(models.ParseRequest{
		URL:        "https://shop.example.com/p/wireless-mouse-x200",
		HTML:       string(html),
		StatusCode: 200,
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	data, err := artifact_manager.MarshalIndent(snap)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestApp(out *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:   "lpp",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db"},
			&cli.BoolFlag{Name: "quiet"},
		},
		Commands: []*cli.Command{
			{
				Name:   "score",
				Action: ScoreAction,
				Flags:  []cli.Flag{&cli.StringFlag{Name: "format", Value: "json"}},
			},
			{
				Name:   "context",
				Action: ContextAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit"},
					&cli.IntFlag{Name: "keywords", Value: 10},
					&cli.StringFlag{Name: "format", Value: "json"},
				},
			},
		},
	}
}

func TestScoreAction(t *testing.T) {
	var out bytes.Buffer
	if err := newTestApp(&out).Run([]string{"lpp", "score", snapshotFile(t)}); err != nil {
		t.Fatalf("score: %v", err)
	}

	var score models.ScoreResult
	if err := json.Unmarshal(out.Bytes(), &score); err != nil {
		t.Fatalf("failed to decode score: %v", err)
	}
	if score.MaxPossible != 100 || score.FinalScore == 0 {
		t.Errorf("score = %+v", score)
	}
}

func TestContextAction(t *testing.T) {
	var out bytes.Buffer
	args := []string{"lpp", "context", "--limit", "80", "--keywords", "3", snapshotFile(t)}
	if err := newTestApp(&out).Run(args); err != nil {
		t.Fatalf("context: %v", err)
	}

	var ctx models.LLMContext
	if err := json.Unmarshal(out.Bytes(), &ctx); err != nil {
		t.Fatalf("failed to decode context: %v", err)
	}
	if n := len([]rune(ctx.ContentExcerpt)); n == 0 || n > 80 {
		t.Errorf("excerpt has %d characters, want 1..80", n)
	}
	if len(ctx.ContentMetrics.TopKeywords) != 3 {
		t.Errorf("TopKeywords = %v, want 3", ctx.ContentMetrics.TopKeywords)
	}
	if ctx.ProductSummary.Name != "Acme Wireless Mouse X200 Silent" {
		t.Errorf("ProductSummary.Name = %q", ctx.ProductSummary.Name)
	}
}

func TestContextAction_UnknownID(t *testing.T) {
	var out bytes.Buffer
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	err := newTestApp(&out).Run([]string{"lpp", "--db", dbPath, "context", "no-such-id"})
	if err == nil || !strings.Contains(err.Error(), "no snapshot") {
		t.Errorf("error = %v, want a not-found message", err)
	}
}

func TestScoreAction_MissingArg(t *testing.T) {
	var out bytes.Buffer
	if err := newTestApp(&out).Run([]string{"lpp", "score"}); err == nil {
		t.Error("expected a usage error")
	}
}
