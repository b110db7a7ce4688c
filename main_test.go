package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
	"gopkg.in/yaml.v3"
)

func writeSnapshotFile(t *testing.T) string {
	t.Helper()
	html, err := os.ReadFile("pkg/parser/testdata/wireless_mouse.html")
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

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out

	dbPath := filepath.Join(t.TempDir(), "test.db")
	full := append([]string{"lpp", "--quiet", "--db", dbPath}, args...)
	if err := app.Run(full); err != nil {
		t.Fatalf("lpp %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestScoreCommand(t *testing.T) {
	path := writeSnapshotFile(t)

	var score models.ScoreResult
	if err := json.Unmarshal([]byte(runApp(t, "score", path)), &score); err != nil {
		t.Fatalf("failed to decode score: %v", err)
	}
	if score.MaxPossible != 100 || score.ReadinessBand == "" {
		t.Errorf("score = %+v", score)
	}
}

func TestContextCommand_YAML(t *testing.T) {
	path := writeSnapshotFile(t)

	out := runApp(t, "context", "--limit", "120", "--format", "yaml", path)
	var ctx struct {
		PageIdentity struct {
			URL string `yaml:"url"`
		} `yaml:"page_identity"`
		ContentExcerpt string   `yaml:"content_excerpt"`
		PriorityOrder  []string `yaml:"priority_order"`
	}
	if err := yaml.Unmarshal([]byte(out), &ctx); err != nil {
		t.Fatalf("failed to decode yaml: %v\n%s", err, out)
	}
	if ctx.PageIdentity.URL != "https://shop.example.com/p/wireless-mouse-x200" {
		t.Errorf("page_identity.url = %q", ctx.PageIdentity.URL)
	}
	if n := len([]rune(ctx.ContentExcerpt)); n == 0 || n > 120 {
		t.Errorf("excerpt has %d characters", n)
	}
	if len(ctx.PriorityOrder) != 5 {
		t.Errorf("priority_order = %v", ctx.PriorityOrder)
	}
}

func TestScoreCommand_StoredSnapshot(t *testing.T) {
	snap, err := artifact_manager.LoadSnapshot(writeSnapshotFile(t))
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(t.TempDir(), "stored.db")
	store, err := db.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.SaveSnapshot(snap, "")
	store.Close()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	if err := app.Run([]string{"lpp", "--quiet", "--db", dbPath, "score", id}); err != nil {
		t.Fatalf("score %s: %v", id, err)
	}
	var score models.ScoreResult
	if err := json.Unmarshal(out.Bytes(), &score); err != nil {
		t.Fatalf("failed to decode score: %v", err)
	}
	if score.FinalScore == 0 {
		t.Errorf("score = %+v", score)
	}

	out.Reset()
	app = newApp()
	app.Writer = &out
	if err := app.Run([]string{"lpp", "--db", dbPath, "db", "snapshots"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), id) || !strings.Contains(out.String(), "Total: 1 snapshots") {
		t.Errorf("db snapshots output:\n%s", out.String())
	}
}

func TestDBSnapshots_Empty(t *testing.T) {
	if out := runApp(t, "db", "snapshots"); !strings.Contains(out, "No snapshots found") {
		t.Errorf("output = %q", out)
	}
}

func TestScoreCommand_MissingArg(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"lpp", "score"}); err == nil {
		t.Error("expected an error without a snapshot argument")
	}
}
