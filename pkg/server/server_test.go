package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dtnitsch/llm-product-parser/pkg/fetcher"
)

// stubFetcher serves fixture pages by URL; unknown URLs fail with 404.
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*fetcher.Result, error) {
	body, ok := f.pages[url]
	if !ok {
		return nil, &fetcher.StatusError{URL: url, StatusCode: http.StatusNotFound}
	}
	return &fetcher.Result{StatusCode: http.StatusOK, FinalURL: url, Body: []byte(body), ElapsedMS: 12}, nil
}

const productURL = "https://shop.example.com/p/wireless-mouse-x200"

func setupServer(t *testing.T) (*httptest.Server, *db.DB, string) {
	t.Helper()

	page, err := os.ReadFile("../parser/testdata/wireless_mouse.html")
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	store, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	dataDir := filepath.Join(t.TempDir(), "data")
	artifacts, err := artifact_manager.NewManager(dataDir)
	if err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := New(&stubFetcher{pages: map[string]string{productURL: string(page)}}, store, artifacts, logger, 0)

	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts, store, dataDir
}

func postCrawl(t *testing.T, ts *httptest.Server, url string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"url": url})
	resp, err := http.Post(ts.URL+"/crawl_product", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /crawl_product: %v", err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestCrawlProduct(t *testing.T) {
	ts, store, dataDir := setupServer(t)

	resp := postCrawl(t, ts, productURL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got struct {
		Message string              `json:"message"`
		ID      string              `json:"id"`
		SavedTo string              `json:"saved_to"`
		Data    models.PageSnapshot `json:"data"`
	}
	decode(t, resp, &got)

	if got.Message != "Crawl successful" || got.ID == "" {
		t.Errorf("response = %+v", got)
	}
	if got.Data.Product.Name != "Acme Wireless Mouse X200 Silent" {
		t.Errorf("data.product.name = %q", got.Data.Product.Name)
	}
	if filepath.Dir(got.SavedTo) != dataDir || !strings.HasPrefix(filepath.Base(got.SavedTo), "shop-example-com-p-wireless-mouse-x200-") {
		t.Errorf("saved_to = %q", got.SavedTo)
	}
	if _, err := os.Stat(got.SavedTo); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}

	if _, err := store.GetScore(got.ID); err != nil {
		t.Errorf("score not stored: %v", err)
	}
	if rec, _ := store.GetLastAccess(productURL); rec == nil || !rec.Success {
		t.Errorf("access not recorded: %+v", rec)
	}
}

func TestCrawlProduct_Errors(t *testing.T) {
	ts, store, _ := setupServer(t)

	t.Run("fetch failure", func(t *testing.T) {
		const missing = "https://shop.example.com/gone"
		resp := postCrawl(t, ts, missing)
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", resp.StatusCode)
		}
		var got models.ExtractError
		decode(t, resp, &got)
		if got.URL != missing || got.Error == "" || got.StatusCode != http.StatusNotFound {
			t.Errorf("error body = %+v", got)
		}
		if rec, _ := store.GetLastAccess(missing); rec == nil || rec.Success {
			t.Errorf("failed access not recorded: %+v", rec)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		resp := postCrawl(t, ts, "  ")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/crawl_product", "application/json", strings.NewReader("{"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestSnapshotRoutes(t *testing.T) {
	ts, _, _ := setupServer(t)

	var crawled struct {
		ID string `json:"id"`
	}
	decode(t, postCrawl(t, ts, productURL), &crawled)

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/snapshots?limit=5")
		if err != nil {
			t.Fatal(err)
		}
		var list []map[string]any
		decode(t, resp, &list)
		if len(list) != 1 || list[0]["id"] != crawled.ID {
			t.Fatalf("list = %v", list)
		}
		if list[0]["readiness_band"] == "" || list[0]["final_score"] == nil {
			t.Errorf("list entry missing score: %v", list[0])
		}
	})

	t.Run("snapshot", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/snapshots/" + crawled.ID)
		if err != nil {
			t.Fatal(err)
		}
		var snap models.PageSnapshot
		decode(t, resp, &snap)
		if snap.PageInfo.URL != productURL {
			t.Errorf("page_info.url = %q", snap.PageInfo.URL)
		}
	})

	t.Run("score", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/snapshots/" + crawled.ID + "/score")
		if err != nil {
			t.Fatal(err)
		}
		var score models.ScoreResult
		decode(t, resp, &score)
		if score.MaxPossible != 100 || score.ReadinessPct < 70 {
			t.Errorf("score = %+v", score)
		}
	})

	t.Run("context", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/snapshots/" + crawled.ID + "/context?limit=200")
		if err != nil {
			t.Fatal(err)
		}
		var ctx models.LLMContext
		decode(t, resp, &ctx)
		if len([]rune(ctx.ContentExcerpt)) > 200 {
			t.Errorf("excerpt has %d characters, want at most 200", len([]rune(ctx.ContentExcerpt)))
		}
		if len(ctx.PriorityOrder) != 5 {
			t.Errorf("priority_order = %v", ctx.PriorityOrder)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		for _, path := range []string{"/snapshots/nope", "/snapshots/nope/score", "/snapshots/nope/context"} {
			resp, err := http.Get(ts.URL + path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
			}
		}
	})
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	s := New(&stubFetcher{}, nil, nil, slog.New(slog.NewJSONHandler(&logs, nil)), 0)

	rec := httptest.NewRecorder()
	s.writeJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(logs.String(), "failed to encode response") {
		t.Errorf("encode failure not logged: %q", logs.String())
	}
}
