// Package server exposes extraction, scoring and context building over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/db"
	"github.com/dtnitsch/llm-product-parser/pkg/llmcontext"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
	"github.com/dtnitsch/llm-product-parser/pkg/scoring"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const defaultListLimit = 50

// Store is the subset of the snapshot index the handlers use.
type Store interface {
	SaveSnapshot(snap *models.PageSnapshot, filePath string) (string, error)
	GetSnapshot(id string) (*models.PageSnapshot, error)
	ListSnapshots(limit int) ([]db.SnapshotInfo, error)
	SaveScore(id string, score models.ScoreResult) error
	GetScore(id string) (*models.ScoreResult, error)
	RecordAccess(rawURL string, statusCode int, errorType string, success bool) error
}

type Server struct {
	fetcher      parser.PageFetcher
	store        Store
	artifacts    *artifact_manager.Manager // nil disables JSON files
	logger       *slog.Logger
	excerptLimit int
}

func New(f parser.PageFetcher, store Store, artifacts *artifact_manager.Manager, logger *slog.Logger, excerptLimit int) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		fetcher:      f,
		store:        store,
		artifacts:    artifacts,
		logger:       logger,
		excerptLimit: excerptLimit,
	}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/crawl_product", s.handleCrawl)
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleSnapshot)
		r.Get("/{id}/score", s.handleScore)
		r.Get("/{id}/context", s.handleContext)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type crawlRequest struct {
	URL string `json:"url"`
}

type crawlResponse struct {
	Message string               `json:"message"`
	ID      string               `json:"id"`
	SavedTo string               `json:"saved_to,omitempty"`
	Data    *models.PageSnapshot `json:"data"`
}

// POST /crawl_product
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	snap, err := parser.ExtractPage(r.Context(), s.fetcher, req.URL)
	if err != nil {
		extractErr := models.NewExtractError(req.URL, err)
		s.logger.Warn("extract failed", "url", req.URL, "error", err)
		if recErr := s.store.RecordAccess(req.URL, extractErr.StatusCode, "extract_failed", false); recErr != nil {
			s.logger.Error("failed to record access", "url", req.URL, "error", recErr)
		}
		s.writeJSON(w, http.StatusBadGateway, extractErr)
		return
	}

	var savedTo string
	if s.artifacts != nil {
		savedTo, err = s.artifacts.SaveSnapshot(snap)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	id, err := s.store.SaveSnapshot(snap, savedTo)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.SaveScore(id, scoring.Score(snap)); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.store.RecordAccess(req.URL, snap.PageInfo.StatusCode, "", true); err != nil {
		s.logger.Error("failed to record access", "url", req.URL, "error", err)
	}

	s.logger.Info("snapshot stored", "url", req.URL, "id", id, "saved_to", savedTo)
	s.writeJSON(w, http.StatusOK, crawlResponse{
		Message: "Crawl successful",
		ID:      id,
		SavedTo: savedTo,
		Data:    snap,
	})
}

type snapshotSummary struct {
	db.SnapshotInfo
	FinalScore    *int64 `json:"final_score,omitempty"`
	ReadinessBand string `json:"readiness_band,omitempty"`
}

// GET /snapshots?limit=N
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.ListSnapshots(queryInt(r, "limit", defaultListLimit))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]snapshotSummary, 0, len(infos))
	for _, info := range infos {
		sum := snapshotSummary{SnapshotInfo: info, ReadinessBand: info.ReadinessBand.String}
		if info.FinalScore.Valid {
			v := info.FinalScore.Int64
			sum.FinalScore = &v
		}
		out = append(out, sum)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GET /snapshots/{id}
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GET /snapshots/{id}/score
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	score, err := s.scoreFor(chi.URLParam(r, "id"), snap)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, score)
}

// GET /snapshots/{id}/context?limit=N
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadSnapshot(w, r)
	if !ok {
		return
	}
	score, err := s.scoreFor(chi.URLParam(r, "id"), snap)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	opts := llmcontext.Options{ExcerptLimit: queryInt(r, "limit", s.excerptLimit)}
	s.writeJSON(w, http.StatusOK, llmcontext.Build(snap, score, opts))
}

func (s *Server) loadSnapshot(w http.ResponseWriter, r *http.Request) (*models.PageSnapshot, bool) {
	snap, err := s.store.GetSnapshot(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return snap, true
}

// scoreFor returns the stored score, computing and storing it when missing.
func (s *Server) scoreFor(id string, snap *models.PageSnapshot) (models.ScoreResult, error) {
	stored, err := s.store.GetScore(id)
	if err == nil {
		return *stored, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return models.ScoreResult{}, err
	}

	score := scoring.Score(snap)
	if err := s.store.SaveScore(id, score); err != nil {
		return models.ScoreResult{}, err
	}
	return score, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "status", code, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
