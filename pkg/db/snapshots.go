package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/google/uuid"
)

// SnapshotInfo is the index row for a stored snapshot.
type SnapshotInfo struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	Domain         string    `json:"domain"`
	PageType       string    `json:"page_type"`
	ProductName    string    `json:"product_name"`
	WordCount      int       `json:"word_count"`
	CrawlTimestamp string    `json:"crawl_timestamp"`
	FilePath       string    `json:"file_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	// Set when a score has been stored for the snapshot.
	FinalScore    sql.NullInt64  `json:"-"`
	ReadinessBand sql.NullString `json:"-"`
}

// SaveSnapshot stores snap under a new id and returns that id. filePath is
// the JSON artifact on disk, if one was written.
func (db *DB) SaveSnapshot(snap *models.PageSnapshot, filePath string) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	id := uuid.NewString()
	_, err = db.Exec(`
		INSERT INTO snapshots (snapshot_id, url, final_url, domain, page_type, product_name,
		                       status_code, word_count, crawl_timestamp, file_path, snapshot_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, snap.PageInfo.URL, snap.PageInfo.FinalURL, domainOf(snap.PageInfo.URL),
		string(snap.PageInfo.PageType), NewNullString(snap.Product.Name), snap.PageInfo.StatusCode,
		snap.Content.WordCount, snap.PageInfo.CrawlTimestamp, NewNullString(filePath), string(data))
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return id, nil
}

// GetSnapshot loads a stored snapshot. Unknown ids return ErrNotFound.
func (db *DB) GetSnapshot(id string) (*models.PageSnapshot, error) {
	var data string
	err := db.QueryRow(`SELECT snapshot_json FROM snapshots WHERE snapshot_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snap models.PageSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// ListSnapshots returns the newest snapshots first, with their score when
// one is stored. limit <= 0 means no limit.
func (db *DB) ListSnapshots(limit int) ([]SnapshotInfo, error) {
	query := `
		SELECT s.snapshot_id, s.url, s.domain, s.page_type, COALESCE(s.product_name, ''),
		       s.word_count, s.crawl_timestamp, COALESCE(s.file_path, ''), s.created_at,
		       sc.final_score, sc.readiness_band
		FROM snapshots s
		LEFT JOIN scores sc ON sc.snapshot_id = s.snapshot_id
		ORDER BY s.created_at DESC, s.rowid DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []SnapshotInfo
	for rows.Next() {
		var s SnapshotInfo
		if err := rows.Scan(&s.ID, &s.URL, &s.Domain, &s.PageType, &s.ProductName, &s.WordCount,
			&s.CrawlTimestamp, &s.FilePath, &s.CreatedAt, &s.FinalScore, &s.ReadinessBand); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// SaveScore stores or replaces the score for a snapshot.
func (db *DB) SaveScore(id string, score models.ScoreResult) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO scores (snapshot_id, final_score, max_possible, readiness_pct, readiness_band, score_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(snapshot_id) DO UPDATE SET
			final_score = excluded.final_score,
			max_possible = excluded.max_possible,
			readiness_pct = excluded.readiness_pct,
			readiness_band = excluded.readiness_band,
			score_json = excluded.score_json,
			scored_at = CURRENT_TIMESTAMP
	`, id, score.FinalScore, score.MaxPossible, score.ReadinessPct, string(score.ReadinessBand), string(data))
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// GetScore loads the stored score for a snapshot.
func (db *DB) GetScore(id string) (*models.ScoreResult, error) {
	var data string
	err := db.QueryRow(`SELECT score_json FROM scores WHERE snapshot_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("score for %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	var score models.ScoreResult
	if err := json.Unmarshal([]byte(data), &score); err != nil {
		return nil, fmt.Errorf("failed to decode score %s: %w", id, err)
	}
	return &score, nil
}

// RecordAccess records a fetch attempt in url_accesses.
func (db *DB) RecordAccess(rawURL string, statusCode int, errorType string, success bool) error {
	_, err := db.Exec(`
		INSERT INTO url_accesses (url, status_code, error_type, success)
		VALUES (?, ?, ?, ?)
	`, rawURL, statusCode, NewNullString(errorType), success)
	if err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// AccessRecord represents a URL access attempt.
type AccessRecord struct {
	AccessID   int64
	AccessedAt time.Time
	StatusCode int
	ErrorType  string
	Success    bool
}

// GetLastAccess returns the most recent access record for a URL, or nil.
func (db *DB) GetLastAccess(rawURL string) (*AccessRecord, error) {
	var record AccessRecord
	var errorType sql.NullString
	err := db.QueryRow(`
		SELECT access_id, accessed_at, status_code, error_type, success
		FROM url_accesses
		WHERE url = ?
		ORDER BY accessed_at DESC, access_id DESC
		LIMIT 1
	`, rawURL).Scan(&record.AccessID, &record.AccessedAt, &record.StatusCode, &errorType, &record.Success)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last access: %w", err)
	}
	record.ErrorType = errorType.String
	return &record, nil
}

// NewNullString maps "" to NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}
