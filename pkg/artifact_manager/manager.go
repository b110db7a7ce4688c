package artifact_manager

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dtnitsch/llm-product-parser/models"
)

const (
	DefaultBaseDir  = "data"
	timestampLayout = "20060102-150405"
)

// Manager stores snapshots as JSON files under one directory.
type Manager struct {
	baseDir string
	now     func() time.Time
}

// NewManager creates a new Artifact Manager instance.
// It ensures the base directory exists.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Manager{baseDir: baseDir, now: time.Now}, nil
}

// BaseDir returns the directory snapshots are written to.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

var invalidFilenameChar = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// SnapshotFilename builds "{domain}-{path}-{timestamp}.json" where dots in the
// host and slashes in the path become dashes.
func SnapshotFilename(rawURL string, t time.Time) string {
	var domain, path string
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		domain = strings.ReplaceAll(u.Host, ".", "-")
		path = strings.ReplaceAll(strings.Trim(u.Path, "/"), "/", "-")
	} else {
		domain = rawURL
	}

	domain = strings.Trim(invalidFilenameChar.ReplaceAllString(domain, "_"), "_")
	path = strings.Trim(invalidFilenameChar.ReplaceAllString(path, "_"), "_")

	return fmt.Sprintf("%s-%s-%s.json", domain, path, t.Format(timestampLayout))
}

// SnapshotPath returns where a snapshot of rawURL taken at t is written.
func (m *Manager) SnapshotPath(rawURL string, t time.Time) string {
	return filepath.Join(m.baseDir, SnapshotFilename(rawURL, t))
}

// SaveSnapshot writes snap as indented JSON and returns the file path.
func (m *Manager) SaveSnapshot(snap *models.PageSnapshot) (string, error) {
	filePath := m.SnapshotPath(snap.PageInfo.URL, m.now())

	data, err := MarshalIndent(snap)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	f, filePath, err := createUnique(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return filePath, nil
}

// maxNameCollisions bounds the "-2", "-3", ... suffixes tried for one name.
const maxNameCollisions = 1000

// createUnique creates filePath exclusively. When a snapshot of the same URL
// was already written in the same second, a numeric suffix is added before
// the extension instead of overwriting it.
func createUnique(filePath string) (*os.File, string, error) {
	ext := filepath.Ext(filePath)
	stem := strings.TrimSuffix(filePath, ext)

	candidate := filePath
	for n := 2; ; n++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) || n > maxNameCollisions {
			return nil, "", err
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

// LoadSnapshot reads a snapshot JSON file.
func LoadSnapshot(filePath string) (*models.PageSnapshot, error) {
	data, err := os.ReadFile(filepath.Clean(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap models.PageSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", filePath, err)
	}
	return &snap, nil
}

// MarshalIndent encodes v with two-space indentation and without HTML
// escaping, so prices like "₹2,499" and "<" stay readable.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
