package models

import (
	"errors"
	"time"
)

// ParseRequest carries one fetched page into the assembler.
type ParseRequest struct {
	URL        string
	FinalURL   string
	HTML       string
	StatusCode int
	ElapsedMS  int64

	// CrawledAt stamps the snapshot; zero means time.Now().
	CrawledAt time.Time
}

// ExtractError is the structured failure returned instead of a snapshot.
type ExtractError struct {
	Error      string `json:"error" yaml:"error"`
	URL        string `json:"url" yaml:"url"`
	StatusCode int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
}

// NewExtractError builds the {error, url} record for a failed extraction.
func NewExtractError(url string, err error) ExtractError {
	e := ExtractError{Error: err.Error(), URL: url}
	var status interface{ HTTPStatus() int }
	if errors.As(err, &status) {
		e.StatusCode = status.HTTPStatus()
	}
	return e
}
