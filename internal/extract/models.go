package extract

import (
	"github.com/dtnitsch/llm-product-parser/models"
)

type Job struct {
	Index int
	URL   string
}

// Result holds the outcome of a processed job.
type Result struct {
	Index         int
	URL           string
	ID            string
	FilePath      string
	Snapshot      *models.PageSnapshot
	Score         *models.ScoreResult
	Error         error
	ErrorType     string
	StatusCode    int
	WordCounts    map[string]int
	FileSizeBytes int64
	ContentHash   string
}

// ResultSummary is the per-URL line of the run output.
type ResultSummary struct {
	URL           string      `json:"url" yaml:"url"`
	ID            string      `json:"id,omitempty" yaml:"id,omitempty"`
	FilePath      string      `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Status        string      `json:"status" yaml:"status"`
	Error         string      `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType     string      `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	StatusCode    int         `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	ProductName   string      `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	FinalScore    int         `json:"final_score,omitempty" yaml:"final_score,omitempty"`
	ReadinessPct  float64     `json:"readiness_pct,omitempty" yaml:"readiness_pct,omitempty"`
	ReadinessBand models.Band `json:"readiness_band,omitempty" yaml:"readiness_band,omitempty"`
	FileSize      string      `json:"file_size,omitempty" yaml:"file_size,omitempty"`
	ContentHash   string      `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string          `json:"status" yaml:"status"`
	Results []ResultSummary `json:"results" yaml:"results"`
	Stats   Stats           `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int      `json:"total_urls" yaml:"total_urls"`
	Successful       int      `json:"successful" yaml:"successful"`
	Failed           int      `json:"failed" yaml:"failed"`
	InvalidURLs      []string `json:"invalid_urls,omitempty" yaml:"invalid_urls,omitempty"`
	TotalTimeSeconds float64  `json:"total_time_seconds" yaml:"total_time_seconds"`
	TopKeywords      []string `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
}
