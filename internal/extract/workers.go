package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"sync"

	"github.com/dtnitsch/llm-product-parser/internal/common"
	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/artifact_manager"
	"github.com/dtnitsch/llm-product-parser/pkg/mapreduce"
	"github.com/dtnitsch/llm-product-parser/pkg/parser"
	"github.com/dtnitsch/llm-product-parser/pkg/scoring"
)

// Store is the part of the snapshot index a batch run writes to.
type Store interface {
	SaveSnapshot(snap *models.PageSnapshot, filePath string) (string, error)
	SaveScore(id string, score models.ScoreResult) error
	RecordAccess(rawURL string, statusCode int, errorType string, success bool) error
}

// pool carries the collaborators shared by every worker. manager and store
// are nil when nothing should be persisted.
type pool struct {
	logger  *slog.Logger
	fetcher parser.PageFetcher
	manager *artifact_manager.Manager
	store   Store
}

// run extracts and scores every URL on workerCount goroutines. Results come
// back in input order together with the reduced word counts of all pages.
func (p *pool) run(ctx context.Context, urls []string, workerCount int) ([]Result, map[string]int, error) {
	if workerCount <= 0 {
		workerCount = 1
	}

	p.logger.Info("Starting concurrent extract phase", "url_count", len(urls), "workers", workerCount, "store", p.store != nil)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(urls))
	results := make(chan Result, len(urls))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go p.worker(ctx, w, &wg, jobs, results)
	}

	for i, rawURL := range urls {
		jobs <- Job{Index: i, URL: rawURL}
	}
	close(jobs)

	wg.Wait()
	close(results)
	p.logger.Info("All extract workers finished")

	allResults := make([]Result, 0, len(urls))
	var runErr error
	for result := range results {
		allResults = append(allResults, result)
		if result.Error != nil {
			runErr = fmt.Errorf("one or more jobs failed")
		}
	}
	sort.Slice(allResults, func(i, j int) bool { return allResults[i].Index < allResults[j].Index })

	p.logger.Info("Starting MapReduce phase")
	intermediateResults := []map[string]int{}
	for _, result := range allResults {
		if result.WordCounts != nil {
			intermediateResults = append(intermediateResults, result.WordCounts)
		}
	}
	finalWordCounts := mapreduce.Reduce(intermediateResults)

	return allResults, finalWordCounts, runErr
}

func (p *pool) worker(ctx context.Context, id int, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		p.logger.Info("Worker started job", "worker_id", id, "url", job.URL)
		results <- p.process(ctx, id, job)
	}
}

func (p *pool) process(ctx context.Context, id int, job Job) Result {
	result := Result{Index: job.Index, URL: job.URL}

	snap, err := parser.ExtractPage(ctx, p.fetcher, job.URL)
	if err != nil {
		extractErr := models.NewExtractError(job.URL, err)
		p.logger.Error("Error extracting page", "worker_id", id, "url", job.URL, "error", err)
		result.Error = err
		result.ErrorType = errorType(err)
		result.StatusCode = extractErr.StatusCode
		p.recordAccess(job.URL, result.StatusCode, result.ErrorType, false)
		return result
	}
	p.recordAccess(job.URL, snap.PageInfo.StatusCode, "", true)

	score := scoring.Score(snap)
	result.Snapshot = snap
	result.Score = &score
	result.StatusCode = snap.PageInfo.StatusCode
	result.WordCounts = mapreduce.Map(snap)

	data, err := artifact_manager.MarshalIndent(snap)
	if err != nil {
		p.logger.Error("Error marshalling snapshot", "worker_id", id, "url", job.URL, "error", err)
		result.Error = err
		result.ErrorType = "marshal_error"
		return result
	}
	result.FileSizeBytes = int64(len(data))
	result.ContentHash = common.ContentHash(data)

	if p.manager != nil {
		path, err := p.manager.SaveSnapshot(snap)
		if err != nil {
			p.logger.Error("Failed to write snapshot file", "worker_id", id, "url", job.URL, "error", err)
			result.Error = err
			result.ErrorType = "storage_error"
			return result
		}
		result.FilePath = path
	}

	if p.store != nil {
		snapshotID, err := p.store.SaveSnapshot(snap, result.FilePath)
		if err != nil {
			p.logger.Error("Failed to store snapshot", "worker_id", id, "url", job.URL, "error", err)
			result.Error = err
			result.ErrorType = "storage_error"
			return result
		}
		result.ID = snapshotID
		if err := p.store.SaveScore(snapshotID, score); err != nil {
			p.logger.Warn("Failed to store score", "url", job.URL, "id", snapshotID, "error", err)
		}
	}

	p.logger.Info("Worker finished processing", "worker_id", id, "url", job.URL, "final_score", score.FinalScore)
	return result
}

func (p *pool) recordAccess(rawURL string, statusCode int, errType string, success bool) {
	if p.store == nil {
		return
	}
	if err := p.store.RecordAccess(rawURL, statusCode, errType, success); err != nil {
		p.logger.Warn("Failed to record access to DB", "url", rawURL, "error", err)
	}
}

// errorType buckets an extraction failure: http_error, timeout or fetch_error.
func errorType(err error) string {
	var statusErr interface{ HTTPStatus() int }
	if errors.As(err, &statusErr) {
		return "http_error"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return "fetch_error"
}
