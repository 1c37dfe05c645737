package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/ppiankov/grimoire/internal/ingest"
	"github.com/ppiankov/grimoire/internal/model"
)

// TrickDetector is the detection pipeline surface the batch processor needs.
type TrickDetector interface {
	DetectTricks(ctx context.Context, text string, bookID uuid.UUID) ([]model.Trick, error)
	CalculateSimilarities(tricks []model.Trick) []model.SimilarityEdge
}

// BookJob detects tricks in a single book file.
type BookJob struct {
	Path     string
	BookID   uuid.UUID
	Detector TrickDetector
}

// Execute loads the book and runs the full pipeline over it.
func (j *BookJob) Execute(ctx context.Context) Result {
	result := &BookResult{Path: j.Path, BookID: j.BookID}

	text, err := ingest.Load(j.Path)
	if err != nil {
		result.Error = err
		return result
	}

	tricks, err := j.Detector.DetectTricks(ctx, text, j.BookID)
	if err != nil {
		result.Error = err
		return result
	}

	result.Tricks = tricks
	result.Edges = j.Detector.CalculateSimilarities(tricks)
	return result
}

// BookResult is the outcome of processing one book file.
type BookResult struct {
	Path   string
	BookID uuid.UUID
	Tricks []model.Trick
	Edges  []model.SimilarityEdge
	Error  error
}

// GetError returns the processing error, if any.
func (r *BookResult) GetError() error {
	return r.Error
}

// BatchProcessor runs the detection pipeline over many book files
// concurrently. Each file gets a fresh book ID.
type BatchProcessor struct {
	detector    TrickDetector
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(detector TrickDetector, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		detector:    detector,
		concurrency: concurrency,
	}
}

// ProcessFiles processes book files concurrently and returns one result per
// file, in completion order.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*BookResult {
	if len(paths) == 0 {
		return []*BookResult{}
	}

	pool := NewPoolWithQueue(ctx, b.concurrency, len(paths))
	pool.Start()

	for _, path := range paths {
		pool.Submit(&BookJob{
			Path:     path,
			BookID:   uuid.New(),
			Detector: b.detector,
		})
	}

	results := pool.Wait()

	bookResults := make([]*BookResult, len(results))
	for i, result := range results {
		bookResults[i] = result.(*BookResult)
	}
	return bookResults
}

// ReadPathsFromFile reads book file paths from a list file, one per line.
// Empty lines and #-comments are skipped; duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan list file: %w", err)
	}

	return paths, nil
}
