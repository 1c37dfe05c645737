package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/grimoire/internal/detect"
	"github.com/ppiankov/grimoire/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <listfile>",
	Short: "Detect tricks in multiple books in parallel",
	Long: `Batch processes multiple book files concurrently:
- Read book file paths from a list file (one per line)
- Run the full detection pipeline per book with a worker pool
- Write one JSON report per book into the output directory

Example:
  grimoire batch books.txt
  grimoire batch books.txt --concurrency 8 --output-dir ./reports
  grimoire batch books.txt --embedding-provider ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./grimoire-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared detection flags
	batchCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.3, "confidence floor for detections")
	batchCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.7, "cosine similarity threshold for edges")
	batchCmd.Flags().BoolVar(&noSimilarity, "no-similarity", false, "skip similarity edge computation")

	// Embedding flags
	batchCmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "", "embedding provider (openai, ollama; empty disables embeddings)")
	batchCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model name (provider default when omitted)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "embedding cache directory (memory-only when omitted)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	paths, err := worker.ReadPathsFromFile(listFile)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no book paths found in %s", listFile)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	detector, err := detect.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processing %d books with %d workers\n\n", len(paths), concurrency)

	processor := worker.NewBatchProcessor(detector, concurrency)
	results := processor.ProcessFiles(ctx, paths)

	succeeded := 0
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		edges := result.Edges
		if noSimilarity {
			edges = nil
		}

		report := detectionReport{
			BookID:       result.BookID.String(),
			Source:       result.Path,
			Tricks:       result.Tricks,
			Similarities: edges,
			GeneratedAt:  time.Now().UTC(),
		}

		outPath := filepath.Join(outputDir, reportFileName(result.Path))
		if err := writeReport(report, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write report: %v\n", result.Path, err)
			continue
		}

		succeeded++
		fmt.Fprintf(os.Stderr, "✓ %s: %d tricks, %d edges -> %s\n",
			result.Path, len(result.Tricks), len(edges), outPath)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d/%d books processed\n", succeeded, len(results))

	if succeeded == 0 {
		return fmt.Errorf("all %d books failed", len(results))
	}
	return nil
}

// reportFileName derives a report name from the book file name.
func reportFileName(bookPath string) string {
	base := filepath.Base(bookPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".json"
}
