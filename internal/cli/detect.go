package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ppiankov/grimoire/internal/detect"
	"github.com/ppiankov/grimoire/internal/ingest"
	"github.com/ppiankov/grimoire/internal/model"
)

var (
	bookIDFlag          string
	outJSON             string
	noSimilarity        bool
	minConfidence       float64
	similarityThreshold float64
	embeddingProvider   string
	embeddingModel      string
	noCache             bool
	cacheDir            string
	detectTimeout       time.Duration
)

// detectionReport is the JSON document written for a single book.
type detectionReport struct {
	BookID       string                 `json:"book_id"`
	Source       string                 `json:"source"`
	Tricks       []model.Trick          `json:"tricks"`
	Similarities []model.SimilarityEdge `json:"similarities"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect <bookfile>",
	Short: "Detect magic tricks in a single book file",
	Long: `Detect analyzes one book file (plain text or HTML) to:
- Split the text into candidate sections
- Extract trick candidates via structural patterns
- Score confidence and classify effect type, difficulty, and props
- Deduplicate near-identical detections
- Link similar tricks through embedding cosine similarity

Example:
  grimoire detect book.txt
  grimoire detect book.txt --json tricks.json --min-confidence 0.5
  grimoire detect book.html --embedding-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	// Output flags
	detectCmd.Flags().StringVar(&outJSON, "json", "tricks.json", "output JSON path")
	detectCmd.Flags().StringVar(&bookIDFlag, "book-id", "", "book UUID (generated when omitted)")

	// Detection flags
	detectCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.3, "confidence floor for detections")
	detectCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.7, "cosine similarity threshold for edges")
	detectCmd.Flags().BoolVar(&noSimilarity, "no-similarity", false, "skip similarity edge computation")
	detectCmd.Flags().DurationVar(&detectTimeout, "timeout", 10*time.Minute, "overall detection timeout")

	// Embedding flags
	detectCmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "", "embedding provider (openai, ollama; empty disables embeddings)")
	detectCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model name (provider default when omitted)")
	detectCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
	detectCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "embedding cache directory (memory-only when omitted)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), detectTimeout)
	defer cancel()

	bookID, err := resolveBookID(bookIDFlag)
	if err != nil {
		return err
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	detector, err := detect.New(cfg, logger)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Detecting tricks in: %s\n", path)
		fmt.Fprintf(os.Stderr, "Book ID: %s\n\n", bookID)
	}

	text, err := ingest.Load(path)
	if err != nil {
		return err
	}

	tricks, err := detector.DetectTricks(ctx, text, bookID)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	var edges []model.SimilarityEdge
	if !noSimilarity {
		edges = detector.CalculateSimilarities(tricks)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d tricks\n", len(tricks))
		fmt.Fprintf(os.Stderr, "✓ Found %d similarity edges\n\n", len(edges))
	}

	report := detectionReport{
		BookID:       bookID.String(),
		Source:       path,
		Tricks:       tricks,
		Similarities: edges,
		GeneratedAt:  time.Now().UTC(),
	}

	if err := writeReport(report, outJSON); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Report written to %s (%d tricks, %d edges)\n", outJSON, len(tricks), len(edges))
	return nil
}

// buildConfig assembles pipeline configuration from defaults and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Detection.MinConfidence = minConfidence
	cfg.Similarity.Threshold = similarityThreshold
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Output.Verbose = verbose

	if embeddingProvider != "" {
		cfg.Embedding.Provider = embeddingProvider
		cfg.Embedding.Model = embeddingModel

		switch embeddingProvider {
		case "openai":
			cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.Embedding.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.Embedding.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

func resolveBookID(flag string) (uuid.UUID, error) {
	if flag == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(flag)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid book id %q: %w", flag, err)
	}
	return id, nil
}

func writeReport(report detectionReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
