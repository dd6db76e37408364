package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ledgerline/invoice-importer/internal/common"
	"github.com/ledgerline/invoice-importer/internal/export"
	"github.com/ledgerline/invoice-importer/internal/pipeline"
	"github.com/ledgerline/invoice-importer/internal/repository"
	"github.com/ledgerline/invoice-importer/internal/schema"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory of documents to process (required; .txt native text, .json OCR payloads)")
		out        = flag.String("out", "", "output CSV file path (defaults to <parent>/invoices.csv)")
		xlsxOut    = flag.String("xlsx", "", "also write an XLSX workbook to this path")
		configPath = flag.String("config", "", "optional YAML config file")
		workers    = flag.Int("workers", 0, "worker count for extraction fan-out (default from config)")
		inmem      = flag.Bool("inmem", false, "use an in-memory SQLite batch store")
		noStore    = flag.Bool("no-store", false, "skip batch persistence entirely")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "invoices.csv")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	if *configPath != "" {
		if err := cfg.ApplyFile(*configPath); err != nil {
			logger.Error("failed to load config file", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *inmem {
		cfg.Database.DSN = ":memory:"
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	docs, skipped, err := loadDocuments(*dir, logger)
	if err != nil {
		logger.Error("failed to read documents", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("documents loaded", "dir", *dir, "documents", len(docs), "skipped", skipped)

	coordinator := pipeline.NewCoordinator(logger, nil, cfg.Batch.Workers)
	result := coordinator.ProcessBatch(ctx, docs)

	formatter := export.NewFormatter(logger)
	csvText, err := formatter.ToCSVText(result.Rows)
	if err != nil {
		logger.Error("failed to render CSV", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, []byte(csvText), 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		xlsxBytes, err := formatter.ToXLSX(result.Rows)
		if err != nil {
			logger.Error("failed to render XLSX", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write XLSX file", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
	}

	if !*noStore {
		db, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open batch store", "error", err)
			os.Exit(1)
		}
		defer repository.Close(db, logger)

		repo := repository.NewBatchRepository(db, logger)
		if err := repo.SaveBatch(ctx, result); err != nil {
			logger.Error("failed to persist batch", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents: %d\n", result.Documents)
	fmt.Printf("- Records extracted: %d\n", len(result.Records))
	fmt.Printf("- Rows written: %d\n", len(result.Rows))
	fmt.Printf("- Failures: %d\n", len(result.Errors))
	fmt.Printf("- Duplicates: %d\n", result.Duplicates.TotalDuplicateCount)
	fmt.Printf("- Validation errors: %d, warnings: %d\n", len(result.Validation.Errors), len(result.Validation.Warnings))
	fmt.Printf("- Output: %s\n", *out)

	if !result.Validation.IsValid {
		// errors block import; exit nonzero so callers notice
		os.Exit(2)
	}
}

// loadDocuments builds pipeline documents from a directory: .txt files are
// native text, .json files are OCR collaborator payloads validated against
// the payload schema. Unreadable or invalid files are skipped with a log
// line, never aborting the run.
func loadDocuments(dir string, logger *slog.Logger) ([]pipeline.Document, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, common.WrapError(err, "read documents directory")
	}

	var docs []pipeline.Document
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)
		ext := strings.ToLower(filepath.Ext(name))

		switch ext {
		case ".txt":
			raw, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("skipping unreadable file", "path", path, "error", err)
				skipped++
				continue
			}
			docs = append(docs, pipeline.Document{SourceID: name, Text: string(raw)})
		case ".json":
			raw, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("skipping unreadable file", "path", path, "error", err)
				skipped++
				continue
			}
			payload, err := schema.ParseOCRPayload(raw)
			if err != nil {
				logger.Warn("skipping invalid OCR payload", "path", path, "error", err)
				skipped++
				continue
			}
			docs = append(docs, pipeline.Document{
				SourceID:      name,
				Text:          payload.Text,
				OCRConfidence: payload.Confidence,
			})
		default:
			skipped++
		}
	}
	return docs, skipped, nil
}
