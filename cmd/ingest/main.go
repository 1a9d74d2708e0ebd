package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/parenthaven/backend/internal/config"
	"github.com/parenthaven/backend/internal/media"
	"github.com/parenthaven/backend/internal/repository/postgres"
	"github.com/parenthaven/backend/internal/retrieval"
	"github.com/parenthaven/backend/internal/service"
)

// ingest embeds text documents into the passages table so the chat pipeline
// can retrieve them.
//
// Usage: ingest <file-or-directory> [...]
func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ingest <file-or-directory> [...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	var embedder retrieval.Embedder
	switch cfg.Retrieval.Provider {
	case "ollama":
		embedder = retrieval.NewOllamaEmbedder(cfg.LLM.Ollama.Host, cfg.Retrieval.OllamaModel)
	default:
		embedder = retrieval.NewGeminiEmbedder(cfg.LLM.Gemini.APIKey, cfg.Retrieval.GeminiModel)
	}

	passageRepo := postgres.NewPassageRepository(db)
	ingester := service.NewIngestService(
		media.NewExtractorRegistry(media.NewPlainTextExtractor()),
		embedder,
		passageRepo,
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
	)

	files, err := collectFiles(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", file, err)
			continue
		}

		contentType := "text/plain"
		if filepath.Ext(file) == ".md" {
			contentType = "text/markdown"
		}
		stored, err := ingester.Ingest(ctx, contentType, f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to ingest %s: %v\n", file, err)
			os.Exit(1)
		}

		total += stored
		fmt.Printf("Ingested %s (%d passages)\n", file, stored)
	}

	fmt.Printf("Done. %d passages stored.\n", total)

	if count, err := passageRepo.Count(ctx); err == nil {
		fmt.Printf("The knowledge base now holds %d passages.\n", count)
	}
}

// collectFiles expands directories into their .txt and .md files
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(path) {
			case ".txt", ".md":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
