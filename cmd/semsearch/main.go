// Package main is the semsearch CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"semsearch/internal/config"
	"semsearch/internal/embedding"
	"semsearch/internal/ingest"
	"semsearch/internal/search"
	"semsearch/internal/server"
	"semsearch/internal/storage"
	"semsearch/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Credentials (DATABASE_URL, embedding API key) may live in a .env file.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "server":
		runServer(os.Args[2:])
	case "setup":
		runSetup(os.Args[2:])
	case "populate":
		runPopulate(os.Args[2:])
	case "version":
		fmt.Printf("semsearch %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println(`semsearch - semantic document search service

Usage:
  semsearch server   [-config path]        run the HTTP server
  semsearch setup    [-config path]        create database schema (idempotent)
  semsearch populate [-config path] <dir>  ingest all .txt files from a directory
  semsearch version                        print version`)
}

// components holds everything a command needs, wired together.
type components struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *storage.PostgresStore
	embedder embedding.Embedder
	ingestor *ingest.Ingestor
	engine   *search.Engine
}

func (c *components) close() {
	if c.embedder != nil {
		_ = c.embedder.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func initComponents(ctx context.Context, configPath string) (*components, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	pool, err := storage.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	store := storage.NewPostgresStore(pool, cfg.Embedding.Dimensions)

	embedder, err := newEmbedder(&cfg.Embedding)
	if err != nil {
		store.Close()
		return nil, err
	}

	chunker, err := ingest.NewChunker(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		_ = embedder.Close()
		store.Close()
		return nil, err
	}

	return &components{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		embedder: embedder,
		ingestor: ingest.NewIngestor(store, embedder, chunker, logger),
		engine:   search.NewEngine(store, embedder, &cfg.Search, logger),
	}, nil
}

func newEmbedder(cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	var backend embedding.Embedder
	switch cfg.Provider {
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimensions), nil
	case "onnx":
		e, err := embedding.NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		backend = e
	case "openai":
		e, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:    cfg.BaseURL,
			APIKeyEnv:  cfg.APIKeyEnv,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		backend = e
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	return embedding.NewCachedEmbedder(backend, cfg.CacheSize), nil
}

func runServer(args []string) {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config file")
	_ = fs.Parse(args)

	ctx := context.Background()
	c, err := initComponents(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer c.close()

	srv := server.NewServer(c.ingestor, c.engine, c.store, c.cfg, c.logger, version)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		c.logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	case sig := <-sigCh:
		c.logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			c.logger.Error("shutdown failed", zap.Error(err))
		}
	}
}

func runSetup(args []string) {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config file")
	_ = fs.Parse(args)

	ctx := context.Background()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	pool, err := storage.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	store := storage.NewPostgresStore(pool, cfg.Embedding.Dimensions)
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("database schema created")
}

func runPopulate(args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config file")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: semsearch populate [-config path] <dir>")
		os.Exit(2)
	}
	dir := fs.Arg(0)

	ctx := context.Background()
	c, err := initComponents(ctx, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer c.close()

	n, err := populateDirectory(ctx, c.ingestor, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("ingested %d document(s) from %s\n", n, dir)
}

// populateDirectory ingests every .txt file directly under dir.
func populateDirectory(ctx context.Context, ingestor *ingest.Ingestor, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}
	n := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return n, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if _, err := ingestor.Ingest(ctx, entry.Name(), string(data)); err != nil {
			return n, fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		n++
	}
	return n, nil
}
