package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/uigen/patternmatch/internal/catalog"
	"github.com/uigen/patternmatch/internal/embedder"
	"github.com/uigen/patternmatch/internal/engine"
	"github.com/uigen/patternmatch/internal/mcp"
	"github.com/uigen/patternmatch/internal/vecstore"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("PatternMatch MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", vecstore.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", vecstore.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("PatternMatch MCP Server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", vecstore.BuildMode, vecstore.DriverName)

	// .env is optional; real env always wins
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	if err := run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func run() error {
	source, err := catalogFromEnv()
	if err != nil {
		return fmt.Errorf("configuring catalog source: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return fmt.Errorf("configuring embedder: %w", err)
	}
	defer func() { _ = emb.Close() }()

	vectors, err := vectorsFromEnv()
	if err != nil {
		return fmt.Errorf("configuring vector index: %w", err)
	}
	defer func() { _ = vectors.Close() }()

	cfg := configFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := engine.New(ctx, cfg, source, emb, vectors)
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}
	log.Printf("Catalog loaded: %d patterns (provider: %s)", eng.PatternCount(), emb.Provider())

	server, err := mcp.NewServer(eng, emb.Provider())
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
		return nil
	case err := <-errChan:
		return err
	}
}

// catalogFromEnv picks the pattern source. A SQLite catalog takes
// precedence; otherwise a JSON file is required.
func catalogFromEnv() (catalog.Source, error) {
	if dbPath := os.Getenv("PATTERNMATCH_CATALOG_DB"); dbPath != "" {
		return catalog.NewSQLiteSource(dbPath)
	}

	path := os.Getenv("PATTERNMATCH_CATALOG_PATH")
	if path == "" {
		return nil, fmt.Errorf("PATTERNMATCH_CATALOG_PATH or PATTERNMATCH_CATALOG_DB must be set")
	}
	return catalog.NewFileSource(path), nil
}

// vectorsFromEnv builds the vector index. Without a database path the
// embeddings live in memory and are rebuilt on startup.
func vectorsFromEnv() (vecstore.VectorIndex, error) {
	if dbPath := os.Getenv("PATTERNMATCH_DB_PATH"); dbPath != "" {
		return vecstore.NewSQLiteIndex(dbPath)
	}
	return vecstore.NewMemoryIndex(), nil
}

func configFromEnv() engine.Config {
	cfg := engine.DefaultConfig()

	if w, ok := envFloat("PATTERNMATCH_LEXICAL_WEIGHT"); ok {
		cfg.Weights.Lexical = w
	}
	if w, ok := envFloat("PATTERNMATCH_SEMANTIC_WEIGHT"); ok {
		cfg.Weights.Semantic = w
	}
	if n, ok := envInt("PATTERNMATCH_OVERFETCH"); ok {
		cfg.OverFetchN = n
	}
	if n, ok := envInt("PATTERNMATCH_DEFAULT_TOP_K"); ok {
		cfg.DefaultTopK = n
	}
	if n, ok := envInt("PATTERNMATCH_MAX_TOP_K"); ok {
		cfg.MaxTopK = n
	}
	if d, ok := envDuration("PATTERNMATCH_SEMANTIC_TIMEOUT"); ok {
		cfg.SemanticTimeout = d
	}
	if f, ok := envFloat("PATTERNMATCH_BM25_K1"); ok {
		cfg.BM25.K1 = f
	}
	if f, ok := envFloat("PATTERNMATCH_BM25_B"); ok {
		cfg.BM25.B = f
	}
	if f, ok := envFloat("PATTERNMATCH_EXPLAIN_THRESHOLD"); ok {
		cfg.ExplainThreshold = f
	}
	if n, ok := envInt("PATTERNMATCH_CACHE_SIZE"); ok {
		cfg.CacheSize = n
	}
	if d, ok := envDuration("PATTERNMATCH_CACHE_TTL"); ok {
		cfg.CacheTTL = d
	}

	return cfg
}

func envFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("warning: ignoring %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("warning: ignoring %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}

func envDuration(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("warning: ignoring %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}
