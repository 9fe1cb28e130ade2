// Shelfwise - Semantic Book Recommendations
// Copyright 2026 Shelfwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfwise/shelfwise

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables
// and config files.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Configuration Categories:
//
//  1. Data:
//     - Catalog: Book catalog CSV with emotion scores
//     - VectorStore: SQLite index of description embeddings
//     - Database: DuckDB store for users, history, favorites
//
//  2. Search:
//     - Embedding: Remote embedding API client and its budgets
//     - Search: Pipeline defaults, result cache, optional reranking
//
//  3. Surface:
//     - Server: HTTP server configuration (port, host, timeout)
//     - API: Pagination, CORS, rate limiting
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Catalog     CatalogConfig     `koanf:"catalog"`
	Embedding   EmbeddingConfig   `koanf:"embedding"`
	VectorStore VectorStoreConfig `koanf:"vector_store"`
	Database    DatabaseConfig    `koanf:"database"`
	Search      SearchConfig      `koanf:"search"`
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Logging     LoggingConfig     `koanf:"logging"`

	// SourceFile is the config file the loader used, empty when running
	// on defaults and environment variables alone. Callers pass it to
	// WatchConfigFile to react to edits.
	SourceFile string `koanf:"-"`
}

// CatalogConfig locates the book catalog.
//
// Environment Variables:
//   - CATALOG_PATH: Path to the catalog CSV (default: data/books_with_emotions.csv)
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// EmbeddingConfig holds the embedding API client settings.
//
// The client talks to an OpenAI-compatible embeddings endpoint. Rate
// limits mirror the provider's published tier for the default model; set
// them to match your account before raising traffic.
//
// Environment Variables:
//   - OPENAI_API_KEY: API key for the embeddings endpoint (required)
//   - EMBEDDING_BASE_URL: Endpoint base URL (default: https://api.openai.com/v1)
//   - EMBEDDING_MODEL: Model name (default: text-embedding-3-small)
//   - EMBEDDING_DIMENSIONS: Vector width (default: 1536)
//   - EMBEDDING_MAX_RETRIES: Retry attempts per call (default: 3)
//   - EMBEDDING_RETRY_DELAY: Backoff between retry attempts (default: 1s)
//   - EMBEDDING_REQUESTS_PER_MINUTE: Sliding-window budget (default: 3000)
//   - EMBEDDING_REQUESTS_PER_DAY: Daily budget (default: 1000000)
//   - EMBEDDING_TIMEOUT: Per-call HTTP timeout (default: 30s)
type EmbeddingConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Dimensions        int           `koanf:"dimensions"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryDelay        time.Duration `koanf:"retry_delay"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
	RequestsPerDay    int           `koanf:"requests_per_day"`
	Timeout           time.Duration `koanf:"timeout"`
}

// VectorStoreConfig locates the sqlite-vec index.
//
// Environment Variables:
//   - VECTOR_STORE_PATH: Path to the SQLite file (default: data/vectors.db)
type VectorStoreConfig struct {
	Path string `koanf:"path"`
}

// DatabaseConfig holds DuckDB settings for the user-data store.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: data/shelfwise.duckdb)
//   - DUCKDB_MAX_MEMORY: Memory limit passed to DuckDB (default: 1GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU() (default: 0)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// SearchConfig tunes the recommendation pipeline and its result cache.
//
// InitialTopK is the candidate pool fetched from the vector index before
// facet filtering; FinalTopK is what the API returns. CacheTTL applies to
// search results; query embeddings are cached 24x longer since they only
// change when the model changes.
//
// Environment Variables:
//   - SEARCH_INITIAL_TOP_K: Candidate pool size (default: 50)
//   - SEARCH_FINAL_TOP_K: Returned result count (default: 16)
//   - SEARCH_CACHE_TTL: Result cache TTL (default: 1h)
//   - SEARCH_CACHE_MAX_ENTRIES: Result cache bound, 0 = unbounded (default: 10000)
//   - SEARCH_RERANK_ENABLED: Enable diversity reranking (default: false)
//   - SEARCH_DIVERSITY_LAMBDA: Relevance/diversity balance (default: 0.7)
type SearchConfig struct {
	InitialTopK     int           `koanf:"initial_top_k"`
	FinalTopK       int           `koanf:"final_top_k"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
	RerankEnabled   bool          `koanf:"rerank_enabled"`
	DiversityLambda float64       `koanf:"diversity_lambda"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds API behavior settings.
//
// Environment Variables:
//   - API_DEFAULT_PAGE_SIZE: Default history page size (default: 20)
//   - API_MAX_PAGE_SIZE: Maximum history page size (default: 100)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable API rate limiting (default: false)
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
