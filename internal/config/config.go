package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the jobmatch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Cache      CacheConfig      `yaml:"cache"`
	Matching   MatchingConfig   `yaml:"matching"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int `yaml:"max_upload_mb"`
}

// CorpusConfig describes where the postings table lives.
type CorpusConfig struct {
	Source   string    `yaml:"source"` // csv, parquet, sql
	Path     string    `yaml:"path"`
	SQL      SQLConfig `yaml:"sql"`
	IDColumn string    `yaml:"id_column"`
}

// SQLConfig holds settings for the sql corpus source.
type SQLConfig struct {
	Driver string `yaml:"driver"` // sqlite, pgx
	DSN    string `yaml:"dsn"`
	Query  string `yaml:"query"`
}

// VectorizerConfig selects and tunes the vector space strategy.
type VectorizerConfig struct {
	Strategy       string `yaml:"strategy"` // sparse, dense
	MaxFeatures    int    `yaml:"max_features"`
	FitTimeoutSec  int    `yaml:"fit_timeout_sec"`
	FitConcurrency int    `yaml:"fit_concurrency"`
}

// EmbeddingConfig holds dense embedding settings.
type EmbeddingConfig struct {
	Provider   ProviderConfig `yaml:"provider"`
	Model      string         `yaml:"model"`
	Dimensions int            `yaml:"dimensions"`
	BatchSize  int            `yaml:"batch_size"`
}

// ProviderConfig holds embedding provider settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// CacheConfig holds the optional embedding cache connection.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Standalone       bool     `yaml:"standalone"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// MatchingConfig holds ranking and keyword presentation settings.
type MatchingConfig struct {
	TopK           int    `yaml:"top_k"`
	MatchedLimit   int    `yaml:"matched_limit"`
	SuggestedLimit int    `yaml:"suggested_limit"`
	ReferenceLimit int    `yaml:"reference_limit"`
	KeywordSource  string `yaml:"keyword_source"` // canonical, skills
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 10
	}
	if c.Corpus.Source == "" {
		c.Corpus.Source = "csv"
	}
	if c.Corpus.IDColumn == "" {
		c.Corpus.IDColumn = "job_id"
	}
	if c.Corpus.SQL.Driver == "" {
		c.Corpus.SQL.Driver = "sqlite"
	}
	if c.Vectorizer.Strategy == "" {
		c.Vectorizer.Strategy = "sparse"
	}
	if c.Vectorizer.MaxFeatures <= 0 {
		c.Vectorizer.MaxFeatures = 5000
	}
	if c.Vectorizer.FitTimeoutSec <= 0 {
		c.Vectorizer.FitTimeoutSec = 600
	}
	if c.Vectorizer.FitConcurrency <= 0 {
		c.Vectorizer.FitConcurrency = 4
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 64
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Matching.TopK <= 0 {
		c.Matching.TopK = 5
	}
	if c.Matching.MatchedLimit <= 0 {
		c.Matching.MatchedLimit = 10
	}
	if c.Matching.SuggestedLimit <= 0 {
		c.Matching.SuggestedLimit = 10
	}
	if c.Matching.ReferenceLimit <= 0 {
		c.Matching.ReferenceLimit = 10
	}
	if c.Matching.KeywordSource == "" {
		c.Matching.KeywordSource = "canonical"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Corpus.Source {
	case "csv", "parquet":
		if c.Corpus.Path == "" {
			return fmt.Errorf("corpus.path is required for source %q", c.Corpus.Source)
		}
	case "sql":
		if c.Corpus.SQL.DSN == "" {
			return fmt.Errorf("corpus.sql.dsn is required")
		}
		switch c.Corpus.SQL.Driver {
		case "sqlite", "pgx":
		default:
			return fmt.Errorf("corpus.sql.driver must be \"sqlite\" or \"pgx\", got %q", c.Corpus.SQL.Driver)
		}
	default:
		return fmt.Errorf("corpus.source must be \"csv\", \"parquet\" or \"sql\", got %q", c.Corpus.Source)
	}

	switch c.Vectorizer.Strategy {
	case "sparse":
	case "dense":
		if c.Embedding.Provider.BaseURL == "" {
			return fmt.Errorf("embedding.provider.base_url is required for the dense strategy")
		}
	default:
		return fmt.Errorf("vectorizer.strategy must be \"sparse\" or \"dense\", got %q", c.Vectorizer.Strategy)
	}

	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when the cache is enabled")
	}

	switch c.Matching.KeywordSource {
	case "canonical", "skills":
	default:
		return fmt.Errorf(
			"matching.keyword_source must be \"canonical\" or \"skills\", got %q",
			c.Matching.KeywordSource,
		)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.HTTP.MaxUploadMB) << 20
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
