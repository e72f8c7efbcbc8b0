package infrastructure

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/conlit/backend/internal/llm"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	LeetCode  LeetCodeConfig  `yaml:"leetcode"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Analysis  AnalysisConfig  `yaml:"analysis"`

	// LLM is resolved from CONLIT_* variables or a well-known provider key
	LLM LLMConfig `yaml:"-"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	Environment    string        `yaml:"environment"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// DatabaseConfig holds database connection configuration.
// Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	SQLitePath      string        `yaml:"sqlite_path"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CacheConfig selects the solved-set cache backend:
// "database", "redis", "memory" or "none"
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds admin token configuration
type JWTConfig struct {
	SecretKey          string        `yaml:"secret"`
	AccessTokenExpiry  time.Duration `yaml:"access_expiry"`
	RefreshTokenExpiry time.Duration `yaml:"refresh_expiry"`
	Issuer             string        `yaml:"issuer"`
	// AdminPasswordHash is a bcrypt hash; admin login is disabled when empty
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled         bool    `yaml:"enabled"`
	ServiceName     string  `yaml:"service_name"`
	ServiceVersion  string  `yaml:"service_version"`
	Environment     string  `yaml:"-"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	MetricsEndpoint string  `yaml:"metrics_endpoint"`
	SampleRatio     float64 `yaml:"sample_ratio"`
}

// LeetCodeConfig holds the remote GraphQL client configuration
type LeetCodeConfig struct {
	GraphQLURL      string        `yaml:"graphql_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	UserAgent       string        `yaml:"user_agent"`
	SubmissionLimit int           `yaml:"submission_limit"`
	SolvedPageSize  int           `yaml:"solved_page_size"`
	SolvedMaxPages  int           `yaml:"solved_max_pages"`
	CrawlRate       float64       `yaml:"crawl_rate"`
	CrawlBurst      int           `yaml:"crawl_burst"`
	// Session and CSRFToken are default credentials for the CLI
	Session   string `yaml:"-"`
	CSRFToken string `yaml:"-"`
}

// CorpusConfig locates the question corpus. Path "embedded" selects the bundled sample.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// AnalysisConfig holds the analysis policy knobs
type AnalysisConfig struct {
	NemesisThreshold     int `yaml:"nemesis_threshold"`
	NemesisTopK          int `yaml:"nemesis_top_k"`
	GapMaxTopics         int `yaml:"gap_max_topics"`
	GapPerTopic          int `yaml:"gap_per_topic"`
	RelatedPerKey        int `yaml:"related_per_key"`
	UnsolvedContestLimit int `yaml:"unsolved_contest_limit"`
	CoachMaxTokens       int `yaml:"coach_max_tokens"`
}

// LLMConfig wraps the provider configuration. Enabled is false when no provider key was found.
type LLMConfig struct {
	Enabled  bool
	Provider llm.Config
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			Environment:  "development",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			DBName:          "conlit",
			SSLMode:         "disable",
			SQLitePath:      "data/conlit.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Cache: CacheConfig{
			Backend: "database",
			TTL:     7 * 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		JWT: JWTConfig{
			SecretKey:          "your-super-secret-key-change-in-production",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
			Issuer:             "conlit",
		},
		Telemetry: TelemetryConfig{
			Enabled:         false,
			ServiceName:     "conlit-api",
			ServiceVersion:  "1.0.0",
			OTLPEndpoint:    "otel-collector:4318",
			MetricsEndpoint: "/metrics",
			SampleRatio:     0.1,
		},
		LeetCode: LeetCodeConfig{
			GraphQLURL:      "https://leetcode.com/graphql",
			Timeout:         15 * time.Second,
			MaxRetries:      3,
			UserAgent:       "Mozilla/5.0 (compatible; conlit/1.0)",
			SubmissionLimit: 1000,
			SolvedPageSize:  100,
			SolvedMaxPages:  50,
			CrawlRate:       2,
			CrawlBurst:      1,
		},
		Corpus: CorpusConfig{
			Path: "data/all_contests_questions.json",
		},
		Analysis: AnalysisConfig{
			NemesisThreshold:     1,
			NemesisTopK:          10,
			GapMaxTopics:         5,
			GapPerTopic:          5,
			RelatedPerKey:        4,
			UnsolvedContestLimit: 5,
			CoachMaxTokens:       2048,
		},
	}
}

// LoadConfig builds the configuration from defaults, then the optional YAML
// file named by CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.Telemetry.Environment = cfg.Server.Environment

	llmCfg, ok := llm.ResolveConfig()
	cfg.LLM = LLMConfig{Enabled: ok, Provider: llmCfg}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Server.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.SQLitePath = getEnv("DB_SQLITE_PATH", c.Database.SQLitePath)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)

	c.Cache.Backend = getEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.JWT.SecretKey = getEnv("JWT_SECRET", c.JWT.SecretKey)
	c.JWT.AccessTokenExpiry = getEnvDuration("JWT_ACCESS_EXPIRY", c.JWT.AccessTokenExpiry)
	c.JWT.RefreshTokenExpiry = getEnvDuration("JWT_REFRESH_EXPIRY", c.JWT.RefreshTokenExpiry)
	c.JWT.Issuer = getEnv("JWT_ISSUER", c.JWT.Issuer)
	c.JWT.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", c.JWT.AdminPasswordHash)

	c.Telemetry.Enabled = getEnvBool("TELEMETRY_ENABLED", c.Telemetry.Enabled)
	c.Telemetry.ServiceName = getEnv("SERVICE_NAME", c.Telemetry.ServiceName)
	c.Telemetry.ServiceVersion = getEnv("SERVICE_VERSION", c.Telemetry.ServiceVersion)
	c.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.MetricsEndpoint = getEnv("METRICS_ENDPOINT", c.Telemetry.MetricsEndpoint)
	c.Telemetry.SampleRatio = getEnvFloat("OTEL_SAMPLE_RATIO", c.Telemetry.SampleRatio)

	c.LeetCode.GraphQLURL = getEnv("LEETCODE_GRAPHQL_URL", c.LeetCode.GraphQLURL)
	c.LeetCode.Timeout = getEnvDuration("LEETCODE_TIMEOUT", c.LeetCode.Timeout)
	c.LeetCode.MaxRetries = getEnvInt("LEETCODE_MAX_RETRIES", c.LeetCode.MaxRetries)
	c.LeetCode.UserAgent = getEnv("LEETCODE_USER_AGENT", c.LeetCode.UserAgent)
	c.LeetCode.SubmissionLimit = getEnvInt("LEETCODE_SUBMISSION_LIMIT", c.LeetCode.SubmissionLimit)
	c.LeetCode.SolvedPageSize = getEnvInt("LEETCODE_SOLVED_PAGE_SIZE", c.LeetCode.SolvedPageSize)
	c.LeetCode.SolvedMaxPages = getEnvInt("LEETCODE_SOLVED_MAX_PAGES", c.LeetCode.SolvedMaxPages)
	c.LeetCode.CrawlRate = getEnvFloat("LEETCODE_CRAWL_RATE", c.LeetCode.CrawlRate)
	c.LeetCode.CrawlBurst = getEnvInt("LEETCODE_CRAWL_BURST", c.LeetCode.CrawlBurst)
	c.LeetCode.Session = getEnv("LEETCODE_SESSION", c.LeetCode.Session)
	c.LeetCode.CSRFToken = getEnv("LEETCODE_CSRF_TOKEN", c.LeetCode.CSRFToken)

	c.Corpus.Path = getEnv("CORPUS_PATH", c.Corpus.Path)

	c.Analysis.NemesisThreshold = getEnvInt("NEMESIS_THRESHOLD", c.Analysis.NemesisThreshold)
	c.Analysis.NemesisTopK = getEnvInt("NEMESIS_TOP_K", c.Analysis.NemesisTopK)
	c.Analysis.GapMaxTopics = getEnvInt("GAP_MAX_TOPICS", c.Analysis.GapMaxTopics)
	c.Analysis.GapPerTopic = getEnvInt("GAP_PER_TOPIC", c.Analysis.GapPerTopic)
	c.Analysis.RelatedPerKey = getEnvInt("RELATED_PER_KEY", c.Analysis.RelatedPerKey)
	c.Analysis.UnsolvedContestLimit = getEnvInt("UNSOLVED_CONTEST_LIMIT", c.Analysis.UnsolvedContestLimit)
	c.Analysis.CoachMaxTokens = getEnvInt("COACH_MAX_TOKENS", c.Analysis.CoachMaxTokens)
}

// Validate rejects settings the application cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Cache.Backend {
	case "database", "redis", "memory", "none":
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Cache.Backend)
	}

	if c.LeetCode.SolvedMaxPages < 1 || c.LeetCode.SolvedPageSize < 1 {
		return fmt.Errorf("leetcode solved pagination must be positive")
	}
	if c.Analysis.NemesisTopK < 1 || c.Analysis.GapMaxTopics < 1 || c.Analysis.GapPerTopic < 1 || c.Analysis.RelatedPerKey < 1 {
		return fmt.Errorf("analysis limits must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvList splits a comma separated variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
