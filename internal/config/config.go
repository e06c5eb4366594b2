package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/inquiry-dashboard/internal/inquiry"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Source   SourceConfig   `yaml:"source"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Media    *MediaConfig   `yaml:"media"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	Host        string   `yaml:"host"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// GetHost returns the listen host. Containers listen on all interfaces.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// Source types.
const (
	SourceSheets = "sheets"
	SourceCSV    = "csv"
	SourceS3     = "s3"
)

// SourceConfig selects where raw sheet rows come from.
type SourceConfig struct {
	Type string `yaml:"type"`

	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	CredentialsFile string `yaml:"credentials_file"`
	SheetsBaseURL   string `yaml:"sheets_base_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	MaxRetries      int    `yaml:"max_retries"`

	CSVPath string `yaml:"csv_path"`

	S3Bucket   string `yaml:"s3_bucket"`
	S3Key      string `yaml:"s3_key"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"` // empty uses the default credential chain
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

// Timeout returns the request timeout for the Sheets API.
func (c SourceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetAWSProfile returns the AWS profile, honouring AWS_PROFILE_OVERRIDE.
func (c SourceConfig) GetAWSProfile() string {
	if p := os.Getenv("AWS_PROFILE_OVERRIDE"); p != "" {
		if p == "none" || p == "iam" {
			return ""
		}
		return p
	}
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// RefreshConfig controls how often the spreadsheet is re-read.
type RefreshConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	LockTTLSeconds  int `yaml:"lock_ttl_seconds"`
}

func (c RefreshConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c RefreshConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c RefreshConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// RedisConfig holds the optional Redis connection used for the snapshot
// cache and the refresh lock.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// DatabaseConfig holds the optional Postgres connection for refresh history.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// MediaConfig overrides the detail-source taxonomy. Omitted lists keep the
// built-in tables.
type MediaConfig struct {
	Version         string   `yaml:"version"`
	Excluded        []string `yaml:"excluded"`
	HomeAndPaidAds  []string `yaml:"home_and_paid_ads"`
	Viral           []string `yaml:"viral"`
	Other           []string `yaml:"other"`
	HardExcluded    []string `yaml:"hard_excluded"`
	MergeCandidates []string `yaml:"merge_candidates"`
}

// Tables merges the override onto the built-in taxonomy.
func (m *MediaConfig) Tables() inquiry.MediaTables {
	t := inquiry.DefaultMediaTables
	if m == nil {
		return t
	}
	if m.Version != "" {
		t.Version = m.Version
	}
	if len(m.Excluded) > 0 {
		t.Excluded = m.Excluded
	}
	if len(m.HomeAndPaidAds) > 0 {
		t.HomeAndPaidAds = m.HomeAndPaidAds
	}
	if len(m.Viral) > 0 {
		t.Viral = m.Viral
	}
	if len(m.Other) > 0 {
		t.Other = m.Other
	}
	if len(m.HardExcluded) > 0 {
		t.HardExcluded = m.HardExcluded
	}
	if len(m.MergeCandidates) > 0 {
		t.MergeCandidates = m.MergeCandidates
	}
	return t
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// ShouldRedact reports whether PII redaction is on. It defaults to true.
func (c LoggingConfig) ShouldRedact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads the YAML config at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceSheets
	}
	if cfg.Source.Range == "" {
		cfg.Source.Range = "A:R"
	}
	if cfg.Source.SheetsBaseURL == "" {
		cfg.Source.SheetsBaseURL = "https://sheets.googleapis.com"
	}
	if cfg.Source.TimeoutSeconds == 0 {
		cfg.Source.TimeoutSeconds = 30
	}
	if cfg.Source.MaxRetries == 0 {
		cfg.Source.MaxRetries = 3
	}
	if cfg.Source.S3Region == "" {
		cfg.Source.S3Region = "ap-northeast-2"
	}
	if cfg.Refresh.IntervalSeconds == 0 {
		cfg.Refresh.IntervalSeconds = 300
	}
	if cfg.Refresh.CacheTTLSeconds == 0 {
		cfg.Refresh.CacheTTLSeconds = 1800
	}
	if cfg.Refresh.LockTTLSeconds == 0 {
		cfg.Refresh.LockTTLSeconds = 120
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate reports configuration that cannot produce a working source.
func (cfg *Config) Validate() error {
	switch cfg.Source.Type {
	case SourceSheets:
		if cfg.Source.SpreadsheetID == "" {
			return fmt.Errorf("source.spreadsheet_id is required for the sheets source")
		}
	case SourceCSV:
		if cfg.Source.CSVPath == "" {
			return fmt.Errorf("source.csv_path is required for the csv source")
		}
	case SourceS3:
		if cfg.Source.S3Bucket == "" || cfg.Source.S3Key == "" {
			return fmt.Errorf("source.s3_bucket and source.s3_key are required for the s3 source")
		}
	default:
		return fmt.Errorf("unknown source.type %q", cfg.Source.Type)
	}
	if cfg.Database.Enabled && cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required when database.enabled is true")
	}
	return nil
}

// LoadFromEnv loads .env if present, then the YAML file, then applies
// environment overrides.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SOURCE_TYPE"); v != "" {
		cfg.Source.Type = strings.ToLower(v)
	}
	if v := os.Getenv("SHEETS_SPREADSHEET_ID"); v != "" {
		cfg.Source.SpreadsheetID = v
	}
	if v := os.Getenv("SHEETS_RANGE"); v != "" {
		cfg.Source.Range = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" {
		cfg.Source.CredentialsFile = v
	}
	if v := os.Getenv("SOURCE_CSV_PATH"); v != "" {
		cfg.Source.CSVPath = v
	}
	if v := os.Getenv("SOURCE_S3_BUCKET"); v != "" {
		cfg.Source.S3Bucket = v
	}
	if v := os.Getenv("SOURCE_S3_KEY"); v != "" {
		cfg.Source.S3Key = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Source.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Source.SecretKey = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
		cfg.Database.Enabled = true
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
