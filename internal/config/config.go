package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	Pipeline  PipelineConfig
	Batch     BatchConfig
	Source    SourceConfig
	Report    ReportConfig
	Telemetry TelemetryConfig
}

// ReportConfig holds batch report delivery settings.
type ReportConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// PipelineConfig holds transcript parsing settings.
type PipelineConfig struct {
	WindowSize           int     `mapstructure:"window_size"`
	MaxTopics            int     `mapstructure:"max_topics"`
	ExcerptLength        int     `mapstructure:"excerpt_length"`
	FuzzyStrategy        string  `mapstructure:"fuzzy_strategy"`
	FuzzyMinLength       int     `mapstructure:"fuzzy_min_length"`
	JaroWinklerThreshold float64 `mapstructure:"jarowinkler_threshold"`
}

// BatchConfig holds ingest batch settings.
type BatchConfig struct {
	Concurrency     int           `mapstructure:"concurrency"`
	DocumentTimeout time.Duration `mapstructure:"document_timeout"`
	WatchInterval   time.Duration `mapstructure:"watch_interval"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
}

// SourceConfig selects where transcripts are read from. Kind is "local" or "s3".
type SourceConfig struct {
	Kind   string `mapstructure:"kind"`
	Dir    string `mapstructure:"dir"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	// TraceStdout exports spans to stdout when set.
	TraceStdout bool   `mapstructure:"trace_stdout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`

	// AllowedOrigins lists CORS origins for the review API.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`

	// ConnMaxLifetime recycles pooled connections; zero keeps them forever.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the HANSARD_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HANSARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", "http://localhost:3000")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "hansard")
	v.SetDefault("db.password", "hansard_secret")
	v.SetDefault("db.name", "hansard_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.connect_timeout", "5s")

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Pipeline defaults
	v.SetDefault("pipeline.window_size", 64<<10)
	v.SetDefault("pipeline.max_topics", 10)
	v.SetDefault("pipeline.excerpt_length", 500)
	v.SetDefault("pipeline.fuzzy_strategy", "substring")
	v.SetDefault("pipeline.fuzzy_min_length", 4)
	v.SetDefault("pipeline.jarowinkler_threshold", 0.92)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.document_timeout", "2m")
	v.SetDefault("batch.watch_interval", "5m")
	v.SetDefault("batch.batch_timeout", "1h")

	// Source defaults
	v.SetDefault("source.kind", "local")
	v.SetDefault("source.dir", "./transcripts")
	v.SetDefault("source.bucket", "hansard-transcripts")
	v.SetDefault("source.prefix", "")

	// Report defaults
	v.SetDefault("report.provider", "noop")
	v.SetDefault("report.region", "ap-southeast-1")
	v.SetDefault("report.from_address", "noreply@hansard.local")
	v.SetDefault("report.from_name", "Hansard Pipeline")
	v.SetDefault("report.recipients", "")

	// Telemetry defaults
	v.SetDefault("telemetry.service_name", "hansard")
	v.SetDefault("telemetry.trace_stdout", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "HANSARD_SERVER_PORT",
		"server.read_timeout":            "HANSARD_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "HANSARD_SERVER_WRITE_TIMEOUT",
		"server.environment":             "HANSARD_SERVER_ENVIRONMENT",
		"server.allowed_origins":         "HANSARD_SERVER_ALLOWED_ORIGINS",
		"db.host":                        "HANSARD_DB_HOST",
		"db.port":                        "HANSARD_DB_PORT",
		"db.user":                        "HANSARD_DB_USER",
		"db.password":                    "HANSARD_DB_PASSWORD",
		"db.name":                        "HANSARD_DB_NAME",
		"db.sslmode":                     "HANSARD_DB_SSLMODE",
		"db.max_open":                    "HANSARD_DB_MAX_OPEN",
		"db.max_idle":                    "HANSARD_DB_MAX_IDLE",
		"db.conn_max_lifetime":           "HANSARD_DB_CONN_MAX_LIFETIME",
		"db.connect_timeout":             "HANSARD_DB_CONNECT_TIMEOUT",
		"s3.region":                      "HANSARD_S3_REGION",
		"s3.endpoint":                    "HANSARD_S3_ENDPOINT",
		"s3.access_key":                  "HANSARD_S3_ACCESS_KEY",
		"s3.secret_key":                  "HANSARD_S3_SECRET_KEY",
		"log.level":                      "HANSARD_LOG_LEVEL",
		"log.format":                     "HANSARD_LOG_FORMAT",
		"pipeline.window_size":           "HANSARD_PIPELINE_WINDOW_SIZE",
		"pipeline.max_topics":            "HANSARD_PIPELINE_MAX_TOPICS",
		"pipeline.excerpt_length":        "HANSARD_PIPELINE_EXCERPT_LENGTH",
		"pipeline.fuzzy_strategy":        "HANSARD_PIPELINE_FUZZY_STRATEGY",
		"pipeline.fuzzy_min_length":      "HANSARD_PIPELINE_FUZZY_MIN_LENGTH",
		"pipeline.jarowinkler_threshold": "HANSARD_PIPELINE_JAROWINKLER_THRESHOLD",
		"batch.concurrency":              "HANSARD_BATCH_CONCURRENCY",
		"batch.document_timeout":         "HANSARD_BATCH_DOCUMENT_TIMEOUT",
		"batch.watch_interval":           "HANSARD_BATCH_WATCH_INTERVAL",
		"batch.batch_timeout":            "HANSARD_BATCH_BATCH_TIMEOUT",
		"source.kind":                    "HANSARD_SOURCE_KIND",
		"source.dir":                     "HANSARD_SOURCE_DIR",
		"source.bucket":                  "HANSARD_SOURCE_BUCKET",
		"source.prefix":                  "HANSARD_SOURCE_PREFIX",
		"report.provider":                "HANSARD_REPORT_PROVIDER",
		"report.region":                  "HANSARD_REPORT_REGION",
		"report.from_address":            "HANSARD_REPORT_FROM_ADDRESS",
		"report.from_name":               "HANSARD_REPORT_FROM_NAME",
		"report.recipients":              "HANSARD_REPORT_RECIPIENTS",
		"telemetry.service_name":         "HANSARD_TELEMETRY_SERVICE_NAME",
		"telemetry.trace_stdout":         "HANSARD_TELEMETRY_TRACE_STDOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if HANSARD_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("HANSARD_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		ConnectTimeout:  v.GetDuration("db.connect_timeout"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Pipeline = PipelineConfig{
		WindowSize:           v.GetInt("pipeline.window_size"),
		MaxTopics:            v.GetInt("pipeline.max_topics"),
		ExcerptLength:        v.GetInt("pipeline.excerpt_length"),
		FuzzyStrategy:        strings.ToLower(v.GetString("pipeline.fuzzy_strategy")),
		FuzzyMinLength:       v.GetInt("pipeline.fuzzy_min_length"),
		JaroWinklerThreshold: v.GetFloat64("pipeline.jarowinkler_threshold"),
	}
	if cfg.Pipeline.MaxTopics < 1 || cfg.Pipeline.MaxTopics > 10 {
		return nil, fmt.Errorf("config: pipeline.max_topics must be between 1 and 10, got %d", cfg.Pipeline.MaxTopics)
	}
	switch cfg.Pipeline.FuzzyStrategy {
	case "substring", "jarowinkler":
	default:
		return nil, fmt.Errorf("config: unknown pipeline.fuzzy_strategy %q", cfg.Pipeline.FuzzyStrategy)
	}

	cfg.Batch = BatchConfig{
		Concurrency:     v.GetInt("batch.concurrency"),
		DocumentTimeout: v.GetDuration("batch.document_timeout"),
		WatchInterval:   v.GetDuration("batch.watch_interval"),
		BatchTimeout:    v.GetDuration("batch.batch_timeout"),
	}
	if cfg.Batch.Concurrency < 1 {
		cfg.Batch.Concurrency = 1
	}

	cfg.Source = SourceConfig{
		Kind:   strings.ToLower(v.GetString("source.kind")),
		Dir:    v.GetString("source.dir"),
		Bucket: v.GetString("source.bucket"),
		Prefix: v.GetString("source.prefix"),
	}
	if cfg.Source.Kind != "local" && cfg.Source.Kind != "s3" {
		return nil, fmt.Errorf("config: unknown source.kind %q", cfg.Source.Kind)
	}

	cfg.Report = ReportConfig{
		Provider:    v.GetString("report.provider"),
		Region:      v.GetString("report.region"),
		FromAddress: v.GetString("report.from_address"),
		FromName:    v.GetString("report.from_name"),
		Recipients:  splitList(v.GetString("report.recipients")),
	}

	cfg.Telemetry = TelemetryConfig{
		ServiceName: v.GetString("telemetry.service_name"),
		TraceStdout: v.GetBool("telemetry.trace_stdout"),
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
