package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the web server and the terminal client
type Config struct {
	Port            int           `yaml:"port"`
	LegalBackendURL string        `yaml:"legal_backend_url"`
	DocBackendURL   string        `yaml:"doc_backend_url"`
	BackendTimeout  time.Duration `yaml:"backend_timeout"`
	LogLevel        string        `yaml:"log_level"`
	StrictParse     bool          `yaml:"strict_parse"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	Storage         StorageConfig `yaml:"storage"`
}

// StorageConfig selects where uploaded documents are staged before ingestion
type StorageConfig struct {
	Type         string `yaml:"type"`
	LocalPath    string `yaml:"local_path"`
	S3Bucket     string `yaml:"s3_bucket"`
	S3Region     string `yaml:"s3_region"`
	AWSAccessKey string `yaml:"-"`
	AWSSecretKey string `yaml:"-"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		Port:            8080,
		LegalBackendURL: "http://localhost:8000",
		DocBackendURL:   "http://localhost:8001",
		BackendTimeout:  120 * time.Second,
		LogLevel:        "info",
		SessionTTL:      2 * time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
		MaxUploadBytes:  10 * 1024 * 1024, // 10MB
		Storage: StorageConfig{
			Type:      "local",
			LocalPath: "./storage/staging",
			S3Region:  "us-east-1",
		},
	}
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file named by NYAYA_CONFIG, and environment variables (a .env
// file in the working directory is loaded into the environment first)
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	cfg := Defaults()

	if path := os.Getenv("NYAYA_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.Storage.Type == "s3" && cfg.Storage.S3Bucket == "" {
		return Config{}, fmt.Errorf("AWS_S3_BUCKET is required for s3 storage")
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envInt("PORT", cfg.Port)
	cfg.LegalBackendURL = strings.TrimRight(envStr("LEGAL_BACKEND_URL", cfg.LegalBackendURL), "/")
	cfg.DocBackendURL = strings.TrimRight(envStr("DOC_BACKEND_URL", cfg.DocBackendURL), "/")
	cfg.BackendTimeout = envDuration("BACKEND_TIMEOUT", cfg.BackendTimeout)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.StrictParse = envBool("NYAYA_STRICT_PARSE", cfg.StrictParse)
	cfg.SessionTTL = envDuration("NYAYA_SESSION_TTL", cfg.SessionTTL)
	cfg.MaxUploadBytes = int64(envInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	cfg.Storage.Type = envStr("STORAGE_TYPE", cfg.Storage.Type)
	cfg.Storage.LocalPath = envStr("STORAGE_LOCAL_PATH", cfg.Storage.LocalPath)
	cfg.Storage.S3Bucket = envStr("AWS_S3_BUCKET", cfg.Storage.S3Bucket)
	cfg.Storage.S3Region = envStr("AWS_REGION", cfg.Storage.S3Region)
	cfg.Storage.AWSAccessKey = envStr("AWS_ACCESS_KEY_ID", cfg.Storage.AWSAccessKey)
	cfg.Storage.AWSSecretKey = envStr("AWS_SECRET_ACCESS_KEY", cfg.Storage.AWSSecretKey)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
