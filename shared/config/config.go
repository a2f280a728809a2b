package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI         AIConfig         `yaml:"ai"`
	Engine     EngineConfig     `yaml:"engine"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Audit      AuditConfig      `yaml:"audit"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

type AIConfig struct {
	GeminiAPIKey      string  `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model             string  `yaml:"model"`
	Temperature       float32 `yaml:"temperature"`
	MaxOutputTokens   int     `yaml:"max_output_tokens"`
	RequestTimeoutSec int     `yaml:"request_timeout_seconds"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

type EngineConfig struct {
	CompanyName string `yaml:"company_name"`
	// CustomerCompanies is matched against a prospect's prior employers
	// to detect a shared-employer opener.
	CustomerCompanies []string `yaml:"customer_companies"`
}

type KnowledgeConfig struct {
	IndustryFile string `yaml:"industry_file"`
	// RefreshSchedule reloads the industry table on a cron schedule so
	// knowledge stays a data artifact, not a code change.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

type AuditConfig struct {
	DataDir string `yaml:"data_dir"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.5-flash"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.7
	}
	if cfg.AI.MaxOutputTokens == 0 {
		cfg.AI.MaxOutputTokens = 1024
	}
	if cfg.AI.RequestTimeoutSec == 0 {
		cfg.AI.RequestTimeoutSec = 30
	}
	if cfg.AI.RequestsPerMinute == 0 {
		cfg.AI.RequestsPerMinute = 60
	}
	if cfg.Knowledge.IndustryFile == "" {
		cfg.Knowledge.IndustryFile = "industries.yaml"
	}
	if cfg.Knowledge.RefreshSchedule == "" {
		cfg.Knowledge.RefreshSchedule = "0 6 * * *" // Daily at 6 AM
	}
	if cfg.Audit.DataDir == "" {
		cfg.Audit.DataDir = "data"
	}
	if cfg.Monitoring.HealthPort == 0 {
		cfg.Monitoring.HealthPort = 8080
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Engine.CompanyName == "" {
		return fmt.Errorf("sender company name is required (set engine.company_name)")
	}
	return nil
}
