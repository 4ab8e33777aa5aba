package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the immutable runtime configuration. It is built once by Load
// and passed by value to the components that need it; nothing reads ambient
// viper state after startup.
type Config struct {
	BotToken    string       `mapstructure:"bot_token"`
	BackendURL  string       `mapstructure:"backend_url"`
	ArchivePath string       `mapstructure:"archive_path"`
	Export      ExportConfig `mapstructure:"export"`
	Query       QueryConfig  `mapstructure:"query"`
}

// ExportConfig tunes the bulk export pipeline.
type ExportConfig struct {
	PageSize         int           `mapstructure:"page_size"`         // messages per history fetch, API caps at 100
	PageDelay        time.Duration `mapstructure:"page_delay"`        // pause between history fetches
	BatchSize        int           `mapstructure:"batch_size"`        // records per delivery batch
	BatchDelay       time.Duration `mapstructure:"batch_delay"`       // pause between batch deliveries
	ProgressInterval int           `mapstructure:"progress_interval"` // status update every N extracted messages
}

// QueryConfig tunes the query command.
type QueryConfig struct {
	TopK         int    `mapstructure:"top_k"`
	ResponseMode string `mapstructure:"response_mode"` // "llm" or "retrieval"
	SourceBudget int    `mapstructure:"source_budget"` // rune budget per source line
}

// Load reads configuration from a .env file, an optional config.yaml, and
// environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults also register the keys so AutomaticEnv can override them.
	v.SetDefault("bot_token", "")
	v.SetDefault("backend_url", "")
	v.SetDefault("archive_path", "data/relay.db")
	v.SetDefault("export.page_size", 100)
	v.SetDefault("export.page_delay", "100ms")
	v.SetDefault("export.batch_size", 1000)
	v.SetDefault("export.batch_delay", "100ms")
	v.SetDefault("export.progress_interval", 50)
	v.SetDefault("query.top_k", 5)
	v.SetDefault("query.response_mode", "llm")
	v.SetDefault("query.source_budget", 195)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config.yaml found, using environment variables and defaults.")
		} else {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("no bot token provided, set BOT_TOKEN")
	}
	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("no backend URL provided, set BACKEND_URL")
	}
	if cfg.Export.PageSize < 1 || cfg.Export.PageSize > 100 {
		return Config{}, fmt.Errorf("export.page_size must be between 1 and 100, got %d", cfg.Export.PageSize)
	}
	if cfg.Export.BatchSize < 1 {
		return Config{}, fmt.Errorf("export.batch_size must be positive, got %d", cfg.Export.BatchSize)
	}

	return cfg, nil
}
