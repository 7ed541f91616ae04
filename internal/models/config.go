package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	AccessToken string `mapstructure:"access_token"`
	LocationID  string `mapstructure:"location_id"`
	Environment string `mapstructure:"environment"` // "production" or "sandbox"

	Timezone  string        `mapstructure:"timezone"`
	DaysBack  int           `mapstructure:"days_back"`  // updated_at lookback window
	DaysAhead int           `mapstructure:"days_ahead"` // pickup dates to report, today inclusive
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	PageLimit int           `mapstructure:"page_limit"`

	OutputFormat      string `mapstructure:"output_format"` // console, csv, json, parquet, postgres
	OutputPath        string `mapstructure:"output_path"`
	OutputFolder      string `mapstructure:"output_folder"`
	OutputDestination string `mapstructure:"output_destination"` // local or s3

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	KafkaTopicPrefix string `mapstructure:"kafka_topic_prefix"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	Database     DatabaseConfig     `mapstructure:"database"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`

	Continuous   bool `mapstructure:"continuous"`
	Demo         bool `mapstructure:"demo"`
	ShowProgress bool `mapstructure:"show_progress"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	// The original deployment configures credentials through the environment
	viper.BindEnv("access_token", "SQUARE_ACCESS_TOKEN")
	viper.BindEnv("location_id", "SQUARE_LOCATION_ID")

	viper.SetDefault("environment", "production")
	viper.SetDefault("timezone", "America/Los_Angeles")
	viper.SetDefault("days_back", 14)
	viper.SetDefault("days_ahead", 2)
	viper.SetDefault("cache_ttl", "2m")
	viper.SetDefault("page_limit", 1000)
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_destination", "local")

	if err := viper.ReadInConfig(); err != nil {
		// A config file is optional; flags, env vars and defaults suffice
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// Validate checks the inputs the pipeline cannot run without. Demo mode
// needs no upstream credentials.
func (cfg *Config) Validate() error {
	if !cfg.Demo {
		if cfg.AccessToken == "" {
			return fmt.Errorf("missing access token (set SQUARE_ACCESS_TOKEN or access_token)")
		}
		if cfg.LocationID == "" {
			return fmt.Errorf("missing location id (set SQUARE_LOCATION_ID or location_id)")
		}
	}
	if cfg.DaysAhead < 1 {
		return fmt.Errorf("days_ahead must be at least 1, got %d", cfg.DaysAhead)
	}
	if cfg.DaysBack < 0 {
		return fmt.Errorf("days_back must not be negative, got %d", cfg.DaysBack)
	}
	return nil
}
