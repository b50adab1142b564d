// Package app wires configuration and logging for the feedsync CLI.
package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/autolife/feedsync"
	"github.com/autolife/feedsync/internal/unas"
	"github.com/autolife/feedsync/pkg/batch"
)

// Config holds the CLI configuration loaded from flags, environment
// variables, .env files, a config file, and defaults — in that order of
// precedence.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Remote access
	APIKey  string
	BaseURL string
	FeedURL string

	// Shop wiring
	BaseCategoryID        int64
	NewProductsCategoryID int64
	ExternalSKUParam      string
	EANParam              string
	DeliveryTimeParam     string
	ManufacturerParam     string
	Unit                  string
	VATRate               float64
	VATLabel              string

	// Submission protocol
	BatchSize   int
	BatchDelay  time.Duration
	StopOnError bool

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources. configFile, when
// non-empty, names an explicit config file; otherwise .feedsync.yaml is
// searched for in the working directory and the home directory.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// The shop credential is conventionally UNAS_API_KEY.
	_ = v.BindEnv("api_key", "UNAS_API_KEY", "FEEDSYNC_API_KEY", "API_KEY")
	_ = v.BindEnv("feed_url", "FEED_URL")

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName(".feedsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		_ = v.ReadInConfig()
	}

	cfg := &Config{
		ConfigFile: v.ConfigFileUsed(),

		APIKey:  v.GetString("api_key"),
		BaseURL: v.GetString("base_url"),
		FeedURL: v.GetString("feed_url"),

		BaseCategoryID:        v.GetInt64("base_category_id"),
		NewProductsCategoryID: v.GetInt64("new_products_category_id"),
		ExternalSKUParam:      v.GetString("external_sku_param"),
		EANParam:              v.GetString("ean_param"),
		DeliveryTimeParam:     v.GetString("delivery_time_param"),
		ManufacturerParam:     v.GetString("manufacturer_param"),
		Unit:                  v.GetString("unit"),
		VATRate:               v.GetFloat64("vat_rate"),
		VATLabel:              v.GetString("vat_label"),

		BatchSize:   v.GetInt("batch_size"),
		BatchDelay:  v.GetDuration("batch_delay"),
		StopOnError: v.GetBool("stop_on_error"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return cfg, nil
}

// UpdateFromFlags applies parsed global flags. Flags take precedence
// over every other source.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", unas.DefaultBaseURL)

	v.SetDefault("base_category_id", feedsync.DefaultBaseCategoryID)
	v.SetDefault("new_products_category_id", feedsync.DefaultNewProductsCategoryID)
	v.SetDefault("external_sku_param", feedsync.DefaultExternalSKUParam)
	v.SetDefault("ean_param", feedsync.DefaultEANParam)
	v.SetDefault("delivery_time_param", feedsync.DefaultDeliveryTimeParam)
	v.SetDefault("manufacturer_param", feedsync.DefaultManufacturerParam)
	v.SetDefault("unit", "db")
	v.SetDefault("vat_rate", 0.27)
	v.SetDefault("vat_label", "27%")

	v.SetDefault("batch_size", batch.DefaultBatchSize)
	v.SetDefault("batch_delay", batch.DefaultDelay)
	v.SetDefault("stop_on_error", true)

	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// loadEnvFiles loads .env files from the working directory. Missing
// files are fine; .env.local overrides .env for local experiments.
func loadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}
