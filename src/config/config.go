package config

import (
	"fmt"
	"os"

	"stock-simulator/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Defaults applied by Validate when the YAML leaves a tunable at zero.
const (
	DefaultStartingCash = 1_000_000
	DefaultFeeRate      = 0.0003
	DefaultPriceFloor   = 1000
	DefaultWalkDelta    = 1000
	DefaultFallbackMin  = 50_000
	DefaultFallbackMax  = 300_000
	DefaultHistorySize  = 256
	DefaultQuoteTimeout = 10
	DefaultQuoteRetries = 2
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation and fills defaults.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Storage
	switch c.Storage.DBType {
	case "":
		return fmt.Errorf("database type cannot be empty")
	case "jsonfile", "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for %s", c.Storage.DBType)
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Storage.DBType)
	}

	// Trading defaults
	if c.Trading.StartingCash == 0 {
		c.Trading.StartingCash = DefaultStartingCash
	}
	if c.Trading.StartingCash < 0 {
		return fmt.Errorf("starting cash cannot be negative")
	}
	if c.Trading.FeeRate == 0 {
		c.Trading.FeeRate = DefaultFeeRate
	}
	if c.Trading.FeeRate < 0 || c.Trading.FeeRate >= 1 {
		return fmt.Errorf("fee rate must be in [0, 1): %f", c.Trading.FeeRate)
	}

	// Market defaults
	if c.Market.PriceFloor == 0 {
		c.Market.PriceFloor = DefaultPriceFloor
	}
	if c.Market.WalkDelta == 0 {
		c.Market.WalkDelta = DefaultWalkDelta
	}
	if c.Market.FallbackMin == 0 {
		c.Market.FallbackMin = DefaultFallbackMin
	}
	if c.Market.FallbackMax == 0 {
		c.Market.FallbackMax = DefaultFallbackMax
	}
	if c.Market.PriceFloor <= 0 || c.Market.WalkDelta <= 0 {
		return fmt.Errorf("price floor and walk delta must be positive")
	}
	if c.Market.FallbackMin <= 0 || c.Market.FallbackMax <= c.Market.FallbackMin {
		return fmt.Errorf("invalid fallback price range [%d, %d]", c.Market.FallbackMin, c.Market.FallbackMax)
	}
	if c.Market.HistorySize == 0 {
		c.Market.HistorySize = DefaultHistorySize
	}
	if c.Market.QuoteTimeout == 0 {
		c.Market.QuoteTimeout = DefaultQuoteTimeout
	}
	if c.Market.QuoteRetries == 0 {
		c.Market.QuoteRetries = DefaultQuoteRetries
	}

	// Tickers
	if len(c.Tickers) == 0 {
		return fmt.Errorf("at least one ticker must be configured")
	}
	for i, t := range c.Tickers {
		if t.Symbol == "" {
			return fmt.Errorf("ticker %d must have a symbol", i)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
