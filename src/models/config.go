package models

// MConfig Structure
type MConfig struct {
	Name     string          `yaml:"name"`
	Host     string          `yaml:"host"`
	Port     int             `yaml:"port"`
	LogLevel string          `yaml:"log_level"`
	Storage  MStorageConfig  `yaml:"storage"`
	Market   MMarketConfig   `yaml:"market"`
	Trading  MTradingConfig  `yaml:"trading"`
	Admin    MAdminConfig    `yaml:"admin"`
	Tickers  []MTickerConfig `yaml:"tickers"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // "jsonfile", "sqlite" or "postgres"
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

// MMarketConfig holds the simulated price process tunables.
type MMarketConfig struct {
	PriceFloor   int64  `yaml:"price_floor"`
	WalkDelta    int64  `yaml:"walk_delta"`
	FallbackMin  int64  `yaml:"fallback_min"`
	FallbackMax  int64  `yaml:"fallback_max"`
	HistorySize  int    `yaml:"history_size"`
	QuoteTimeout int    `yaml:"quote_timeout"`
	QuoteRetries int    `yaml:"quote_retries"`
	UserAgent    string `yaml:"user_agent"`
}

type MTradingConfig struct {
	StartingCash int64   `yaml:"starting_cash"`
	FeeRate      float64 `yaml:"fee_rate"`
}

type MAdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type MTickerConfig struct {
	Symbol      string `yaml:"symbol"`
	DisplayName string `yaml:"display_name"`
}
