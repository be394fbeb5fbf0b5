package main

import (
	"flag"
	"fmt"
	"os"

	"stock-simulator/src/auth"
	"stock-simulator/src/config"
	"stock-simulator/src/interfaces"
	"stock-simulator/src/logger"
	"stock-simulator/src/market"
	"stock-simulator/src/quotesource/yahoo"
	"stock-simulator/src/server"
	"stock-simulator/src/storage"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// 2. Setup persistence
	var store interfaces.IUserRecordStore

	switch cfg.Storage.DBType {
	case "postgres":
		store = storage.NewPostgresStore(cfg.Storage.DBConnectionString, appLogger.Named("PostgresStore"))
	case "sqlite":
		store = storage.NewSQLiteStore(cfg.Storage.DBPath, appLogger.Named("SQLiteStore"))
	default:
		// Default to the flat JSON file
		store = storage.NewJSONFileStore(cfg.Storage.DBPath, appLogger.Named("JSONFileStore"))
	}

	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to init store: %v", err)
	}
	defer store.Close()

	// 3. Market components
	registry := market.NewTickerRegistry()
	source := yahoo.NewYahooQuoteSource(cfg.Market, appLogger.Named("YahooQuoteSource"))
	engine := market.NewPriceEngine(cfg.Market, registry, source, appLogger.Named("PriceEngine"))

	// Seed the registry from config
	for _, t := range cfg.Tickers {
		if _, err := engine.RegisterTicker(t.Symbol, t.DisplayName); err != nil {
			appLogger.Critical("Failed to register ticker %q: %v", t.Symbol, err)
		}
	}
	appLogger.Info("Registered %d tickers", len(cfg.Tickers))

	// 4. Accounts + HTTP surface
	authSvc := auth.NewService(store, cfg.Trading.StartingCash)
	srv := server.NewAPIServer(cfg, appLogger.Named("APIServer"), engine, store, authSvc)

	if err := srv.Start(); err != nil {
		appLogger.Critical("Server stopped: %v", err)
	}
}
