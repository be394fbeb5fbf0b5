package main

import (
	"stock-simulator/src/auth"
	"stock-simulator/src/interfaces"
	"stock-simulator/src/leaderboard"
	"stock-simulator/src/ledger"
	"stock-simulator/src/logger"
	"stock-simulator/src/market"
)

const feeRate = 0.0003

// -----------------------------------------------------------------------------

func runScenario(log *logger.Logger, engine *market.PriceEngine, store interfaces.IUserRecordStore, authSvc *auth.Service, source *cannedQuoteSource) {
	// Two accounts
	for _, name := range []string{"alice", "bob"} {
		if _, err := authSvc.SignUp(name, "secret", engine.Registry.Symbols()); err != nil {
			log.Critical("signup %s: %v", name, err)
		}
	}

	// Day's first snapshot: real quotes (canned) + synthetic seed for NEWCO
	snapshot := engine.GetAllPrices()
	log.Info("initial snapshot (%d quote calls):", source.calls)
	priceOf := map[string]int64{}
	for _, q := range snapshot {
		log.Info("  %-10s %8d", q.Symbol, q.Price)
		priceOf[q.Symbol] = q.Price
	}

	// alice buys Samsung, bob buys SK hynix
	trade := func(user, sym string, qty int64, buy bool) {
		record, err := store.Get(user)
		if err != nil {
			log.Critical("get %s: %v", user, err)
		}
		op := ledger.Buy
		if !buy {
			op = ledger.Sell
		}
		amount, err := op(&record.Portfolio, sym, qty, priceOf[sym], feeRate)
		if err != nil {
			log.Warning("%s trade rejected: %v", user, err)
			return
		}
		if err := store.Save(record); err != nil {
			log.Critical("save %s: %v", user, err)
		}
		log.Info("%s traded %s x%d, amount %d, cash %d", user, sym, qty, amount, record.Portfolio.Cash)
	}

	trade("alice", "005930.KS", 5, true)
	trade("bob", "000660.KS", 3, true)

	// A few mid-day walks, then alice sells at the walked price
	for i := 0; i < 5; i++ {
		for _, q := range engine.GetAllPrices() {
			priceOf[q.Symbol] = q.Price
		}
	}
	trade("alice", "005930.KS", 5, false)

	// Over-sell is rejected, portfolio untouched
	trade("bob", "000660.KS", 99, false)

	records, err := store.ListAll()
	if err != nil {
		log.Critical("list: %v", err)
	}
	log.Info("leaderboard:")
	for _, e := range leaderboard.Rank(records) {
		log.Info("  #%d %-8s %d", e.Rank, e.Username, e.Cash)
	}
}
