package main

import (
	"walctl/internal/config"
	"walctl/internal/ledger"
	"walctl/internal/walrus"
)

func newAPIClient(cfg *config.Config) *walrus.Client {
	return walrus.NewClient(cfg.PublisherURL, cfg.AggregatorURL)
}

func withClient(cfg *config.Config, fn func(*walrus.Client) error) error {
	return fn(newAPIClient(cfg))
}

// withLedger opens the local store ledger for the duration of fn.
func withLedger(cfg *config.Config, fn func(*ledger.Ledger) error) error {
	l, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer l.Close()
	return fn(l)
}
