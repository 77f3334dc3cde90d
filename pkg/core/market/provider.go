// Package market supplies the read-only market snapshot the ratio engine prices filings against.
package market

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"alpha_engine/pkg/core/calc"
	"alpha_engine/pkg/models"

	"gopkg.in/yaml.v2"
)

// ErrUnknownTicker means the provider has no snapshot for the ticker.
var ErrUnknownTicker = errors.New("no market data for ticker")

// Provider returns the current market snapshot for a ticker.
type Provider interface {
	Snapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error)
}

// Static is an in-memory provider keyed by upper-case ticker.
type Static map[string]models.MarketSnapshot

// Snapshot implements Provider.
func (s Static) Snapshot(_ context.Context, ticker string) (models.MarketSnapshot, error) {
	snap, ok := s[strings.ToUpper(ticker)]
	if !ok {
		return models.MarketSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	snap.Ticker = strings.ToUpper(ticker)
	if snap.RiskFreeRate == 0 {
		snap.RiskFreeRate = calc.DefaultRiskFreeRate
	}
	return snap, nil
}

// snapshotFile is the YAML layout read by FileProvider:
//
//	risk_free_rate: 0.043
//	tickers:
//	  AAPL:
//	    price: 190.5
//	    market_cap: 2.95e12
//	    beta: 1.2
type snapshotFile struct {
	RiskFreeRate float64                          `yaml:"risk_free_rate"`
	Tickers      map[string]models.MarketSnapshot `yaml:"tickers"`
}

// FileProvider serves snapshots from a YAML file, read once on first use.
// A ticker without its own risk_free_rate takes the file-level rate, then DefaultRiskFreeRate.
type FileProvider struct {
	Path string

	once sync.Once
	data Static
	err  error
}

// NewFileProvider creates a provider over the YAML file at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Snapshot implements Provider.
func (p *FileProvider) Snapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error) {
	p.once.Do(p.load)
	if p.err != nil {
		return models.MarketSnapshot{}, p.err
	}
	return p.data.Snapshot(ctx, ticker)
}

func (p *FileProvider) load() {
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		p.err = fmt.Errorf("failed to read market data: %w", err)
		return
	}

	var f snapshotFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		p.err = fmt.Errorf("failed to parse market data %s: %w", p.Path, err)
		return
	}

	p.data = make(Static, len(f.Tickers))
	for ticker, snap := range f.Tickers {
		if snap.RiskFreeRate == 0 {
			snap.RiskFreeRate = f.RiskFreeRate
		}
		p.data[strings.ToUpper(ticker)] = snap
	}
}
