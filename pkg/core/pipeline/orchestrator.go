// Package pipeline runs the end-to-end flow for one ticker or a peer group:
// archive lookup -> batch extraction -> routing and ratios -> history -> storage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"alpha_engine/pkg/core/calc"
	"alpha_engine/pkg/core/filing"
	"alpha_engine/pkg/core/ingest"
	"alpha_engine/pkg/core/market"
	"alpha_engine/pkg/core/store"
	"alpha_engine/pkg/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoRecords means no filing of the ticker could be extracted.
var ErrNoRecords = errors.New("no usable filings")

// Limits bounds how much work one ticker gets.
type Limits struct {
	Annual    int // 10-K filings read per ticker
	Quarterly int // 10-Q filings read per ticker
	Workers   int // concurrent parses
}

// DefaultLimits reads two annual and four quarterly filings: enough for a Q4 derivation plus the
// prior annual report as fallback.
var DefaultLimits = Limits{Annual: 2, Quarterly: 4}

// Result is the full output of one ticker run.
type Result struct {
	Ticker   string
	Market   models.MarketSnapshot
	Records  []*models.FilingRecord
	Analysis *calc.Analysis
	History  []models.HistoryPoint
	RunID    string
}

// Orchestrator wires the filing source, extractor, market data and optional storage.
type Orchestrator struct {
	source    ingest.FilingSource
	extractor *filing.Extractor
	market    market.Provider
	repo      store.Repository
	limits    Limits
}

// NewOrchestrator creates an orchestrator. Storage is off until SetRepository is called.
func NewOrchestrator(source ingest.FilingSource, extractor *filing.Extractor, provider market.Provider) *Orchestrator {
	return &Orchestrator{
		source:    source,
		extractor: extractor,
		market:    provider,
		limits:    DefaultLimits,
	}
}

// SetRepository enables persistence of every successful run.
func (o *Orchestrator) SetRepository(repo store.Repository) {
	o.repo = repo
}

// SetLimits overrides the per-ticker filing counts and worker count; zero fields keep defaults.
func (o *Orchestrator) SetLimits(l Limits) {
	if l.Annual > 0 {
		o.limits.Annual = l.Annual
	}
	if l.Quarterly > 0 {
		o.limits.Quarterly = l.Quarterly
	}
	if l.Workers > 0 {
		o.limits.Workers = l.Workers
	}
}

// Records extracts the ticker's archived annual and quarterly filings, newest first.
func (o *Orchestrator) Records(ctx context.Context, ticker string) ([]*models.FilingRecord, error) {
	var jobs []filing.Job
	for _, want := range []struct {
		form  string
		count int
	}{
		{models.FormAnnual, o.limits.Annual},
		{models.FormQuarterly, o.limits.Quarterly},
	} {
		paths, err := o.source.FilingPaths(ticker, want.form, want.count)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s filings for %s: %w", want.form, ticker, err)
		}
		for _, p := range paths {
			jobs = append(jobs, filing.Job{Path: p, FormHint: want.form})
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: no archived filings for %s", ErrNoRecords, ticker)
	}

	records := o.extractor.Batch(ctx, jobs, o.limits.Workers)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: all %d filings of %s failed to extract", ErrNoRecords, len(jobs), ticker)
	}
	return records, nil
}

// Run executes the full pipeline for a single company.
func (o *Orchestrator) Run(ctx context.Context, ticker string) (*Result, error) {
	ticker = strings.ToUpper(ticker)
	start := time.Now()
	log.Info().Str("Ticker", ticker).Msg("starting analysis")

	snap, err := o.market.Snapshot(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("market data for %s: %w", ticker, err)
	}

	records, err := o.Records(ctx, ticker)
	if err != nil {
		return nil, err
	}

	analysis, err := calc.Analyze(records, snap)
	if err != nil {
		return nil, fmt.Errorf("analysis of %s: %w", ticker, err)
	}

	res := &Result{
		Ticker:   ticker,
		Market:   snap,
		Records:  records,
		Analysis: analysis,
		History:  calc.History(records, snap),
	}

	if o.repo != nil {
		run := store.NewRun(ticker)
		run.Market = snap
		run.Current = analysis.Current
		run.Previous = analysis.Previous
		run.Report = analysis.Report
		run.History = res.History
		run.Filings = records
		if err := o.repo.Save(ctx, run); err != nil {
			log.Error().Err(err).Str("Ticker", ticker).Msg("failed to save run")
		} else {
			res.RunID = run.ID.String()
		}
	}

	log.Info().
		Str("Ticker", ticker).
		Int("Filings", len(records)).
		Str("Comparison", analysis.String()).
		Dur("Elapsed", time.Since(start)).
		Msg("analysis complete")
	return res, nil
}

// History extracts the ticker's archived filings and returns the trend series, oldest first.
// Nothing is persisted.
func (o *Orchestrator) History(ctx context.Context, ticker string) ([]models.HistoryPoint, error) {
	snap, err := o.market.Snapshot(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("market data for %s: %w", ticker, err)
	}
	records, err := o.Records(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return calc.History(records, snap), nil
}

// Scan runs every ticker concurrently and returns their summaries ranked by FCF yield, highest
// first. Tickers that fail are logged and left out; the error lists them.
func (o *Orchestrator) Scan(ctx context.Context, tickers []string, concurrency int) ([]models.PeerSummary, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	var (
		mu      sync.Mutex
		peers   []models.PeerSummary
		failed  []string
		failErr []error
	)

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for _, ticker := range tickers {
		if ctx.Err() != nil {
			break
		}
		ticker := ticker // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			res, err := o.Run(ctx, ticker)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("Ticker", ticker).Msg("skipping ticker in scan")
				failed = append(failed, strings.ToUpper(ticker))
				failErr = append(failErr, err)
				return nil
			}
			peers = append(peers, calc.Summarize(res.Ticker, res.Analysis.Report))
			return nil
		})
	}
	_ = g.Wait()

	RankByFCFYield(peers)
	if len(failed) > 0 {
		sort.Strings(failed)
		return peers, fmt.Errorf("scan skipped %s: %w", strings.Join(failed, ", "), errors.Join(failErr...))
	}
	return peers, nil
}

// RankByFCFYield sorts peers by FCF yield, highest first; ties keep ticker order.
func RankByFCFYield(peers []models.PeerSummary) {
	sort.SliceStable(peers, func(i, j int) bool {
		if peers[i].FCFYield != peers[j].FCFYield {
			return peers[i].FCFYield > peers[j].FCFYield
		}
		return peers[i].Ticker < peers[j].Ticker
	})
}
