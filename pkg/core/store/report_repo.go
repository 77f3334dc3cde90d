package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"alpha_engine/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRuns means nothing has been saved for the ticker yet.
var ErrNoRuns = errors.New("no saved analysis runs")

// Run is one persisted analysis: the filings used and the resulting report.
type Run struct {
	ID        uuid.UUID              `json:"run_id"`
	Ticker    string                 `json:"ticker"`
	CreatedAt time.Time              `json:"created_at"`
	Market    models.MarketSnapshot  `json:"market"`
	Current   *models.FilingRecord   `json:"current"`
	Previous  *models.FilingRecord   `json:"previous,omitempty"`
	Report    models.MetricsReport   `json:"report"`
	History   []models.HistoryPoint  `json:"history,omitempty"`
	Filings   []*models.FilingRecord `json:"filings,omitempty"`
}

// NewRun stamps a run with a fresh id and the current time.
func NewRun(ticker string) *Run {
	return &Run{
		ID:        uuid.New(),
		Ticker:    strings.ToUpper(ticker),
		CreatedAt: time.Now().UTC(),
	}
}

// Repository persists analysis runs.
type Repository interface {
	Save(ctx context.Context, run *Run) error
	Latest(ctx context.Context, ticker string) (*Run, error)
}

// ReportRepo stores runs in Postgres when a pool is configured and as JSON files under dir
// otherwise (or in addition, when both are set).
type ReportRepo struct {
	pool *pgxpool.Pool
	dir  string
}

// NewReportRepo creates a repository. With a nil pool and an empty dir, runs go to
// .cache/runs in the working directory.
func NewReportRepo(p *pgxpool.Pool, dir string) *ReportRepo {
	if p == nil && dir == "" {
		dir = filepath.Join(".cache", "runs")
	}
	return &ReportRepo{pool: p, dir: dir}
}

// Save persists the run.
func (r *ReportRepo) Save(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("nil run")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	// 1. Save to DB
	if r.pool != nil {
		query := `
			INSERT INTO analysis_runs (run_id, ticker, report_date, run_json, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (run_id)
			DO UPDATE SET run_json = EXCLUDED.run_json
		`
		_, err = r.pool.Exec(ctx, query, run.ID, run.Ticker, run.Report.ReportDate, data, run.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
	}

	// 2. Save to file
	if r.dir != "" {
		dir := filepath.Join(r.dir, run.Ticker)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create run dir: %w", err)
		}
		name := fmt.Sprintf("%s_%s.json", run.CreatedAt.Format("20060102T150405.000000000"), run.ID)
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("failed to write run file: %w", err)
		}
	}
	return nil
}

// Latest loads the most recent run for ticker.
func (r *ReportRepo) Latest(ctx context.Context, ticker string) (*Run, error) {
	ticker = strings.ToUpper(ticker)

	if r.pool != nil {
		query := `SELECT run_json FROM analysis_runs WHERE ticker = $1 ORDER BY created_at DESC LIMIT 1`
		var data []byte
		err := r.pool.QueryRow(ctx, query, ticker).Scan(&data)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", ErrNoRuns, ticker)
			}
			return nil, fmt.Errorf("failed to load run: %w", err)
		}
		return decodeRun(data)
	}

	entries, err := os.ReadDir(filepath.Join(r.dir, ticker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRuns, ticker)
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRuns, ticker)
	}
	sort.Strings(names)

	data, err := os.ReadFile(filepath.Join(r.dir, ticker, names[len(names)-1]))
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}
	return decodeRun(data)
}

func decodeRun(data []byte) (*Run, error) {
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}
