package filing

import (
	"context"
	"runtime"

	"alpha_engine/pkg/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Job is one filing to extract, with the form its archive folder implies.
type Job struct {
	Path     string
	FormHint string
}

// Batch extracts every job with at most workers parses in flight and returns the successful
// records sorted newest first. Failed filings are logged and skipped. Once ctx is cancelled no
// further jobs are started; parses already running complete and their records are kept.
func (e *Extractor) Batch(ctx context.Context, jobs []Job, workers int) []*models.FilingRecord {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*models.FilingRecord, len(jobs))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, job := range jobs {
		if ctx.Err() != nil {
			log.Warn().Int("Remaining", len(jobs)-i).Msg("batch cancelled, not starting remaining filings")
			break
		}
		i, job := i, job // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			rec, err := e.ExtractWithHint(job.Path, job.FormHint)
			if err != nil {
				log.Warn().Err(err).Str("File", job.Path).Msg("skipping filing")
				return nil
			}
			results[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	records := make([]*models.FilingRecord, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}
	SortNewestFirst(records)
	return records
}

// BatchPaths is Batch over plain paths without form hints.
func (e *Extractor) BatchPaths(ctx context.Context, paths []string, workers int) []*models.FilingRecord {
	jobs := make([]Job, len(paths))
	for i, p := range paths {
		jobs[i] = Job{Path: p}
	}
	return e.Batch(ctx, jobs, workers)
}

// SortNewestFirst orders records by period end date, latest first. Downstream derivation and
// ratio code is positional and relies on this order.
func SortNewestFirst(records []*models.FilingRecord) {
	models.SortNewestFirst(records)
}
