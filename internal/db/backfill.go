package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BackfillResult is the outcome for one cloud.
type BackfillResult struct {
	CloudID uuid.UUID
	Count   int
	Err     error
}

// BackfillReport summarizes a backfill run.
type BackfillReport struct {
	OK      int
	NG      int
	Results []BackfillResult
}

// BackfillSolutionCounts recounts solutions_count for every cloud. A failure on one
// cloud is recorded and does not stop the others. progress, when set, is called after
// each cloud from the worker goroutine that handled it.
func (db *DB) BackfillSolutionCounts(ctx context.Context, concurrency int, progress func(BackfillResult)) (*BackfillReport, error) {
	ids, err := db.listCloudIDs(ctx)
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	report := &BackfillReport{Results: make([]BackfillResult, len(ids))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			res := BackfillResult{CloudID: id}
			res.Count, res.Err = db.recountSolutions(gctx, id)

			mu.Lock()
			report.Results[i] = res
			if res.Err != nil {
				report.NG++
			} else {
				report.OK++
			}
			mu.Unlock()

			if progress != nil {
				progress(res)
			}
			// per-cloud failures are reported, not propagated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, ctx.Err()
}

func (db *DB) listCloudIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := db.pool.Query(ctx, `SELECT id FROM clouds ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clouds: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cloud id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) recountSolutions(ctx context.Context, cloudID uuid.UUID) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx, `
		UPDATE clouds SET solutions_count = (SELECT COUNT(*) FROM solutions WHERE cloud_id = $1)
		WHERE id = $1 RETURNING solutions_count`,
		cloudID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to recount solutions for %s: %w", cloudID, err)
	}
	return count, nil
}
