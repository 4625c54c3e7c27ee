package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// flagTable describes a per-user boolean on a cloud and the counter it feeds.
type flagTable struct {
	table   string
	counter string
}

var (
	ratingFlag   = flagTable{table: "cloud_ratings", counter: "helpful_count"}
	bookmarkFlag = flagTable{table: "cloud_bookmarks", counter: "bookmark_count"}
)

// ErrCloudNotFound is returned when a reaction targets a missing cloud.
var ErrCloudNotFound = errors.New("cloud not found")

// SetHelpful records whether userID found the cloud helpful and returns the new
// helpful count.
func (db *DB) SetHelpful(ctx context.Context, cloudID, userID uuid.UUID, on bool) (int, error) {
	return db.setFlag(ctx, ratingFlag, cloudID, userID, on)
}

// SetBookmark records whether userID bookmarked the cloud and returns the new
// bookmark count.
func (db *DB) SetBookmark(ctx context.Context, cloudID, userID uuid.UUID, on bool) (int, error) {
	return db.setFlag(ctx, bookmarkFlag, cloudID, userID, on)
}

func (db *DB) setFlag(ctx context.Context, f flagTable, cloudID, userID uuid.UUID, on bool) (int, error) {
	var count int
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		// lock the cloud row so concurrent toggles serialize
		err := tx.QueryRow(ctx, `SELECT `+f.counter+` FROM clouds WHERE id = $1 FOR UPDATE`, cloudID).Scan(&count)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCloudNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock cloud: %w", err)
		}

		var before bool
		err = tx.QueryRow(ctx,
			`SELECT is_on FROM `+f.table+` WHERE cloud_id = $1 AND user_id = $2`, cloudID, userID,
		).Scan(&before)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to read %s: %w", f.table, err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO `+f.table+` (cloud_id, user_id, is_on) VALUES ($1, $2, $3)
			ON CONFLICT (cloud_id, user_id) DO UPDATE SET is_on = EXCLUDED.is_on, updated_at = NOW()`,
			cloudID, userID, on,
		); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.table, err)
		}

		delta := ToggleDelta(before, on)
		if delta == 0 {
			return nil
		}
		err = tx.QueryRow(ctx,
			`UPDATE clouds SET `+f.counter+` = GREATEST(`+f.counter+` + $1, 0), updated_at = NOW()
			 WHERE id = $2 RETURNING `+f.counter,
			delta, cloudID,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", f.counter, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetViewerState returns what userID has done to the cloud.
func (db *DB) GetViewerState(ctx context.Context, cloudID, userID uuid.UUID) (ViewerState, error) {
	var s ViewerState
	err := db.pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT is_on FROM cloud_ratings WHERE cloud_id = $1 AND user_id = $2), FALSE),
			COALESCE((SELECT is_on FROM cloud_bookmarks WHERE cloud_id = $1 AND user_id = $2), FALSE),
			EXISTS (SELECT 1 FROM solutions WHERE cloud_id = $1 AND user_id = $2)`,
		cloudID, userID,
	).Scan(&s.Helpful, &s.Bookmarked, &s.HasSolution)
	if err != nil {
		return ViewerState{}, fmt.Errorf("failed to get viewer state: %w", err)
	}
	return s, nil
}

// ListBookmarkedClouds returns the clouds userID bookmarked, newest bookmark first.
func (db *DB) ListBookmarkedClouds(ctx context.Context, userID uuid.UUID, limit int) ([]Cloud, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx, `
		SELECT `+prefixed("c.", cloudColumns)+`
		FROM clouds c JOIN cloud_bookmarks b ON b.cloud_id = c.id
		WHERE b.user_id = $1 AND b.is_on AND c.status = $2
		ORDER BY b.updated_at DESC
		LIMIT $3`,
		userID, StatusActive, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	clouds := []Cloud{}
	for rows.Next() {
		c, err := scanCloud(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cloud: %w", err)
		}
		clouds = append(clouds, *c)
	}
	return clouds, rows.Err()
}
