package db

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrSolutionNotFound is returned when a like targets a missing solution.
var ErrSolutionNotFound = errors.New("solution not found")

// UpsertSolution writes userID's solution for a cloud. A user has at most one; the
// first write increments the cloud's solutions_count. created reports that case.
func (db *DB) UpsertSolution(ctx context.Context, cloudID, userID uuid.UUID, body string) (sol *Solution, created bool, err error) {
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clouds WHERE id = $1)`, cloudID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check cloud: %w", err)
		}
		if !exists {
			return ErrCloudNotFound
		}

		var s Solution
		// xmax = 0 only for freshly inserted rows
		err := tx.QueryRow(ctx, `
			INSERT INTO solutions (cloud_id, user_id, body) VALUES ($1, $2, $3)
			ON CONFLICT (cloud_id, user_id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
			RETURNING id, cloud_id, user_id, body, likes_count, created_at, updated_at, (xmax = 0)`,
			cloudID, userID, body,
		).Scan(&s.ID, &s.CloudID, &s.UserID, &s.Body, &s.LikesCount, &s.CreatedAt, &s.UpdatedAt, &created)
		if err != nil {
			return fmt.Errorf("failed to upsert solution: %w", err)
		}

		if created {
			if _, err := tx.Exec(ctx,
				`UPDATE clouds SET solutions_count = solutions_count + 1, updated_at = NOW() WHERE id = $1`, cloudID,
			); err != nil {
				return fmt.Errorf("failed to bump solutions_count: %w", err)
			}
		}
		s.Featured = s.LikesCount >= FeaturedLikes
		sol = &s
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return sol, created, nil
}

// ListSolutions returns a cloud's solutions ordered by SortSolutions. viewerID may be
// uuid.Nil for anonymous readers.
func (db *DB) ListSolutions(ctx context.Context, cloudID, viewerID uuid.UUID) ([]Solution, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT s.id, s.cloud_id, s.user_id, u.name, s.body, s.likes_count, s.created_at, s.updated_at,
			EXISTS (SELECT 1 FROM solution_likes l WHERE l.solution_id = s.id AND l.user_id = $2)
		FROM solutions s JOIN users u ON u.id = s.user_id
		WHERE s.cloud_id = $1
		ORDER BY s.updated_at DESC`,
		cloudID, viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	solutions := []Solution{}
	for rows.Next() {
		var s Solution
		if err := rows.Scan(&s.ID, &s.CloudID, &s.UserID, &s.AuthorName, &s.Body, &s.LikesCount,
			&s.CreatedAt, &s.UpdatedAt, &s.LikedByMe); err != nil {
			return nil, fmt.Errorf("failed to scan solution: %w", err)
		}
		s.Featured = s.LikesCount >= FeaturedLikes
		solutions = append(solutions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}

	SortSolutions(solutions)
	return solutions, nil
}

// SortSolutions orders by likes descending, then the viewer's liked ones first. Ties
// beyond that keep their incoming order.
func SortSolutions(s []Solution) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].LikesCount != s[j].LikesCount {
			return s[i].LikesCount > s[j].LikesCount
		}
		return s[i].LikedByMe && !s[j].LikedByMe
	})
}

// ToggleLike flips userID's like on a solution and returns the new state and count.
func (db *DB) ToggleLike(ctx context.Context, solutionID, userID uuid.UUID) (liked bool, likes int, err error) {
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT likes_count FROM solutions WHERE id = $1 FOR UPDATE`, solutionID).Scan(&likes)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSolutionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock solution: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM solution_likes WHERE solution_id = $1 AND user_id = $2`, solutionID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}
		before := tag.RowsAffected() > 0
		liked = !before
		if liked {
			if _, err := tx.Exec(ctx,
				`INSERT INTO solution_likes (solution_id, user_id) VALUES ($1, $2)`, solutionID, userID,
			); err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
		}

		err = tx.QueryRow(ctx,
			`UPDATE solutions SET likes_count = GREATEST(likes_count + $1, 0) WHERE id = $2 RETURNING likes_count`,
			ToggleDelta(before, liked), solutionID,
		).Scan(&likes)
		if err != nil {
			return fmt.Errorf("failed to update likes_count: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}
