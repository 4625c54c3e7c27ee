package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cloudColumns = `id, owner_id, title, title_auto, a, b_raw, b_normalized, c_raw, c_normalized,
	d, d_prime, context, reason_d_blocks_c, reason_dprime_blocks_b, conflict_type, tags,
	visibility, status, helpful_count, bookmark_count, solutions_count, created_at, updated_at`

func scanCloud(row pgx.Row) (*Cloud, error) {
	var c Cloud
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.TitleAuto, &c.A, &c.BRaw, &c.BNormalized, &c.CRaw, &c.CNormalized,
		&c.D, &c.Dprime, &c.Context, &c.ReasonDBlocksC, &c.ReasonDprimeBlocksB, &c.ConflictType, &c.Tags,
		&c.Visibility, &c.Status, &c.HelpfulCount, &c.BookmarkCount, &c.SolutionsCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c, nil
}

// CreateCloud stores a new active cloud with zeroed counters.
func (db *DB) CreateCloud(ctx context.Context, in CloudInput) (*Cloud, error) {
	if !in.ConflictType.Valid() {
		return nil, fmt.Errorf("invalid conflict type %q", in.ConflictType)
	}
	visibility := in.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, fmt.Errorf("invalid visibility %q", visibility)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	c, err := scanCloud(db.pool.QueryRow(ctx, `
		INSERT INTO clouds (owner_id, title, title_auto, a, b_raw, b_normalized, c_raw, c_normalized,
			d, d_prime, context, reason_d_blocks_c, reason_dprime_blocks_b, conflict_type, tags, visibility, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+cloudColumns,
		in.OwnerID, in.Title, in.TitleAuto, in.A, in.BRaw, in.BNormalized, in.CRaw, in.CNormalized,
		in.D, in.Dprime, in.Context, in.ReasonDBlocksC, in.ReasonDprimeBlocksB, string(in.ConflictType), tags,
		string(visibility), StatusActive,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud: %w", err)
	}
	return c, nil
}

// GetCloud returns the cloud, or nil when it does not exist.
func (db *DB) GetCloud(ctx context.Context, id uuid.UUID) (*Cloud, error) {
	c, err := scanCloud(db.pool.QueryRow(ctx, `SELECT `+cloudColumns+` FROM clouds WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cloud: %w", err)
	}
	return c, nil
}

// ListClouds returns active public clouds matching f.
func (db *DB) ListClouds(ctx context.Context, f CloudFilter) ([]Cloud, error) {
	query, args := buildListCloudsQuery(f)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clouds: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list clouds: %w", err)
	}
	return clouds, nil
}

func buildListCloudsQuery(f CloudFilter) (string, []any) {
	var sb strings.Builder
	args := []any{StatusActive, string(VisibilityPublic)}
	sb.WriteString(`SELECT ` + cloudColumns + ` FROM clouds WHERE status = $1 AND visibility = $2`)

	if f.ConflictType != "" {
		args = append(args, string(f.ConflictType))
		fmt.Fprintf(&sb, ` AND conflict_type = $%d`, len(args))
	}
	if len(f.Tags) > 0 {
		args = append(args, f.Tags)
		fmt.Fprintf(&sb, ` AND tags && $%d`, len(args))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, likePattern(q))
		fmt.Fprintf(&sb, ` AND (title ILIKE $%d OR a ILIKE $%d)`, len(args), len(args))
	}

	if f.Mode == ListHot {
		sb.WriteString(` ORDER BY helpful_count DESC, created_at DESC`)
	} else {
		sb.WriteString(` ORDER BY created_at DESC`)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))

	return sb.String(), args
}

// prefixed qualifies each column in a comma-separated list with p.
func prefixed(p, columns string) string {
	parts := strings.Split(columns, ",")
	for i, col := range parts {
		parts[i] = p + strings.TrimSpace(col)
	}
	return strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns user text into an ILIKE substring pattern.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// DeleteCloud removes a cloud owned by ownerID. It reports whether a row was deleted.
func (db *DB) DeleteCloud(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM clouds WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete cloud: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
