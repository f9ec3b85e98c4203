package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
)

const groupColumns = `id, title, slug, description, created_at`

// CreateGroup persists a new group to the database.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO post_groups (title, slug, description, created_at) VALUES (?, ?, ?, ?)",
		group.Title, group.Slug, group.Description, group.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: group slug %q", storage.ErrConflict, group.Slug)
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read group id: %w", err)
	}
	group.ID = id
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+groupColumns+" FROM post_groups WHERE id = ?", id)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupBySlug retrieves a group by slug.
func (s *SQLiteStore) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+groupColumns+" FROM post_groups WHERE slug = ?", slug)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %q", storage.ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by slug: %w", err)
	}
	return group, nil
}

// ListGroups retrieves all groups ordered by title.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+groupColumns+" FROM post_groups ORDER BY title, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// DeleteGroup removes a group by ID. The posts table's ON DELETE SET NULL keeps its posts.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM post_groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	return nil
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	group := &models.Group{}
	if err := row.Scan(&group.ID, &group.Title, &group.Slug, &group.Description, &group.CreatedAt); err != nil {
		return nil, err
	}
	return group, nil
}
