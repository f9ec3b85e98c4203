package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/paginator"
	"github.com/mmynk/inkwell/internal/storage"
)

// postSelect joins each post with its author and optional group.
const postSelect = `
	SELECT p.id, p.text, p.created_at, p.author_id, p.group_id,
	       u.username, u.first_name, u.last_name, u.created_at,
	       g.title, g.slug, g.description, g.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id
`

// CreatePost persists a new post to the database.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.CreatedAt == 0 {
		post.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkGroupExists(ctx, tx, post.GroupID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO posts (text, created_at, author_id, group_id) VALUES (?, ?, ?, ?)",
		post.Text, post.CreatedAt, post.AuthorID, nullableID(post.GroupID),
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: post author or group", storage.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	post.ID = id
	return nil
}

// GetPost retrieves a post by ID, including its author and group.
func (s *SQLiteStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+" WHERE p.id = ?", id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// UpdatePost writes the post's text and group. Author and creation time are left untouched.
func (s *SQLiteStore) UpdatePost(ctx context.Context, post *models.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkGroupExists(ctx, tx, post.GroupID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE posts SET text = ?, group_id = ? WHERE id = ?",
		post.Text, nullableID(post.GroupID), post.ID,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: post group", storage.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: post %d", storage.ErrNotFound, post.ID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountPosts returns the number of posts matching the filter.
func (s *SQLiteStore) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	where, args := whereClause(filter)
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// ListPosts returns one page of posts, newest first.
// The count and the page query run in one transaction so the window matches the rows.
func (s *SQLiteStore) ListPosts(ctx context.Context, filter storage.PostFilter, size, number int) (*paginator.Page[*models.Post], error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := whereClause(filter)

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	window := paginator.Clamp(total, size, number)
	page := &paginator.Page[*models.Post]{Window: window}
	if total == 0 {
		return page, nil
	}

	query := postSelect + where + " ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?"
	rows, err := tx.QueryContext(ctx, query, append(args, window.Limit(), window.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		page.Items = append(page.Items, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return page, nil
}

func whereClause(filter storage.PostFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.GroupID != nil {
		conds = append(conds, "p.group_id = ?")
		args = append(args, *filter.GroupID)
	}
	if filter.AuthorID != "" {
		conds = append(conds, "p.author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func checkGroupExists(ctx context.Context, tx *sql.Tx, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM post_groups WHERE id = ?", *groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: group %d", storage.ErrInvalidReference, *groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	post := &models.Post{Author: &models.User{}}
	var (
		groupID                          sql.NullInt64
		groupTitle, groupSlug, groupDesc sql.NullString
		groupCreatedAt                   sql.NullInt64
	)
	err := row.Scan(
		&post.ID, &post.Text, &post.CreatedAt, &post.AuthorID, &groupID,
		&post.Author.Username, &post.Author.FirstName, &post.Author.LastName, &post.Author.CreatedAt,
		&groupTitle, &groupSlug, &groupDesc, &groupCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	post.Author.ID = post.AuthorID

	if groupID.Valid {
		id := groupID.Int64
		post.GroupID = &id
		post.Group = &models.Group{
			ID:          id,
			Title:       groupTitle.String,
			Slug:        groupSlug.String,
			Description: groupDesc.String,
			CreatedAt:   groupCreatedAt.Int64,
		}
	}
	return post, nil
}
