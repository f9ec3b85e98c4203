// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/paginator"
	"github.com/mmynk/inkwell/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// PostgresStore implements storage.Store using a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to the database at dsn and runs migrations.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

const userColumns = `id, username, first_name, last_name, password_hash, created_at`

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.FirstName, user.LastName, user.PasswordHash, user.CreatedAt,
	)
	if pgCode(err) == codeUniqueViolation {
		return fmt.Errorf("%w: username %q", storage.ErrConflict, user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "username", username)
}

// getUser looks a user up by a unique column. column is never user input.
func (s *PostgresStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", storage.ErrNotFound, value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

const groupColumns = `id, title, slug, description, created_at`

func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO post_groups (title, slug, description, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		group.Title, group.Slug, group.Description, group.CreatedAt,
	).Scan(&group.ID)
	if pgCode(err) == codeUniqueViolation {
		return fmt.Errorf("%w: group slug %q", storage.ErrConflict, group.Slug)
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	group := &models.Group{}
	err := s.pool.QueryRow(ctx, `SELECT `+groupColumns+` FROM post_groups WHERE id = $1`, id).Scan(
		&group.ID, &group.Title, &group.Slug, &group.Description, &group.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

func (s *PostgresStore) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	group := &models.Group{}
	err := s.pool.QueryRow(ctx, `SELECT `+groupColumns+` FROM post_groups WHERE slug = $1`, slug).Scan(
		&group.ID, &group.Title, &group.Slug, &group.Description, &group.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %q", storage.ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by slug: %w", err)
	}
	return group, nil
}

func (s *PostgresStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+groupColumns+` FROM post_groups ORDER BY title, id`)
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

func (s *PostgresStore) DeleteGroup(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM post_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	return nil
}

const postSelect = `
	SELECT p.id, p.text, p.created_at, p.author_id, p.group_id,
	       u.username, u.first_name, u.last_name, u.created_at,
	       g.title, g.slug, g.description, g.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id
`

func (s *PostgresStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.CreatedAt == 0 {
		post.CreatedAt = time.Now().Unix()
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (text, created_at, author_id, group_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		post.Text, post.CreatedAt, post.AuthorID, post.GroupID,
	).Scan(&post.ID)
	if pgCode(err) == codeForeignKeyViolation {
		return fmt.Errorf("%w: post author or group", storage.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	post, err := scanPost(s.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: post %d", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, post *models.Post) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE posts SET text = $1, group_id = $2 WHERE id = $3`,
		post.Text, post.GroupID, post.ID,
	)
	if pgCode(err) == codeForeignKeyViolation {
		return fmt.Errorf("%w: post group", storage.ErrInvalidReference)
	}
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: post %d", storage.ErrNotFound, post.ID)
	}
	return nil
}

func (s *PostgresStore) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	where, args := whereClause(filter)
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

// ListPosts counts and reads the page inside one repeatable-read transaction.
func (s *PostgresStore) ListPosts(ctx context.Context, filter storage.PostFilter, size, number int) (*paginator.Page[*models.Post], error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	where, args := whereClause(filter)

	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	window := paginator.Clamp(total, size, number)
	page := &paginator.Page[*models.Post]{Window: window}
	if total == 0 {
		return page, nil
	}

	n := len(args)
	query := postSelect + where + fmt.Sprintf(" ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	rows, err := tx.Query(ctx, query, append(args, window.Limit(), window.Offset())...)
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
		args = append(args, *filter.GroupID)
		conds = append(conds, fmt.Sprintf("p.group_id = $%d", len(args)))
	}
	if filter.AuthorID != "" {
		args = append(args, filter.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{Author: &models.User{}}
	var (
		groupID                          *int64
		groupTitle, groupSlug, groupDesc *string
		groupCreatedAt                   *int64
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

	if groupID != nil {
		post.GroupID = groupID
		post.Group = &models.Group{
			ID:          *groupID,
			Title:       deref(groupTitle),
			Slug:        deref(groupSlug),
			Description: deref(groupDesc),
			CreatedAt:   derefInt(groupCreatedAt),
		}
	}
	return post, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
