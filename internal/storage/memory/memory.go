// Package memory provides an in-memory implementation of the storage.Store interface.
// It is used by handler tests and by the server when no database is configured for a demo.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/paginator"
	"github.com/mmynk/inkwell/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps users, groups and posts in maps guarded by a single mutex.
// Returned records are copies; mutating them does not affect the store.
type Store struct {
	mu sync.RWMutex

	users  map[string]*models.User
	groups map[int64]*models.Group
	posts  map[int64]*models.Post

	nextGroupID int64
	nextPostID  int64

	// now is overridable so tests can control timestamps.
	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:  make(map[string]*models.User),
		groups: make(map[int64]*models.Group),
		posts:  make(map[int64]*models.Post),
		now:    time.Now,
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username %q", storage.ErrConflict, user.Username)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = s.now().Unix()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", storage.ErrNotFound, username)
}

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups {
		if g.Slug == group.Slug {
			return fmt.Errorf("%w: group slug %q", storage.ErrConflict, group.Slug)
		}
	}
	s.nextGroupID++
	group.ID = s.nextGroupID
	if group.CreatedAt == 0 {
		group.CreatedAt = s.now().Unix()
	}
	cp := *group
	s.groups[group.ID] = &cp
	return nil
}

func (s *Store) GetGroup(_ context.Context, id int64) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	cp := *g
	return &cp, nil
}

func (s *Store) GetGroupBySlug(_ context.Context, slug string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.groups {
		if g.Slug == slug {
			cp := *g
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: group %q", storage.ErrNotFound, slug)
}

func (s *Store) ListGroups(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		cp := *g
		groups = append(groups, &cp)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Title != groups[j].Title {
			return groups[i].Title < groups[j].Title
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

func (s *Store) DeleteGroup(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return fmt.Errorf("%w: group %d", storage.ErrNotFound, id)
	}
	delete(s.groups, id)
	for _, p := range s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
		}
	}
	return nil
}

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return fmt.Errorf("%w: post author %s", storage.ErrInvalidReference, post.AuthorID)
	}
	if err := s.checkGroupLocked(post.GroupID); err != nil {
		return err
	}

	s.nextPostID++
	post.ID = s.nextPostID
	if post.CreatedAt == 0 {
		post.CreatedAt = s.now().Unix()
	}
	s.posts[post.ID] = &models.Post{
		ID:        post.ID,
		Text:      post.Text,
		CreatedAt: post.CreatedAt,
		AuthorID:  post.AuthorID,
		GroupID:   copyID(post.GroupID),
	}
	return nil
}

func (s *Store) GetPost(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post %d", storage.ErrNotFound, id)
	}
	return s.hydrateLocked(p), nil
}

func (s *Store) UpdatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[post.ID]
	if !ok {
		return fmt.Errorf("%w: post %d", storage.ErrNotFound, post.ID)
	}
	if err := s.checkGroupLocked(post.GroupID); err != nil {
		return err
	}
	p.Text = post.Text
	p.GroupID = copyID(post.GroupID)
	return nil
}

func (s *Store) CountPosts(_ context.Context, filter storage.PostFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matchLocked(filter)), nil
}

func (s *Store) ListPosts(_ context.Context, filter storage.PostFilter, size, number int) (*paginator.Page[*models.Post], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchLocked(filter)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt != matched[j].CreatedAt {
			return matched[i].CreatedAt > matched[j].CreatedAt
		}
		return matched[i].ID > matched[j].ID
	})

	window := paginator.Clamp(len(matched), size, number)
	start := window.Offset()
	page := &paginator.Page[*models.Post]{Window: window}
	for _, p := range matched[start : start+window.Len()] {
		page.Items = append(page.Items, s.hydrateLocked(p))
	}
	return page, nil
}

func (s *Store) matchLocked(filter storage.PostFilter) []*models.Post {
	var out []*models.Post
	for _, p := range s.posts {
		if filter.GroupID != nil && (p.GroupID == nil || *p.GroupID != *filter.GroupID) {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Store) checkGroupLocked(id *int64) error {
	if id == nil {
		return nil
	}
	if _, ok := s.groups[*id]; !ok {
		return fmt.Errorf("%w: group %d", storage.ErrInvalidReference, *id)
	}
	return nil
}

func (s *Store) hydrateLocked(p *models.Post) *models.Post {
	cp := &models.Post{
		ID:        p.ID,
		Text:      p.Text,
		CreatedAt: p.CreatedAt,
		AuthorID:  p.AuthorID,
		GroupID:   copyID(p.GroupID),
	}
	if u, ok := s.users[p.AuthorID]; ok {
		author := *u
		cp.Author = &author
	}
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			group := *g
			cp.Group = &group
		}
	}
	return cp
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
