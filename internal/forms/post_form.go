package forms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
)

// GroupLookup resolves the group chosen on a post form.
type GroupLookup interface {
	GetGroup(ctx context.Context, id int64) (*models.Group, error)
}

// PostForm holds the submitted text and group of a post.
// Group is the raw submitted group ID; empty means no group.
// Any author field in the submission is ignored.
type PostForm struct {
	Text   string
	Group  string
	Errors Errors

	groupID *int64
}

// NewPostForm returns a form pre-populated from post, or an empty form when post is nil.
func NewPostForm(post *models.Post) *PostForm {
	f := &PostForm{Errors: Errors{}}
	if post != nil {
		f.Text = post.Text
		if post.GroupID != nil {
			f.Group = strconv.FormatInt(*post.GroupID, 10)
		}
	}
	return f
}

// BindPostForm reads the text and group fields from submitted values.
func BindPostForm(values url.Values) *PostForm {
	return &PostForm{
		Text:   values.Get("text"),
		Group:  strings.TrimSpace(values.Get("group")),
		Errors: Errors{},
	}
}

// Validate checks the fields and records problems in f.Errors.
// It returns false when the form is invalid. A non-nil error means the group
// lookup itself failed and the form could not be judged.
func (f *PostForm) Validate(ctx context.Context, groups GroupLookup) (bool, error) {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors.Add("text", msgRequired)
	}

	f.groupID = nil
	if f.Group != "" {
		id, err := strconv.ParseInt(f.Group, 10, 64)
		if err != nil || id <= 0 {
			f.Errors.Add("group", msgInvalidChoice)
		} else if _, err := groups.GetGroup(ctx, id); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return false, fmt.Errorf("failed to look up group: %w", err)
			}
			f.Errors.Add("group", msgInvalidChoice)
		} else {
			f.groupID = &id
		}
	}

	return !f.Errors.Any(), nil
}

// Apply copies the validated fields onto post. Only Text and GroupID are written.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = strings.TrimSpace(f.Text)
	post.GroupID = f.groupID
}

// SelectedGroup reports whether the group with id is the form's current choice.
func (f *PostForm) SelectedGroup(id int64) bool {
	return f.Group == strconv.FormatInt(id, 10)
}
