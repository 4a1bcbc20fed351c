package secblog

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/vladsec/secblog/views"
)

// Workflow errors surfaced to the user. Store and transport errors pass
// through verbatim.
var (
	ErrNotSignedIn   = errors.New("you must be logged in to create posts")
	ErrMissingFields = errors.New("please fill in all required fields")
	ErrSlugTaken     = errors.New("a post with this URL already exists, please choose a different one")
	ErrPostNotFound  = errors.New("post not found")
	ErrNoRowReturned = errors.New("update succeeded but no data returned")
)

// PostDraft carries the editable fields of the post creation and edit forms.
type PostDraft struct {
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	Published bool
}

func (d *PostDraft) normalize() {
	if d.Slug == "" {
		d.Slug = Slugify(d.Title)
	} else if !IsValidSlug(d.Slug) {
		d.Slug = Slugify(d.Slug)
	}
}

// CreatePost validates the draft, checks slug uniqueness, and inserts a
// new post authored by userID. No write is attempted on a validation
// failure or a taken slug. On success the post list cache is invalidated.
//
// The store's UNIQUE constraint on slug remains the authority; a
// check-then-insert race still ends in a constraint error, never a
// duplicate.
func (a *App) CreatePost(userID string, d PostDraft) (views.Post, error) {
	if userID == "" {
		return views.Post{}, ErrNotSignedIn
	}
	d.normalize()
	if d.Title == "" || d.Content == "" || d.Slug == "" {
		return views.Post{}, ErrMissingFields
	}
	taken, err := a.Store.SlugInUse(d.Slug, "")
	if err != nil {
		return views.Post{}, err
	}
	if taken {
		return views.Post{}, ErrSlugTaken
	}
	now := nowRFC3339()
	post := views.Post{
		ID:        uuid.NewString(),
		Title:     d.Title,
		Slug:      d.Slug,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		Published: d.Published,
		AuthorID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
		Link:      "/blog/" + d.Slug,
	}
	if err := a.Store.InsertPost(post); err != nil {
		return views.Post{}, err
	}
	a.Cache.InvalidatePost(post.Slug)
	return post, nil
}

// UpdatePost re-verifies that the post still exists (detecting a
// concurrent delete), writes all editable fields with a refreshed
// timestamp, then invalidates every cached view that could hold the post
// under its old or new slug and forces a refetch of the detail view.
//
// The write predicate is filtered by author as well as id; a zero-row
// result after a successful verify signals an authorship mismatch and is
// surfaced as an error rather than silently succeeding.
func (a *App) UpdatePost(userID, id string, d PostDraft) (views.Post, error) {
	if userID == "" {
		return views.Post{}, ErrNotSignedIn
	}
	d.normalize()
	if d.Title == "" || d.Content == "" || d.Slug == "" {
		return views.Post{}, ErrMissingFields
	}
	existing, err := a.Store.GetPostByID(id)
	if err == sql.ErrNoRows {
		return views.Post{}, ErrPostNotFound
	}
	if err != nil {
		return views.Post{}, err
	}
	if d.Slug != existing.Slug {
		taken, err := a.Store.SlugInUse(d.Slug, id)
		if err != nil {
			return views.Post{}, err
		}
		if taken {
			return views.Post{}, ErrSlugTaken
		}
	}
	post := existing
	post.Title = d.Title
	post.Slug = d.Slug
	post.Excerpt = d.Excerpt
	post.Content = d.Content
	post.Published = d.Published
	post.UpdatedAt = nowRFC3339()
	post.Link = "/blog/" + d.Slug

	n, err := a.Store.UpdatePost(post, userID)
	if err != nil {
		return views.Post{}, err
	}
	if n == 0 {
		return views.Post{}, ErrNoRowReturned
	}
	a.Cache.InvalidatePost(existing.Slug, post.Slug)
	if post.Published {
		// Refetch so the detail view keyed by the new slug is warm and current.
		if _, err := a.Cache.RefreshPost(post.Slug); err != nil && err != ErrNotFound {
			return views.Post{}, err
		}
	}
	return post, nil
}

// DeletePost removes the post with id when authored by userID, then
// invalidates the post list and slug-keyed caches. A delete that touches
// no row — the post vanished or belongs to someone else — returns
// ErrPostNotFound and leaves the store unchanged.
func (a *App) DeletePost(userID, id string) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	existing, err := a.Store.GetPostByID(id)
	if err == sql.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	n, err := a.Store.DeletePost(id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	a.Cache.InvalidatePost(existing.Slug)
	return nil
}

// SaveSnippet upserts the named page snippet on behalf of userID and
// invalidates its cached entry.
func (a *App) SaveSnippet(userID, page, content string) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	if page == "" {
		return ErrMissingFields
	}
	if err := a.Store.UpsertSnippet(page, content, userID); err != nil {
		return err
	}
	a.Cache.InvalidateSnippet(page)
	return nil
}
