package secblog

import (
	"testing"
	"time"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()
	s := setupTestStore(t)
	return &App{
		Store: s,
		Cache: NewQueryCache(s, time.Minute),
	}
}

func TestCreatePost(t *testing.T) {
	a := setupTestApp(t)

	post, err := a.CreatePost("u1", PostDraft{
		Title:     "My First Post",
		Content:   "Hello",
		Published: true,
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Slug != "my-first-post" {
		t.Errorf("Slug = %q, want %q (derived from title)", post.Slug, "my-first-post")
	}
	if post.ID == "" {
		t.Error("ID should be assigned")
	}
	if post.AuthorID != "u1" {
		t.Errorf("AuthorID = %q, want %q", post.AuthorID, "u1")
	}

	got, err := a.Cache.Post("my-first-post")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if got.Title != "My First Post" {
		t.Errorf("Title = %q, want %q", got.Title, "My First Post")
	}
}

func TestCreatePostValidation(t *testing.T) {
	a := setupTestApp(t)

	if _, err := a.CreatePost("", PostDraft{Title: "T", Content: "C"}); err != ErrNotSignedIn {
		t.Errorf("anonymous create: got %v, want ErrNotSignedIn", err)
	}
	if _, err := a.CreatePost("u1", PostDraft{Title: "", Content: "C"}); err != ErrMissingFields {
		t.Errorf("missing title: got %v, want ErrMissingFields", err)
	}
	if _, err := a.CreatePost("u1", PostDraft{Title: "T", Content: ""}); err != ErrMissingFields {
		t.Errorf("missing content: got %v, want ErrMissingFields", err)
	}

	posts, err := a.Store.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("got %d posts after failed creates, want 0", len(posts))
	}
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	a := setupTestApp(t)

	if _, err := a.CreatePost("u1", PostDraft{Title: "Original", Slug: "shared", Content: "x"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := a.CreatePost("u1", PostDraft{Title: "Copycat", Slug: "shared", Content: "y"}); err != ErrSlugTaken {
		t.Fatalf("got %v, want ErrSlugTaken", err)
	}

	posts, err := a.Store.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1; the rejected draft must not be inserted", len(posts))
	}
}

func TestCreatePostSanitizesSlug(t *testing.T) {
	a := setupTestApp(t)

	post, err := a.CreatePost("u1", PostDraft{Title: "T", Slug: "Bad Slug!!", Content: "x"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Slug != "bad-slug" {
		t.Errorf("Slug = %q, want %q", post.Slug, "bad-slug")
	}
}

func TestUpdatePost(t *testing.T) {
	a := setupTestApp(t)

	created, err := a.CreatePost("u1", PostDraft{Title: "Before", Content: "old", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Warm the caches so the edit has something to invalidate.
	if _, err := a.Cache.Posts(); err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if _, err := a.Cache.Post(created.Slug); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	updated, err := a.UpdatePost("u1", created.ID, PostDraft{
		Title:     "After",
		Slug:      "renamed",
		Content:   "new",
		Published: true,
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if updated.Slug != "renamed" {
		t.Errorf("Slug = %q, want %q", updated.Slug, "renamed")
	}

	// The old slug no longer resolves; the new one does, straight from cache.
	if _, err := a.Cache.Post(created.Slug); err != ErrNotFound {
		t.Errorf("old slug: got %v, want ErrNotFound", err)
	}
	got, err := a.Cache.Post("renamed")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("Title = %q, want %q", got.Title, "After")
	}

	posts, err := a.Cache.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "After" {
		t.Errorf("post list = %v, want the edited post", posts)
	}
}

func TestUpdatePostByNonAuthor(t *testing.T) {
	a := setupTestApp(t)

	created, err := a.CreatePost("owner", PostDraft{Title: "Mine", Content: "x", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	_, err = a.UpdatePost("intruder", created.ID, PostDraft{Title: "Stolen", Content: "y"})
	if err != ErrNoRowReturned {
		t.Fatalf("got %v, want ErrNoRowReturned", err)
	}

	got, err := a.Store.GetPostByID(created.ID)
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}
	if got.Title != "Mine" {
		t.Errorf("Title = %q, the post must be untouched", got.Title)
	}
}

func TestUpdatePostAfterConcurrentDelete(t *testing.T) {
	a := setupTestApp(t)

	created, err := a.CreatePost("u1", PostDraft{Title: "Doomed", Content: "x", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// Another session deletes the post while the editor is open.
	if err := a.DeletePost("u1", created.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	_, err = a.UpdatePost("u1", created.ID, PostDraft{Title: "Too Late", Content: "y"})
	if err != ErrPostNotFound {
		t.Fatalf("got %v, want ErrPostNotFound", err)
	}

	posts, err := a.Store.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("got %d posts, want 0; the stale edit must not write", len(posts))
	}
}

func TestUpdatePostSlugConflict(t *testing.T) {
	a := setupTestApp(t)

	if _, err := a.CreatePost("u1", PostDraft{Title: "A", Slug: "slot-a", Content: "x"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	b, err := a.CreatePost("u1", PostDraft{Title: "B", Slug: "slot-b", Content: "y"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if _, err := a.UpdatePost("u1", b.ID, PostDraft{Title: "B", Slug: "slot-a", Content: "y"}); err != ErrSlugTaken {
		t.Fatalf("got %v, want ErrSlugTaken", err)
	}

	got, err := a.Store.GetPostByID(b.ID)
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}
	if got.Slug != "slot-b" {
		t.Errorf("Slug = %q, the rejected edit must not write", got.Slug)
	}
}

func TestDeletePostByNonAuthor(t *testing.T) {
	a := setupTestApp(t)

	created, err := a.CreatePost("owner", PostDraft{Title: "Keep", Content: "x", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := a.DeletePost("intruder", created.ID); err != ErrPostNotFound {
		t.Fatalf("got %v, want ErrPostNotFound", err)
	}
	if _, err := a.Store.GetPostByID(created.ID); err != nil {
		t.Fatalf("post should survive a non-author delete: %v", err)
	}
}

func TestDeletePostInvalidatesCache(t *testing.T) {
	a := setupTestApp(t)

	created, err := a.CreatePost("u1", PostDraft{Title: "Gone Soon", Content: "x", Published: true})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := a.Cache.Posts(); err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if _, err := a.Cache.Post(created.Slug); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if err := a.DeletePost("u1", created.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	if _, err := a.Cache.Post(created.Slug); err != ErrNotFound {
		t.Errorf("got %v, want ErrNotFound after delete", err)
	}
	posts, err := a.Cache.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("got %d posts after delete, want 0", len(posts))
	}
}

func TestSaveSnippet(t *testing.T) {
	a := setupTestApp(t)

	if err := a.SaveSnippet("", "home", "intro"); err != ErrNotSignedIn {
		t.Errorf("anonymous save: got %v, want ErrNotSignedIn", err)
	}

	if err := a.SaveSnippet("u1", "home", "first"); err != nil {
		t.Fatalf("SaveSnippet failed: %v", err)
	}
	content, err := a.Cache.Snippet("home", "fallback")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	if content != "first" {
		t.Errorf("content = %q, want %q", content, "first")
	}

	// Saving again replaces the snippet and the cached copy.
	if err := a.SaveSnippet("u1", "home", "second"); err != nil {
		t.Fatalf("SaveSnippet failed: %v", err)
	}
	content, err = a.Cache.Snippet("home", "fallback")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	if content != "second" {
		t.Errorf("content = %q, want %q", content, "second")
	}
}
