package secblog

import (
	"testing"
	"time"
)

func setupTestCache(t *testing.T) (*QueryCache, *Store) {
	t.Helper()
	s := setupTestStore(t)
	return NewQueryCache(s, time.Minute), s
}

func TestCachePostsServesStaleUntilInvalidated(t *testing.T) {
	cache, store := setupTestCache(t)

	if err := store.InsertPost(testPost("p1", "first", "u1")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	posts, err := cache.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}

	// A write that bypasses invalidation is not visible yet.
	if err := store.InsertPost(testPost("p2", "second", "u1")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	posts, err = cache.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("cache returned %d posts before invalidation, want 1", len(posts))
	}

	cache.InvalidatePost("second")
	posts, err = cache.Posts()
	if err != nil {
		t.Fatalf("Posts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts after invalidation, want 2", len(posts))
	}
}

func TestCachePostMissNotCached(t *testing.T) {
	cache, store := setupTestCache(t)

	if _, err := cache.Post("future-post"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Publishing afterwards must be visible without any invalidation,
	// because misses are never stored.
	if err := store.InsertPost(testPost("p1", "future-post", "u1")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	post, err := cache.Post("future-post")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if post.Slug != "future-post" {
		t.Errorf("Slug = %q, want %q", post.Slug, "future-post")
	}
}

func TestCachePostExpires(t *testing.T) {
	store := setupTestStore(t)
	cache := NewQueryCache(store, 50*time.Millisecond)

	if err := store.InsertPost(testPost("p1", "ttl-post", "u1")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if _, err := cache.Post("ttl-post"); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	post := testPost("p1", "ttl-post", "u1")
	post.Title = "Renamed"
	if _, err := store.UpdatePost(post, "u1"); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	time.Sleep(80 * time.Millisecond)
	got, err := cache.Post("ttl-post")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("Title = %q after TTL expiry, want %q", got.Title, "Renamed")
	}
}

func TestCacheRefreshPost(t *testing.T) {
	cache, store := setupTestCache(t)

	if err := store.InsertPost(testPost("p1", "fresh", "u1")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if _, err := cache.Post("fresh"); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	post := testPost("p1", "fresh", "u1")
	post.Title = "Edited"
	if _, err := store.UpdatePost(post, "u1"); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := cache.RefreshPost("fresh")
	if err != nil {
		t.Fatalf("RefreshPost failed: %v", err)
	}
	if got.Title != "Edited" {
		t.Errorf("Title = %q after refresh, want %q", got.Title, "Edited")
	}
	// The refreshed value is what later reads see.
	got, err = cache.Post("fresh")
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if got.Title != "Edited" {
		t.Errorf("Title = %q from cache, want %q", got.Title, "Edited")
	}
}

func TestCacheSnippetFallback(t *testing.T) {
	cache, store := setupTestCache(t)

	content, err := cache.Snippet("home", "default intro")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	if content != "default intro" {
		t.Errorf("content = %q, want the fallback", content)
	}

	if err := store.UpsertSnippet("home", "custom intro", "u1"); err != nil {
		t.Fatalf("UpsertSnippet failed: %v", err)
	}

	// Cached fallback still serves until invalidated.
	content, err = cache.Snippet("home", "default intro")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	if content != "default intro" {
		t.Errorf("content = %q before invalidation, want the fallback", content)
	}

	cache.InvalidateSnippet("home")
	content, err = cache.Snippet("home", "default intro")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	if content != "custom intro" {
		t.Errorf("content = %q after invalidation, want %q", content, "custom intro")
	}
}
