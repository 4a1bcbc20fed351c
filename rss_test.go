package secblog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vladsec/secblog/views"
)

func feedTestApp() *App {
	return &App{
		Echo: echo.New(),
		site: views.SiteConfig{
			Name:        "Feed Test",
			URL:         "https://feed.example.com",
			Description: "feed description",
		},
	}
}

func testContext(a *App, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return a.Echo.NewContext(req, rec), rec
}

func TestRenderRSS(t *testing.T) {
	a := feedTestApp()
	c, rec := testContext(a, "/feed.xml")

	posts := []views.Post{{
		Title:     "Feed Post",
		Slug:      "feed-post",
		Excerpt:   "the excerpt",
		CreatedAt: "2024-01-15T10:30:00Z",
	}}
	if err := a.renderRSS(c, posts); err != nil {
		t.Fatalf("renderRSS failed: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<rss version=\"2.0\">") {
		t.Error("feed should declare RSS 2.0")
	}
	if !strings.Contains(body, "<link>https://feed.example.com/blog/feed-post/</link>") {
		t.Errorf("feed should link the post, got:\n%s", body)
	}
	if !strings.Contains(body, "<description>the excerpt</description>") {
		t.Error("feed items should carry the excerpt")
	}
	if !strings.Contains(body, "15 Jan 2024") {
		t.Error("pubDate should be RFC1123 formatted")
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.Contains(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderSitemap(t *testing.T) {
	a := feedTestApp()
	c, rec := testContext(a, "/sitemap.xml")

	posts := []views.Post{{
		Slug:      "mapped-post",
		UpdatedAt: "2024-02-20T08:00:00Z",
	}}
	if err := a.renderSitemap(c, posts); err != nil {
		t.Fatalf("renderSitemap failed: %v", err)
	}

	body := rec.Body.String()
	for _, loc := range []string{
		"<loc>https://feed.example.com</loc>",
		"<loc>https://feed.example.com/blog/</loc>",
		"<loc>https://feed.example.com/about/</loc>",
		"<loc>https://feed.example.com/blog/mapped-post/</loc>",
	} {
		if !strings.Contains(body, loc) {
			t.Errorf("sitemap missing %s, got:\n%s", loc, body)
		}
	}
	if !strings.Contains(body, "<lastmod>2024-02-20</lastmod>") {
		t.Error("sitemap should carry lastmod dates")
	}
}
