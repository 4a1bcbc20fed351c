package secblog

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/labstack/echo/v4"

	"github.com/vladsec/secblog/views"
)

// Default snippet text shown before an admin has edited a page.
const (
	snippetHome  = "home"
	snippetAbout = "about"

	defaultHomeIntro = "Exploring cybersecurity, software engineering, and technical discoveries."
	defaultAboutText = "A security enthusiast with a passion for building and breaking systems. More details coming soon."
)

func (a *App) handleHome(c echo.Context) error {
	intro, err := a.Cache.Snippet(snippetHome, defaultHomeIntro)
	if err != nil {
		return err
	}
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.site, intro, IsAuthenticated(c), posts, CsrfToken(c)))
}

func (a *App) handleBlogIndex(c echo.Context) error {
	posts, err := a.Cache.Posts()
	if err != nil {
		return err
	}
	return Render(c, views.BlogIndex(a.site, posts))
}

// handlePost serves a single post by slug. Transport errors are retried a
// few times with exponential backoff; "no such post" is a valid outcome
// and renders its own page rather than an error.
func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(100*time.Millisecond),
		backoff.WithMaxInterval(2*time.Second),
	), 3)
	post, err := backoff.RetryWithData(func() (views.Post, error) {
		p, err := a.Cache.Post(slug)
		if err == sql.ErrNoRows {
			return p, backoff.Permanent(err)
		}
		return p, err
	}, bo)
	if err == sql.ErrNoRows {
		return RenderStatus(c, http.StatusNotFound, views.PostNotFound(a.site))
	}
	if err != nil {
		return err
	}
	return Render(c, views.PostDetail(a.site, post))
}

func (a *App) handleAbout(c echo.Context) error {
	about, err := a.Cache.Snippet(snippetAbout, defaultAboutText)
	if err != nil {
		return err
	}
	return Render(c, views.About(a.site, about, IsAuthenticated(c), time.Now().UnixMilli(), CsrfToken(c)))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: " + a.site.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
