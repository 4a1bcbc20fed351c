// Package secblog is a personal blog server built with Go, Echo, and templ.
// It serves the public site (home, blog index, post detail, about), an
// authenticated admin panel for authoring posts and editing page snippets,
// an RSS feed and sitemap, and a contact-form mail relay.
package secblog

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vladsec/secblog/views"
)

// App is the central application. It wires together the store, the query
// cache, handlers, middleware, and templates.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store
	Cache  *QueryCache

	site           views.SiteConfig
	loginLimiter   *RateLimiter
	contactLimiter *RateLimiter
	contactRelay   *ContactRelay
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		site:      cfg.Site(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, cache, middleware, routes, and starts
// the server.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) init() error {
	if a.Config.AdminEmail == "" || a.Config.AdminPassword == "" {
		return fmt.Errorf("secblog: AdminEmail and AdminPassword are required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("secblog: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("secblog: init store: %w", err)
	}
	a.Store = store

	hash, err := HashPassword(a.Config.AdminPassword)
	if err != nil {
		return fmt.Errorf("secblog: hash admin password: %w", err)
	}
	if _, err := store.EnsureUser(a.Config.AdminEmail, hash); err != nil {
		return fmt.Errorf("secblog: ensure admin user: %w", err)
	}

	a.Cache = NewQueryCache(store, a.Config.CacheTTL)
	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.contactLimiter = NewRateLimiter(3, time.Minute)
	a.contactRelay = NewContactRelay(a.Config.ResendAPIKey, a.Config.ContactRecipient)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets (copy-code.js, site.css) are served under /public/
	// and fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/copy-code.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlogIndex)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/about/", a.handleAbout)

	// Auth
	e.GET("/login/", a.handleLoginPage)
	e.POST("/login/", a.handleLogin)
	e.POST("/logout/", handleLogout)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/posts/", a.handleAdminCreate)
	e.GET("/admin/posts/:id/", a.handleAdminEdit)
	e.POST("/admin/posts/:id/", a.handleAdminUpdate)
	e.POST("/admin/posts/:id/delete/", a.handleAdminDelete)
	e.POST("/admin/page/:name/", a.handleAdminSnippet)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete)

	// Cross-origin JSON API
	api := e.Group("/api", a.corsMiddleware())
	api.POST("/contact/", a.handleContact)
	api.OPTIONS("/contact/", a.handleContact)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
