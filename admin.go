package secblog

import (
	"database/sql"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vladsec/secblog/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	userID := CurrentUserID(c)
	if userID == "" {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	return a.renderDashboard(c, userID, c.QueryParam("msg"), PostDraft{})
}

// draftFromForm reads the post form fields. The slug is left blank when
// the author never touched it; the workflow derives it from the title.
func draftFromForm(c echo.Context) PostDraft {
	return PostDraft{
		Title:     strings.TrimSpace(c.FormValue("title")),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		Excerpt:   strings.TrimSpace(c.FormValue("excerpt")),
		Content:   c.FormValue("content"),
		Published: c.FormValue("published") != "",
	}
}

func (a *App) handleAdminCreate(c echo.Context) error {
	userID := CurrentUserID(c)
	if userID == "" {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	draft := draftFromForm(c)
	if _, err := a.CreatePost(userID, draft); err != nil {
		// Re-render with the draft preserved so the author can fix and retry.
		return a.renderDashboard(c, userID, err.Error(), draft)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape("Post created successfully"))
}

func (a *App) handleAdminEdit(c echo.Context) error {
	userID := CurrentUserID(c)
	if userID == "" {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	post, err := a.Store.GetPostByID(c.Param("id"))
	if err == sql.ErrNoRows {
		return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site))
	}
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		// Not this user's post; the dashboard never links here, but the
		// route is still locked down.
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, views.AdminEdit(a.site, post, c.QueryParam("msg"), CsrfToken(c)))
}

func (a *App) handleAdminUpdate(c echo.Context) error {
	userID := CurrentUserID(c)
	if userID == "" {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	id := c.Param("id")
	draft := draftFromForm(c)
	post, err := a.UpdatePost(userID, id, draft)
	if err != nil {
		// Re-render with the submitted values so the author can fix and
		// retry; a redirect would reload the stored row and drop the edit.
		form := views.Post{
			ID:        id,
			Title:     draft.Title,
			Slug:      draft.Slug,
			Excerpt:   draft.Excerpt,
			Content:   draft.Content,
			Published: draft.Published,
		}
		return Render(c, views.AdminEdit(a.site, form, err.Error(), CsrfToken(c)))
	}
	return Render(c, views.AdminEdit(a.site, post, "Post updated successfully", CsrfToken(c)))
}

func (a *App) handleAdminDelete(c echo.Context) error {
	userID := CurrentUserID(c)
	if userID == "" {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	if err := a.DeletePost(userID, c.Param("id")); err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(err.Error()))
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape("Post deleted"))
}

func (a *App) handleAdminSnippet(c echo.Context) error {
	userID := CurrentUserID(c)
	if userID == "" {
		return c.Redirect(http.StatusSeeOther, "/login/")
	}
	page := c.Param("name")
	content := c.FormValue("content")
	redirect := "/"
	if page == snippetAbout {
		redirect = "/about/"
	}
	if err := a.SaveSnippet(userID, page, content); err != nil {
		return c.Redirect(http.StatusSeeOther, redirect+"?msg="+url.QueryEscape(err.Error()))
	}
	return c.Redirect(http.StatusSeeOther, redirect)
}

func (a *App) renderDashboard(c echo.Context, userID, msg string, draft PostDraft) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	images, err := a.Store.ListImages()
	if err != nil {
		return err
	}
	intro, err := a.Cache.Snippet(snippetHome, defaultHomeIntro)
	if err != nil {
		return err
	}
	about, err := a.Cache.Snippet(snippetAbout, defaultAboutText)
	if err != nil {
		return err
	}
	return Render(c, views.AdminDashboard(a.site, views.DashboardData{
		Posts:     posts,
		Images:    images,
		UserID:    userID,
		Msg:       msg,
		HomeIntro: intro,
		AboutText: about,
		Draft: views.PostForm{
			Title:     draft.Title,
			Slug:      draft.Slug,
			Excerpt:   draft.Excerpt,
			Content:   draft.Content,
			Published: draft.Published,
		},
		CsrfToken: CsrfToken(c),
	}))
}
