package views

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"
)

// PostForm holds the field values of the post editor, either a fresh draft
// or a failed submission being re-rendered for correction.
type PostForm struct {
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	Published bool
}

// DashboardData is everything the admin dashboard needs in one place.
type DashboardData struct {
	Posts     []Post
	Images    []Image
	UserID    string
	Msg       string
	Draft     PostForm
	HomeIntro string
	AboutText string
	CsrfToken string
}

// slugScript keeps the slug input in sync with the title until the author
// edits the slug by hand; after that the slug field wins.
const slugScript = `<script>
(function () {
  var title = document.getElementById("post-title");
  var slug = document.getElementById("post-slug");
  if (!title || !slug) return;
  var touched = slug.value !== "";
  slug.addEventListener("input", function () { touched = true; });
  title.addEventListener("input", function () {
    if (touched) return;
    slug.value = title.value
      .toLowerCase()
      .replace(/[^a-z0-9]+/g, "-")
      .replace(/^-+|-+$/g, "");
  });
})();
</script>`

func postFields(b *bytes.Buffer, form PostForm) {
	b.WriteString(`<label for="post-title">Title</label>`)
	b.WriteString(`<input type="text" id="post-title" name="title" value="` + esc(form.Title) + `" required>`)
	b.WriteString(`<label for="post-slug">Slug</label>`)
	b.WriteString(`<input type="text" id="post-slug" name="slug" value="` + esc(form.Slug) + `" pattern="[a-z0-9]+(-[a-z0-9]+)*">`)
	b.WriteString(`<label for="post-excerpt">Excerpt</label>`)
	b.WriteString(`<input type="text" id="post-excerpt" name="excerpt" value="` + esc(form.Excerpt) + `">`)
	b.WriteString(`<label for="post-content">Content (markdown)</label>`)
	b.WriteString(`<textarea id="post-content" name="content">` + esc(form.Content) + `</textarea>`)
	b.WriteString(`<label><input type="checkbox" name="published" value="1"`)
	if form.Published {
		b.WriteString(" checked")
	}
	b.WriteString("> Published</label>")
}

func statusBadge(b *bytes.Buffer, published bool) {
	if published {
		b.WriteString(`<span class="badge published">Published</span>`)
	} else {
		b.WriteString(`<span class="badge draft">Draft</span>`)
	}
}

// AdminDashboard is the signed-in landing page: new-post form, the full
// post list with edit and delete actions, and the image library summary.
func AdminDashboard(cfg SiteConfig, data DashboardData) templ.Component {
	meta := PageMeta{Title: "Dashboard"}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString(`<h1>Dashboard</h1>`)
		toast(b, data.Msg)

		b.WriteString(`<section class="new-post"><h2>New post</h2>`)
		b.WriteString(`<form class="stacked" method="post" action="/admin/posts/">`)
		csrfField(b, data.CsrfToken)
		postFields(b, data.Draft)
		b.WriteString(`<button type="submit">Create</button>`)
		b.WriteString("</form></section>")

		b.WriteString(`<section class="post-list"><h2>Posts</h2>`)
		if len(data.Posts) == 0 {
			b.WriteString("<p>No posts yet.</p>")
		}
		b.WriteString("<ul>")
		for _, p := range data.Posts {
			b.WriteString("<li>")
			statusBadge(b, p.Published)
			if p.AuthorID == data.UserID {
				b.WriteString(` <a href="/admin/posts/` + PathEscape(p.ID) + `/">` + esc(p.Title) + `</a>`)
			} else {
				// Another author's post; listed but not editable here.
				b.WriteString(" " + esc(p.Title))
			}
			b.WriteString(` <span class="post-date">` + esc(FormatDate(p.CreatedAt)) + `</span>`)
			if p.AuthorID == data.UserID {
				b.WriteString(`<form method="post" action="/admin/posts/` + PathEscape(p.ID) + `/delete/" onsubmit="return confirm('Delete this post?')" style="display:inline">`)
				csrfField(b, data.CsrfToken)
				b.WriteString(`<button type="submit">Delete</button></form>`)
			}
			b.WriteString("</li>")
		}
		b.WriteString("</ul></section>")

		b.WriteString(`<section class="page-snippets"><h2>Pages</h2>`)
		b.WriteString("<h3>Home intro</h3>")
		snippetEditor(b, "home", data.HomeIntro, data.CsrfToken)
		b.WriteString("<h3>About</h3>")
		snippetEditor(b, "about", data.AboutText, data.CsrfToken)
		b.WriteString("</section>")

		b.WriteString(`<section class="image-list"><h2>Images</h2>`)
		b.WriteString(`<p><a href="/admin/images/">Manage images (` + strconv.Itoa(len(data.Images)) + `)</a></p>`)
		b.WriteString("</section>")

		b.WriteString(`<form method="post" action="/logout/">`)
		csrfField(b, data.CsrfToken)
		b.WriteString(`<button type="submit">Sign out</button></form>`)

		b.WriteString(slugScript)
		return nil
	})
}

// AdminEdit is the single-post editor.
func AdminEdit(cfg SiteConfig, post Post, msg, csrf string) templ.Component {
	meta := PageMeta{Title: "Edit: " + post.Title}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString(`<h1>Edit post</h1>`)
		toast(b, msg)
		b.WriteString(`<form class="stacked" method="post" action="/admin/posts/` + PathEscape(post.ID) + `/">`)
		csrfField(b, csrf)
		postFields(b, PostForm{
			Title:     post.Title,
			Slug:      post.Slug,
			Excerpt:   post.Excerpt,
			Content:   post.Content,
			Published: post.Published,
		})
		b.WriteString(`<button type="submit">Save</button>`)
		b.WriteString("</form>")
		if post.Published {
			b.WriteString(`<p><a href="/blog/` + PathEscape(post.Slug) + `/">View post</a></p>`)
		}
		b.WriteString(`<form method="post" action="/admin/posts/` + PathEscape(post.ID) + `/delete/" onsubmit="return confirm('Delete this post?')">`)
		csrfField(b, csrf)
		b.WriteString(`<button type="submit">Delete</button></form>`)
		b.WriteString(`<p><a href="/admin/">&larr; Dashboard</a></p>`)
		b.WriteString(slugScript)
		return nil
	})
}

// AdminImages lists uploaded images with an upload form and per-image delete.
func AdminImages(cfg SiteConfig, images []Image, msg, csrf string) templ.Component {
	meta := PageMeta{Title: "Images"}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString(`<h1>Images</h1>`)
		toast(b, msg)

		b.WriteString(`<form class="stacked" method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
		csrfField(b, csrf)
		b.WriteString(`<label for="image-file">Upload image</label>`)
		b.WriteString(`<input type="file" id="image-file" name="image" accept="image/*" required>`)
		b.WriteString(`<button type="submit">Upload</button>`)
		b.WriteString("</form>")

		if len(images) == 0 {
			b.WriteString("<p>No images uploaded yet.</p>")
		}
		b.WriteString("<ul>")
		for _, img := range images {
			b.WriteString("<li>")
			b.WriteString(`<a href="/public/uploads/` + PathEscape(img.Filename) + `">` + esc(img.Filename) + `</a>`)
			b.WriteString(` <span class="post-date">` + strconv.Itoa(img.Width) + `&times;` + strconv.Itoa(img.Height) + `</span>`)
			b.WriteString(`<form method="post" action="/admin/images/` + PathEscape(img.Filename) + `/delete/" onsubmit="return confirm('Delete this image?')" style="display:inline">`)
			csrfField(b, csrf)
			b.WriteString(`<button type="submit">Delete</button></form>`)
			b.WriteString("</li>")
		}
		b.WriteString("</ul>")
		b.WriteString(`<p><a href="/admin/">&larr; Dashboard</a></p>`)
		return nil
	})
}
