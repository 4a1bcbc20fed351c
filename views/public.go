package views

import (
	"bytes"
	"strconv"

	"github.com/a-h/templ"

	"github.com/vladsec/secblog/markdown"
)

// postCard renders one entry in a post listing.
func postCard(b *bytes.Buffer, p Post) {
	b.WriteString(`<article class="post-card">`)
	b.WriteString(`<h2><a href="/blog/` + PathEscape(p.Slug) + `/">` + esc(p.Title) + `</a></h2>`)
	b.WriteString(`<time datetime="` + esc(p.CreatedAt) + `">` + esc(FormatDate(p.CreatedAt)) + `</time>`)
	if p.Excerpt != "" {
		b.WriteString(`<p>` + esc(TruncateExcerpt(p.Excerpt, 160)) + `</p>`)
	}
	b.WriteString("</article>")
}

// snippetEditor renders the inline edit form shown to a signed-in author
// below an editable page section.
func snippetEditor(b *bytes.Buffer, pageName, content, csrf string) {
	b.WriteString(`<details class="snippet-editor"><summary>Edit this section</summary>`)
	b.WriteString(`<form class="stacked" method="post" action="/admin/page/` + PathEscape(pageName) + `/">`)
	csrfField(b, csrf)
	b.WriteString(`<label for="snippet-` + esc(pageName) + `">Content (markdown)</label>`)
	b.WriteString(`<textarea id="snippet-` + esc(pageName) + `" name="content">` + esc(content) + `</textarea>`)
	b.WriteString(`<button type="submit">Save</button>`)
	b.WriteString("</form></details>")
}

// Home is the landing page: the editable intro snippet followed by the
// published posts.
func Home(cfg SiteConfig, intro string, editable bool, posts []Post, csrf string) templ.Component {
	meta := PageMeta{
		Description: cfg.Description,
		URL:         buildURL(cfg.URL),
	}
	return page(cfg, meta, WebsiteJsonLD(cfg), func(b *bytes.Buffer) error {
		b.WriteString(`<section class="intro">`)
		if err := markdown.Render(b, intro); err != nil {
			return err
		}
		if editable {
			snippetEditor(b, "home", intro, csrf)
		}
		b.WriteString("</section>")

		b.WriteString(`<section class="posts"><h1>Latest Posts</h1>`)
		if len(posts) == 0 {
			b.WriteString("<p>Nothing here yet.</p>")
		}
		for _, p := range posts {
			postCard(b, p)
		}
		b.WriteString("</section>")
		return nil
	})
}

// BlogIndex lists every published post.
func BlogIndex(cfg SiteConfig, posts []Post) templ.Component {
	meta := PageMeta{
		Title:       "Blog",
		Description: cfg.Description,
		URL:         buildURL(cfg.URL, "blog"),
	}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString("<h1>Blog</h1>")
		if len(posts) == 0 {
			b.WriteString("<p>Nothing here yet.</p>")
		}
		for _, p := range posts {
			postCard(b, p)
		}
		return nil
	})
}

// PostDetail renders a full post with its markdown body.
func PostDetail(cfg SiteConfig, post Post) templ.Component {
	meta := PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         buildURL(cfg.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return page(cfg, meta, BlogPostingJsonLD(cfg, post), func(b *bytes.Buffer) error {
		b.WriteString(`<article class="post">`)
		b.WriteString("<h1>" + esc(post.Title) + "</h1>")
		b.WriteString(`<p class="post-date"><time datetime="` + esc(post.CreatedAt) + `">` + esc(FormatDate(post.CreatedAt)) + `</time></p>`)
		if err := markdown.Render(b, post.Content); err != nil {
			return err
		}
		b.WriteString("</article>")
		b.WriteString(`<p><a href="/blog/">&larr; All posts</a></p>`)
		return nil
	})
}

// PostNotFound is the styled 404 for an unknown or unpublished slug.
func PostNotFound(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Post Not Found"}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString("<h1>Post not found</h1>")
		b.WriteString("<p>That post does not exist or is no longer published.</p>")
		b.WriteString(`<p><a href="/blog/">&larr; All posts</a></p>`)
		return nil
	})
}

// About renders the editable about snippet plus the contact form. startedAt
// is the server clock in Unix milliseconds; the contact handler uses it to
// reject submissions filled in faster than a human could manage.
func About(cfg SiteConfig, about string, editable bool, startedAt int64, csrf string) templ.Component {
	meta := PageMeta{
		Title: "About",
		URL:   buildURL(cfg.URL, "about"),
	}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString(`<section class="about">`)
		if err := markdown.Render(b, about); err != nil {
			return err
		}
		if editable {
			snippetEditor(b, "about", about, csrf)
		}
		b.WriteString("</section>")

		contactForm(b, startedAt)
		return nil
	})
}

func contactForm(b *bytes.Buffer, startedAt int64) {
	b.WriteString(`<section class="contact"><h2>Get in touch</h2>`)
	b.WriteString(`<form id="contact-form" class="stacked">`)
	b.WriteString(`<label for="contact-name">Name</label>`)
	b.WriteString(`<input type="text" id="contact-name" name="name" required>`)
	b.WriteString(`<label for="contact-email">Email</label>`)
	b.WriteString(`<input type="email" id="contact-email" name="email" required>`)
	b.WriteString(`<label for="contact-message">Message</label>`)
	b.WriteString(`<textarea id="contact-message" name="message" required></textarea>`)
	// Honeypot. Hidden from people, tempting to bots.
	b.WriteString(`<div class="honeypot" aria-hidden="true">`)
	b.WriteString(`<label for="contact-website">Website</label>`)
	b.WriteString(`<input type="text" id="contact-website" name="website" tabindex="-1" autocomplete="off">`)
	b.WriteString("</div>")
	b.WriteString(`<button type="submit">Send</button>`)
	b.WriteString(`<p id="contact-status" role="status"></p>`)
	b.WriteString("</form>")

	b.WriteString("<script>\n")
	b.WriteString("(function () {\n")
	b.WriteString("  var form = document.getElementById(\"contact-form\");\n")
	b.WriteString("  var status = document.getElementById(\"contact-status\");\n")
	b.WriteString("  var startedAt = " + strconv.FormatInt(startedAt, 10) + ";\n")
	b.WriteString("  form.addEventListener(\"submit\", function (e) {\n")
	b.WriteString("    e.preventDefault();\n")
	b.WriteString("    status.textContent = \"Sending...\";\n")
	b.WriteString("    fetch(\"/api/contact/\", {\n")
	b.WriteString("      method: \"POST\",\n")
	b.WriteString("      headers: { \"Content-Type\": \"application/json\" },\n")
	b.WriteString("      body: JSON.stringify({\n")
	b.WriteString("        name: form.name.value,\n")
	b.WriteString("        email: form.email.value,\n")
	b.WriteString("        message: form.message.value,\n")
	b.WriteString("        website: form.website.value,\n")
	b.WriteString("        startedAt: startedAt\n")
	b.WriteString("      })\n")
	b.WriteString("    }).then(function (res) { return res.json().then(function (data) { return { ok: res.ok, data: data }; }); })\n")
	b.WriteString("      .then(function (r) {\n")
	b.WriteString("        if (r.ok) {\n")
	b.WriteString("          status.textContent = \"Message sent. Thanks!\";\n")
	b.WriteString("          form.reset();\n")
	b.WriteString("        } else {\n")
	b.WriteString("          status.textContent = r.data.message || \"Something went wrong.\";\n")
	b.WriteString("        }\n")
	b.WriteString("      })\n")
	b.WriteString("      .catch(function () { status.textContent = \"Something went wrong.\"; });\n")
	b.WriteString("  });\n")
	b.WriteString("})();\n")
	b.WriteString("</script></section>")
}

// Login is the admin sign-in page.
func Login(cfg SiteConfig, showError bool, csrf string) templ.Component {
	meta := PageMeta{Title: "Sign In"}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString("<h1>Sign in</h1>")
		if showError {
			b.WriteString(`<div class="toast" role="alert">Invalid email or password.</div>`)
		}
		b.WriteString(`<form class="stacked" method="post" action="/login/">`)
		csrfField(b, csrf)
		b.WriteString(`<label for="email">Email</label>`)
		b.WriteString(`<input type="email" id="email" name="email" required autofocus>`)
		b.WriteString(`<label for="password">Password</label>`)
		b.WriteString(`<input type="password" id="password" name="password" required>`)
		b.WriteString(`<button type="submit">Sign in</button>`)
		b.WriteString("</form>")
		return nil
	})
}

// NotFound is the generic 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Not Found"}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString("<h1>404</h1><p>The page you were looking for does not exist.</p>")
		b.WriteString(`<p><a href="/">&larr; Home</a></p>`)
		return nil
	})
}

// ServerError is the generic 5xx page.
func ServerError(cfg SiteConfig) templ.Component {
	meta := PageMeta{Title: "Server Error"}
	return page(cfg, meta, "", func(b *bytes.Buffer) error {
		b.WriteString("<h1>Something broke</h1><p>Try again in a moment.</p>")
		b.WriteString(`<p><a href="/">&larr; Home</a></p>`)
		return nil
	})
}
