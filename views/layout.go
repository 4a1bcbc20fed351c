package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
)

func esc(s string) string {
	return html.EscapeString(s)
}

// page wraps body content in the shared document shell: head metadata,
// site header with navigation, footer. jsonLD is injected verbatim into a
// script tag when non-empty, so callers must only pass marshaled JSON.
func page(cfg SiteConfig, meta PageMeta, jsonLD string, body func(b *bytes.Buffer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b bytes.Buffer
		title := meta.Title
		if title == "" {
			title = cfg.Name
		} else {
			title = title + " | " + cfg.Name
		}
		desc := meta.Description
		if desc == "" {
			desc = cfg.Description
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}

		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		b.WriteString(`<meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString("<title>" + esc(title) + "</title>")
		if desc != "" {
			b.WriteString(`<meta name="description" content="` + esc(desc) + `">`)
		}
		if meta.URL != "" {
			b.WriteString(`<link rel="canonical" href="` + esc(meta.URL) + `">`)
			b.WriteString(`<meta property="og:url" content="` + esc(meta.URL) + `">`)
		}
		b.WriteString(`<meta property="og:title" content="` + esc(title) + `">`)
		if desc != "" {
			b.WriteString(`<meta property="og:description" content="` + esc(desc) + `">`)
		}
		b.WriteString(`<meta property="og:type" content="` + esc(ogType) + `">`)
		b.WriteString(`<meta property="og:site_name" content="` + esc(cfg.Name) + `">`)
		b.WriteString(`<link rel="alternate" type="application/rss+xml" title="` + esc(cfg.Name) + `" href="/feed.xml">`)
		b.WriteString(`<link rel="stylesheet" href="/public/site.css">`)
		b.WriteString(`<script src="/public/copy-code.js" defer></script>`)
		if jsonLD != "" {
			b.WriteString(`<script type="application/ld+json">` + jsonLD + `</script>`)
		}
		b.WriteString("</head><body>")

		b.WriteString(`<header class="site-header"><nav>`)
		b.WriteString(`<a href="/">` + esc(cfg.Name) + `</a>`)
		b.WriteString(`<a href="/blog/">Blog</a>`)
		b.WriteString(`<a href="/about/">About</a>`)
		b.WriteString("</nav></header><main>")

		if err := body(&b); err != nil {
			return err
		}

		b.WriteString("</main><footer>")
		b.WriteString(`<p>&copy; ` + esc(cfg.Name) + ` &middot; <a href="/feed.xml">RSS</a></p>`)
		b.WriteString("</footer></body></html>")

		_, err := w.Write(b.Bytes())
		return err
	})
}

// toast renders the one-shot status message passed around via ?msg=.
func toast(b *bytes.Buffer, msg string) {
	if msg == "" {
		return
	}
	b.WriteString(`<div class="toast" role="status">` + esc(msg) + `</div>`)
}

func csrfField(b *bytes.Buffer, token string) {
	b.WriteString(`<input type="hidden" name="_csrf" value="` + esc(token) + `">`)
}
