// Package markdown renders post content to HTML as a templ component.
// It uses goldmark with GFM extensions, decorates fenced code blocks with
// a language badge and a copy-to-clipboard button, styles inline code
// distinctly from block code, and sanitizes the output with bluemonday.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&codeRenderer{}, 100),
		),
	),
)

// policy admits the markup our code renderer emits on top of the usual
// user-generated-content allowances.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("button")
	p.AllowAttrs("type").OnElements("button")
	p.AllowAttrs("class").OnElements("div", "span", "pre", "code", "button")
	return p
}()

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, content)
	})
}

// Render writes the sanitized HTML representation of source to w.
func Render(w io.Writer, source string) error {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return err
	}
	_, err := w.Write(policy.SanitizeBytes(buf.Bytes()))
	return err
}

// codeRenderer overrides goldmark's fenced-code-block and code-span
// output. Block code gets a wrapper with a copy button (wired up by
// copy-code.js); inline code gets its own class so the two read
// differently.
type codeRenderer struct{}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
}

func (r *codeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if entering {
		_, _ = w.WriteString(`<div class="code-block-wrapper">`)
		lang := string(n.Language(source))
		if lang != "" {
			escaped := html.EscapeString(lang)
			_, _ = w.WriteString(`<span class="code-lang code-lang-` + escaped + `">` + escaped + `</span>`)
		}
		_, _ = w.WriteString(`<button type="button" class="copy-code">Copy</button>`)
		if lang != "" {
			_, _ = w.WriteString(`<pre class="code-block"><code class="language-` + html.EscapeString(lang) + `">`)
		} else {
			_, _ = w.WriteString(`<pre class="code-block"><code>`)
		}
		for i := 0; i < n.Lines().Len(); i++ {
			line := n.Lines().At(i)
			_, _ = w.WriteString(html.EscapeString(string(line.Value(source))))
		}
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</code></pre></div>")
	return ast.WalkContinue, nil
}

func (r *codeRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<code class="inline-code">`)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			text, ok := c.(*ast.Text)
			if !ok {
				continue
			}
			value := text.Segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				_, _ = w.WriteString(html.EscapeString(string(value[:len(value)-1])))
				_, _ = w.WriteString(" ")
			} else {
				_, _ = w.WriteString(html.EscapeString(string(value)))
			}
		}
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("</code>")
	return ast.WalkContinue, nil
}
