package notion

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// maxDepth bounds recursion through content arrays; record maps are
// supposed to be trees but nothing enforces it.
const maxDepth = 32

// Render returns a templ.Component that renders the page rootID of rm.
func Render(rm *RecordMap, rootID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderHTML(&buf, rm, rootID)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderHTML writes the HTML for the content of page rootID to buf.
//
// Every block element carries data-block-id and a notion-block-<compact id>
// class, and headings also carry an id attribute, so any of the three
// lookup schemes used by the table of contents finds them.
func RenderHTML(buf *bytes.Buffer, rm *RecordMap, rootID string) {
	root, ok := rm.Get(rootID)
	if !ok {
		return
	}
	r := &renderer{rm: rm, buf: buf, visited: map[string]bool{rootID: true}}
	buf.WriteString(`<article class="notion-page">`)
	r.children(root.Content, 0)
	buf.WriteString(`</article>`)
}

type renderer struct {
	rm      *RecordMap
	buf     *bytes.Buffer
	visited map[string]bool
}

func (r *renderer) children(ids []string, depth int) {
	if depth > maxDepth {
		return
	}
	for i := 0; i < len(ids); i++ {
		b, ok := r.lookup(ids[i])
		if !ok {
			continue
		}
		if b.Type != TypeBulletedList && b.Type != TypeNumberedList {
			r.block(b, depth)
			continue
		}
		tag := "ul"
		if b.Type == TypeNumberedList {
			tag = "ol"
		}
		r.buf.WriteString("<" + tag + ` class="notion-list notion-list-` + tag + `">`)
		r.block(b, depth)
		for i+1 < len(ids) {
			next, ok := r.lookup(ids[i+1])
			if !ok || next.Type != b.Type {
				break
			}
			r.block(next, depth)
			i++
		}
		r.buf.WriteString("</" + tag + ">")
	}
}

func (r *renderer) lookup(id string) (*Block, bool) {
	b, ok := r.rm.Get(id)
	if !ok || !b.IsAlive() || r.visited[id] {
		return nil, false
	}
	return b, true
}

func (r *renderer) block(b *Block, depth int) {
	r.visited[b.ID] = true
	switch b.Type {
	case TypeHeader, TypeSubHeader, TypeSubSubHeader:
		tag, class := headingTag(b.Type)
		r.buf.WriteString("<" + tag + ` id="` + html.EscapeString(b.ID) + `"`)
		r.attrs(b, "notion-h "+class)
		r.inline(b.RichText("title"))
		r.buf.WriteString("</" + tag + ">")
	case TypeText:
		r.buf.WriteString("<p")
		r.attrs(b, "notion-text")
		r.inline(b.RichText("title"))
		r.buf.WriteString("</p>")
		r.nested(b, depth)
	case TypeBulletedList, TypeNumberedList:
		r.buf.WriteString("<li")
		r.attrs(b, "notion-list-item")
		r.inline(b.RichText("title"))
		r.nested(b, depth)
		r.buf.WriteString("</li>")
	case TypeToDo:
		r.buf.WriteString("<div")
		r.attrs(b, "notion-to-do")
		r.buf.WriteString(`<input type="checkbox" disabled`)
		if b.Checked() {
			r.buf.WriteString(" checked")
		}
		r.buf.WriteString("/> <span>")
		r.inline(b.RichText("title"))
		r.buf.WriteString("</span>")
		r.nested(b, depth)
		r.buf.WriteString("</div>")
	case TypeToggle:
		r.buf.WriteString("<details")
		r.attrs(b, "notion-toggle")
		r.buf.WriteString("<summary>")
		r.inline(b.RichText("title"))
		r.buf.WriteString("</summary>")
		r.children(b.Content, depth+1)
		r.buf.WriteString("</details>")
	case TypeQuote:
		r.buf.WriteString("<blockquote")
		r.attrs(b, "notion-quote")
		r.inline(b.RichText("title"))
		r.buf.WriteString("</blockquote>")
	case TypeCallout:
		r.buf.WriteString("<div")
		r.attrs(b, "notion-callout")
		if icon := b.FormatString("page_icon"); icon != "" && !strings.Contains(icon, "/") {
			r.buf.WriteString(`<span class="notion-callout-icon">` + html.EscapeString(icon) + "</span>")
		}
		r.buf.WriteString(`<div class="notion-callout-text">`)
		r.inline(b.RichText("title"))
		r.children(b.Content, depth+1)
		r.buf.WriteString("</div></div>")
	case TypeCode:
		lang := strings.ToLower(strings.TrimSpace(b.RichText("language").Plain()))
		r.buf.WriteString("<pre")
		r.attrs(b, "notion-code")
		if lang != "" {
			r.buf.WriteString(`<code class="language-` + html.EscapeString(strings.ReplaceAll(lang, " ", "-")) + `">`)
		} else {
			r.buf.WriteString("<code>")
		}
		r.buf.WriteString(html.EscapeString(b.Title()))
		r.buf.WriteString("</code></pre>")
	case TypeDivider:
		r.buf.WriteString("<hr")
		r.attrs(b, "notion-hr")
	case TypeImage:
		src := b.FormatString("display_source")
		if src == "" {
			src = b.RichText("source").Plain()
		}
		src = SafeURL(src)
		if src == "" {
			return
		}
		caption := b.RichText("caption")
		r.buf.WriteString("<figure")
		r.attrs(b, "notion-asset-wrapper")
		r.buf.WriteString(`<img src="` + src + `" alt="` + html.EscapeString(caption.Plain()) + `" loading="lazy" decoding="async"/>`)
		if len(caption) > 0 {
			r.buf.WriteString("<figcaption>")
			r.inline(caption)
			r.buf.WriteString("</figcaption>")
		}
		r.buf.WriteString("</figure>")
	case TypeBookmark:
		href := SafeURL(b.RichText("link").Plain())
		if href == "" {
			return
		}
		title := b.Title()
		if title == "" {
			title = html.UnescapeString(href)
		}
		r.buf.WriteString("<div")
		r.attrs(b, "notion-bookmark")
		r.buf.WriteString(`<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + html.EscapeString(title) + "</a></div>")
	case TypeColumnList, TypeColumn:
		r.buf.WriteString("<div")
		r.attrs(b, "notion-"+strings.ReplaceAll(b.Type, "_", "-"))
		r.children(b.Content, depth+1)
		r.buf.WriteString("</div>")
	case TypePage:
		r.buf.WriteString("<div")
		r.attrs(b, "notion-page-link")
		r.buf.WriteString(`<a href="` + html.EscapeString(PageURL(b.ID)) + `">` + html.EscapeString(b.Title()) + "</a></div>")
	case TypeTableOfContent:
		// The outline is rendered by the page template.
	default:
		title := b.RichText("title")
		if len(title) == 0 {
			return
		}
		r.buf.WriteString("<p")
		r.attrs(b, "notion-text")
		r.inline(title)
		r.buf.WriteString("</p>")
	}
}

// attrs writes the identifying attributes and closes the start tag.
func (r *renderer) attrs(b *Block, class string) {
	r.buf.WriteString(` data-block-id="` + html.EscapeString(b.ID) + `" class="` + class + " " + BlockClass(b.ID) + `">`)
}

func (r *renderer) nested(b *Block, depth int) {
	if len(b.Content) == 0 {
		return
	}
	r.buf.WriteString(`<div class="notion-indent">`)
	r.children(b.Content, depth+1)
	r.buf.WriteString("</div>")
}

func (r *renderer) inline(rt RichText) {
	for _, run := range rt {
		s := html.EscapeString(run.Text)
		s = strings.ReplaceAll(s, "\n", "<br/>")
		if run.Has("c") {
			s = `<code class="notion-inline-code">` + s + "</code>"
		}
		if run.Has("b") {
			s = "<strong>" + s + "</strong>"
		}
		if run.Has("i") {
			s = "<em>" + s + "</em>"
		}
		if run.Has("s") {
			s = "<s>" + s + "</s>"
		}
		if run.Has("_") {
			s = "<u>" + s + "</u>"
		}
		if href := SafeURL(run.Link()); href != "" {
			s = `<a class="notion-link" href="` + href + `">` + s + "</a>"
		}
		r.buf.WriteString(s)
	}
}

func headingTag(blockType string) (tag, class string) {
	switch blockType {
	case TypeHeader:
		return "h2", "notion-h1"
	case TypeSubHeader:
		return "h3", "notion-h2"
	default:
		return "h4", "notion-h3"
	}
}

// SafeURL validates and escapes a URL for use in an HTML attribute. Anything
// that is not relative, a fragment, or http(s)/mailto/tel yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
