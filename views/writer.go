package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
)

// html accumulates markup; text is escaped, raw is written as is.
type html struct {
	bytes.Buffer
}

func (h *html) raw(s ...string) {
	for _, v := range s {
		h.WriteString(v)
	}
}

func (h *html) text(s string) {
	h.WriteString(templ.EscapeString(s))
}

// attr writes name="value" with a leading space.
func (h *html) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *html) component(ctx context.Context, c templ.Component) error {
	if c == nil {
		return nil
	}
	return c.Render(ctx, &h.Buffer)
}

// component adapts fn to templ.Component. Output is buffered so that a
// failing child leaves the writer untouched.
func component(fn func(ctx context.Context, h *html) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var h html
		if err := fn(ctx, &h); err != nil {
			return err
		}
		_, err := w.Write(h.Bytes())
		return err
	})
}
