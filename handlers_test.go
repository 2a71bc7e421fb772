package notionblog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func stubViews() ViewFuncs {
	text := func(s string) templ.Component {
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		})
	}
	return ViewFuncs{
		Home: func(pages []Page, activeTag string, tags []string, cfg SiteConfig) templ.Component {
			return text(fmt.Sprintf("home:%d:%s:%v", len(pages), activeTag, tags))
		},
		Page: func(doc *Document, related []Page, cfg SiteConfig) templ.Component {
			return text(fmt.Sprintf("page:%s:%d", doc.Page.Slug, len(doc.Outline)))
		},
		NotFound:    func(SiteConfig) templ.Component { return text("not found") },
		ServerError: func(SiteConfig) templ.Component { return text("server error") },
	}
}

func newTestApp(t *testing.T, cfg SiteConfig) *App {
	t.Helper()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "blog.db")
	a := New(cfg, stubViews(), WithLogger(quietLogger()), WithStaticDir(t.TempDir()))
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	path := writeFile(t, t.TempDir(), "hello.json", testRecordMap)
	if _, err := a.Importer.ImportFile(context.Background(), path); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	return a
}

func get(a *App, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHome(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "home:1::[go notion]" {
		t.Errorf("body = %q", got)
	}

	rec = get(a, "/?tag=rust")
	if got := rec.Body.String(); got != "home:0:rust:[go notion]" {
		t.Errorf("filtered body = %q", got)
	}
}

func TestHandlePage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	rec := get(a, "/blog/hello/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "page:hello:3" {
		t.Errorf("body = %q", got)
	}

	rec = get(a, "/blog/missing/")
	if rec.Code != http.StatusNotFound || rec.Body.String() != "not found" {
		t.Errorf("missing page = %d %q", rec.Code, rec.Body.String())
	}

	rec = get(a, "/blog/hello")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/blog/hello/" {
		t.Errorf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHandleTOC(t *testing.T) {
	a := newTestApp(t, SiteConfig{})

	rec := get(a, "/api/toc/hello")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload TOCPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Slug != "hello" || len(payload.Outline) != 3 {
		t.Fatalf("payload = %+v", payload)
	}
	want := []struct {
		id    string
		text  string
		level int
	}{
		{"h-1", "Setup", 1},
		{"h-2", "Install", 2},
		{"h-3", "Verify", 3},
	}
	for i, w := range want {
		e := payload.Outline[i]
		if e.ID != w.id || e.Text != w.text || e.Level != w.level {
			t.Errorf("entry %d = %+v, want %+v", i, e, w)
		}
	}
	if payload.Threshold != 120 || payload.Offset != 80 || payload.FlashMS != 1500 {
		t.Errorf("settings = %+v", payload.TOCSettings)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}

	rec = get(a, "/api/toc/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "page not found") {
		t.Errorf("missing body = %q", rec.Body.String())
	}
}

func TestHandleFeedAndSitemap(t *testing.T) {
	a := newTestApp(t, SiteConfig{URL: "https://blog.test", Lang: "vi-VN"})

	rec := get(a, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Hello Notion</title>",
		"<link>https://blog.test/blog/hello/</link>",
		"<language>vi-VN</language>",
		"<category>go</category>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("feed missing %q", want)
		}
	}

	rec = get(a, "/sitemap.xml")
	body = rec.Body.String()
	for _, want := range []string{
		"<loc>https://blog.test/</loc>",
		"<loc>https://blog.test/blog/hello/</loc>",
		"<loc>https://blog.test/?tag=notion</loc>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}

func TestBlogRedirect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog")
	if rec.Code != http.StatusMovedPermanently || rec.Header().Get("Location") != "/" {
		t.Errorf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestEmbeddedBootScript(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/public/tocboot.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "toc-data") {
		t.Error("boot script should look for the embedded outline")
	}
}

func TestInitRequiresViews(t *testing.T) {
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "x.db")}, ViewFuncs{}, WithLogger(quietLogger()))
	if err := a.Init(); err == nil {
		t.Fatal("expected an error without views")
	}
}
