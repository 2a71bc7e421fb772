package notionblog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"
	"github.com/sirupsen/logrus"

	"github.com/hoafnganh/notionblog/notion"
)

const summaryRunes = 160

// Importer loads exported record map JSON files into the Store.
type Importer struct {
	store    *Store
	log      *logrus.Entry
	attempts uint
	delay    time.Duration
}

// NewImporter returns an Importer writing to s. A nil log discards output.
func NewImporter(s *Store, log *logrus.Entry) *Importer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Importer{store: s, log: log, attempts: 3, delay: 200 * time.Millisecond}
}

// SlugFromPath derives a page slug from a record map file name.
func SlugFromPath(path string) string {
	return Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// ImportFile reads one record map file and upserts it. Reads and parses
// are retried, since the watcher can see a file while it is still being
// written; a record map without a page block is not.
func (im *Importer) ImportFile(ctx context.Context, path string) (Page, error) {
	slug := SlugFromPath(path)
	if slug == "" {
		return Page{}, fmt.Errorf("notionblog: no slug in file name %q", path)
	}

	var (
		data []byte
		rm   *notion.RecordMap
		info os.FileInfo
	)
	err := retry.Do(
		func() error {
			var err error
			if info, err = os.Stat(path); err != nil {
				return err
			}
			if data, err = os.ReadFile(path); err != nil {
				return err
			}
			if rm, err = notion.ParseRecordMap(data); err != nil {
				return err
			}
			if _, err = rm.RootPageID(); err != nil {
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(im.attempts),
		retry.Delay(im.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			im.log.WithError(err).WithField("file", path).Debugf("Import attempt %d failed", n+1)
		}),
	)
	if err != nil {
		return Page{}, fmt.Errorf("notionblog: import %s: %w", path, err)
	}

	page := PageFromRecordMap(rm, slug, info.ModTime())
	if err := im.store.SavePage(page, data); err != nil {
		return Page{}, fmt.Errorf("notionblog: save %s: %w", slug, err)
	}
	im.log.WithFields(logrus.Fields{"slug": slug, "title": page.Title}).Info("Imported page")
	return page, nil
}

// ImportDir imports every *.json file in dir. Files that fail are logged
// and reported together; the others are still imported.
func (im *Importer) ImportDir(ctx context.Context, dir string) ([]Page, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var (
		pages []Page
		errs  []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		page, err := im.ImportFile(ctx, path)
		if err != nil {
			im.log.WithError(err).Warn("Skipping file")
			errs = append(errs, err)
			continue
		}
		pages = append(pages, page)
	}
	return pages, errors.Join(errs...)
}

// Remove deletes the page imported from path.
func (im *Importer) Remove(path string) error {
	slug := SlugFromPath(path)
	if err := im.store.DeletePage(slug); err != nil {
		return fmt.Errorf("notionblog: delete %s: %w", slug, err)
	}
	im.log.WithField("slug", slug).Info("Removed page")
	return nil
}

// PageFromRecordMap builds the listing metadata of the root page of rm.
// modTime dates pages whose record map carries no creation time.
func PageFromRecordMap(rm *notion.RecordMap, slug string, modTime time.Time) Page {
	page := Page{Slug: slug, Link: "/blog/" + slug + "/"}
	rootID, err := rm.RootPageID()
	if err != nil {
		return page
	}
	root, _ := rm.Get(rootID)

	page.PageID = rootID
	page.Title = strings.TrimSpace(root.Title())
	if page.Title == "" {
		page.Title = slug
	}
	page.Published = root.IsAlive()
	page.Tags = FilterEmpty(strings.Split(root.RichText("tags").Plain(), ","))

	when := modTime
	if root.CreatedTime > 0 {
		when = time.UnixMilli(root.CreatedTime)
	}
	page.Date = when.UTC().Format("2006-01-02")

	for _, id := range root.Content {
		b, ok := rm.Get(id)
		if !ok || b.Type != notion.TypeText {
			continue
		}
		if text := strings.TrimSpace(b.Title()); text != "" {
			page.Summary = truncate(text, summaryRunes)
			break
		}
	}
	return page
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}
