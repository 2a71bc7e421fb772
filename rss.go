package notionblog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

// rssDate converts a page date to RFC 1123Z, or "" when it does not parse.
func rssDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Format(time.RFC1123Z)
}

func (a *App) buildFeed(pages []Page) rssFeed {
	base := a.Config.URL
	items := make([]rssItem, 0, len(pages))
	for _, p := range pages {
		pageURL := BuildURL(base, "blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        pageURL,
			Description: p.Summary,
			PubDate:     rssDate(p.Date),
			GUID:        pageURL,
			Categories:  p.Tags,
		})
	}
	ch := rssChannel{
		Title:       a.Config.Name,
		Link:        BuildURL(base),
		Description: a.Config.Description,
		Language:    a.Config.Lang,
		Items:       items,
	}
	// pages are newest first
	if len(pages) > 0 {
		ch.LastBuildDate = rssDate(pages[0].Date)
	}
	return rssFeed{Version: "2.0", Channel: ch}
}

func (a *App) renderRSS(c echo.Context, pages []Page) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildFeed(pages))
}
