package notionblog

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	pages, err := a.Cache.ListPages(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(pages, tag, tags, a.Config))
}

func (a *App) handlePage(c echo.Context) error {
	doc, err := a.Cache.GetDocument(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		}
		return err
	}
	pages, err := a.Cache.ListPages("")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Page(doc, FilterRelatedPages(doc.Page, pages), a.Config))
}

func (a *App) handleTOC(c echo.Context) error {
	doc, err := a.Cache.GetDocument(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "page not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, a.TOCPayload(doc))
}

// TOCPayload is the outline of doc together with the configured TOC settings.
func (a *App) TOCPayload(doc *Document) TOCPayload {
	return NewTOCPayload(doc, a.Config.TOC)
}

// NewTOCPayload pairs the outline of doc with the settings of cfg.
func NewTOCPayload(doc *Document, cfg TOCConfig) TOCPayload {
	return TOCPayload{Slug: doc.Page.Slug, Outline: doc.Outline, TOCSettings: cfg.Settings()}
}

func (a *App) handleSitemap(c echo.Context) error {
	pages, err := a.Cache.ListPages("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, pages, tags)
}

func (a *App) handleFeed(c echo.Context) error {
	pages, err := a.Cache.ListPages("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, pages)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && !isAPI(c) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.component("http").WithError(err).WithField("uri", c.Request().RequestURI).Error("Server error")
		if !isAPI(c) {
			_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
