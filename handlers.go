package folio

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/verse"
	"github.com/eringen/folio/views"
)

func (a *App) handleHome(c echo.Context) error {
	mode := content.ModeFromPath(c.Request().URL.Path)
	loaded := a.visitor.Load(c.Request().Context())
	meta := views.PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL),
		OGType:      "website",
	}
	return Render(c, a.Views.Page(a.site(), meta, views.HeroProps{
		Record:    loaded.Record,
		Mode:      mode,
		Available: loaded.Available,
	}))
}

// handleVerse fetches one verse per request; the page placeholder loads it.
func (a *App) handleVerse(c echo.Context) error {
	w := verse.NewWidget()
	w.Load(c.Request().Context(), a.verse)
	return Render(c, a.Views.Verse(w.View()))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nDisallow: /admin/\nSitemap: %s/sitemap.xml\n", strings.TrimSuffix(a.Config.URL, "/"))
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		slog.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
