package folio

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/hero"
	"github.com/eringen/folio/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsEditor(c) {
		return Render(c, a.Views.AdminLogin(a.site(), false, CsrfToken(c)))
	}
	ed, err := a.editor(c)
	if err != nil {
		return err
	}
	return a.renderEditor(c, ed, nil)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(ip)
		slog.Warn("editor login failed", "ip", ip)
		return Render(c, a.Views.AdminLogin(a.site(), true, CsrfToken(c)))
	}
	id, _ := a.drafts.Open(c.Request().Context())
	if err := setEditorSession(c, id); err != nil {
		a.drafts.Discard(id)
		return err
	}
	slog.Info("editor logged in", "ip", ip)
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if id := draftID(c); id != "" {
		a.drafts.Discard(id)
	}
	if err := clearEditorSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleHeroField(c echo.Context) error {
	ed, err := a.editor(c)
	if err != nil {
		return err
	}
	if err := ed.SetField(c.FormValue("name"), c.FormValue("value")); err != nil {
		if errors.Is(err, hero.ErrUnknownField) {
			return a.renderRejected(c, err)
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleHeroCard(c echo.Context) error {
	ed, err := a.editor(c)
	if err != nil {
		return err
	}
	i, err := cardIndex(c)
	if err != nil {
		return a.renderRejected(c, err)
	}
	field, err := content.ParseCardField(c.FormValue("field"))
	if err != nil {
		return a.renderRejected(c, err)
	}
	if err := ed.UpdateCard(i, field, c.FormValue("value")); err != nil {
		if errors.Is(err, content.ErrCardIndex) {
			return a.renderRejected(c, err)
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleHeroImage(c echo.Context) error {
	ed, err := a.editor(c)
	if err != nil {
		return err
	}
	i, err := cardIndex(c)
	if err != nil {
		return a.renderRejected(c, err)
	}
	card, err := ed.Draft().Record.Card(i)
	if err != nil {
		return a.renderRejected(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		// Nothing chosen: the card stays as it is.
		return a.renderCard(c, i, card, nil)
	}
	fail := hero.Notice{Kind: hero.NoticeError, Message: hero.MsgUploadFailed}
	src, err := file.Open()
	if err != nil {
		slog.Warn("card upload unreadable", "card", i, "filename", file.Filename, "error", err)
		return a.renderCard(c, i, card, &fail)
	}
	defer src.Close()

	up, err := prepareUpload(src, file.Header.Get(echo.HeaderContentType), a.Config.MaxImageWidth)
	if err != nil {
		slog.Warn("card upload unreadable", "card", i, "filename", file.Filename, "error", err)
		return a.renderCard(c, i, card, &fail)
	}

	n, err := ed.UploadImage(c.Request().Context(), i, hero.Upload{
		Body:        bytes.NewReader(up.Data),
		ContentType: up.ContentType,
	})
	if err == nil {
		slog.Info("card image uploaded", "card", i, "bytes", len(up.Data), "type", up.ContentType, "resized", up.Resized)
		if updated, cerr := ed.Draft().Record.Card(i); cerr == nil {
			card = updated
		}
	}
	return a.renderCard(c, i, card, &n)
}

func (a *App) handleHeroSave(c echo.Context) error {
	ed, err := a.editor(c)
	if err != nil {
		return err
	}
	n, _ := ed.Save(c.Request().Context())
	return Render(c, a.Views.SaveResult(false, n))
}

func (a *App) handleHeroReload(c echo.Context) error {
	ed, err := a.editor(c)
	if err != nil {
		return err
	}
	n := ed.Reload(c.Request().Context())
	return a.renderEditor(c, ed, &n)
}

// editor returns the draft of the current session, opening a fresh one when
// the session has none or the registry no longer holds it.
func (a *App) editor(c echo.Context) (*hero.Editor, error) {
	if ed, ok := a.drafts.Get(draftID(c)); ok {
		return ed, nil
	}
	id, ed := a.drafts.Open(c.Request().Context())
	if err := setSessionDraft(c, id); err != nil {
		a.drafts.Discard(id)
		return nil, err
	}
	return ed, nil
}

func (a *App) renderEditor(c echo.Context, ed *hero.Editor, n *hero.Notice) error {
	d := ed.Draft()
	meta := views.PageMeta{
		Title:   "Editor | " + a.Config.Name,
		URL:     BuildURL(a.Config.URL, "admin"),
		OGType:  "website",
		NoIndex: true,
	}
	return Render(c, a.Views.Page(a.site(), meta, views.HeroProps{
		Record:    d.Record,
		Mode:      content.ModeFromPath(c.Request().URL.Path),
		Available: d.Available,
		Saving:    d.Saving,
		CSRF:      CsrfToken(c),
		Notice:    n,
	}))
}

func (a *App) renderCard(c echo.Context, i int, card content.Card, n *hero.Notice) error {
	return Render(c, a.Views.EditorCard(i, card, n))
}

// renderRejected answers an edit the draft refused with a 422 and an error
// notice for the notices region.
func (a *App) renderRejected(c echo.Context, err error) error {
	return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Notice(hero.Rejected(err)))
}

func cardIndex(c echo.Context) (int, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", content.ErrCardIndex, c.Param("index"))
	}
	return i, nil
}
