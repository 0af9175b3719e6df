// Package views renders the landing page, the editor and their htmx
// fragments. Each view is a templ.Component backed by an embedded
// html/template set, so handlers stay agnostic of the markup.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/hero"
	"github.com/eringen/folio/verse"
)

//go:embed templates/*.html
var templateFS embed.FS

// CardProps identifies one card of the editor grid.
type CardProps struct {
	Index int
	Card  content.Card
}

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"card":                func(i int, c content.Card) CardProps { return CardProps{Index: i, Card: c} },
	"columns":             func() int { return GridColumns },
	"rows":                func() int { return GridRows },
	"cta":                 func() string { return LabelCTA },
	"labelSave":           func() string { return LabelSave },
	"labelSaving":         func() string { return LabelSaving },
	"labelUploading":      func() string { return hero.MsgUploading },
	"editQueue":           func() string { return EditQueue },
	"placeholderHeadline": func() string { return PlaceholderHeadline },
	"placeholderBio":      func() string { return PlaceholderBio },
	"placeholderTitle":    func() string { return PlaceholderTitle },
	"placeholderSubtitle": func() string { return PlaceholderSubtitle },
}).ParseFS(templateFS, "templates/*.html"))

func execute(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

type layoutData struct {
	Site   SiteConfig
	Meta   PageMeta
	JSONLD []template.JS
	CSRF   string
}

type pageData struct {
	layoutData
	Hero        HeroProps
	LoadingText string
}

// Page renders the full landing page. In visitor mode it also carries the
// verse placeholder that loads itself through htmx.
func Page(site SiteConfig, meta PageMeta, props HeroProps) templ.Component {
	data := pageData{
		layoutData:  layoutData{Site: site, Meta: meta, CSRF: props.CSRF},
		Hero:        props,
		LoadingText: verse.LoadingMessage,
	}
	if !props.Mode.IsEditor() {
		data.JSONLD = []template.JS{
			template.JS(WebsiteJsonLD(site)),
			template.JS(PersonJsonLD(site, props.Record)),
		}
	}
	return execute("page", data)
}

// Verse renders the settled verse fragment that replaces the placeholder.
func Verse(v verse.View) templ.Component {
	return execute("verse", v)
}

type cardFragment struct {
	Card   CardProps
	Notice *hero.Notice
}

// EditorCard renders one editable card plus an out-of-band notice.
func EditorCard(i int, c content.Card, n *hero.Notice) templ.Component {
	return execute("card-fragment", cardFragment{Card: CardProps{Index: i, Card: c}, Notice: n})
}

type saveFragment struct {
	Saving bool
	Notice hero.Notice
}

// SaveResult renders the save button in its settled state plus an
// out-of-band notice.
func SaveResult(saving bool, n hero.Notice) templ.Component {
	return execute("save-fragment", saveFragment{Saving: saving, Notice: n})
}

// Notice renders n as an out-of-band swap into the notices region.
func Notice(n hero.Notice) templ.Component {
	return execute("notice-oob", n)
}

type loginData struct {
	layoutData
	ShowError bool
}

// AdminLogin renders the editor login form.
func AdminLogin(site SiteConfig, showError bool, csrfToken string) templ.Component {
	return execute("login", loginData{
		layoutData: layoutData{
			Site: site,
			Meta: PageMeta{Title: "Editor login | " + site.Name, OGType: "website", NoIndex: true},
			CSRF: csrfToken,
		},
		ShowError: showError,
	})
}

type errorData struct {
	layoutData
	Heading string
	Message string
}

// NotFound renders the 404 page.
func NotFound(site SiteConfig) templ.Component {
	return errorPage(site, "Page not found", "The page you are looking for does not exist.")
}

// ServerError renders the 500 page.
func ServerError(site SiteConfig) templ.Component {
	return errorPage(site, "Something went wrong", "Please try again in a moment.")
}

func errorPage(site SiteConfig, heading, msg string) templ.Component {
	return execute("error", errorData{
		layoutData: layoutData{
			Site: site,
			Meta: PageMeta{Title: heading + " | " + site.Name, OGType: "website", NoIndex: true},
		},
		Heading: heading,
		Message: msg,
	})
}
