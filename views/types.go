package views

import (
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/hero"
)

// SiteConfig holds the site-wide settings every page template needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	HTMXURL     string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string
	NoIndex     bool
}

// HeroProps is everything the hero template needs for either mode.
type HeroProps struct {
	Record    content.Record
	Mode      content.Mode
	Available bool
	Saving    bool
	CSRF      string
	Notice    *hero.Notice
}

// Grid layout of the visitor card grid.
const (
	GridColumns = 3
	GridRows    = 1
)

// Placeholders of the editor inputs.
const (
	PlaceholderHeadline = "Headline Text"
	PlaceholderBio      = "Bio Description"
	PlaceholderTitle    = "Title"
	PlaceholderSubtitle = "Subtitle"
)

// Button and call-to-action labels.
const (
	LabelSave   = "Save Changes"
	LabelSaving = "Saving..."
	LabelCTA    = "Check out my projects!"
)

// EditQueue is the hx-sync value shared by every editor request, so field
// edits reach the draft in order and ahead of a save.
const EditQueue = "closest .hero-editing:queue all"
