package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/folio/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := websiteLD(cfg)
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func websiteLD(cfg SiteConfig) map[string]interface{} {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      buildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	return data
}

// PersonJsonLD produces a Schema.org ProfilePage JSON-LD block describing the
// site owner with the hero headline and bio, and the cards as works.
func PersonJsonLD(cfg SiteConfig, rec content.Record) string {
	person := map[string]interface{}{
		"@type": "Person",
		"name":  cfg.Author,
	}
	if rec.Bio != "" && rec.Bio != content.DefaultBio {
		person["description"] = rec.Bio
	}
	var works []map[string]string
	for _, c := range rec.Cards {
		if c.Title == "" {
			continue
		}
		w := map[string]string{"@type": "CreativeWork", "name": c.Title}
		if c.Subtitle != "" {
			w["abstract"] = c.Subtitle
		}
		if c.Image != "" {
			w["image"] = c.Image
		}
		works = append(works, w)
	}
	if len(works) > 0 {
		person["subjectOf"] = works
	}
	data := map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "ProfilePage",
		"name":       rec.Headline,
		"url":        buildURL(cfg.URL),
		"mainEntity": person,
		"isPartOf":   websiteLD(cfg),
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
