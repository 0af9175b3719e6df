// Package content holds the landing-page content model shared by the visitor
// view, the editor and every backend: the singleton record with its headline,
// bio and card grid.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// RecordID is the fixed identifier of the singleton content record.
const RecordID int64 = 1

// Placeholder values shown until live content has loaded.
const (
	DefaultHeadline = "Hi! My Name is Ruel."
	DefaultBio      = "Loading..."
)

var (
	// ErrCardIndex is returned when a card index is outside the card list.
	ErrCardIndex = errors.New("card index out of range")
	// ErrCardField is returned for a card field name other than title, subtitle or image.
	ErrCardField = errors.New("unknown card field")
)

// Card is one grid item. It has no identity beyond its position.
type Card struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
}

// Record is the singleton document rendered by the hero section.
type Record struct {
	Headline string `json:"headline"`
	Bio      string `json:"bio"`
	Cards    []Card `json:"cards"`
}

// Default returns the built-in placeholder record.
func Default() Record {
	return Record{
		Headline: DefaultHeadline,
		Bio:      DefaultBio,
		Cards:    []Card{},
	}
}

// Clone returns a deep copy so two holders never share a cards slice.
func (r Record) Clone() Record {
	out := r
	out.Cards = make([]Card, len(r.Cards))
	copy(out.Cards, r.Cards)
	return out
}

// Normalize replaces a nil card list with an empty one.
func (r Record) Normalize() Record {
	if r.Cards == nil {
		r.Cards = []Card{}
	}
	return r
}

// Card returns the card at index i.
func (r Record) Card(i int) (Card, error) {
	if i < 0 || i >= len(r.Cards) {
		return Card{}, fmt.Errorf("%w: %d of %d", ErrCardIndex, i, len(r.Cards))
	}
	return r.Cards[i], nil
}

// CardField names an editable field of a Card.
type CardField string

// Card fields accepted by SetCardField.
const (
	FieldTitle    CardField = "title"
	FieldSubtitle CardField = "subtitle"
	FieldImage    CardField = "image"
)

// ParseCardField maps a form field name onto a CardField.
func ParseCardField(name string) (CardField, error) {
	switch f := CardField(strings.ToLower(strings.TrimSpace(name))); f {
	case FieldTitle, FieldSubtitle, FieldImage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrCardField, name)
}

// SetCardField updates one field of card i in place.
func (r *Record) SetCardField(i int, field CardField, value string) error {
	if i < 0 || i >= len(r.Cards) {
		return fmt.Errorf("%w: %d of %d", ErrCardIndex, i, len(r.Cards))
	}
	c := &r.Cards[i]
	switch field {
	case FieldTitle:
		c.Title = value
	case FieldSubtitle:
		c.Subtitle = value
	case FieldImage:
		c.Image = value
	default:
		return fmt.Errorf("%w: %q", ErrCardField, field)
	}
	return nil
}

// SetCardImage writes an image URL into card i.
func (r *Record) SetCardImage(i int, url string) error {
	return r.SetCardField(i, FieldImage, url)
}
