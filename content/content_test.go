package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, "Hi! My Name is Ruel.", d.Headline)
	assert.Equal(t, "Loading...", d.Bio)
	require.NotNil(t, d.Cards)
	assert.Empty(t, d.Cards)
}

func TestCloneDoesNotShareCards(t *testing.T) {
	r := Record{Headline: "A", Cards: []Card{{Title: "T1"}}}
	c := r.Clone()
	c.Cards[0].Title = "changed"
	assert.Equal(t, "T1", r.Cards[0].Title)
}

func TestNormalize(t *testing.T) {
	r := Record{Headline: "A"}.Normalize()
	require.NotNil(t, r.Cards)
	assert.Len(t, r.Cards, 0)
}

func TestSetCardFieldUpdatesOnlyTarget(t *testing.T) {
	r := Record{
		Headline: "A",
		Bio:      "B",
		Cards: []Card{
			{Title: "T0", Subtitle: "S0", Image: "U0"},
			{Title: "T1", Subtitle: "S1", Image: "U1"},
		},
	}

	require.NoError(t, r.SetCardField(1, FieldSubtitle, "new"))
	assert.Equal(t, Card{Title: "T1", Subtitle: "new", Image: "U1"}, r.Cards[1])
	assert.Equal(t, Card{Title: "T0", Subtitle: "S0", Image: "U0"}, r.Cards[0])
	assert.Equal(t, "A", r.Headline)
	assert.Equal(t, "B", r.Bio)
}

func TestSetCardFieldOutOfRange(t *testing.T) {
	r := Record{Cards: []Card{{Title: "T0"}}}
	for _, i := range []int{-1, 1, 42} {
		err := r.SetCardField(i, FieldTitle, "x")
		assert.ErrorIs(t, err, ErrCardIndex, "index %d", i)
	}
	assert.Equal(t, "T0", r.Cards[0].Title)
}

func TestSetCardFieldUnknownField(t *testing.T) {
	r := Record{Cards: []Card{{Title: "T0"}}}
	err := r.SetCardField(0, CardField("colour"), "x")
	assert.ErrorIs(t, err, ErrCardField)
}

func TestSetCardImage(t *testing.T) {
	r := Record{Cards: []Card{{Image: "old"}}}
	require.NoError(t, r.SetCardImage(0, "https://cdn.example/new"))
	assert.Equal(t, "https://cdn.example/new", r.Cards[0].Image)
}

func TestCardAccessor(t *testing.T) {
	r := Record{Cards: []Card{{Title: "T0"}}}
	c, err := r.Card(0)
	require.NoError(t, err)
	assert.Equal(t, "T0", c.Title)

	_, err = r.Card(1)
	assert.ErrorIs(t, err, ErrCardIndex)
}

func TestParseCardField(t *testing.T) {
	tests := []struct {
		in   string
		want CardField
		ok   bool
	}{
		{"title", FieldTitle, true},
		{" Subtitle ", FieldSubtitle, true},
		{"IMAGE", FieldImage, true},
		{"headline", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseCardField(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.ErrorIs(t, err, ErrCardField, tt.in)
		}
	}
}

func TestRecordJSONShape(t *testing.T) {
	r := Record{Headline: "A", Bio: "B", Cards: []Card{{Title: "T1", Subtitle: "S1", Image: "U1"}}}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"headline":"A","bio":"B","cards":[{"title":"T1","subtitle":"S1","image":"U1"}]}`, string(b))
}

func TestModeFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Mode
	}{
		{"/", Visitor},
		{"", Visitor},
		{"/admin", Editor},
		{"/admin/", Editor},
		{"/site/admin/hero/", Editor},
		{"/administrator", Editor},
		{"/Admin/", Visitor},
		{"/verse/", Visitor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModeFromPath(tt.path), tt.path)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "editor", Editor.String())
	assert.Equal(t, "visitor", Visitor.String())
	assert.True(t, Editor.IsEditor())
	assert.False(t, Visitor.IsEditor())
}
