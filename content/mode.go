package content

import "strings"

// Mode selects between the read-only and the editable rendering of a record.
type Mode int

const (
	// Visitor renders content read-only for the public.
	Visitor Mode = iota
	// Editor renders the same content as editable fields.
	Editor
)

// AdminPathMarker is the path fragment that selects editor mode.
const AdminPathMarker = "/admin"

// ModeFromPath derives the view mode from a request path. It is meant for
// the routing boundary only; components receive the Mode explicitly.
func ModeFromPath(path string) Mode {
	if strings.Contains(path, AdminPathMarker) {
		return Editor
	}
	return Visitor
}

// IsEditor reports whether m is Editor.
func (m Mode) IsEditor() bool { return m == Editor }

func (m Mode) String() string {
	if m == Editor {
		return "editor"
	}
	return "visitor"
}
