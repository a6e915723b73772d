package tags

import (
	"strings"

	"github.com/google/uuid"
)

// State is the toggle state of a single tag.
type State int

const (
	StateUnassociated State = iota
	StateAssociating
	StateAssociated
	StateDisassociating
)

func (s State) String() string {
	switch s {
	case StateAssociating:
		return "associating"
	case StateAssociated:
		return "associated"
	case StateDisassociating:
		return "disassociating"
	default:
		return "unassociated"
	}
}

// Tag is one candidate related record and its link state.
type Tag struct {
	ID         string
	Columns    []string
	Associated bool
	Locked     bool
}

// State derives the machine state from the associated and locked flags.
// A locked tag is moving away from its current association.
func (t Tag) State() State {
	switch {
	case t.Locked && t.Associated:
		return StateDisassociating
	case t.Locked:
		return StateAssociating
	case t.Associated:
		return StateAssociated
	default:
		return StateUnassociated
	}
}

// Label joins the display columns into a single line.
func (t Tag) Label() string {
	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return t.ID
	}
	return strings.Join(parts, " · ")
}

// --- Row Feed ---

// Column is a view column as supplied by the host.
type Column struct {
	Name  string
	Label string
	Order int
}

// Cell is one formatted value of a row.
type Cell struct {
	Column string
	Value  string
}

// Row is one record of the row feed.
type Row struct {
	ID    string
	Cells []Cell
}

// Values returns the formatted values in cell order.
func (r Row) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Value
	}
	return out
}

// NormalizeID strips GUID braces and lowercases GUIDs so ids from different
// endpoints compare equal. Non-GUID ids are only trimmed.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return strings.TrimSuffix(strings.TrimPrefix(id, "{"), "}")
}
