// Package dnd implements the drop side of drag-and-drop for diagram panes:
// transfer flavors, transferable payloads, and the DropCoordinator state
// machine that classifies a payload and applies it to a table.
package dnd

import (
	"errors"
	"strings"
)

// Flavor identifies one representation of a transferable payload.
type Flavor struct {
	MIMEType  string
	HumanName string
}

// Recognized and common flavors.
var (
	FlavorSQLObject     = Flavor{MIMEType: "application/x-playpen-sqlobject", HumanName: "SQL object"}
	FlavorSQLObjectList = Flavor{MIMEType: "application/x-playpen-sqlobject-list", HumanName: "SQL object list"}
	FlavorText          = Flavor{MIMEType: "text/plain", HumanName: "Plain text"}
	FlavorPNG           = Flavor{MIMEType: "image/png", HumanName: "PNG image"}
)

// Equal compares MIME types case-insensitively; the human name is ignored.
func (f Flavor) Equal(other Flavor) bool {
	return strings.EqualFold(f.MIMEType, other.MIMEType)
}

func (f Flavor) String() string {
	return f.MIMEType
}

var (
	// ErrUnsupportedFlavor is returned by Transferable.Data for a flavor it does not offer.
	ErrUnsupportedFlavor = errors.New("unsupported flavor")
	// ErrInvalidOperation is returned when the platform refuses the transfer mid-drop.
	ErrInvalidOperation = errors.New("invalid drag-and-drop operation")
	// ErrNoAcceptableFlavor means none of the offered flavors is recognized.
	ErrNoAcceptableFlavor = errors.New("no acceptable flavor offered")
	// ErrUnrecognizedPayload means the materialized value is not a table, column or object list.
	ErrUnrecognizedPayload = errors.New("unrecognized payload")
)

// ClassifyAcceptableFlavor returns the first offered flavor that is either
// the single SQL object flavor or the SQL object list flavor. It has no side
// effects.
func ClassifyAcceptableFlavor(offered []Flavor) (Flavor, bool) {
	for _, f := range offered {
		if f.Equal(FlavorSQLObject) || f.Equal(FlavorSQLObjectList) {
			return f, true
		}
	}
	return Flavor{}, false
}

// CanImport reports whether any offered flavor is acceptable.
func CanImport(offered []Flavor) bool {
	_, ok := ClassifyAcceptableFlavor(offered)
	return ok
}
