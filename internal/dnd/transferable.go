package dnd

import (
	"fmt"
	"strings"

	"playpen/internal/sqlobj"
)

// Transferable is the payload carried by a drag.
type Transferable interface {
	// Flavors lists the offered representations, most preferred first.
	Flavors() []Flavor
	// Data materializes one representation.
	Data(f Flavor) (any, error)
}

// ObjectTransferable carries a single table or column.
type ObjectTransferable struct {
	Object sqlobj.Object
}

// NewObjectTransferable offers obj as a SQL object and as plain text.
func NewObjectTransferable(obj sqlobj.Object) *ObjectTransferable {
	return &ObjectTransferable{Object: obj}
}

func (t *ObjectTransferable) Flavors() []Flavor {
	return []Flavor{FlavorSQLObject, FlavorText}
}

func (t *ObjectTransferable) Data(f Flavor) (any, error) {
	switch {
	case f.Equal(FlavorSQLObject):
		return t.Object, nil
	case f.Equal(FlavorText):
		return t.Object.ShortDisplayName(), nil
	}
	return nil, fmt.Errorf("%s: %w", f, ErrUnsupportedFlavor)
}

// ObjectListTransferable carries several catalog objects at once.
type ObjectListTransferable struct {
	Objects []sqlobj.Object
}

// NewObjectListTransferable offers objs as a SQL object list and as plain text.
func NewObjectListTransferable(objs ...sqlobj.Object) *ObjectListTransferable {
	return &ObjectListTransferable{Objects: objs}
}

func (t *ObjectListTransferable) Flavors() []Flavor {
	return []Flavor{FlavorSQLObjectList, FlavorText}
}

func (t *ObjectListTransferable) Data(f Flavor) (any, error) {
	switch {
	case f.Equal(FlavorSQLObjectList):
		out := make([]sqlobj.Object, len(t.Objects))
		copy(out, t.Objects)
		return out, nil
	case f.Equal(FlavorText):
		names := make([]string, 0, len(t.Objects))
		for _, o := range t.Objects {
			names = append(names, o.ShortDisplayName())
		}
		return strings.Join(names, "\n"), nil
	}
	return nil, fmt.Errorf("%s: %w", f, ErrUnsupportedFlavor)
}

// StaticTransferable offers fixed values per flavor. Flavors missing from
// Values fail with Err, or ErrUnsupportedFlavor when Err is nil.
type StaticTransferable struct {
	Offered []Flavor
	Values  map[string]any // keyed by MIME type
	Err     error
}

func (t *StaticTransferable) Flavors() []Flavor {
	return t.Offered
}

func (t *StaticTransferable) Data(f Flavor) (any, error) {
	if v, ok := t.Values[f.MIMEType]; ok {
		return v, nil
	}
	if t.Err != nil {
		return nil, t.Err
	}
	return nil, fmt.Errorf("%s: %w", f, ErrUnsupportedFlavor)
}
