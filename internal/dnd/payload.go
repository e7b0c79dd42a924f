package dnd

import "playpen/internal/sqlobj"

// PayloadKind names the shape of a classified drop payload.
type PayloadKind int

const (
	PayloadTable PayloadKind = iota
	PayloadColumn
	PayloadObjectList
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadTable:
		return "table"
	case PayloadColumn:
		return "column"
	case PayloadObjectList:
		return "object-list"
	default:
		return "unknown"
	}
}

// Payload is one of TablePayload, ColumnPayload or ObjectListPayload.
type Payload interface {
	Kind() PayloadKind
	payload()
}

// TablePayload is a single dropped table.
type TablePayload struct {
	Table *sqlobj.Table
}

// ColumnPayload is a single dropped column.
type ColumnPayload struct {
	Column *sqlobj.Column
}

// ObjectListPayload is a heterogeneous list. Only *sqlobj.Column elements are
// applied; anything else is skipped.
type ObjectListPayload struct {
	Objects []any
}

func (TablePayload) Kind() PayloadKind      { return PayloadTable }
func (ColumnPayload) Kind() PayloadKind     { return PayloadColumn }
func (ObjectListPayload) Kind() PayloadKind { return PayloadObjectList }

func (TablePayload) payload()      {}
func (ColumnPayload) payload()     {}
func (ObjectListPayload) payload() {}

// Columns returns the column elements of the list in order.
func (p ObjectListPayload) Columns() []*sqlobj.Column {
	var cols []*sqlobj.Column
	for _, o := range p.Objects {
		if c, ok := o.(*sqlobj.Column); ok && c != nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// ClassifyPayload turns a materialized transfer value into a Payload.
func ClassifyPayload(v any) (Payload, bool) {
	switch v := v.(type) {
	case *sqlobj.Table:
		if v != nil {
			return TablePayload{Table: v}, true
		}
	case *sqlobj.Column:
		if v != nil {
			return ColumnPayload{Column: v}, true
		}
	case []sqlobj.Object:
		objs := make([]any, len(v))
		for i, o := range v {
			objs[i] = o
		}
		return ObjectListPayload{Objects: objs}, true
	case []any:
		objs := make([]any, len(v))
		copy(objs, v)
		return ObjectListPayload{Objects: objs}, true
	}
	return nil, false
}
