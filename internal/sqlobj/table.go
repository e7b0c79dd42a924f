package sqlobj

import (
	"strings"

	"github.com/google/uuid"
)

// Table is an ordered collection of columns with listener support.
type Table struct {
	id      string
	name    string
	schema  string
	remarks string
	columns []*Column
	subs    []*Subscription
}

var _ Object = (*Table)(nil)

// NewTable creates an empty table. Columns may be supplied inline; they are
// adopted (or copied if another table owns them).
func NewTable(name string, columns ...*Column) *Table {
	t := &Table{id: uuid.NewString(), name: name}
	for _, c := range columns {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c = c.Copy()
		}
		c.parent = t
		t.columns = append(t.columns, c)
	}
	return t
}

func (t *Table) ID() string      { return t.id }
func (t *Table) Name() string    { return t.name }
func (t *Table) Schema() string  { return t.schema }
func (t *Table) Remarks() string { return t.remarks }

// ShortDisplayName is the unqualified table name.
func (t *Table) ShortDisplayName() string { return t.name }

// QualifiedName returns schema.name, or just name when no schema is set.
func (t *Table) QualifiedName() string {
	if t.schema == "" {
		return t.name
	}
	return t.schema + "." + t.name
}

func (t *Table) SetName(name string) {
	old := t.name
	if old == name {
		return
	}
	t.name = name
	t.fire(Event{Kind: EventObjectChanged, Source: t, Property: "name", Old: old, New: name})
}

func (t *Table) SetSchema(schema string) {
	old := t.schema
	if old == schema {
		return
	}
	t.schema = schema
	t.fire(Event{Kind: EventObjectChanged, Source: t, Property: "schema", Old: old, New: schema})
}

func (t *Table) SetRemarks(remarks string) {
	old := t.remarks
	if old == remarks {
		return
	}
	t.remarks = remarks
	t.fire(Event{Kind: EventObjectChanged, Source: t, Property: "remarks", Old: old, New: remarks})
}

// Columns returns a copy of the column list in order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) ColumnCount() int { return len(t.columns) }

// Column returns the column at i, or nil when i is out of range.
func (t *Table) Column(i int) *Column {
	if i < 0 || i >= len(t.columns) {
		return nil
	}
	return t.columns[i]
}

// ColumnByName finds a column case-insensitively.
func (t *Table) ColumnByName(name string) (*Column, int) {
	for i, c := range t.columns {
		if strings.EqualFold(c.name, name) {
			return c, i
		}
	}
	return nil, -1
}

// PrimaryKey returns the primary key columns in table order.
func (t *Table) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.columns {
		if c.primaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// AddColumn appends c to the table.
func (t *Table) AddColumn(c *Column) error {
	return t.AddColumnAt(len(t.columns), c)
}

// AddColumnAt inserts c at position i. A column owned by another table is
// copied rather than moved.
func (t *Table) AddColumnAt(i int, c *Column) error {
	if c == nil {
		return modelErr("addColumn", "", ErrInvalidColumn)
	}
	if strings.TrimSpace(c.name) == "" {
		return modelErr("addColumn", c.name, ErrInvalidColumn)
	}
	if i < 0 || i > len(t.columns) {
		return modelErr("addColumn", c.name, ErrIndexOutOfRange)
	}
	if c.parent == t {
		return modelErr("addColumn", c.name, ErrDuplicateColumn)
	}
	if existing, _ := t.ColumnByName(c.name); existing != nil {
		return modelErr("addColumn", c.name, ErrDuplicateColumn)
	}
	if c.parent != nil {
		c = c.Copy()
	}
	c.parent = t
	t.columns = append(t.columns, nil)
	copy(t.columns[i+1:], t.columns[i:])
	t.columns[i] = c
	t.fire(Event{
		Kind:     EventChildrenInserted,
		Source:   t,
		Indices:  []int{i},
		Children: []Object{c},
	})
	return nil
}

// RemoveColumn removes and returns the column at i.
func (t *Table) RemoveColumn(i int) (*Column, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, modelErr("removeColumn", t.name, ErrIndexOutOfRange)
	}
	c := t.columns[i]
	t.columns = append(t.columns[:i], t.columns[i+1:]...)
	c.parent = nil
	t.fire(Event{
		Kind:     EventChildrenRemoved,
		Source:   t,
		Indices:  []int{i},
		Children: []Object{c},
	})
	return c, nil
}

// Inherit appends copies of every column of src. The operation is validated
// up front: nothing changes unless every column can be added.
//
// When both tables already have primary keys the keys must have the same
// arity; inherited key columns then join as ordinary columns.
func (t *Table) Inherit(src *Table) error {
	if src == nil {
		return modelErr("inherit", "", ErrNilModel)
	}
	if src == t {
		return modelErr("inherit", src.name, ErrSelfInherit)
	}
	srcPK, dstPK := len(src.PrimaryKey()), len(t.PrimaryKey())
	if srcPK > 0 && dstPK > 0 && srcPK != dstPK {
		return modelErr("inherit", src.name, ErrIncompatibleKey)
	}
	for _, c := range src.columns {
		if existing, _ := t.ColumnByName(c.name); existing != nil {
			return modelErr("inherit", src.name, ErrDuplicateColumn)
		}
	}
	if len(src.columns) == 0 {
		return nil
	}

	indices := make([]int, 0, len(src.columns))
	children := make([]Object, 0, len(src.columns))
	for _, c := range src.columns {
		cp := c.Copy()
		if dstPK > 0 {
			cp.primaryKey = false
		}
		cp.parent = t
		indices = append(indices, len(t.columns))
		children = append(children, cp)
		t.columns = append(t.columns, cp)
	}
	t.fire(Event{Kind: EventChildrenInserted, Source: t, Indices: indices, Children: children})
	return nil
}

// ReplaceColumns swaps the whole column list, e.g. after a catalog refresh.
// Listeners receive a single structure-changed event.
func (t *Table) ReplaceColumns(columns []*Column) {
	for _, c := range t.columns {
		c.parent = nil
	}
	t.columns = t.columns[:0]
	for _, c := range columns {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c = c.Copy()
		}
		c.parent = t
		t.columns = append(t.columns, c)
	}
	t.fire(Event{Kind: EventStructureChanged, Source: t})
}

// AddListener registers l and returns the handle that removes it.
func (t *Table) AddListener(l Listener) *Subscription {
	s := &Subscription{table: t, listener: l}
	t.subs = append(t.subs, s)
	return s
}

// ListenerCount reports live registrations.
func (t *Table) ListenerCount() int { return len(t.subs) }

func (t *Table) removeSubscription(s *Subscription) {
	for i, cur := range t.subs {
		if cur == s {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}

// fire delivers e to a snapshot of the listeners, so a listener may release
// its own subscription from inside the callback.
func (t *Table) fire(e Event) {
	if len(t.subs) == 0 {
		return
	}
	subs := make([]*Subscription, len(t.subs))
	copy(subs, t.subs)
	for _, s := range subs {
		if s.released {
			continue
		}
		switch e.Kind {
		case EventChildrenInserted:
			s.listener.ChildrenInserted(e)
		case EventChildrenRemoved:
			s.listener.ChildrenRemoved(e)
		case EventObjectChanged:
			s.listener.ObjectChanged(e)
		case EventStructureChanged:
			s.listener.StructureChanged(e)
		}
	}
}
