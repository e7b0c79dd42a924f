package sqlobj

import "github.com/google/uuid"

// Object is anything that can appear in the catalog tree or travel in a drag payload.
type Object interface {
	ID() string
	Name() string
	ShortDisplayName() string
}

// Column is a single table column. A column belongs to at most one table;
// property changes are announced through the owning table's listeners.
type Column struct {
	id         string
	name       string
	sqlType    string
	nullable   bool
	primaryKey bool
	parent     *Table
}

var _ Object = (*Column)(nil)

// NewColumn creates an unowned column.
func NewColumn(name, sqlType string) *Column {
	return &Column{
		id:       uuid.NewString(),
		name:     name,
		sqlType:  sqlType,
		nullable: true,
	}
}

func (c *Column) ID() string   { return c.id }
func (c *Column) Name() string { return c.name }

// ShortDisplayName is the column name.
func (c *Column) ShortDisplayName() string { return c.name }

func (c *Column) Type() string     { return c.sqlType }
func (c *Column) Nullable() bool   { return c.nullable }
func (c *Column) PrimaryKey() bool { return c.primaryKey }
func (c *Column) Parent() *Table   { return c.parent }

// SetName renames the column and notifies the owning table's listeners.
func (c *Column) SetName(name string) {
	old := c.name
	if old == name {
		return
	}
	c.name = name
	c.changed("columnName", old, name)
}

func (c *Column) SetType(sqlType string) {
	old := c.sqlType
	if old == sqlType {
		return
	}
	c.sqlType = sqlType
	c.changed("type", old, sqlType)
}

func (c *Column) SetNullable(nullable bool) {
	old := c.nullable
	if old == nullable {
		return
	}
	c.nullable = nullable
	c.changed("nullable", old, nullable)
}

func (c *Column) SetPrimaryKey(pk bool) {
	old := c.primaryKey
	if old == pk {
		return
	}
	c.primaryKey = pk
	if pk {
		c.nullable = false
	}
	c.changed("primaryKey", old, pk)
}

// Copy returns an unowned column with the same definition and a fresh ID.
func (c *Column) Copy() *Column {
	return &Column{
		id:         uuid.NewString(),
		name:       c.name,
		sqlType:    c.sqlType,
		nullable:   c.nullable,
		primaryKey: c.primaryKey,
	}
}

func (c *Column) changed(prop string, old, new any) {
	if c.parent != nil {
		c.parent.fire(Event{Kind: EventObjectChanged, Source: c, Property: prop, Old: old, New: new})
	}
}
