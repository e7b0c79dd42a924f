package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playpen/internal/dnd"
	"playpen/internal/sqlobj"
)

func newUsers() *sqlobj.Table {
	id := sqlobj.NewColumn("id", "INTEGER")
	id.SetPrimaryKey(true)
	return sqlobj.NewTable("users", id, sqlobj.NewColumn("name", "TEXT"))
}

func newPane(t *testing.T, model *sqlobj.Table, opts ...PaneOption) *TablePane {
	t.Helper()
	opts = append([]PaneOption{WithDelegate(NewBasicDelegate(16))}, opts...)
	p, err := NewTablePane(model, opts...)
	require.NoError(t, err)
	return p
}

// recordProps collects every property change fired by p.
func recordProps(p *TablePane) *[]PropertyChangeEvent {
	var got []PropertyChangeEvent
	p.AddPropertyChangeListener("", func(ev PropertyChangeEvent) {
		got = append(got, ev)
	})
	return &got
}

func columnNames(t *sqlobj.Table) []string {
	var names []string
	for _, c := range t.Columns() {
		names = append(names, c.Name())
	}
	return names
}

func TestNewTablePane_NilModel(t *testing.T) {
	p, err := NewTablePane(nil)
	require.ErrorIs(t, err, sqlobj.ErrNilModel)
	assert.Nil(t, p)
}

func TestTablePane_Defaults(t *testing.T) {
	users := newUsers()
	p := newPane(t, users)

	assert.Same(t, users, p.Model())
	assert.Equal(t, "TablePanel: users", p.Name())
	assert.Equal(t, DefaultMargin, p.Margin())
	assert.Equal(t, 1, users.ListenerCount())
	require.NotNil(t, p.Subscription())
	assert.Same(t, users, p.Subscription().Table())
	assert.Equal(t, dnd.StateIdle, p.DropTarget().State())
}

func TestTablePane_SetModelKeepsOneSubscription(t *testing.T) {
	a := sqlobj.NewTable("a")
	b := sqlobj.NewTable("b")
	p := newPane(t, a)

	steps := []struct {
		model      *sqlobj.Table
		wantA      int
		wantB      int
		wantSource *sqlobj.Table
	}{
		{b, 0, 1, b},
		{a, 1, 0, a},
		{a, 1, 0, a},
		{b, 0, 1, b},
		{b, 0, 1, b},
	}
	for i, s := range steps {
		require.NoError(t, p.SetModel(s.model))
		assert.Equal(t, s.wantA, a.ListenerCount(), "step %d: listeners on a", i)
		assert.Equal(t, s.wantB, b.ListenerCount(), "step %d: listeners on b", i)
		assert.Same(t, s.wantSource, p.Subscription().Table(), "step %d", i)
	}
	assert.Equal(t, "TablePanel: b", p.Name())
}

func TestTablePane_SetModelNilLeavesStateAlone(t *testing.T) {
	users := newUsers()
	p := newPane(t, users)
	props := recordProps(p)
	requests := p.LayoutRequests()

	err := p.SetModel(nil)
	require.ErrorIs(t, err, sqlobj.ErrNilModel)
	assert.Same(t, users, p.Model())
	assert.Equal(t, 1, users.ListenerCount())
	assert.Empty(t, *props)
	assert.Equal(t, requests, p.LayoutRequests())

	// The pane still reacts to its original model.
	require.NoError(t, users.AddColumn(sqlobj.NewColumn("email", "TEXT")))
	require.Len(t, *props, 1)
	assert.Equal(t, PropModelChildren, (*props)[0].Name)
}

func TestTablePane_SetModelFiresModelProperty(t *testing.T) {
	a := sqlobj.NewTable("a")
	b := sqlobj.NewTable("b")
	p := newPane(t, a)

	var got []PropertyChangeEvent
	p.AddPropertyChangeListener(PropModel, func(ev PropertyChangeEvent) { got = append(got, ev) })

	require.NoError(t, p.SetModel(b))
	require.Len(t, got, 1)
	assert.Same(t, p, got[0].Source)
	assert.Same(t, a, got[0].Old)
	assert.Same(t, b, got[0].New)

	require.NoError(t, p.SetModel(b))
	assert.Len(t, got, 1, "same model is not a change")
}

func TestTablePane_SetSameModelKeepsSubscription(t *testing.T) {
	users := newUsers()
	p := newPane(t, users)
	props := recordProps(p)
	sub := p.Subscription()
	requests := p.LayoutRequests()

	require.NoError(t, p.SetModel(users))

	assert.Same(t, sub, p.Subscription())
	assert.Equal(t, 1, users.ListenerCount())
	assert.Empty(t, *props)
	assert.Equal(t, requests+1, p.LayoutRequests(), "still revalidates")

	require.NoError(t, users.AddColumn(sqlobj.NewColumn("email", "TEXT")))
	require.Len(t, *props, 1)
	assert.Equal(t, PropModelChildren, (*props)[0].Name)
}

func TestTablePane_Margin(t *testing.T) {
	p := newPane(t, newUsers())
	props := recordProps(p)

	m := Insets{Top: 2, Left: 3, Bottom: 2, Right: 3}
	p.SetMargin(m)
	m.Top = 9
	assert.Equal(t, 2, p.Margin().Top, "pane keeps its own copy")

	got := p.Margin()
	got.Left = 7
	assert.Equal(t, 3, p.Margin().Left, "callers get a copy")

	require.Len(t, *props, 1)
	assert.Equal(t, PropMargin, (*props)[0].Name)
	assert.Equal(t, DefaultMargin, (*props)[0].Old)
	assert.False(t, p.Valid())

	p.SetMargin(p.Margin())
	assert.Len(t, *props, 1)
}

func TestTablePane_BridgeForwardsModelEvents(t *testing.T) {
	users := newUsers()
	p := newPane(t, users)
	_, err := p.Layout()
	require.NoError(t, err)
	props := recordProps(p)
	requests := p.LayoutRequests()

	require.NoError(t, users.AddColumn(sqlobj.NewColumn("email", "TEXT")))
	_, err = users.RemoveColumn(0)
	require.NoError(t, err)
	users.SetName("people")
	users.Column(0).SetType("VARCHAR(80)")
	users.ReplaceColumns(nil)

	var names []string
	for _, ev := range *props {
		names = append(names, ev.Name)
		require.NotNil(t, ev.Cause)
	}
	assert.Equal(t, []string{
		PropModelChildren,
		PropModelChildren,
		"model.name",
		"model.type",
		PropModelChildren,
	}, names)
	assert.Equal(t, sqlobj.EventChildrenInserted, (*props)[0].Cause.Kind)
	assert.Equal(t, sqlobj.EventChildrenRemoved, (*props)[1].Cause.Kind)
	assert.Equal(t, "users", (*props)[2].Old)
	assert.Equal(t, "people", (*props)[2].New)
	assert.Equal(t, sqlobj.EventStructureChanged, (*props)[4].Cause.Kind)

	assert.Equal(t, requests+5, p.LayoutRequests())
	assert.False(t, p.Valid())
}

func TestTablePane_Close(t *testing.T) {
	users := newUsers()
	p := newPane(t, users)
	sub := p.Subscription()
	props := recordProps(p)

	p.Close()
	p.Close()

	assert.True(t, p.Closed())
	assert.True(t, sub.Released())
	assert.Nil(t, p.Subscription())
	assert.Equal(t, 0, users.ListenerCount())

	require.NoError(t, users.AddColumn(sqlobj.NewColumn("email", "TEXT")))
	assert.Empty(t, *props)

	err := p.SetModel(sqlobj.NewTable("other"))
	require.ErrorIs(t, err, ErrPaneClosed)
	assert.Same(t, users, p.Model())
}

func TestTablePane_PointToLogicalPosition(t *testing.T) {
	t.Run("no delegate", func(t *testing.T) {
		p, err := NewTablePane(newUsers())
		require.NoError(t, err)
		_, err = p.PointToLogicalPosition(Point{X: 1, Y: 1})
		require.ErrorIs(t, err, ErrNoDelegate)
		_, err = p.Layout()
		require.ErrorIs(t, err, ErrNoDelegate)
		assert.Empty(t, p.View())
	})

	t.Run("never laid out", func(t *testing.T) {
		p := newPane(t, newUsers())
		_, err := p.PointToLogicalPosition(Point{X: 1, Y: 1})
		require.ErrorIs(t, err, ErrLayoutUninitialized)
	})

	t.Run("stale after model change", func(t *testing.T) {
		users := newUsers()
		p := newPane(t, users)
		_, err := p.Layout()
		require.NoError(t, err)
		require.NoError(t, users.AddColumn(sqlobj.NewColumn("email", "TEXT")))

		pos, err := p.PointToLogicalPosition(Point{X: 2, Y: 4})
		require.ErrorIs(t, err, ErrStaleLayout)
		assert.Equal(t, NoPosition(), pos)

		_, err = p.Layout()
		require.NoError(t, err)
		pos, err = p.PointToLogicalPosition(Point{X: 2, Y: 6})
		require.NoError(t, err)
		assert.Equal(t, ColumnAt(2), pos)
	})
}

func TestBasicDelegate_Geometry(t *testing.T) {
	p := newPane(t, newUsers())
	l, err := p.Layout()
	require.NoError(t, err)

	// Border, one row of margin, title, rule, two columns, margin, border.
	assert.Equal(t, 8, l.Height)
	assert.Equal(t, 20, l.Width)
	assert.Equal(t, 2, l.TitleRow)
	assert.Equal(t, 4, l.FirstColumn)
	assert.Equal(t, 5, l.ColumnRow(1))

	tests := []struct {
		pt   Point
		want LogicalPosition
	}{
		{Point{X: 0, Y: 0}, TitlePosition()},
		{Point{X: 5, Y: 2}, TitlePosition()},
		{Point{X: 5, Y: 3}, NoPosition()},
		{Point{X: 5, Y: 4}, ColumnAt(0)},
		{Point{X: 5, Y: 5}, ColumnAt(1)},
		{Point{X: 5, Y: 6}, NoPosition()},
		{Point{X: 5, Y: 8}, NoPosition()},
		{Point{X: 20, Y: 4}, NoPosition()},
		{Point{X: -1, Y: 4}, NoPosition()},
	}
	for _, tt := range tests {
		got, err := p.PointToLogicalPosition(tt.pt)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "point %+v", tt.pt)
	}
	assert.Equal(t, ColumnIndexTitle, TitlePosition().ColumnIndex())
	assert.Equal(t, ColumnIndexNone, NoPosition().ColumnIndex())
	assert.Equal(t, 1, ColumnAt(1).ColumnIndex())
}

func TestBasicDelegate_RenderMatchesLayout(t *testing.T) {
	p := newPane(t, newUsers())
	l, err := p.Layout()
	require.NoError(t, err)

	out := p.View()
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "* id INTEGER")
	assert.Contains(t, out, "name TEXT")
	assert.Equal(t, l.Height, len(splitRows(out)))
}

// Dropping a column onto a pane grows its model and reports the change; a
// payload the pane cannot read changes nothing.
func TestTablePane_DropScenario(t *testing.T) {
	users := newUsers()
	p := newPane(t, users)
	props := recordProps(p)

	contacts := sqlobj.NewTable("contacts", sqlobj.NewColumn("email", "TEXT"))
	ctx := dnd.NewDropContext(dnd.NewObjectTransferable(contacts.Column(0)), 2, 4)
	p.DropTarget().DragEnter(ctx)
	p.DropTarget().DragOver(ctx)
	res := p.DropTarget().Drop(ctx)

	require.True(t, res.Accepted)
	assert.True(t, ctx.Success)
	assert.Equal(t, []string{"id", "name", "email"}, columnNames(users))
	assert.Equal(t, []string{"email"}, columnNames(contacts), "source table untouched")
	require.Len(t, *props, 1)
	assert.Equal(t, PropModelChildren, (*props)[0].Name)

	foreign := &dnd.StaticTransferable{
		Offered: []dnd.Flavor{dnd.FlavorText, dnd.FlavorPNG},
		Values: map[string]any{
			dnd.FlavorText.MIMEType: "orders",
			dnd.FlavorPNG.MIMEType:  []byte{0x89},
		},
	}
	ctx = dnd.NewDropContext(foreign, 2, 4)
	res = p.DropTarget().Drop(ctx)

	assert.False(t, res.Accepted)
	assert.True(t, ctx.DropRejected)
	assert.Equal(t, []string{"id", "name", "email"}, columnNames(users))
	assert.Len(t, *props, 1)
	assert.Equal(t, dnd.StateIdle, p.DropTarget().State())
}

func splitRows(s string) []string {
	return strings.Split(s, "\n")
}
