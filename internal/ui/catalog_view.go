package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"playpen/internal/dnd"
	"playpen/internal/sqlobj"
	"playpen/internal/ui/textutil"
)

// catalogItem implements list.Item for a table or one of its columns.
type catalogItem struct {
	obj    sqlobj.Object
	marked bool
}

func (c catalogItem) FilterValue() string { return c.obj.Name() }
func (c catalogItem) Title() string {
	mark := "  "
	if c.marked {
		mark = "● "
	}
	switch o := c.obj.(type) {
	case *sqlobj.Table:
		return mark + "▸ " + o.QualifiedName()
	case *sqlobj.Column:
		return mark + "    " + strings.TrimSpace(columnLine(o))
	}
	return mark + c.obj.ShortDisplayName()
}
func (c catalogItem) Description() string { return "" }

// CatalogView is the tree of database tables and columns that drags start from.
type CatalogView struct {
	list    list.Model
	Tables  []*sqlobj.Table
	marked  map[string]bool
	spinner spinner.Model
	loading bool
	err     error
}

// Ensure CatalogView implements View.
var _ View = (*CatalogView)(nil)

// NewCatalogView creates an empty catalog; tables arrive via CatalogLoadedMsg.
func NewCatalogView() *CatalogView {
	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.Title = "Catalog"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	return &CatalogView{
		list:    l,
		marked:  make(map[string]bool),
		spinner: s,
	}
}

// Init implements View.
func (c *CatalogView) Init() tea.Cmd {
	return nil
}

// SetLoading sets the loading state and returns a command to start the spinner.
func (c *CatalogView) SetLoading(loading bool) tea.Cmd {
	c.loading = loading
	if loading {
		return c.spinner.Tick
	}
	return nil
}

// SetTables replaces the catalog contents and clears marks.
func (c *CatalogView) SetTables(tables []*sqlobj.Table) {
	c.Tables = tables
	c.err = nil
	c.marked = make(map[string]bool)
	c.refreshItems()
}

// SetError shows a load failure in place of the list.
func (c *CatalogView) SetError(err error) {
	c.err = err
}

// Highlighted returns the object under the cursor, or nil.
func (c *CatalogView) Highlighted() sqlobj.Object {
	if it, ok := c.list.SelectedItem().(catalogItem); ok {
		return it.obj
	}
	return nil
}

// HighlightedTable returns the highlighted table, or the table owning the
// highlighted column.
func (c *CatalogView) HighlightedTable() *sqlobj.Table {
	switch o := c.Highlighted().(type) {
	case *sqlobj.Table:
		return o
	case *sqlobj.Column:
		return o.Parent()
	}
	return nil
}

// Select moves the cursor to index i.
func (c *CatalogView) Select(i int) {
	c.list.Select(i)
}

// ToggleMark marks or unmarks the highlighted object for a multi-object drag.
func (c *CatalogView) ToggleMark() {
	obj := c.Highlighted()
	if obj == nil {
		return
	}
	if c.marked[obj.ID()] {
		delete(c.marked, obj.ID())
	} else {
		c.marked[obj.ID()] = true
	}
	c.refreshItems()
}

// Marked returns the marked objects in catalog order.
func (c *CatalogView) Marked() []sqlobj.Object {
	var out []sqlobj.Object
	for _, it := range c.list.Items() {
		ci := it.(catalogItem)
		if c.marked[ci.obj.ID()] {
			out = append(out, ci.obj)
		}
	}
	return out
}

// ClearMarks unmarks everything.
func (c *CatalogView) ClearMarks() {
	if len(c.marked) == 0 {
		return
	}
	c.marked = make(map[string]bool)
	c.refreshItems()
}

// PickUp builds the drag payload: the marked objects if any, otherwise the
// highlighted object. ok is false when there is nothing to drag.
func (c *CatalogView) PickUp() (t dnd.Transferable, label string, ok bool) {
	if marked := c.Marked(); len(marked) > 0 {
		return dnd.NewObjectListTransferable(marked...), fmt.Sprintf("%d objects", len(marked)), true
	}
	obj := c.Highlighted()
	if obj == nil {
		return nil, "", false
	}
	return dnd.NewObjectTransferable(obj), obj.ShortDisplayName(), true
}

// Update implements View.
func (c *CatalogView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.list.SetWidth(msg.Width)
		c.list.SetHeight(msg.Height - 2)
		return c, nil
	case spinner.TickMsg:
		if c.loading {
			var cmd tea.Cmd
			c.spinner, cmd = c.spinner.Update(msg)
			return c, cmd
		}
		return c, nil
	case tea.KeyMsg:
		if msg.String() == "m" {
			c.ToggleMark()
			return c, nil
		}
	}

	// list.Model handles j/k/g/G navigation natively.
	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

// View implements View.
func (c *CatalogView) View() string {
	if c.list.Width() == 0 {
		c.list.SetWidth(30)
	}
	if c.list.Height() == 0 {
		c.list.SetHeight(20)
	}

	var b strings.Builder
	title := fmt.Sprintf("Tables (%d)", len(c.Tables))
	if c.loading {
		title += " " + c.spinner.View()
	}
	b.WriteString(Styles.Section.Render(title) + "\n")
	switch {
	case c.err != nil:
		b.WriteString(Styles.Error.Render(textutil.Truncate(c.err.Error(), c.list.Width())))
	case len(c.Tables) == 0 && !c.loading:
		b.WriteString(Styles.Empty.Render("No tables"))
	default:
		b.WriteString(c.list.View())
	}
	return b.String()
}

// Refresh rebuilds the rows after tables changed shape.
func (c *CatalogView) Refresh() {
	c.refreshItems()
}

func (c *CatalogView) refreshItems() {
	idx := c.list.Index()
	var items []list.Item
	for _, t := range c.Tables {
		items = append(items, catalogItem{obj: t, marked: c.marked[t.ID()]})
		for _, col := range t.Columns() {
			items = append(items, catalogItem{obj: col, marked: c.marked[col.ID()]})
		}
	}
	c.list.SetItems(items)
	if idx < len(items) {
		c.list.Select(idx)
	}
}
