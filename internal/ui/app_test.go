package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"playpen/internal/sqlobj"
	"playpen/internal/testutil"
)

type stubLoader struct {
	tables []*sqlobj.Table
	err    error
}

func (l stubLoader) Load(context.Context) ([]*sqlobj.Table, error) {
	return l.tables, l.err
}

// newTestApp builds an app sized 100x30 with users and contacts loaded.
func newTestApp(t *testing.T) (*AppModel, *appModelAdapter) {
	t.Helper()
	users := newUsers()
	contacts := sqlobj.NewTable("contacts", sqlobj.NewColumn("email", "TEXT"), sqlobj.NewColumn("phone", "TEXT"))
	m := NewAppModel(AppOptions{
		Loader:  stubLoader{tables: []*sqlobj.Table{users, contacts}},
		Logger:  testutil.NewTestLogger(t),
		Diagram: DiagramOptions{Margin: DefaultMargin},
	})
	adapter := m.AsTeaModel().(*appModelAdapter)
	adapter.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	adapter.Update(CatalogLoadedMsg{Tables: []*sqlobj.Table{users, contacts}})
	return m, adapter
}

// run feeds msg to the adapter and follows the returned commands, skipping quit.
func run(a *appModelAdapter, msg tea.Msg) {
	_, cmd := a.Update(msg)
	for cmd != nil {
		next := cmd()
		if next == nil {
			return
		}
		if _, ok := next.(tea.QuitMsg); ok {
			return
		}
		_, cmd = a.Update(next)
	}
}

func TestInitLoadsCatalog(t *testing.T) {
	m := NewAppModel(AppOptions{Loader: stubLoader{tables: []*sqlobj.Table{newUsers()}}})
	adapter := m.AsTeaModel().(*appModelAdapter)

	cmd := adapter.Init()
	if cmd == nil {
		t.Fatal("expected Init to start loading the catalog")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected BatchMsg, got %T", cmd())
	}
	var loaded bool
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(CatalogLoadedMsg); ok {
			adapter.Update(msg)
			loaded = true
		}
	}
	if !loaded {
		t.Fatal("expected a CatalogLoadedMsg from the batch")
	}
	if len(m.Catalog.Tables) != 1 {
		t.Errorf("expected 1 table in catalog, got %d", len(m.Catalog.Tables))
	}
}

func TestCatalogLoadError(t *testing.T) {
	m := NewAppModel(AppOptions{})
	adapter := m.AsTeaModel().(*appModelAdapter)
	adapter.Update(CatalogLoadedMsg{Err: errors.New("connection refused")})

	if !strings.Contains(adapter.View(), "connection refused") {
		t.Errorf("expected load error in view, got:\n%s", adapter.View())
	}
}

func TestTabRotatesFocus(t *testing.T) {
	m, adapter := newTestApp(t)
	if m.Mode != ModeCatalog {
		t.Fatalf("expected Catalog mode, got %v", m.Mode)
	}
	run(adapter, keyMsg("tab"))
	if m.Mode != ModeDiagram || m.Focus.Current != PanelDiagram {
		t.Errorf("expected Diagram focus after tab, got %v/%s", m.Mode, m.Focus.Current)
	}
	run(adapter, keyMsg("tab"))
	if m.Mode != ModeCatalog {
		t.Errorf("expected focus to wrap to Catalog, got %v", m.Mode)
	}
}

func TestAddTableFromCatalog(t *testing.T) {
	m, adapter := newTestApp(t)

	run(adapter, keyMsg("a"))
	if n := len(m.Diagram.Panes()); n != 1 {
		t.Fatalf("expected 1 pane, got %d", n)
	}
	if got := m.Diagram.Panes()[0].Model().Name(); got != "users" {
		t.Errorf("expected users pane, got %s", got)
	}
	if !strings.Contains(adapter.View(), "Added users") {
		t.Errorf("expected status line to report the add, got:\n%s", adapter.View())
	}
}

// Pick up a column in the catalog, then drop it on the selected pane with Enter.
func TestPickUpAndDropWithKeyboard(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a")) // users pane

	// Rows: users, id, name, contacts, email, phone.
	m.Catalog.Select(4)
	run(adapter, keyMsg("enter"))
	if m.Carry == nil {
		t.Fatal("expected a carry after Enter in the catalog")
	}
	if m.Mode != ModeDiagram {
		t.Errorf("expected focus to move to the diagram, got %v", m.Mode)
	}
	if !strings.Contains(adapter.View(), "carrying email") {
		t.Errorf("expected carry in status line, got:\n%s", adapter.View())
	}

	run(adapter, keyMsg("enter"))
	if m.Carry != nil {
		t.Error("expected carry to be put down after a successful drop")
	}
	users := m.Diagram.Panes()[0].Model()
	if got := strings.Join(columnNames(users), ","); got != "id,name,email" {
		t.Errorf("expected id,name,email, got %s", got)
	}
}

func TestMarkedObjectsDropAsList(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))

	m.Catalog.Select(4)
	run(adapter, keyMsg("m"))
	m.Catalog.Select(5)
	run(adapter, keyMsg("m"))
	if n := len(m.Catalog.Marked()); n != 2 {
		t.Fatalf("expected 2 marked, got %d", n)
	}
	run(adapter, keyMsg("enter"))
	run(adapter, keyMsg("enter"))

	users := m.Diagram.Panes()[0].Model()
	if got := strings.Join(columnNames(users), ","); got != "id,name,email,phone" {
		t.Errorf("expected id,name,email,phone, got %s", got)
	}
	if len(m.Catalog.Marked()) != 0 {
		t.Error("expected marks cleared after drop")
	}
}

func TestRejectedDropKeepsCarry(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))

	m.Catalog.Select(2) // users.name onto users
	run(adapter, keyMsg("enter"))
	run(adapter, keyMsg("enter"))

	if m.Carry == nil {
		t.Error("expected carry to survive a rejected drop")
	}
	if n := m.Diagram.Panes()[0].Model().ColumnCount(); n != 2 {
		t.Errorf("expected users unchanged, got %d columns", n)
	}

	run(adapter, keyMsg("esc"))
	if m.Carry != nil {
		t.Error("expected esc to put the carry down")
	}
}

func TestMouseDropOnPane(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))
	pane := m.Diagram.Panes()[0]

	m.Catalog.Select(4)
	run(adapter, keyMsg("enter"))

	// The diagram starts 32 columns in; the pane sits at (1,0) within it.
	x, y := 32+pane.Position.X+4, pane.Position.Y+4
	run(adapter, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if m.Diagram.Hovered() != pane {
		t.Fatal("expected the carry to hover over the pane")
	}
	run(adapter, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.Carry == nil {
		t.Fatal("press alone must not drop")
	}
	run(adapter, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if got := strings.Join(columnNames(pane.Model()), ","); got != "id,name,email" {
		t.Errorf("expected id,name,email, got %s", got)
	}
	if m.Carry != nil {
		t.Error("expected carry put down")
	}
}

func TestMouseTitleDragTranslatesCoordinates(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))
	pane := m.Diagram.Panes()[0]

	run(adapter, tea.MouseMsg{X: 32 + 5, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	run(adapter, tea.MouseMsg{X: 32 + 15, Y: 7, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	run(adapter, tea.MouseMsg{X: 32 + 15, Y: 7, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if pane.Position != (Point{X: 11, Y: 5}) {
		t.Errorf("expected pane at (11,5), got %+v", pane.Position)
	}
	if m.Mode != ModeDiagram {
		t.Errorf("expected click to focus the diagram, got %v", m.Mode)
	}
}

func TestRemovePaneWithConfirmation(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))
	users := m.Diagram.Panes()[0].Model()
	run(adapter, keyMsg("tab"))

	run(adapter, keyMsg("d"))
	if m.Overlays.Len() != 1 {
		t.Fatalf("expected confirmation modal, got %d overlays", m.Overlays.Len())
	}
	top, _ := m.Overlays.Peek()
	if _, ok := top.View.(*ConfirmModal); !ok {
		t.Fatalf("expected ConfirmModal, got %T", top.View)
	}
	if !strings.Contains(adapter.View(), "Remove table from diagram?") {
		t.Errorf("expected modal in view, got:\n%s", adapter.View())
	}

	run(adapter, keyMsg("y"))
	if m.Overlays.Len() != 0 {
		t.Errorf("expected modal dismissed, got %d", m.Overlays.Len())
	}
	if len(m.Diagram.Panes()) != 0 {
		t.Errorf("expected pane removed, got %d", len(m.Diagram.Panes()))
	}
	if users.ListenerCount() != 0 {
		t.Errorf("expected pane to release its model, got %d listeners", users.ListenerCount())
	}
}

func TestRemovePaneCancelWithEsc(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))
	run(adapter, ShowRemovePaneMsg{})
	run(adapter, keyMsg("esc"))

	if m.Overlays.Len() != 0 {
		t.Errorf("expected modal dismissed, got %d", m.Overlays.Len())
	}
	if len(m.Diagram.Panes()) != 1 {
		t.Errorf("expected pane kept, got %d", len(m.Diagram.Panes()))
	}
}

// TestSPCShowsKeybindHints validates that pressing SPC displays keybind hints in the View.
func TestSPCShowsKeybindHints(t *testing.T) {
	m, adapter := newTestApp(t)

	run(adapter, keyMsg(" "))
	if !m.KeyHandler.LeaderWaiting {
		t.Fatal("expected LeaderWaiting after SPC")
	}
	view := adapter.View()
	for _, hint := range []string{"Table", "Catalog", "Quit"} {
		if !strings.Contains(view, hint) {
			t.Errorf("View should contain hint %q after SPC, got:\n%s", hint, view)
		}
	}

	// Remove is only offered while the diagram has focus.
	run(adapter, keyMsg("t"))
	view = adapter.View()
	if !strings.Contains(view, "Add table") || strings.Contains(view, "Remove table") {
		t.Errorf("expected only Add table under SPC t in Catalog mode, got:\n%s", view)
	}
}

// TestSPCKeybindCommandsExecute validates that SPC t a adds the highlighted table.
func TestSPCKeybindCommandsExecute(t *testing.T) {
	m, adapter := newTestApp(t)
	m.Catalog.Select(3)

	run(adapter, keyMsg(" "))
	run(adapter, keyMsg("t"))
	run(adapter, keyMsg("a"))

	if n := len(m.Diagram.Panes()); n != 1 {
		t.Fatalf("expected 1 pane after SPC t a, got %d", n)
	}
	if got := m.Diagram.Panes()[0].Model().Name(); got != "contacts" {
		t.Errorf("expected contacts pane, got %s", got)
	}
}

func TestQuit(t *testing.T) {
	_, adapter := newTestApp(t)
	_, cmd := adapter.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestCloseReleasesPanes(t *testing.T) {
	m, adapter := newTestApp(t)
	run(adapter, keyMsg("a"))
	users := m.Diagram.Panes()[0].Model()

	m.Close()
	if users.ListenerCount() != 0 {
		t.Errorf("expected 0 listeners after Close, got %d", users.ListenerCount())
	}
}
