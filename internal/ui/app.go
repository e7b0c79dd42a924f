package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"playpen/internal/dnd"
	"playpen/internal/sqlobj"
	"playpen/internal/ui/textutil"
)

// catalogLoadTimeout bounds a single catalog read.
const catalogLoadTimeout = 30 * time.Second

// CatalogLoader reads the tables a session starts from.
type CatalogLoader interface {
	Load(ctx context.Context) ([]*sqlobj.Table, error)
}

// Carry is what the user picked up in the catalog and has not dropped yet.
type Carry struct {
	T     dnd.Transferable
	Label string
}

// AppOptions configures NewAppModel.
type AppOptions struct {
	Loader       CatalogLoader
	Logger       *slog.Logger
	Diagram      DiagramOptions
	CatalogWidth int
}

// AppModel is the root model: the catalog on the left, the diagram on the
// right, and a status row below.
type AppModel struct {
	Mode       AppMode
	Catalog    *CatalogView
	Diagram    *DiagramView
	KeyHandler *KeyHandler
	Focus      *FocusManager
	Overlays   OverlayStack
	Layout     PanelLayout
	Loader     CatalogLoader
	Logger     *slog.Logger
	Carry      *Carry

	width, height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(opts AppOptions) *AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Diagram.Logger == nil {
		opts.Diagram.Logger = opts.Logger
	}
	if opts.CatalogWidth <= 0 {
		opts.CatalogWidth = 32
	}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("tab", func() tea.Msg { return FocusNextMsg{} }, "Next panel")
	reg.BindWithDesc("SPC t a", func() tea.Msg { return AddTableMsg{} }, "Add table")
	reg.BindWithDescForMode("SPC t d", func() tea.Msg { return ShowRemovePaneMsg{} }, "Remove table", []AppMode{ModeDiagram})
	reg.BindWithDesc("SPC c r", func() tea.Msg { return ReloadCatalogMsg{} }, "Reload catalog")
	reg.BindWithDesc("SPC c x", func() tea.Msg { return CancelCarryMsg{} }, "Clear selection")

	catalog := NewCatalogView()
	diagram := NewDiagramView(opts.Diagram)
	layout := &SplitLayout{Catalog: catalog, Diagram: diagram, CatalogWidth: opts.CatalogWidth}

	m := &AppModel{
		Mode:       ModeCatalog,
		Catalog:    catalog,
		Diagram:    diagram,
		KeyHandler: NewKeyHandler(reg),
		Layout:     layout,
		Loader:     opts.Loader,
		Logger:     opts.Logger,
	}
	m.Focus = &FocusManager{
		Current: PanelCatalog,
		Order:   layout.FocusOrder(),
		OnChange: func(from, to string) {
			m.Mode = modeForPanel(to)
			m.Logger.Debug("focus changed", "from", from, "to", to)
		},
	}
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Close releases every pane's model subscription.
func (m *AppModel) Close() {
	m.Diagram.Close()
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.loadCatalog()
}

func (m *AppModel) loadCatalog() tea.Cmd {
	if m.Loader == nil {
		return nil
	}
	loader := m.Loader
	return tea.Batch(m.Catalog.SetLoading(true), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogLoadTimeout)
		defer cancel()
		tables, err := loader.Load(ctx)
		return CatalogLoadedMsg{Tables: tables, Err: err}
	})
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return a, nil
	case CatalogLoadedMsg:
		a.Catalog.SetLoading(false)
		if msg.Err != nil {
			a.Logger.Error("loading catalog failed", "err", msg.Err)
			a.Catalog.SetError(msg.Err)
			return a, nil
		}
		a.Logger.Info("catalog loaded", "tables", len(msg.Tables))
		a.Catalog.SetTables(msg.Tables)
		return a, nil
	case ReloadCatalogMsg:
		return a, a.loadCatalog()
	case AddTableMsg:
		a.addHighlightedTable()
		return a, nil
	case ShowRemovePaneMsg:
		p := msg.Pane
		if p == nil {
			p = a.Diagram.Selected()
		}
		if p != nil {
			a.Overlays.Push(Overlay{View: NewRemovePaneConfirmModal(p), Dismiss: "esc"})
		}
		return a, nil
	case RemovePaneMsg:
		a.Overlays.Pop()
		if a.Diagram.RemovePane(msg.Pane) {
			a.Diagram.Status = "Removed " + msg.Pane.Model().ShortDisplayName()
		}
		return a, nil
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case PickUpMsg:
		a.pickUp()
		return a, nil
	case DropCarryMsg:
		a.dropCarry()
		return a, nil
	case CancelCarryMsg:
		a.cancelCarry()
		return a, nil
	case FocusNextMsg:
		a.Focus.Next()
		return a, nil
	case spinner.TickMsg:
		_, cmd := a.Catalog.Update(msg)
		return a, cmd
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}
	return a, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Modals take all input.
	if m.Overlays.Len() > 0 {
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		if top, ok := m.Overlays.Peek(); ok && top.IsDismissKey(msg.String()) {
			m.Overlays.Pop()
			return nil
		}
		cmd, _ := m.Overlays.UpdateTop(msg)
		return cmd
	}

	// Keybind system (leader key, SPC-prefixed commands)
	if m.KeyHandler != nil {
		if consumed, keyCmd := m.KeyHandler.Handle(msg); consumed {
			return keyCmd
		}
	}

	switch msg.String() {
	case "esc":
		m.cancelCarry()
		return nil
	case "a":
		m.addHighlightedTable()
		return nil
	case "enter":
		if m.Mode == ModeCatalog {
			m.pickUp()
		} else {
			m.dropCarry()
		}
		return nil
	}

	var cmd tea.Cmd
	switch m.Mode {
	case ModeDiagram:
		_, cmd = m.Diagram.Update(msg)
	default:
		_, cmd = m.Catalog.Update(msg)
	}
	return cmd
}

func (m *AppModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.Overlays.Len() > 0 || m.Layout == nil {
		return nil
	}
	w, h := m.size()
	panel, pt, ok := panelAt(m.Layout, w, h, msg.X, msg.Y)
	if !ok {
		return nil
	}
	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
	if press {
		m.Focus.SetFocus(panel.ID)
	}
	if panel.ID != PanelDiagram {
		if m.Carry != nil {
			m.Diagram.CancelHover()
		}
		return nil
	}

	if m.Carry != nil {
		switch msg.Action {
		case tea.MouseActionRelease:
			m.releaseCarry(pt)
		case tea.MouseActionMotion:
			m.Diagram.HoverCarry(pt, m.Carry.T)
		}
		return nil
	}

	local := msg
	local.X, local.Y = pt.X, pt.Y
	_, cmd := m.Diagram.Update(local)
	return cmd
}

func (m *AppModel) addHighlightedTable() {
	t := m.Catalog.HighlightedTable()
	if t == nil {
		m.Diagram.Status = "Highlight a table in the catalog first"
		return
	}
	if _, err := m.Diagram.AddTable(t); err != nil {
		m.Logger.Error("adding table to diagram failed", "table", t.QualifiedName(), "err", err)
		m.Diagram.Status = "Add failed: " + err.Error()
		return
	}
	m.Diagram.Status = "Added " + t.ShortDisplayName()
}

func (m *AppModel) pickUp() {
	t, label, ok := m.Catalog.PickUp()
	if !ok {
		m.Diagram.Status = "Nothing to pick up"
		return
	}
	m.Carry = &Carry{T: t, Label: label}
	m.Logger.Debug("picked up", "label", label)
	m.Diagram.Status = "Click a table, or select one and press Enter"
	m.Focus.SetFocus(PanelDiagram)
}

func (m *AppModel) dropCarry() {
	if m.Carry == nil {
		return
	}
	p := m.Diagram.Selected()
	if p == nil {
		m.Diagram.Status = "No table selected"
		return
	}
	m.finishDrop(m.Diagram.DropOnPane(p, m.Carry.T))
}

func (m *AppModel) releaseCarry(pt Point) {
	res, ok := m.Diagram.ReleaseCarry(pt, m.Carry.T)
	if !ok {
		return
	}
	m.finishDrop(res)
}

// finishDrop puts the carry down once something was applied. A drop that
// changed nothing keeps the carry so it can be tried on another table.
func (m *AppModel) finishDrop(res dnd.Result) {
	if !res.Accepted && res.Applied == 0 {
		return
	}
	m.Carry = nil
	m.Catalog.ClearMarks()
	m.Catalog.Refresh()
}

func (m *AppModel) cancelCarry() {
	m.Diagram.CancelHover()
	if m.Carry != nil {
		m.Diagram.Status = ""
	}
	m.Carry = nil
	m.Catalog.ClearMarks()
}

func (m *AppModel) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 100
	}
	if h <= 0 {
		h = 30
	}
	return w, h
}

func (m *AppModel) resize() {
	w, h := m.size()
	for _, p := range m.Layout.Panels() {
		_, _, pw, ph := p.Bounds(w, h)
		p.View.Update(tea.WindowSizeMsg{Width: pw, Height: ph})
	}
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	w, h := a.size()

	var blocks []string
	for _, p := range a.Layout.Panels() {
		_, _, pw, ph := p.Bounds(w, h)
		blocks = append(blocks, lipgloss.NewStyle().
			Width(pw).MaxWidth(pw).
			Height(ph).MaxHeight(ph).
			Render(p.View.View()))
	}
	base := lipgloss.JoinHorizontal(lipgloss.Top, blocks...) + "\n" + a.statusLine(w)

	base = a.Overlays.Composite(base, w, h)
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	return base
}

func (m *AppModel) statusLine(width int) string {
	line := Styles.Status.Render("[" + m.Mode.String() + "]")
	if m.Carry != nil {
		line += " " + Styles.Carry.Render("carrying "+m.Carry.Label)
	}
	if m.Diagram.Status != "" {
		line += " " + Styles.Muted.Render(m.Diagram.Status)
	}
	return textutil.Truncate(line, width)
}
