package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"playpen/internal/dnd"
	"playpen/internal/sqlobj"
	"playpen/internal/ui/textutil"
)

// DiagramOptions configures the panes a DiagramView creates.
type DiagramOptions struct {
	Delegate    Delegate
	Margin      Insets
	Logger      *slog.Logger
	DropOptions []dnd.Option
}

// DiagramView is the playpen canvas: table panes placed at free positions,
// drawn in order so later panes cover earlier ones.
type DiagramView struct {
	panes      []*TablePane
	selected   int
	opts       DiagramOptions
	classifier *DragOriginClassifier
	logger     *slog.Logger

	width, height int

	// moving is the pane being dragged by its title, grab the offset of the
	// pointer inside it.
	moving *TablePane
	grab   Point

	// hover is the pane a carried object is currently over.
	hover    *TablePane
	hoverCtx *dnd.DropContext

	Status string
}

// Ensure DiagramView implements View.
var _ View = (*DiagramView)(nil)

// NewDiagramView creates an empty diagram.
func NewDiagramView(opts DiagramOptions) *DiagramView {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Delegate == nil {
		opts.Delegate = NewBasicDelegate(16)
	}
	return &DiagramView{
		opts:       opts,
		classifier: NewDragOriginClassifier(opts.Logger),
		logger:     opts.Logger,
		selected:   -1,
	}
}

// Init implements View.
func (d *DiagramView) Init() tea.Cmd {
	return nil
}

// Panes returns the panes in drawing order.
func (d *DiagramView) Panes() []*TablePane {
	return d.panes
}

// Selected returns the selected pane, or nil.
func (d *DiagramView) Selected() *TablePane {
	if d.selected < 0 || d.selected >= len(d.panes) {
		return nil
	}
	return d.panes[d.selected]
}

// Select makes pane i the selected pane.
func (d *DiagramView) Select(i int) {
	if i < 0 || i >= len(d.panes) {
		return
	}
	for j, p := range d.panes {
		p.Selected = j == i
	}
	d.selected = i
}

// SelectNext moves the selection to the next pane, wrapping around.
func (d *DiagramView) SelectNext() {
	if len(d.panes) > 0 {
		d.Select((d.selected + 1) % len(d.panes))
	}
}

// SelectPrev moves the selection to the previous pane, wrapping around.
func (d *DiagramView) SelectPrev() {
	if n := len(d.panes); n > 0 {
		d.Select((d.selected - 1 + n) % n)
	}
}

// AddTable places a new pane for t to the right of the last pane, wrapping to
// a new row when the diagram is full, and selects it.
func (d *DiagramView) AddTable(t *sqlobj.Table) (*TablePane, error) {
	p, err := NewTablePane(t,
		WithDelegate(d.opts.Delegate),
		WithMargin(d.opts.Margin),
		WithPaneLogger(d.logger.With("pane", t.QualifiedName())),
		WithDropOptions(d.opts.DropOptions...),
		WithPosition(d.nextPosition()),
	)
	if err != nil {
		return nil, err
	}
	if _, err := p.Layout(); err != nil {
		return nil, err
	}
	d.panes = append(d.panes, p)
	d.Select(len(d.panes) - 1)
	d.logger.Info("diagram: added table", "table", t.QualifiedName(), "x", p.Position.X, "y", p.Position.Y)
	return p, nil
}

func (d *DiagramView) nextPosition() Point {
	if len(d.panes) == 0 {
		return Point{X: 1, Y: 0}
	}
	last := d.panes[len(d.panes)-1].Bounds()
	next := Point{X: last.X + last.W + 2, Y: last.Y}
	if d.width > 0 && next.X+20 > d.width {
		bottom := 0
		for _, p := range d.panes {
			b := p.Bounds()
			bottom = max(bottom, b.Y+b.H)
		}
		next = Point{X: 1, Y: bottom}
	}
	return next
}

// RemovePane closes p and takes it off the diagram.
func (d *DiagramView) RemovePane(p *TablePane) bool {
	for i, q := range d.panes {
		if q != p {
			continue
		}
		p.Close()
		d.panes = append(d.panes[:i], d.panes[i+1:]...)
		if d.moving == p {
			d.moving = nil
		}
		if d.hover == p {
			d.hover, d.hoverCtx = nil, nil
		}
		switch {
		case len(d.panes) == 0:
			d.selected = -1
		case d.selected >= len(d.panes):
			d.Select(len(d.panes) - 1)
		default:
			d.Select(d.selected)
		}
		d.logger.Info("diagram: removed table", "pane", p.Name())
		return true
	}
	return false
}

// Close closes every pane.
func (d *DiagramView) Close() {
	for _, p := range d.panes {
		p.Close()
	}
}

// MoveSelected shifts the selected pane by (dx, dy), keeping it on the canvas.
func (d *DiagramView) MoveSelected(dx, dy int) {
	if p := d.Selected(); p != nil {
		d.moveTo(p, p.Position.Add(Point{X: dx, Y: dy}))
	}
}

func (d *DiagramView) moveTo(p *TablePane, pos Point) {
	p.Position = Point{X: max(0, pos.X), Y: max(0, pos.Y)}
}

// layoutAll brings every pane's layout up to date so hit tests see the
// current geometry.
func (d *DiagramView) layoutAll() {
	for _, p := range d.panes {
		if _, err := p.Layout(); err != nil {
			d.logger.Error("diagram: layout failed", "pane", p.Name(), "err", err)
		}
	}
}

// PaneAt returns the topmost pane under pt and pt relative to that pane.
func (d *DiagramView) PaneAt(pt Point) (*TablePane, Point, bool) {
	d.layoutAll()
	// The selected pane is drawn over the others.
	if p := d.Selected(); p != nil && p.Bounds().Contains(pt) {
		return p, pt.Sub(p.Position), true
	}
	for i := len(d.panes) - 1; i >= 0; i-- {
		p := d.panes[i]
		if p.Bounds().Contains(pt) {
			return p, pt.Sub(p.Position), true
		}
	}
	return nil, Point{}, false
}

func (d *DiagramView) indexOf(p *TablePane) int {
	for i, q := range d.panes {
		if q == p {
			return i
		}
	}
	return -1
}

// HoverCarry tracks a carried transferable over the diagram, sending drag
// enter, over and exit notifications as it crosses pane boundaries.
func (d *DiagramView) HoverCarry(pt Point, t dnd.Transferable) {
	p, rel, ok := d.PaneAt(pt)
	if !ok {
		d.CancelHover()
		return
	}
	if p != d.hover {
		d.CancelHover()
		d.hover = p
		d.hoverCtx = dnd.NewDropContext(t, rel.X, rel.Y)
		p.DropTarget().DragEnter(d.hoverCtx)
		return
	}
	d.hoverCtx.X, d.hoverCtx.Y = rel.X, rel.Y
	p.DropTarget().DragOver(d.hoverCtx)
}

// CancelHover ends any hover in progress.
func (d *DiagramView) CancelHover() {
	if d.hover != nil {
		d.hover.DropTarget().DragExit()
	}
	d.hover, d.hoverCtx = nil, nil
}

// Hovered returns the pane a carry is currently over.
func (d *DiagramView) Hovered() *TablePane {
	return d.hover
}

// ReleaseCarry drops t at diagram point pt. ok is false when pt is not over a
// pane.
func (d *DiagramView) ReleaseCarry(pt Point, t dnd.Transferable) (dnd.Result, bool) {
	p, rel, found := d.PaneAt(pt)
	if !found {
		d.CancelHover()
		d.Status = "Dropped outside any table"
		return dnd.Result{}, false
	}
	if p != d.hover {
		d.HoverCarry(pt, t)
	}
	ctx := d.hoverCtx
	d.hover, d.hoverCtx = nil, nil
	return d.drop(p, ctx, rel), true
}

// DropOnPane delivers t to p as a complete gesture: enter, over, then drop at
// the pane's first column row.
func (d *DiagramView) DropOnPane(p *TablePane, t dnd.Transferable) dnd.Result {
	d.CancelHover()
	var rel Point
	if l, err := p.Layout(); err == nil {
		rel = Point{X: l.ContentX, Y: l.FirstColumn}
	}
	ctx := dnd.NewDropContext(t, rel.X, rel.Y)
	p.DropTarget().DragEnter(ctx)
	p.DropTarget().DragOver(ctx)
	return d.drop(p, ctx, rel)
}

func (d *DiagramView) drop(p *TablePane, ctx *dnd.DropContext, rel Point) dnd.Result {
	ctx.X, ctx.Y = rel.X, rel.Y
	res := p.DropTarget().Drop(ctx)
	if i := d.indexOf(p); i >= 0 {
		d.Select(i)
	}
	d.Status = dropStatus(p, res)
	return res
}

func dropStatus(p *TablePane, res dnd.Result) string {
	name := p.Model().ShortDisplayName()
	switch {
	case res.Accepted:
		return fmt.Sprintf("Added %d to %s", res.Applied, name)
	case errors.Is(res.Err, dnd.ErrNoAcceptableFlavor):
		return fmt.Sprintf("%s does not accept that", name)
	case res.Applied > 0:
		return fmt.Sprintf("Added %d to %s, then: %v", res.Applied, name, res.Err)
	case res.Err != nil:
		return fmt.Sprintf("Drop on %s failed: %v", name, res.Err)
	}
	return ""
}

// Update implements View. Mouse coordinates are relative to the diagram.
func (d *DiagramView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width, d.height = msg.Width, msg.Height
		return d, nil
	case tea.MouseMsg:
		d.handleMouse(msg)
		return d, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			d.SelectNext()
		case "p":
			d.SelectPrev()
		case "left", "h":
			d.MoveSelected(-1, 0)
		case "right", "l":
			d.MoveSelected(1, 0)
		case "up", "k":
			d.MoveSelected(0, -1)
		case "down", "j":
			d.MoveSelected(0, 1)
		case "d":
			if p := d.Selected(); p != nil {
				return d, func() tea.Msg { return ShowRemovePaneMsg{Pane: p} }
			}
		}
	}
	return d, nil
}

func (d *DiagramView) handleMouse(msg tea.MouseMsg) {
	pt := Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		p, rel, ok := d.PaneAt(pt)
		if !ok {
			return
		}
		d.Select(d.indexOf(p))
		g := d.classifier.Classify(p, rel)
		switch g.Kind {
		case GestureMove:
			d.moving, d.grab = p, rel
			d.Status = "Moving " + p.Model().ShortDisplayName()
		case GestureNotSupported:
			d.Status = "Dragging columns out of a table is not supported"
		default:
			if g.Err != nil {
				d.Status = "Drag failed: " + g.Err.Error()
			}
		}
	case tea.MouseActionMotion:
		if d.moving != nil {
			d.moveTo(d.moving, pt.Sub(d.grab))
		}
	case tea.MouseActionRelease:
		if d.moving != nil {
			d.moveTo(d.moving, pt.Sub(d.grab))
			d.moving = nil
			d.Status = ""
		}
	}
}

// Moving returns the pane being dragged by its title, or nil.
func (d *DiagramView) Moving() *TablePane {
	return d.moving
}

// View implements View.
func (d *DiagramView) View() string {
	w, h := d.width, d.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	if len(d.panes) == 0 {
		hint := Styles.Empty.Render("Empty diagram. Pick a table in the catalog and press a to add it.")
		return textutil.Overlay(textutil.Blank(w, h), hint, 2, 1, w, h)
	}

	canvas := textutil.Blank(w, h)
	var selected *TablePane
	for _, p := range d.panes {
		if p.Selected {
			selected = p
			continue
		}
		canvas = textutil.Overlay(canvas, p.View(), p.Position.X, p.Position.Y, w, h)
	}
	if selected != nil {
		canvas = textutil.Overlay(canvas, selected.View(), selected.Position.X, selected.Position.Y, w, h)
	}
	return strings.TrimRight(canvas, "\n")
}
