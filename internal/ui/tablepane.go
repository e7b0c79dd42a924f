package ui

import (
	"errors"
	"fmt"
	"log/slog"

	"playpen/internal/dnd"
	"playpen/internal/sqlobj"
)

var (
	// ErrNoDelegate is returned by geometry queries before a delegate is installed.
	ErrNoDelegate = errors.New("no rendering delegate installed")
	// ErrPaneClosed is returned when a closed pane is asked to take a new model.
	ErrPaneClosed = errors.New("table pane is closed")
)

// Insets is a four-sided margin in cells.
type Insets struct {
	Top, Left, Bottom, Right int
}

// DefaultMargin leaves one cell between the border and the column names.
var DefaultMargin = Insets{Top: 1, Left: 1, Bottom: 1, Right: 1}

// TablePane shows one table on the diagram. It listens to its model and
// requests a re-layout whenever the model reports a change.
//
// A pane holds exactly one live model subscription until Close is called.
type TablePane struct {
	name     string
	model    *sqlobj.Table
	sub      *sqlobj.Subscription
	bridge   *modelBridge
	margin   Insets
	delegate Delegate
	props    propertySupport
	drop     *dnd.DropCoordinator
	logger   *slog.Logger
	closed   bool

	layout         *Layout
	valid          bool
	layoutRequests int

	// Position is the pane's top-left corner on the diagram.
	Position Point
	// Selected panes are drawn highlighted.
	Selected bool
}

var _ dnd.Target = (*TablePane)(nil)

// PaneOption configures a TablePane.
type PaneOption func(*paneOptions)

type paneOptions struct {
	delegate Delegate
	margin   Insets
	logger   *slog.Logger
	dropOpts []dnd.Option
	position Point
}

// WithDelegate installs the rendering delegate.
func WithDelegate(d Delegate) PaneOption {
	return func(o *paneOptions) { o.delegate = d }
}

// WithMargin sets the initial margin.
func WithMargin(m Insets) PaneOption {
	return func(o *paneOptions) { o.margin = m }
}

// WithPaneLogger sets the logger used by the pane and its drop coordinator.
func WithPaneLogger(l *slog.Logger) PaneOption {
	return func(o *paneOptions) { o.logger = l }
}

// WithDropOptions passes options through to the pane's DropCoordinator.
func WithDropOptions(opts ...dnd.Option) PaneOption {
	return func(o *paneOptions) { o.dropOpts = append(o.dropOpts, opts...) }
}

// WithPosition places the pane on the diagram.
func WithPosition(p Point) PaneOption {
	return func(o *paneOptions) { o.position = p }
}

// NewTablePane creates a pane bound to model.
func NewTablePane(model *sqlobj.Table, opts ...PaneOption) (*TablePane, error) {
	if model == nil {
		return nil, fmt.Errorf("new table pane: %w", sqlobj.ErrNilModel)
	}
	o := paneOptions{margin: DefaultMargin}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	p := &TablePane{
		margin:   o.margin,
		delegate: o.delegate,
		logger:   o.logger,
		Position: o.position,
	}
	p.bridge = &modelBridge{pane: p}
	dropOpts := append([]dnd.Option{dnd.WithLogger(o.logger)}, o.dropOpts...)
	p.drop = dnd.NewDropCoordinator(p, dropOpts...)
	if err := p.SetModel(model); err != nil {
		return nil, err
	}
	return p, nil
}

// Name is the pane's display name, derived from the model when it is set.
func (p *TablePane) Name() string { return p.name }

// Model returns the current model. It is never nil.
func (p *TablePane) Model() *sqlobj.Table { return p.model }

// DropModel implements dnd.Target.
func (p *TablePane) DropModel() dnd.Model { return p.model }

// DropTarget returns the coordinator handling drops onto this pane.
func (p *TablePane) DropTarget() *dnd.DropCoordinator { return p.drop }

// SetModel replaces the model. The bridge is moved from the old model to the
// new one, so at no point is the pane registered on two models. A nil model
// is rejected before anything changes.
func (p *TablePane) SetModel(m *sqlobj.Table) error {
	if m == nil {
		return fmt.Errorf("set model: %w", sqlobj.ErrNilModel)
	}
	if p.closed {
		return ErrPaneClosed
	}
	old := p.model
	if old == m {
		p.Revalidate()
		return nil
	}
	if p.sub != nil {
		p.sub.Release()
	}
	p.model = m
	p.sub = m.AddListener(p.bridge)
	p.name = "TablePanel: " + m.ShortDisplayName()

	p.firePropertyChange(PropertyChangeEvent{Name: PropModel, Old: old, New: m})
	p.Revalidate()
	return nil
}

// Subscription returns the live model registration, or nil after Close.
func (p *TablePane) Subscription() *sqlobj.Subscription { return p.sub }

// Margin returns a copy of the margin.
func (p *TablePane) Margin() Insets { return p.margin }

// SetMargin stores a copy of m and requests a re-layout.
func (p *TablePane) SetMargin(m Insets) {
	old := p.margin
	p.margin = m
	if old != m {
		p.firePropertyChange(PropertyChangeEvent{Name: PropMargin, Old: old, New: m})
	}
	p.Revalidate()
}

// Delegate returns the installed rendering delegate, possibly nil.
func (p *TablePane) Delegate() Delegate { return p.delegate }

// SetDelegate swaps the rendering delegate and invalidates the layout.
func (p *TablePane) SetDelegate(d Delegate) {
	p.delegate = d
	p.layout = nil
	p.Revalidate()
}

// AddPropertyChangeListener registers fn for the named property, or for all
// properties when name is empty. The returned func removes the registration.
func (p *TablePane) AddPropertyChangeListener(name string, fn PropertyChangeListener) (remove func()) {
	return p.props.add(name, fn)
}

func (p *TablePane) firePropertyChange(ev PropertyChangeEvent) {
	ev.Source = p
	p.props.fire(ev)
}

// Revalidate marks the layout out of date. The next Layout call re-measures.
func (p *TablePane) Revalidate() {
	p.valid = false
	p.layoutRequests++
}

// LayoutRequests counts Revalidate calls over the pane's lifetime.
func (p *TablePane) LayoutRequests() int { return p.layoutRequests }

// Valid reports whether the last layout still reflects the model.
func (p *TablePane) Valid() bool { return p.valid }

// Layout re-measures the pane if needed and returns its geometry.
func (p *TablePane) Layout() (*Layout, error) {
	if p.delegate == nil {
		return nil, ErrNoDelegate
	}
	if p.valid && p.layout != nil {
		return p.layout, nil
	}
	l, err := p.delegate.Layout(p)
	if err != nil {
		return nil, err
	}
	p.layout = l
	p.valid = true
	return l, nil
}

// CurrentLayout returns the last computed layout without re-measuring.
func (p *TablePane) CurrentLayout() *Layout { return p.layout }

// Bounds returns the pane rectangle on the diagram, using the last layout.
func (p *TablePane) Bounds() Rect {
	if p.layout == nil {
		return Rect{X: p.Position.X, Y: p.Position.Y}
	}
	return Rect{X: p.Position.X, Y: p.Position.Y, W: p.layout.Width, H: p.layout.Height}
}

// PointToLogicalPosition maps a pane-relative point through the delegate.
// Delegate errors are returned as is; ErrNoDelegate means no delegate is
// installed yet.
func (p *TablePane) PointToLogicalPosition(pt Point) (LogicalPosition, error) {
	if p.delegate == nil {
		return NoPosition(), ErrNoDelegate
	}
	return p.delegate.ResolvePoint(p, pt)
}

// View renders the pane through its delegate.
func (p *TablePane) View() string {
	if p.delegate == nil {
		return ""
	}
	return p.delegate.Render(p)
}

// Close releases the model subscription. The pane keeps its last model for
// display but no longer receives notifications.
func (p *TablePane) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.sub.Release()
	p.sub = nil
	p.drop.DragExit()
}

// Closed reports whether Close has been called.
func (p *TablePane) Closed() bool { return p.closed }
