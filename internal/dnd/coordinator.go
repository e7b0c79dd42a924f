package dnd

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"playpen/internal/sqlobj"
)

// State is the coordinator's position in one drag interaction.
type State int

const (
	StateIdle State = iota
	StateDragEntered
	StateDragOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDragEntered:
		return "DragEntered"
	case StateDragOver:
		return "DragOver"
	default:
		return "Unknown"
	}
}

// Model is the mutation surface a drop may use. *sqlobj.Table satisfies it.
type Model interface {
	AddColumn(c *sqlobj.Column) error
	Inherit(src *sqlobj.Table) error
}

var _ Model = (*sqlobj.Table)(nil)

// Target supplies the model at drop time, so a pane whose model is replaced
// between drags is handled without re-attaching the coordinator.
type Target interface {
	DropModel() Model
}

// TargetFunc adapts a function to Target.
type TargetFunc func() Model

func (f TargetFunc) DropModel() Model { return f() }

// Result describes how a drop ended.
type Result struct {
	Accepted bool
	Flavor   Flavor
	Payload  Payload // nil if materialization or classification failed
	Applied  int     // model mutations that succeeded
	Err      error
}

// DropCoordinator negotiates drops onto one pane. It is not safe for
// concurrent use; all callbacks run on the UI goroutine.
type DropCoordinator struct {
	target Target
	state  State
	logger *slog.Logger
	tracer oteltrace.Tracer
}

// Option configures a DropCoordinator.
type Option func(*DropCoordinator)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(d *DropCoordinator) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithTracerProvider sets where drop spans go. The default is a no-op provider.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(d *DropCoordinator) {
		if tp != nil {
			d.tracer = tp.Tracer("playpen/dnd")
		}
	}
}

// NewDropCoordinator creates an idle coordinator for target.
func NewDropCoordinator(target Target, opts ...Option) *DropCoordinator {
	d := &DropCoordinator{
		target: target,
		state:  StateIdle,
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer("playpen/dnd"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current state.
func (d *DropCoordinator) State() State {
	return d.state
}

// DragEnter starts a hover. The drag is accepted as a copy without looking at
// the payload: validating it would require materializing the data.
func (d *DropCoordinator) DragEnter(ev DragEvent) {
	d.state = StateDragEntered
	ev.AcceptDrag(ActionCopy)
}

// DragOver continues a hover.
func (d *DropCoordinator) DragOver(ev DragEvent) {
	d.state = StateDragOver
	ev.AcceptDrag(ActionCopy)
}

// DropActionChanged is called when the user changes modifiers mid-drag.
// The drop is still offered as a copy.
func (d *DropCoordinator) DropActionChanged(ev DragEvent) {
	if d.state == StateIdle {
		d.state = StateDragEntered
	}
	ev.AcceptDrag(ActionCopy)
}

// DragExit abandons the hover.
func (d *DropCoordinator) DragExit() {
	d.state = StateIdle
}

// Drop classifies the payload and applies it to the target's model. The
// coordinator is idle again when Drop returns, whatever the outcome.
//
// An object list is applied element by element. If adding a column fails the
// remaining elements are skipped, but columns already added stay.
func (d *DropCoordinator) Drop(ev DropEvent) Result {
	defer func() { d.state = StateIdle }()

	_, span := d.tracer.Start(context.Background(), "dnd.drop")
	defer span.End()

	res := d.drop(ev)

	span.SetAttributes(
		attribute.String("dnd.flavor", res.Flavor.MIMEType),
		attribute.Bool("dnd.accepted", res.Accepted),
		attribute.Int("dnd.applied", res.Applied),
	)
	if res.Payload != nil {
		span.SetAttributes(attribute.String("dnd.payload", res.Payload.Kind().String()))
	}
	if res.Err != nil {
		attrs := []any{"flavor", res.Flavor.MIMEType, "applied", res.Applied, "err", res.Err}
		if res.Payload != nil {
			attrs = append(attrs, "payload", res.Payload.Kind().String())
		}
		d.logger.Error("drop rejected", attrs...)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "drop rejected")
	}
	return res
}

func (d *DropCoordinator) drop(ev DropEvent) Result {
	t := ev.Transferable()
	if t == nil {
		ev.RejectDrop()
		return Result{Err: ErrNoAcceptableFlavor}
	}

	offered := t.Flavors()
	d.logger.Debug("drop: offered flavors", "flavors", offered)
	flavor, ok := ClassifyAcceptableFlavor(offered)
	if !ok {
		ev.RejectDrop()
		return Result{Err: ErrNoAcceptableFlavor}
	}

	data, err := t.Data(flavor)
	if err != nil {
		ev.RejectDrop()
		return Result{Flavor: flavor, Err: fmt.Errorf("materialize %s: %w", flavor, err)}
	}
	d.logger.Debug("drop: got payload", "type", fmt.Sprintf("%T", data))

	payload, ok := ClassifyPayload(data)
	if !ok {
		ev.RejectDrop()
		return Result{Flavor: flavor, Err: fmt.Errorf("%T: %w", data, ErrUnrecognizedPayload)}
	}

	var model Model
	if d.target != nil {
		model = d.target.DropModel()
	}
	if model == nil {
		ev.RejectDrop()
		return Result{Flavor: flavor, Payload: payload, Err: sqlobj.ErrNilModel}
	}

	applied, err := apply(model, payload)
	if err != nil {
		ev.RejectDrop()
		return Result{Flavor: flavor, Payload: payload, Applied: applied, Err: err}
	}

	ev.AcceptDrop(ActionCopy)
	ev.DropComplete(true)
	d.logger.Debug("drop: applied", "payload", payload.Kind().String(), "applied", applied)
	return Result{Accepted: true, Flavor: flavor, Payload: payload, Applied: applied}
}

func apply(model Model, p Payload) (int, error) {
	switch p := p.(type) {
	case TablePayload:
		if err := model.Inherit(p.Table); err != nil {
			return 0, err
		}
		return 1, nil
	case ColumnPayload:
		if err := model.AddColumn(p.Column); err != nil {
			return 0, err
		}
		return 1, nil
	case ObjectListPayload:
		applied := 0
		for _, c := range p.Columns() {
			if err := model.AddColumn(c); err != nil {
				return applied, err
			}
			applied++
		}
		return applied, nil
	}
	return 0, ErrUnrecognizedPayload
}
