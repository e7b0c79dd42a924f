package ui

import "log/slog"

// GestureKind is what a drag starting at some point on a pane should do.
type GestureKind int

const (
	// GestureNone ignores the drag.
	GestureNone GestureKind = iota
	// GestureMove drags the whole pane.
	GestureMove
	// GestureNotSupported is a recognized gesture with no implementation
	// (dragging a column out of a pane).
	GestureNotSupported
)

func (k GestureKind) String() string {
	switch k {
	case GestureMove:
		return "Move"
	case GestureNotSupported:
		return "NotSupported"
	default:
		return "None"
	}
}

// DragGesture is the outcome of classifying a drag origin.
type DragGesture struct {
	Kind     GestureKind
	Position LogicalPosition
	Err      error // resolution error that forced GestureNone, if any
}

// DragOriginClassifier decides what a drag gesture starting on a pane means.
// Errors from the pane's delegate stop here: they are logged and the gesture
// is ignored.
type DragOriginClassifier struct {
	logger *slog.Logger
}

// NewDragOriginClassifier creates a classifier. A nil logger discards output.
func NewDragOriginClassifier(logger *slog.Logger) *DragOriginClassifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DragOriginClassifier{logger: logger}
}

// Classify maps the pane-relative drag origin pt to a gesture.
func (c *DragOriginClassifier) Classify(p *TablePane, pt Point) DragGesture {
	pos, err := p.PointToLogicalPosition(pt)
	if err != nil {
		c.logger.Error("drag origin: translating point failed", "pane", p.Name(), "x", pt.X, "y", pt.Y, "err", err)
		return DragGesture{Kind: GestureNone, Position: NoPosition(), Err: err}
	}
	c.logger.Debug("drag origin: recognized gesture", "pane", p.Name(), "position", pos.String())

	switch pos.Kind {
	case PositionTitle:
		return DragGesture{Kind: GestureMove, Position: pos}
	case PositionColumn:
		c.logger.Warn("drag origin: dragging columns is not implemented", "pane", p.Name(), "column", pos.Column)
		return DragGesture{Kind: GestureNotSupported, Position: pos}
	default:
		return DragGesture{Kind: GestureNone, Position: pos}
	}
}
