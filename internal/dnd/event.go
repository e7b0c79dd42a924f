package dnd

// Action is the drag operation being negotiated.
type Action int

const (
	ActionNone Action = iota
	ActionCopy
	ActionMove
	ActionLink
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCopy:
		return "copy"
	case ActionMove:
		return "move"
	case ActionLink:
		return "link"
	default:
		return "unknown"
	}
}

// DragEvent is the platform side of a hover callback.
type DragEvent interface {
	Flavors() []Flavor
	AcceptDrag(a Action)
	RejectDrag()
}

// DropEvent is the platform side of a drop callback.
type DropEvent interface {
	Transferable() Transferable
	AcceptDrop(a Action)
	RejectDrop()
	DropComplete(success bool)
}

// DropContext is an in-process DragEvent and DropEvent. It records every
// signal the coordinator sends so callers can render feedback.
type DropContext struct {
	T    Transferable
	X, Y int // drop location, relative to the target pane

	DragAccepted Action // last AcceptDrag action, ActionNone if never accepted
	DragRejected bool
	DropAccepted Action
	DropRejected bool
	Completed    bool
	Success      bool
}

var (
	_ DragEvent = (*DropContext)(nil)
	_ DropEvent = (*DropContext)(nil)
)

// NewDropContext creates a context for dropping t at (x, y).
func NewDropContext(t Transferable, x, y int) *DropContext {
	return &DropContext{T: t, X: x, Y: y}
}

func (c *DropContext) Flavors() []Flavor {
	if c.T == nil {
		return nil
	}
	return c.T.Flavors()
}

func (c *DropContext) Transferable() Transferable { return c.T }

func (c *DropContext) AcceptDrag(a Action) {
	c.DragAccepted = a
	c.DragRejected = false
}

func (c *DropContext) RejectDrag() {
	c.DragAccepted = ActionNone
	c.DragRejected = true
}

func (c *DropContext) AcceptDrop(a Action) {
	c.DropAccepted = a
}

func (c *DropContext) RejectDrop() {
	c.DropRejected = true
}

func (c *DropContext) DropComplete(success bool) {
	c.Completed = true
	c.Success = success
}

// Refused reports whether the drop ended without success.
func (c *DropContext) Refused() bool {
	return c.DropRejected || (c.Completed && !c.Success)
}
