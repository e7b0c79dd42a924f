package sqlobj

// EventKind identifies which notification a listener is receiving.
type EventKind int

const (
	EventChildrenInserted EventKind = iota
	EventChildrenRemoved
	EventObjectChanged
	EventStructureChanged
)

func (k EventKind) String() string {
	switch k {
	case EventChildrenInserted:
		return "ChildrenInserted"
	case EventChildrenRemoved:
		return "ChildrenRemoved"
	case EventObjectChanged:
		return "ObjectChanged"
	case EventStructureChanged:
		return "StructureChanged"
	default:
		return "Unknown"
	}
}

// Event is delivered to listeners. Source is the element that emitted it
// (a table, or a column whose property changed).
type Event struct {
	Kind     EventKind
	Source   Object
	Property string   // set for EventObjectChanged
	Indices  []int    // child indices for inserted/removed
	Children []Object // children inserted or removed, parallel to Indices
	Old, New any      // previous and new property values
}

// Listener receives table notifications. All four callbacks run on the
// goroutine that mutated the table.
type Listener interface {
	ChildrenInserted(e Event)
	ChildrenRemoved(e Event)
	ObjectChanged(e Event)
	StructureChanged(e Event)
}

// Subscription is the handle returned by Table.AddListener.
// Release removes exactly that registration; later calls are no-ops.
type Subscription struct {
	table    *Table
	listener Listener
	released bool
}

// Release unregisters the listener. Safe to call more than once.
func (s *Subscription) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	s.table.removeSubscription(s)
}

// Released reports whether Release has been called.
func (s *Subscription) Released() bool {
	return s == nil || s.released
}

// Table returns the table this subscription is registered on.
func (s *Subscription) Table() *Table {
	if s == nil {
		return nil
	}
	return s.table
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnChildrenInserted func(Event)
	OnChildrenRemoved  func(Event)
	OnObjectChanged    func(Event)
	OnStructureChanged func(Event)
}

var _ Listener = ListenerFuncs{}

func (f ListenerFuncs) ChildrenInserted(e Event) {
	if f.OnChildrenInserted != nil {
		f.OnChildrenInserted(e)
	}
}

func (f ListenerFuncs) ChildrenRemoved(e Event) {
	if f.OnChildrenRemoved != nil {
		f.OnChildrenRemoved(e)
	}
}

func (f ListenerFuncs) ObjectChanged(e Event) {
	if f.OnObjectChanged != nil {
		f.OnObjectChanged(e)
	}
}

func (f ListenerFuncs) StructureChanged(e Event) {
	if f.OnStructureChanged != nil {
		f.OnStructureChanged(e)
	}
}
