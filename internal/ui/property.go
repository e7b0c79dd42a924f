package ui

import "playpen/internal/sqlobj"

// Property names fired by TablePane.
const (
	PropModel         = "model"
	PropMargin        = "margin"
	PropModelChildren = "model.children"
	propModelPrefix   = "model."
)

// PropertyChangeEvent reports a change on a pane. Cause is set when the
// change was relayed from a model notification.
type PropertyChangeEvent struct {
	Source   *TablePane
	Name     string
	Old, New any
	Cause    *sqlobj.Event
}

// PropertyChangeListener receives property changes.
type PropertyChangeListener func(PropertyChangeEvent)

type propListener struct {
	id   int
	name string // "" receives every property
	fn   PropertyChangeListener
}

// propertySupport keeps named listeners in registration order.
type propertySupport struct {
	listeners []propListener
	nextID    int
}

func (p *propertySupport) add(name string, fn PropertyChangeListener) (remove func()) {
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, propListener{id: id, name: name, fn: fn})
	return func() {
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

func (p *propertySupport) fire(ev PropertyChangeEvent) {
	if len(p.listeners) == 0 {
		return
	}
	ls := make([]propListener, len(p.listeners))
	copy(ls, p.listeners)
	for _, l := range ls {
		if l.name == "" || l.name == ev.Name {
			l.fn(ev)
		}
	}
}
