package ui

import "playpen/internal/sqlobj"

// modelBridge turns model notifications into pane property changes plus a
// re-layout request. Every notification is treated the same way regardless
// of who changed the model.
type modelBridge struct {
	pane *TablePane
}

var _ sqlobj.Listener = (*modelBridge)(nil)

func (b *modelBridge) ChildrenInserted(e sqlobj.Event) { b.structural(e) }
func (b *modelBridge) ChildrenRemoved(e sqlobj.Event)  { b.structural(e) }
func (b *modelBridge) StructureChanged(e sqlobj.Event) { b.structural(e) }

func (b *modelBridge) ObjectChanged(e sqlobj.Event) {
	b.pane.firePropertyChange(PropertyChangeEvent{
		Name:  propModelPrefix + e.Property,
		Old:   e.Old,
		New:   e.New,
		Cause: &e,
	})
	b.pane.Revalidate()
}

func (b *modelBridge) structural(e sqlobj.Event) {
	b.pane.firePropertyChange(PropertyChangeEvent{Name: PropModelChildren, Cause: &e})
	b.pane.Revalidate()
}
