package ui

import "playpen/internal/sqlobj"

// CatalogLoadedMsg is sent when the database catalog has been read.
type CatalogLoadedMsg struct {
	Tables []*sqlobj.Table
	Err    error
}

// ReloadCatalogMsg asks for the catalog to be read again (SPC c r).
type ReloadCatalogMsg struct{}

// AddTableMsg adds the table highlighted in the catalog to the diagram ('a' or SPC t a).
type AddTableMsg struct{}

// ShowRemovePaneMsg asks for confirmation before removing a pane from the
// diagram. A nil Pane means the selected pane.
type ShowRemovePaneMsg struct {
	Pane *TablePane
}

// RemovePaneMsg is sent when the user confirms removal of a pane.
type RemovePaneMsg struct {
	Pane *TablePane
}

// PickUpMsg starts carrying the catalog selection (Enter in the catalog).
type PickUpMsg struct{}

// DropCarryMsg drops the carried objects on the selected pane (Enter in the diagram).
type DropCarryMsg struct{}

// CancelCarryMsg puts down whatever is being carried and clears catalog marks.
type CancelCarryMsg struct{}

// FocusNextMsg moves focus to the next panel (Tab).
type FocusNextMsg struct{}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}
