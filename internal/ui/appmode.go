package ui

// AppMode is the panel that currently owns the keyboard. Leader hints are
// filtered by it.
type AppMode int

const (
	ModeCatalog AppMode = iota
	ModeDiagram
)

func (m AppMode) String() string {
	switch m {
	case ModeCatalog:
		return "Catalog"
	case ModeDiagram:
		return "Diagram"
	default:
		return "Unknown"
	}
}

// Panel IDs used for focus.
const (
	PanelCatalog = "catalog"
	PanelDiagram = "diagram"
)

func modeForPanel(id string) AppMode {
	if id == PanelDiagram {
		return ModeDiagram
	}
	return ModeCatalog
}
