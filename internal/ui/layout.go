package ui

// PanelLayout arranges panels and defines focus order.
type PanelLayout interface {
	Panels() []Panel
	FocusOrder() []string // Tab order for focus
}

// SplitLayout puts the catalog in a fixed-width column on the left and gives
// the rest of the screen, minus the status row, to the diagram.
type SplitLayout struct {
	Catalog      View
	Diagram      View
	CatalogWidth int
}

var _ PanelLayout = (*SplitLayout)(nil)

// Panels implements PanelLayout.
func (l *SplitLayout) Panels() []Panel {
	cw := l.CatalogWidth
	return []Panel{
		{
			ID:   PanelCatalog,
			View: l.Catalog,
			Bounds: func(width, height int) (int, int, int, int) {
				return 0, 0, min(cw, width), max(0, height-1)
			},
		},
		{
			ID:   PanelDiagram,
			View: l.Diagram,
			Bounds: func(width, height int) (int, int, int, int) {
				x := min(cw, width)
				return x, 0, width - x, max(0, height-1)
			},
		},
	}
}

// FocusOrder implements PanelLayout.
func (l *SplitLayout) FocusOrder() []string {
	return []string{PanelCatalog, PanelDiagram}
}

// panelAt returns the panel containing screen point (x, y) and the point
// translated into the panel's coordinates.
func panelAt(l PanelLayout, width, height, x, y int) (Panel, Point, bool) {
	for _, p := range l.Panels() {
		r := p.Rect(width, height)
		if r.Contains(Point{X: x, Y: y}) {
			return p, Point{X: x - r.X, Y: y - r.Y}, true
		}
	}
	return Panel{}, Point{}, false
}
