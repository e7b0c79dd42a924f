package ui

// BoundsFunc returns the panel's position and size given terminal dimensions.
// Returns x, y, width, height.
type BoundsFunc func(width, height int) (x, y, w, h int)

// Panel hosts a View and knows its bounds within a layout.
type Panel struct {
	ID     string
	View   View
	Bounds BoundsFunc
}

// Rect resolves the panel's bounds for a terminal of the given size.
func (p Panel) Rect(width, height int) Rect {
	x, y, w, h := p.Bounds(width, height)
	return Rect{X: x, Y: y, W: w, H: h}
}
