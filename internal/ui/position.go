package ui

import "fmt"

// Point is a terminal cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Rect is a cell rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Legacy column indexes, as returned by LogicalPosition.ColumnIndex.
const (
	ColumnIndexTitle = -1
	ColumnIndexNone  = -2
)

// PositionKind tags a LogicalPosition.
type PositionKind int

const (
	PositionNone PositionKind = iota
	PositionTitle
	PositionColumn
)

// LogicalPosition is what a point on a pane refers to: the title, one column, or nothing.
type LogicalPosition struct {
	Kind   PositionKind
	Column int // valid when Kind == PositionColumn
}

func TitlePosition() LogicalPosition { return LogicalPosition{Kind: PositionTitle} }
func NoPosition() LogicalPosition    { return LogicalPosition{Kind: PositionNone} }

// ColumnAt refers to the column at index i.
func ColumnAt(i int) LogicalPosition {
	return LogicalPosition{Kind: PositionColumn, Column: i}
}

// ColumnIndex returns i for ColumnAt(i), ColumnIndexTitle or ColumnIndexNone.
func (p LogicalPosition) ColumnIndex() int {
	switch p.Kind {
	case PositionTitle:
		return ColumnIndexTitle
	case PositionColumn:
		return p.Column
	default:
		return ColumnIndexNone
	}
}

func (p LogicalPosition) String() string {
	switch p.Kind {
	case PositionTitle:
		return "Title"
	case PositionColumn:
		return fmt.Sprintf("ColumnAt(%d)", p.Column)
	default:
		return "None"
	}
}
