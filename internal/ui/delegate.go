package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"playpen/internal/sqlobj"
)

var (
	// ErrStaleLayout means the pane's layout no longer matches its model.
	ErrStaleLayout = errors.New("table pane layout is stale")
	// ErrLayoutUninitialized means the pane has never been laid out.
	ErrLayoutUninitialized = errors.New("table pane layout not computed")
)

// Delegate draws a pane and answers hit-test queries against the layout it
// computed. Panes receive their delegate explicitly; a single delegate may be
// shared by many panes.
type Delegate interface {
	// Layout measures p against its current model.
	Layout(p *TablePane) (*Layout, error)
	// ResolvePoint maps a pane-relative point to a logical position using the
	// pane's current layout. It fails if that layout is missing or stale.
	ResolvePoint(p *TablePane, pt Point) (LogicalPosition, error)
	// Render draws the pane.
	Render(p *TablePane) string
}

// Layout is the measured geometry of one pane, relative to its top-left cell.
type Layout struct {
	Model       *sqlobj.Table // model the layout was computed for
	ColumnCount int
	Width       int
	Height      int
	ContentX    int // first content column
	TitleRow    int
	FirstColumn int // row of column 0
	Lines       []string
}

// ColumnRow returns the row that column i is drawn on.
func (l *Layout) ColumnRow(i int) int { return l.FirstColumn + i }

// BasicDelegate draws a pane as a rounded box: a title row, a rule, and one
// row per column, surrounded by the pane's margin.
type BasicDelegate struct {
	MinWidth int
}

var _ Delegate = (*BasicDelegate)(nil)

// NewBasicDelegate creates a delegate with the given minimum content width.
func NewBasicDelegate(minWidth int) *BasicDelegate {
	return &BasicDelegate{MinWidth: minWidth}
}

// Layout implements Delegate.
func (d *BasicDelegate) Layout(p *TablePane) (*Layout, error) {
	model := p.Model()
	m := p.Margin()

	lines := make([]string, 0, model.ColumnCount())
	for _, c := range model.Columns() {
		lines = append(lines, columnLine(c))
	}

	contentW := max(d.MinWidth, ansi.StringWidth(model.ShortDisplayName()))
	for _, l := range lines {
		contentW = max(contentW, ansi.StringWidth(l))
	}

	titleRow := 1 + m.Top
	return &Layout{
		Model:       model,
		ColumnCount: model.ColumnCount(),
		Width:       2 + m.Left + contentW + m.Right,
		Height:      2 + m.Top + 2 + len(lines) + m.Bottom,
		ContentX:    1 + m.Left,
		TitleRow:    titleRow,
		FirstColumn: titleRow + 2,
		Lines:       lines,
	}, nil
}

// ResolvePoint implements Delegate. Everything above the rule counts as the
// title bar; the rule, the margins below the columns, and points outside the
// box resolve to no position.
func (d *BasicDelegate) ResolvePoint(p *TablePane, pt Point) (LogicalPosition, error) {
	l := p.CurrentLayout()
	if l == nil {
		return NoPosition(), ErrLayoutUninitialized
	}
	if !p.Valid() || l.Model != p.Model() || l.ColumnCount != p.Model().ColumnCount() {
		return NoPosition(), fmt.Errorf("%s: %w", p.Name(), ErrStaleLayout)
	}
	if pt.X < 0 || pt.X >= l.Width || pt.Y < 0 || pt.Y >= l.Height {
		return NoPosition(), nil
	}
	if pt.Y <= l.TitleRow {
		return TitlePosition(), nil
	}
	if i := pt.Y - l.FirstColumn; i >= 0 && i < l.ColumnCount {
		return ColumnAt(i), nil
	}
	return NoPosition(), nil
}

// Render implements Delegate. It uses the last layout when it is current and
// lays out again otherwise.
func (d *BasicDelegate) Render(p *TablePane) string {
	l := p.CurrentLayout()
	if l == nil || !p.Valid() {
		var err error
		if l, err = p.Layout(); err != nil {
			return Styles.Muted.Render(err.Error())
		}
	}
	m := p.Margin()
	contentW := l.Width - 2 - m.Left - m.Right

	var b strings.Builder
	b.WriteString(Styles.PaneTitle.Render(padRight(p.Model().ShortDisplayName(), contentW)))
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render(strings.Repeat("─", contentW)))
	for i, line := range l.Lines {
		b.WriteString("\n")
		style := Styles.Normal
		if c := p.Model().Column(i); c != nil && c.PrimaryKey() {
			style = Styles.Status
		}
		b.WriteString(style.Render(padRight(line, contentW)))
	}

	box := Styles.Pane
	if p.Selected {
		box = Styles.PaneSelected
	}
	return box.Padding(m.Top, m.Right, m.Bottom, m.Left).Render(b.String())
}

func columnLine(c *sqlobj.Column) string {
	marker := "  "
	if c.PrimaryKey() {
		marker = "* "
	}
	if c.Type() == "" {
		return marker + c.Name()
	}
	return marker + c.Name() + " " + c.Type()
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
