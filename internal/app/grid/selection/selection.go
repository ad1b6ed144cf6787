// Package selection tracks which grid cells are selected and implements
// the click/toggle/extend/drag gestures over them.
//
// Cells are addressed by (row, col) grid coordinates; the owning session
// maps rows to members and cols to day offsets. Keeping the model in
// coordinates rather than identities makes rectangular range inference a
// pure min/max computation.
package selection

import "sort"

// Cell is one (row, col) grid coordinate.
type Cell struct {
	Row int
	Col int
}

// Model holds the selected cell set, the anchor for range extension, and
// the in-flight drag origin. The zero value is not usable; call New.
type Model struct {
	cells      map[Cell]struct{}
	anchor     *Cell
	dragOrigin *Cell
}

func New() *Model {
	return &Model{cells: make(map[Cell]struct{})}
}

// Click replaces the selection with the clicked cell and moves the
// anchor there. Clicking the sole already-selected cell clears the
// selection instead (toggle-off).
func (m *Model) Click(c Cell) {
	if len(m.cells) == 1 {
		if _, sole := m.cells[c]; sole {
			m.Clear()
			return
		}
	}
	m.cells = map[Cell]struct{}{c: {}}
	m.anchor = &c
}

// Toggle XORs the clicked cell into or out of the selection (ctrl/cmd
// click) and moves the anchor to it.
func (m *Model) Toggle(c Cell) {
	if _, ok := m.cells[c]; ok {
		delete(m.cells, c)
	} else {
		m.cells[c] = struct{}{}
	}
	m.anchor = &c
}

// Extend unions the inclusive rectangle between the anchor and the
// target into the selection (shift click). The anchor stays put so
// repeated extensions pivot around the same cell. With no anchor set it
// behaves like a plain click.
func (m *Model) Extend(target Cell) {
	if m.anchor == nil {
		m.Click(target)
		return
	}
	for _, c := range rect(*m.anchor, target) {
		m.cells[c] = struct{}{}
	}
}

// BeginDrag starts a press-move-release drag at c. The selection
// becomes just the origin cell until the pointer moves.
func (m *Model) BeginDrag(c Cell) {
	m.dragOrigin = &c
	m.cells = map[Cell]struct{}{c: {}}
	m.anchor = &c
}

// DragOver replaces the selection with the live rectangle between the
// drag origin and the current cell. A no-op when no drag is active.
func (m *Model) DragOver(c Cell) {
	if m.dragOrigin == nil {
		return
	}
	m.cells = make(map[Cell]struct{})
	for _, cc := range rect(*m.dragOrigin, c) {
		m.cells[cc] = struct{}{}
	}
}

// EndDrag ends the drag; the selection stays as last computed.
func (m *Model) EndDrag() {
	m.dragOrigin = nil
}

// Clear empties the selection and forgets the anchor (escape key or a
// click outside the grid).
func (m *Model) Clear() {
	m.cells = make(map[Cell]struct{})
	m.anchor = nil
	m.dragOrigin = nil
}

// Contains reports whether c is currently selected.
func (m *Model) Contains(c Cell) bool {
	_, ok := m.cells[c]
	return ok
}

// Count returns the number of selected cells.
func (m *Model) Count() int { return len(m.cells) }

// Anchor returns the current anchor cell, if any.
func (m *Model) Anchor() (Cell, bool) {
	if m.anchor == nil {
		return Cell{}, false
	}
	return *m.anchor, true
}

// Cells returns the selected cells in row-major order.
func (m *Model) Cells() []Cell {
	out := make([]Cell, 0, len(m.cells))
	for c := range m.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// rect enumerates the inclusive rectangle spanned by a and b, in either
// direction. A shared row degenerates to a horizontal day run, a shared
// col to a vertical member run.
func rect(a, b Cell) []Cell {
	r1, r2 := minMax(a.Row, b.Row)
	c1, c2 := minMax(a.Col, b.Col)
	out := make([]Cell, 0, (r2-r1+1)*(c2-c1+1))
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			out = append(out, Cell{Row: r, Col: c})
		}
	}
	return out
}

func minMax(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}
