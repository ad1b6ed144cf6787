// Package clipboard captures encoded cell values on copy and replays
// them on paste.
//
// Only the broadcast case is supported on paste: when exactly one value
// was copied it is applied to every currently selected cell. Positional
// multi-cell paste is intentionally absent.
package clipboard

import "github.com/dalemusser/crewgrid/internal/app/grid/selection"

// Clipboard holds the encoded values captured by the last copy.
type Clipboard struct {
	values map[selection.Cell]string
}

func New() *Clipboard {
	return &Clipboard{}
}

// Copy captures the encoded value of every given cell via read. A copy
// of zero cells leaves the clipboard untouched.
func (c *Clipboard) Copy(cs []selection.Cell, read func(selection.Cell) string) {
	if len(cs) == 0 {
		return
	}
	c.values = make(map[selection.Cell]string, len(cs))
	for _, cell := range cs {
		c.values[cell] = read(cell)
	}
}

// BroadcastValue returns the single captured value when the last copy
// covered exactly one cell, which is the only paste shape supported.
func (c *Clipboard) BroadcastValue() (string, bool) {
	if len(c.values) != 1 {
		return "", false
	}
	for _, v := range c.values {
		return v, true
	}
	return "", false
}

// Size returns how many cell values the clipboard holds.
func (c *Clipboard) Size() int { return len(c.values) }
