// Package apps holds the demo engine cores shipped with the host and the
// small widgets they share.
package apps

import (
	"github.com/vovakirdan/gamehost/internal/core"
)

// Button is a labelled hit area on a toolbar row.
type Button struct {
	ID    string
	Label string
	Rect  core.Rect
}

// Toolbar is a single row of buttons laid out left to right.
type Toolbar struct {
	Row     int
	Buttons []Button
}

// NewToolbar lays out buttons on row, one space apart. Labels are drawn in
// brackets, e.g. "[clear]".
func NewToolbar(row int, ids, labels []string) *Toolbar {
	tb := &Toolbar{Row: row}
	x := 1
	for i, id := range ids {
		label := "[" + labels[i] + "]"
		w := len([]rune(label))
		tb.Buttons = append(tb.Buttons, Button{
			ID:    id,
			Label: label,
			Rect:  core.NewRect(x, row, w, 1),
		})
		x += w + 1
	}
	return tb
}

// Hit returns the ID of the button under the engine-space point, or "".
func (tb *Toolbar) Hit(x, y float32, height int) string {
	col, row := core.CellAt(x, y, height)
	for _, b := range tb.Buttons {
		if b.Rect.Contains(col, row) {
			return b.ID
		}
	}
	return ""
}

// Draw renders the toolbar. The pressed button, if any, is highlighted.
func (tb *Toolbar) Draw(dst *core.Screen, pressed string) {
	for _, b := range tb.Buttons {
		c := core.ColorCyan
		if b.ID == pressed {
			c = core.ColorYellow
		}
		dst.DrawText(b.Rect.X, b.Rect.Y, b.Label, c)
	}
}
