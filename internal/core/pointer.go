package core

// Phase is the stage of a single pointer's contact.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMoved
	PhaseUp
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "Down"
	case PhaseMoved:
		return "Moved"
	case PhaseUp:
		return "Up"
	default:
		return "Unknown"
	}
}

// PointerEvent is one pointer update in engine space.
// Engine space has its origin at the bottom-left corner of the surface.
type PointerEvent struct {
	ID    int
	X, Y  float32
	Phase Phase
}

// CellAt maps engine coordinates to the column and row of a surface with
// the given height. Hosts report cell centers, so a cell round-trips.
func CellAt(x, y float32, height int) (col, row int) {
	return int(x), height - 1 - int(y)
}

// CellCenter returns the window-space center of cell (col, row), origin
// top-left. After the host flips it, CellAt recovers the same cell.
func CellCenter(col, row int) (x, y float32) {
	return float32(col) + 0.5, float32(row) + 0.5
}
