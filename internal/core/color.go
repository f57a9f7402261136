package core

// Color is a foreground color for a surface cell.
// Values map onto the ANSI 256-color palette in the terminal host.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// PointerColors is the palette used to tell simultaneous pointers apart.
var PointerColors = []Color{
	ColorBrightCyan,
	ColorBrightMagenta,
	ColorBrightYellow,
	ColorBrightGreen,
	ColorOrange,
	ColorBrightRed,
}

// ColorForPointer returns a stable color for a pointer id.
func ColorForPointer(id int) Color {
	if id < 0 {
		id = -id
	}
	return PointerColors[id%len(PointerColors)]
}
