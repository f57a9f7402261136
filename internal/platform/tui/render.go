package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gamehost/internal/core"
	"github.com/vovakirdan/gamehost/internal/dialog"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Dialog box limits, in cells.
const (
	dialogMaxWidth = 48
	dialogMinWidth = 20
)

// wrapText breaks text into lines of at most width cells.
func wrapText(text string, width int) []string {
	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

// dialogButtons returns the button row of d, e.g. "[y] Yes   [n] No".
func dialogButtons(d *dialog.Dialog) string {
	if d.Kind == dialog.KindMessage {
		return "[enter] " + d.Positive
	}
	return "[y] " + d.Positive + "   [n] " + d.Negative
}

// drawDialog draws d as a boxed overlay centered on dst.
func drawDialog(dst *core.Screen, d *dialog.Dialog) {
	inner := core.Clamp(dst.Width()-4, dialogMinWidth, dialogMaxWidth)
	lines := wrapText(d.Message, inner)
	buttons := dialogButtons(d)

	box := dst.Bounds().Centered(inner+4, len(lines)+5)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightCyan)
	dst.DrawText(box.X+2, box.Y, " "+d.Title+" ", core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawText(box.X+2, box.Y+2+i, line, core.ColorWhite)
	}
	bx := box.X + (box.W-len([]rune(buttons)))/2
	dst.DrawText(bx, box.Bottom()-2, buttons, core.ColorBrightYellow)
}

// drawStatus writes text on the bottom row of dst, over whatever is there.
func drawStatus(dst *core.Screen, text string, c core.Color) {
	y := dst.Height() - 1
	row := []rune(text)
	if len(row) > dst.Width() {
		row = row[:dst.Width()]
	}
	dst.DrawRect(core.NewRect(0, y, dst.Width(), 1), ' ', core.ColorDefault)
	dst.DrawText(0, y, string(row), c)
}
