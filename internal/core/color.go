package core

// Color represents a foreground color for a screen cell.
// The platform maps these to ANSI 256-color codes.
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
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorBrown
	ColorDarkGreen
)

// ParseColor maps a catalog color name to a Color.
// Unknown names return ColorDefault.
func ParseColor(name string) Color {
	switch name {
	case "red":
		return ColorRed
	case "green":
		return ColorGreen
	case "yellow":
		return ColorYellow
	case "blue":
		return ColorBlue
	case "magenta":
		return ColorMagenta
	case "cyan":
		return ColorCyan
	case "white":
		return ColorWhite
	case "bright_red":
		return ColorBrightRed
	case "bright_green":
		return ColorBrightGreen
	case "bright_yellow":
		return ColorBrightYellow
	case "bright_blue":
		return ColorBrightBlue
	case "bright_cyan":
		return ColorBrightCyan
	case "bright_white":
		return ColorBrightWhite
	case "orange":
		return ColorOrange
	case "gray", "grey":
		return ColorGray
	case "brown":
		return ColorBrown
	case "dark_green":
		return ColorDarkGreen
	default:
		return ColorDefault
	}
}
