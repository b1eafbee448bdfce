package core

// Color is a foreground color for a screen cell. The platform decides the
// actual terminal color for each value.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorOrange
	ColorGray
	ColorBrightWhite
	ColorBrightYellow
)
