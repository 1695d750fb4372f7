package readterm

// Color is a normalized RGBA color. Every channel is in [0, 1].
type Color struct {
	Red   float32
	Green float32
	Blue  float32
	Alpha float32
}

// Predefined colors.
var (
	Red   = Color{Red: 1, Alpha: 1}
	Green = Color{Green: 1, Alpha: 1}
	Blue  = Color{Blue: 1, Alpha: 1}
	Black = Color{Alpha: 1}
	White = Color{Red: 1, Green: 1, Blue: 1, Alpha: 1}
)

// FromPackedARGB8 unpacks a 32-bit 0xAARRGGBB value into a Color.
func FromPackedARGB8(color uint32) Color {
	alpha := uint8((color & 0xff000000) >> 24)
	red := uint8((color & 0x00ff0000) >> 16)
	green := uint8((color & 0x0000ff00) >> 8)
	blue := uint8(color & 0x000000ff)
	return FromRGBA8(red, green, blue, alpha)
}

// FromRGB8 builds a fully opaque Color from 8-bit channels.
func FromRGB8(red, green, blue uint8) Color {
	return FromRGBA8(red, green, blue, 0xff)
}

// FromRGBA8 builds a Color from 8-bit channels.
func FromRGBA8(red, green, blue, alpha uint8) Color {
	return Color{
		Red:   float32(red) / 255.0,
		Green: float32(green) / 255.0,
		Blue:  float32(blue) / 255.0,
		Alpha: float32(alpha) / 255.0,
	}
}

// Style describes how a cell's character is rendered. It currently
// carries only a foreground color; the boolean text attributes carried
// on events (bold, italic, underline, strikethrough) are driver-level
// metadata and are not folded into rendered style runs.
type Style struct {
	Color Color
}

// DefaultStyle is the style of an untouched cell: black.
func DefaultStyle() Style {
	return Style{Color: Black}
}

// ANSIColors is the standard 16-color palette (VGA values, ANSI order)
// used to resolve SGR 30-37/90-97 foreground codes.
var ANSIColors = []Color{
	FromRGB8(0, 0, 0),       // ANSI 0: Black
	FromRGB8(170, 0, 0),     // ANSI 1: Red
	FromRGB8(0, 170, 0),     // ANSI 2: Green
	FromRGB8(170, 85, 0),    // ANSI 3: Yellow/Brown
	FromRGB8(0, 0, 170),     // ANSI 4: Blue
	FromRGB8(170, 0, 170),   // ANSI 5: Magenta
	FromRGB8(0, 170, 170),   // ANSI 6: Cyan
	FromRGB8(170, 170, 170), // ANSI 7: White/Silver
	// Bright variants (8-15)
	FromRGB8(85, 85, 85),    // ANSI 8: Bright Black (Dark Gray)
	FromRGB8(255, 85, 85),   // ANSI 9: Bright Red
	FromRGB8(85, 255, 85),   // ANSI 10: Bright Green
	FromRGB8(255, 255, 85),  // ANSI 11: Bright Yellow
	FromRGB8(85, 85, 255),   // ANSI 12: Bright Blue
	FromRGB8(255, 85, 255),  // ANSI 13: Bright Magenta
	FromRGB8(85, 255, 255),  // ANSI 14: Bright Cyan
	FromRGB8(255, 255, 255), // ANSI 15: White
}

// Color256 returns the color for a 256-color palette index: the 16 ANSI
// colors, the 6x6x6 color cube, then the 24-step grayscale ramp.
func Color256(idx int) Color {
	if idx < 0 {
		idx = 0
	} else if idx > 255 {
		idx = 255
	}
	if idx < 16 {
		return ANSIColors[idx]
	} else if idx < 232 {
		idx -= 16
		b := idx % 6
		g := (idx / 6) % 6
		r := idx / 36
		return FromRGB8(uint8(r*51), uint8(g*51), uint8(b*51))
	}
	gray := uint8((idx-232)*10 + 8)
	return FromRGB8(gray, gray, gray)
}
