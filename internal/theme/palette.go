package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const paletteShadeCount = 10

// PaletteShades stores the ten shades of one colour family, lightest first.
type PaletteShades struct {
	colors [paletteShadeCount]lipgloss.Color
}

// NewPaletteShades builds a shade table from up to ten colours.
func NewPaletteShades(colors ...lipgloss.Color) PaletteShades {
	var shades PaletteShades
	for i := 0; i < paletteShadeCount && i < len(colors); i++ {
		shades.colors[i] = colors[i]
	}
	return shades
}

// Color returns the colour for shade, or "" when the shade is out of range.
func (ps PaletteShades) Color(shade Shade) lipgloss.Color {
	index := shade.index()
	if index < 0 || index >= paletteShadeCount {
		return ""
	}
	return ps.colors[index]
}

// Family names a colour family.
type Family string

const (
	Blue   Family = "blue"
	Purple Family = "purple"
	Yellow Family = "yellow"
	Gray   Family = "gray"
	Sky    Family = "sky"
	Indigo Family = "indigo"
	Red    Family = "red"
)

// Shade is a Tailwind-style shade number (50, 100 ... 900).
type Shade int

func (s Shade) index() int {
	if s == 50 {
		return 0
	}
	if s%100 != 0 {
		return -1
	}
	return int(s) / 100
}

var palette = map[Family]PaletteShades{
	Blue: NewPaletteShades(
		"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa",
		"#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a",
	),
	Purple: NewPaletteShades(
		"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc",
		"#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87",
	),
	Yellow: NewPaletteShades(
		"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15",
		"#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12",
	),
	Gray: NewPaletteShades(
		"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af",
		"#6b7280", "#4b5563", "#374151", "#1f2937", "#111827",
	),
	Sky: NewPaletteShades(
		"#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8",
		"#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e",
	),
	Indigo: NewPaletteShades(
		"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8",
		"#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81",
	),
	Red: NewPaletteShades(
		"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171",
		"#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d",
	),
}

// PaletteColor resolves a family and shade to a colour.
func PaletteColor(family Family, shade Shade) (lipgloss.Color, bool) {
	shades, ok := palette[family]
	if !ok {
		return "", false
	}
	color := shades.Color(shade)
	if color == "" {
		return "", false
	}
	return color, true
}

// ColorToken is a palette reference with an optional opacity percentage.
// Opacity 0 means fully opaque.
type ColorToken struct {
	Family  Family
	Shade   Shade
	Opacity int
}

func token(family Family, shade Shade) ColorToken {
	return ColorToken{Family: family, Shade: shade}
}

func translucent(family Family, shade Shade, opacity int) ColorToken {
	return ColorToken{Family: family, Shade: shade, Opacity: opacity}
}

// String renders the token as "family-shade" or "family-shade/opacity".
func (t ColorToken) String() string {
	if t.Opacity > 0 && t.Opacity < 100 {
		return fmt.Sprintf("%s-%d/%d", t.Family, t.Shade, t.Opacity)
	}
	return fmt.Sprintf("%s-%d", t.Family, t.Shade)
}

// Color resolves the token for terminal rendering. Terminals have no alpha,
// so opacity is dropped.
func (t ColorToken) Color() lipgloss.Color {
	color, _ := PaletteColor(t.Family, t.Shade)
	return color
}

// Hex returns the token's colour as a #rrggbb string.
func (t ColorToken) Hex() string {
	return string(t.Color())
}

// GlowToken describes a soft drop shadow around a card.
type GlowToken struct {
	Blur  int
	R     uint8
	G     uint8
	B     uint8
	Alpha float64
}

func glow(blur int, r, g, b uint8, alpha float64) GlowToken {
	return GlowToken{Blur: blur, R: r, G: g, B: b, Alpha: alpha}
}

// String renders the glow as a CSS drop-shadow value.
func (g GlowToken) String() string {
	return fmt.Sprintf("drop-shadow(0 0 %dpx rgba(%d,%d,%d,%g))", g.Blur, g.R, g.G, g.B, g.Alpha)
}

// Color returns the glow's base colour, used for card borders in the terminal.
func (g GlowToken) Color() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", g.R, g.G, g.B))
}

// Glyph is an icon rendered next to a condition.
type Glyph string
