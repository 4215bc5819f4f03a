package theme

import (
	"strings"
)

// BackgroundRenderer draws the decorative strip behind the alerts page.
// Implementations return exactly height rows of width cells.
type BackgroundRenderer interface {
	RenderBackground(condition string, isNight bool, width, height int) []string
}

// Rand is the randomness a ParticleRenderer draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// ParticleRenderer scatters condition-specific particles across the strip.
type ParticleRenderer struct {
	rng Rand
}

// NewParticleRenderer returns a renderer drawing from rng.
func NewParticleRenderer(rng Rand) *ParticleRenderer {
	return &ParticleRenderer{rng: rng}
}

// particleSet describes what a condition scatters and how densely
// (one particle per density cells on average).
type particleSet struct {
	glyphs  []rune
	density int
}

func particlesFor(condition string, isNight bool) particleSet {
	switch normalize(condition) {
	case "rain", "drizzle":
		return particleSet{glyphs: []rune{'│', '╵', '\''}, density: 6}
	case "thunderstorm":
		return particleSet{glyphs: []rune{'│', '╵', 'ϟ'}, density: 5}
	case "snow":
		return particleSet{glyphs: []rune{'*', '·', '❄'}, density: 7}
	case "fog", "mist", "haze":
		return particleSet{glyphs: []rune{'░', '~'}, density: 3}
	case "clouds":
		return particleSet{glyphs: []rune{'☁', '~'}, density: 14}
	default:
		if isNight {
			return particleSet{glyphs: []rune{'·', '✦', '*'}, density: 12}
		}
		return particleSet{glyphs: []rune{'·', '°'}, density: 24}
	}
}

// RenderBackground implements BackgroundRenderer.
func (r *ParticleRenderer) RenderBackground(condition string, isNight bool, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	set := particlesFor(condition, isNight)
	rows := make([]string, height)
	for y := range rows {
		var b strings.Builder
		for x := 0; x < width; x++ {
			if r.rng.IntN(set.density) != 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(set.glyphs[r.rng.IntN(len(set.glyphs))])
		}
		rows[y] = b.String()
	}
	return rows
}

// StaticRenderer renders a blank strip. Used where output must be deterministic.
type StaticRenderer struct{}

// RenderBackground implements BackgroundRenderer.
func (StaticRenderer) RenderBackground(_ string, _ bool, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	rows := make([]string, height)
	for y := range rows {
		rows[y] = strings.Repeat(" ", width)
	}
	return rows
}
