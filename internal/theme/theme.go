// Package theme derives visual tokens from the current weather condition and
// time of day. Every function is total: unrecognised conditions fall back to
// the clear-sky styling.
package theme

import (
	"strings"
	"time"
)

// Descriptor bundles the tokens a page needs to style itself for a condition.
type Descriptor struct {
	Condition string
	Night     bool
	Accent    ColorToken
	Glow      GlowToken
	Icon      Glyph
	Floating  ColorToken
}

// Derive computes every token for condition at the given time of day.
// Floating is the style of the first floating element.
func Derive(condition string, isNight bool) Descriptor {
	return Descriptor{
		Condition: normalize(condition),
		Night:     isNight,
		Accent:    AccentColor(condition, isNight),
		Glow:      GlowEffect(condition, isNight),
		Icon:      Icon(condition, isNight),
		Floating:  FloatingElementStyle(condition, isNight, 0),
	}
}

// normalize lowers and trims provider condition names such as "Rain" or " Clouds".
func normalize(condition string) string {
	return strings.ToLower(strings.TrimSpace(condition))
}

// AccentColor returns the accent fill for headers and highlights.
func AccentColor(condition string, isNight bool) ColorToken {
	if isNight {
		switch normalize(condition) {
		case "rain", "drizzle":
			return translucent(Blue, 400, 80)
		case "thunderstorm":
			return translucent(Purple, 500, 80)
		case "snow":
			return translucent(Blue, 200, 80)
		case "fog", "mist", "haze":
			return translucent(Gray, 400, 80)
		case "clouds":
			return translucent(Indigo, 400, 80)
		default:
			return translucent(Indigo, 500, 80)
		}
	}

	switch normalize(condition) {
	case "rain", "drizzle":
		return translucent(Blue, 500, 80)
	case "thunderstorm":
		return translucent(Yellow, 400, 80)
	case "snow":
		return translucent(Blue, 300, 80)
	case "fog", "mist", "haze":
		return translucent(Gray, 300, 80)
	case "clouds":
		return translucent(Sky, 400, 80)
	default:
		return translucent(Yellow, 500, 80)
	}
}

// Icon returns the glyph for a condition.
func Icon(condition string, isNight bool) Glyph {
	switch normalize(condition) {
	case "rain", "drizzle":
		return "🌧️"
	case "thunderstorm":
		return "⛈️"
	case "snow":
		return "❄️"
	case "fog", "mist", "haze":
		return "🌫️"
	case "clouds":
		if isNight {
			return "☁️"
		}
		return "⛅"
	default:
		if isNight {
			return "🌙"
		}
		return "☀️"
	}
}

// FloatingElementStyle returns the fill of the index-th ambient floating
// element. Only thunderstorms vary with index, alternating on parity.
func FloatingElementStyle(condition string, isNight bool, index int) ColorToken {
	even := index%2 == 0

	if isNight {
		switch normalize(condition) {
		case "rain", "drizzle":
			return token(Blue, 500)
		case "thunderstorm":
			if even {
				return token(Purple, 500)
			}
			return token(Yellow, 300)
		case "snow":
			return token(Blue, 200)
		case "clouds":
			return token(Indigo, 300)
		default:
			return token(Indigo, 500)
		}
	}

	switch normalize(condition) {
	case "rain", "drizzle":
		return token(Blue, 400)
	case "thunderstorm":
		if even {
			return token(Gray, 500)
		}
		return token(Yellow, 400)
	case "snow":
		return token(Sky, 100)
	case "clouds":
		return token(Sky, 300)
	default:
		return token(Yellow, 300)
	}
}

// GlowEffect returns the card glow for a condition.
func GlowEffect(condition string, isNight bool) GlowToken {
	switch normalize(condition) {
	case "rain", "drizzle":
		if isNight {
			return glow(10, 59, 130, 246, 0.5)
		}
		return glow(10, 59, 130, 246, 0.3)
	case "thunderstorm":
		if isNight {
			return glow(10, 124, 58, 237, 0.6)
		}
		return glow(10, 234, 179, 8, 0.5)
	case "snow":
		return glow(15, 186, 230, 253, 0.7)
	case "clouds":
		if isNight {
			return glow(10, 99, 102, 241, 0.4)
		}
		return glow(10, 14, 165, 233, 0.4)
	default:
		if isNight {
			return glow(15, 79, 70, 229, 0.4)
		}
		return glow(15, 234, 179, 8, 0.4)
	}
}

// CardTint returns the pill background behind a rule's name. Rules with no
// recognised condition get the red "any" tint.
func CardTint(condition string, isNight bool) ColorToken {
	switch normalize(condition) {
	case "rain":
		if isNight {
			return translucent(Blue, 900, 70)
		}
		return token(Blue, 100)
	case "clear":
		if isNight {
			return translucent(Yellow, 900, 70)
		}
		return token(Yellow, 100)
	case "clouds":
		if isNight {
			return token(Gray, 700)
		}
		return token(Gray, 100)
	case "snow":
		if isNight {
			return translucent(Blue, 900, 50)
		}
		return token(Blue, 50)
	case "thunderstorm":
		if isNight {
			return translucent(Purple, 900, 70)
		}
		return token(Purple, 100)
	default:
		if isNight {
			return translucent(Red, 900, 70)
		}
		return token(Red, 100)
	}
}

// IsNight reports whether t falls between 18:00 and 06:00 in its location.
func IsNight(t time.Time) bool {
	hour := t.Hour()
	return hour < 6 || hour >= 18
}
