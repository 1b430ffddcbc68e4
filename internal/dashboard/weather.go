package dashboard

import (
	"strings"

	"github.com/rileyhilliard/waylon/internal/registry"
)

// Weather glyphs, from clear skies (healthy) to storms (failing).
const (
	WeatherSunny        = "☀"
	WeatherPartlyCloudy = "⛅"
	WeatherCloudy       = "☁"
	WeatherRain         = "☂"
	WeatherStorm        = "⚡"
	WeatherNone         = " "
)

// weatherIcons maps the stability buckets found in CI weather icon names
// (e.g. "health-80plus.png") to glyphs.
var weatherIcons = []struct {
	marker string
	glyph  string
}{
	{"80plus", WeatherSunny},
	{"60to79", WeatherPartlyCloudy},
	{"40to59", WeatherCloudy},
	{"20to39", WeatherRain},
	{"00to19", WeatherStorm},
	{"sunny", WeatherSunny},
	{"partly", WeatherPartlyCloudy},
	{"cloudy", WeatherCloudy},
	{"rain", WeatherRain},
	{"storm", WeatherStorm},
	{"thunder", WeatherStorm},
}

// WeatherGlyph picks a glyph for a job's weather report. Jobs with no
// report, or an icon that matches no bucket, get a blank of the same width.
func WeatherGlyph(w *registry.Weather) string {
	if w == nil {
		return WeatherNone
	}
	icon := strings.ToLower(w.Icon)
	for _, wi := range weatherIcons {
		if strings.Contains(icon, wi.marker) {
			return wi.glyph
		}
	}
	return WeatherNone
}
