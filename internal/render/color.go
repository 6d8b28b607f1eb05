package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

type Band struct {
	Name string
	// Min is the exclusive lower temperature bound.
	Min  float64
	tint colorful.Color
}

// Bands lists the spectral bands hottest first.
var Bands = []Band{
	{Name: "blue", Min: 20000, tint: colorful.Color{R: 0.5, G: 0.5, B: 1}},
	{Name: "white", Min: 10000, tint: colorful.Color{R: 1, G: 1, B: 1}},
	{Name: "yellow", Min: 6000, tint: colorful.Color{R: 1, G: 0.9, B: 0.5}},
	{Name: "orange", Min: 4000, tint: colorful.Color{R: 0.9, G: 0.6, B: 0.3}},
	{Name: "red", Min: -1, tint: colorful.Color{R: 1, G: 0.3, B: 0.3}},
}

func band(temp float64) Band {
	for _, b := range Bands[:len(Bands)-1] {
		if temp > b.Min {
			return b
		}
	}
	return Bands[len(Bands)-1]
}

// Classify returns the band name for a temperature.
func Classify(temp float64) string {
	return band(temp).Name
}

// StarColor tints the band color by brightness.
func StarColor(temp, brightness float64) colorful.Color {
	t := band(temp).tint
	return colorful.Color{R: t.R * brightness, G: t.G * brightness, B: t.B * brightness}.Clamped()
}

// DisplayColor is StarColor lifted toward the band tint so dim outer stars
// stay visible on a dark terminal.
func DisplayColor(temp, brightness, floor float64) colorful.Color {
	c := StarColor(temp, brightness)
	return c.BlendRgb(band(temp).tint, floor).Clamped()
}
