// Package scene computes visual attributes from view state: fills, strokes,
// edge colors and widths, zoom-to-fit transforms, and chart geometry. Pure
// functions only; handlers mutate state elsewhere and re-render through
// these.
package scene

import (
	"fmt"
	"math"
	"strconv"
)

// hotspotRamp is the 7-bucket sequential yellow-to-red choropleth ramp.
var hotspotRamp = [7]string{
	"#ffffb2", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#b10026",
}

// IntensityBucket quantizes an intensity into one of 7 buckets over
// [0, max]. Values at or above max land in the top bucket.
func IntensityBucket(v, max float64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	b := int(v / max * float64(len(hotspotRamp)))
	if b >= len(hotspotRamp) {
		b = len(hotspotRamp) - 1
	}
	return b
}

// IntensityFill returns the quantized fill color for an intensity.
func IntensityFill(v, max float64) string {
	return hotspotRamp[IntensityBucket(v, max)]
}

// Diverging 5-stop edge ramp, blue through purple to red, anchored at
// 0%, 5%, 50%, 95%, and 100% of the per-render maximum.
var (
	edgeStops  = [5]float64{0, 0.05, 0.50, 0.95, 1}
	edgeColors = [5]string{"#3b4cc0", "#7a5fd0", "#8856a7", "#c0396f", "#d7191c"}
)

// EdgeColor interpolates the diverging ramp at v relative to max. The
// domain is recomputed per render from the current partner set, not a
// global constant.
func EdgeColor(v, max float64) string {
	if max <= 0 {
		return edgeColors[0]
	}
	t := v / max
	if t <= 0 {
		return edgeColors[0]
	}
	if t >= 1 {
		return edgeColors[len(edgeColors)-1]
	}
	for i := 1; i < len(edgeStops); i++ {
		if t <= edgeStops[i] {
			span := edgeStops[i] - edgeStops[i-1]
			frac := (t - edgeStops[i-1]) / span
			return lerpHex(edgeColors[i-1], edgeColors[i], frac)
		}
	}
	return edgeColors[len(edgeColors)-1]
}

// Edge width bounds in pixels. Square-root scaling keeps visual area, not
// linewidth, proportional to flow volume.
const (
	edgeWidthMin = 1.0
	edgeWidthMax = 5.5
)

// EdgeWidth maps a trip total to a stroke width on a square-root scale
// over [0, max] -> [1, 5.5].
func EdgeWidth(v, max float64) float64 {
	if max <= 0 || v <= 0 {
		return edgeWidthMin
	}
	t := math.Sqrt(v) / math.Sqrt(max)
	if t > 1 {
		t = 1
	}
	return edgeWidthMin + t*(edgeWidthMax-edgeWidthMin)
}

// NiceCeil rounds max up to a "nice" chart domain bound (1, 2, or 5 times
// a power of ten). Non-positive input yields 1 so the y axis always has
// extent.
func NiceCeil(max float64) float64 {
	if max <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(max))
	pow := math.Pow(10, exp)
	f := max / pow
	switch {
	case f <= 1:
		return pow
	case f <= 2:
		return 2 * pow
	case f <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}

// HourAt inverts a linear x scale over [0, width] -> [0, 23], rounding to
// the nearest integer hour. Backing for the hover-nearest-hour tooltip.
func HourAt(x, width float64) int {
	if width <= 0 {
		return 0
	}
	h := int(math.Round(x / width * 23))
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

// lerpHex linearly interpolates two #rrggbb colors.
func lerpHex(a, b string, t float64) string {
	ar, ag, ab := parseHex(a)
	br, bg, bb := parseHex(b)
	lerp := func(x, y int) int {
		return int(math.Round(float64(x) + t*float64(y-x)))
	}
	return fmt.Sprintf("#%02x%02x%02x", lerp(ar, br), lerp(ag, bg), lerp(ab, bb))
}

func parseHex(s string) (r, g, b int) {
	if len(s) != 7 {
		return 0, 0, 0
	}
	pr, _ := strconv.ParseInt(s[1:3], 16, 32)
	pg, _ := strconv.ParseInt(s[3:5], 16, 32)
	pb, _ := strconv.ParseInt(s[5:7], 16, 32)
	return int(pr), int(pg), int(pb)
}
