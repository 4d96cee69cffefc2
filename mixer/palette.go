package mixer

import (
	"math"

	"github.com/wfunc/colorparty/color"
)

// Candidate colors the palette picker draws from, spread around the hue wheel.
var wheel = []color.RGB{
	{R: 255, G: 0, B: 0},     // red
	{R: 255, G: 102, B: 0},   // orange
	{R: 255, G: 170, B: 0},   // amber
	{R: 255, G: 255, B: 0},   // yellow
	{R: 170, G: 255, B: 0},   // chartreuse
	{R: 0, G: 255, B: 0},     // green
	{R: 0, G: 255, B: 128},   // spring green
	{R: 0, G: 255, B: 255},   // cyan
	{R: 0, G: 128, B: 255},   // azure
	{R: 0, G: 0, B: 255},     // blue
	{R: 128, G: 0, B: 255},   // violet
	{R: 255, G: 0, B: 255},   // magenta
	{R: 255, G: 0, B: 128},   // rose
	{R: 128, G: 64, B: 0},    // brown
	{R: 255, G: 128, B: 128}, // salmon
	{R: 64, G: 128, B: 64},   // sage
}

// defaultTriad is the fixed fallback palette when hue buckets around the
// target are too sparse.
var defaultTriad = [3]color.RGB{
	{R: 255, G: 0, B: 0},
	{R: 255, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
}

const hueBuckets = 6

// hueBucket maps a color onto one of six 60° hue sectors. Grey tones
// (negligible saturation) land in bucket 0.
func hueBucket(c color.RGB) int {
	h := hue(c)
	return int(h/60.0) % hueBuckets
}

func hue(c color.RGB) float64 {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min
	if delta == 0 {
		return 0
	}

	var h float64
	switch max {
	case r:
		h = math.Mod((g-b)/delta, 6)
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h
}

func bucketDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > hueBuckets/2 {
		d = hueBuckets - d
	}
	return d
}

// PaletteFor picks two primary colors from the target's hue bucket (widening
// to the adjacent buckets when needed) and one distractor from a bucket at
// least two sectors away. Falls back to the fixed triad when membership is
// too sparse.
func PaletteFor(target color.RGB) [3]color.RGB {
	tb := hueBucket(target)

	var primaries, distractors []color.RGB
	for _, c := range wheel {
		switch bucketDistance(hueBucket(c), tb) {
		case 0:
			primaries = append(primaries, c)
		case 1:
			// reserve: promoted below only if the home bucket is sparse
		default:
			distractors = append(distractors, c)
		}
	}

	if len(primaries) < 2 {
		for _, c := range wheel {
			if bucketDistance(hueBucket(c), tb) == 1 {
				primaries = append(primaries, c)
			}
		}
	}

	if len(primaries) < 2 || len(distractors) < 1 {
		return defaultTriad
	}

	return [3]color.RGB{primaries[0], primaries[1], distractors[0]}
}
