package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit-per-channel sRGB color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Lab is a point in CIE L*a*b* space (D65 white point).
type Lab struct {
	L float64
	A float64
	B float64
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse accepts "#rgb", "#rrggbb" (leading # optional) and "rgb(r, g, b)".
func Parse(s string) (RGB, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return RGB{}, fmt.Errorf("empty color string")
	}

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		return parseRGBFunc(s)
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	case 6:
	default:
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func parseRGBFunc(s string) (RGB, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("invalid rgb() color %q", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("invalid rgb() color %q", s)
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// ToLab converts through linear sRGB and XYZ using the D65 white point.
func (c RGB) ToLab() Lab {
	r := srgbToLinear(float64(c.R) / 255.0)
	g := srgbToLinear(float64(c.G) / 255.0)
	b := srgbToLinear(float64(c.B) / 255.0)

	x := r*0.4124564 + g*0.3575761 + b*0.1804375
	y := r*0.2126729 + g*0.7151522 + b*0.0721750
	z := r*0.0193339 + g*0.1191920 + b*0.9503041

	// D65 reference white
	fx := labF(x / 0.95047)
	fy := labF(y / 1.00000)
	fz := labF(z / 1.08883)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	const epsilon = 216.0 / 24389.0
	const kappa = 24389.0 / 27.0
	if t > epsilon {
		return math.Cbrt(t)
	}
	return (kappa*t + 16) / 116
}

// DeltaE is the CIE76 color difference between two colors.
func DeltaE(a, b RGB) float64 {
	return a.ToLab().DistanceTo(b.ToLab())
}

// DistanceTo is the Euclidean distance between two LAB points.
func (l Lab) DistanceTo(o Lab) float64 {
	dl := l.L - o.L
	da := l.A - o.A
	db := l.B - o.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// maxRGBDistance is the Euclidean distance between black and white in RGB space.
var maxRGBDistance = math.Sqrt(3 * 255 * 255)

// rgbDistance is the fallback metric for unparseable inputs, scaled so that
// black vs white maps to 100 like the LAB path.
func rgbDistance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr+dg*dg+db*db) / maxRGBDistance * 100
}

// Distance computes the perceptual distance between two color strings.
// Malformed input never errors; it degrades to a normalized RGB metric with
// unparseable colors treated as black.
func Distance(a, b string) float64 {
	ca, errA := Parse(a)
	cb, errB := Parse(b)
	if errA != nil || errB != nil {
		return rgbDistance(ca, cb)
	}
	return DeltaE(ca, cb)
}
