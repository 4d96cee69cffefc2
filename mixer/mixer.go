package mixer

import (
	"math"
	"math/rand"
	"time"

	"github.com/wfunc/colorparty/color"
)

// Assignment is one point in the discretized mixing space: a percentage per
// palette channel plus white/black shading. Palette percentages are multiples
// of Step and sum to at most 100.
type Assignment struct {
	Percent [3]int `json:"percent"`
	White   int    `json:"white"`
	Black   int    `json:"black"`
}

// Mix applies additive mixing of the palette channels, then white additively
// and black multiplicatively, clamped to [0,255] per channel.
func Mix(palette [3]color.RGB, a Assignment) color.RGB {
	var r, g, b float64
	for i, c := range palette {
		p := float64(a.Percent[i]) / 100.0
		r += float64(c.R) * p
		g += float64(c.G) * p
		b += float64(c.B) * p
	}

	w := float64(a.White) / 100.0
	r += 255 * w
	g += 255 * w
	b += 255 * w

	k := 1 - float64(a.Black)/100.0
	r *= k
	g *= k
	b *= k

	return color.RGB{R: clampChannel(r), G: clampChannel(g), B: clampChannel(b)}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Solver searches the discretized mixing space for the best achievable match.
// The search is exhaustive and meant for challenge generation, never for a
// request-latency path.
type Solver struct {
	Step      int
	Threshold float64
}

func NewSolver(threshold float64) *Solver {
	return &Solver{Step: 5, Threshold: threshold}
}

// Solve returns the assignment with the highest match percentage against the
// target, and that percentage.
func (s *Solver) Solve(target color.RGB, palette [3]color.RGB) (Assignment, float64) {
	best := Assignment{}
	bestMatch := -1.0
	targetLab := target.ToLab()

	for p0 := 0; p0 <= 100; p0 += s.Step {
		for p1 := 0; p1 <= 100-p0; p1 += s.Step {
			for p2 := 0; p2 <= 100-p0-p1; p2 += s.Step {
				for w := 0; w <= 100; w += s.Step {
					for b := 0; b <= 100; b += s.Step {
						a := Assignment{Percent: [3]int{p0, p1, p2}, White: w, Black: b}
						mixed := Mix(palette, a)
						m := color.MatchPercentage(targetLab.DistanceTo(mixed.ToLab()))
						if m > bestMatch {
							bestMatch = m
							best = a
							if bestMatch >= 100 {
								return best, bestMatch
							}
						}
					}
				}
			}
		}
	}
	return best, bestMatch
}

// Solvable reports whether the target can be matched at or above the
// solvability threshold with the palette that would be presented for it.
func (s *Solver) Solvable(target color.RGB) bool {
	_, match := s.Solve(target, PaletteFor(target))
	return match >= s.Threshold
}

const generateAttempts = 20

// GenerateTarget produces a round target color. For mixing rounds the target
// is pre-validated as solvable; if no random candidate passes within the
// attempt budget the best one seen is used.
func (s *Solver) GenerateTarget(rng *rand.Rand, mixing bool) color.RGB {
	c := randomColor(rng)
	if !mixing {
		return c
	}

	best := c
	bestMatch := -1.0
	for i := 0; i < generateAttempts; i++ {
		_, match := s.Solve(c, PaletteFor(c))
		if match >= s.Threshold {
			return c
		}
		if match > bestMatch {
			bestMatch = match
			best = c
		}
		c = randomColor(rng)
	}
	return best
}

// DailyTarget derives the deterministic daily-challenge color for a given day.
func DailyTarget(day time.Time) color.RGB {
	seed := int64(day.Year()*10000 + int(day.Month())*100 + day.Day())
	rng := rand.New(rand.NewSource(seed))
	return randomColor(rng)
}

func randomColor(rng *rand.Rand) color.RGB {
	return color.RGB{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
	}
}
