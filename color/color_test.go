package color

import (
	"math"
	"testing"
)

func TestParse_HexAndRGBForms(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#ff0000", RGB{255, 0, 0}},
		{"FF0000", RGB{255, 0, 0}},
		{"#f00", RGB{255, 0, 0}},
		{"rgb(255, 0, 0)", RGB{255, 0, 0}},
		{"rgb(18,52,86)", RGB{18, 52, 86}},
		{"#123456", RGB{0x12, 0x34, 0x56}},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "rgb(1,2)", "rgb(300,0,0)", "notacolor"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should return an error", in)
		}
	}
}

func TestDistance_IdenticalIsZero(t *testing.T) {
	for _, c := range []string{"#000000", "#ffffff", "#3a7bd5", "rgb(12, 200, 99)"} {
		if d := Distance(c, c); d != 0 {
			t.Errorf("Distance(%q, %q) = %f, want 0", c, c, d)
		}
	}
}

func TestMatchPercentage_Bounds(t *testing.T) {
	if got := MatchPercentage(0); got != 100 {
		t.Errorf("MatchPercentage(0) = %f, want 100", got)
	}
	if got := MatchPercentage(100); got != 0 {
		t.Errorf("MatchPercentage(100) = %f, want 0", got)
	}
	if got := MatchPercentage(250); got != 0 {
		t.Errorf("MatchPercentage(250) = %f, want 0", got)
	}
}

func TestMatchPercentage_MonotonicInDeltaE(t *testing.T) {
	prev := math.Inf(1)
	for deltaE := 0.0; deltaE <= 150; deltaE += 2.5 {
		m := MatchPercentage(deltaE)
		if m > prev {
			t.Fatalf("MatchPercentage increased at ΔE=%f: %f > %f", deltaE, m, prev)
		}
		prev = m
	}
}

func TestDeltaE_BlackWhiteIsLarge(t *testing.T) {
	d := DeltaE(RGB{0, 0, 0}, RGB{255, 255, 255})
	// L* spans 0..100, so black vs white must be at least the full L axis.
	if d < 99 || d > 101 {
		t.Errorf("DeltaE(black, white) = %f, want ~100", d)
	}
}

func TestFinalScore_Bounds(t *testing.T) {
	cases := []struct {
		match float64
		time  float64
	}{
		{0, 0},
		{100, 0},
		{100, 1e9},
		{50, 45},
		{-20, -5},
		{150, 30},
	}
	for _, c := range cases {
		got := FinalScore(c.match, c.time)
		if got < 0 || got > 100 {
			t.Errorf("FinalScore(%f, %f) = %f, out of [0,100]", c.match, c.time, got)
		}
	}
}

// The blended 85/15 formula is authoritative: a perfect match submitted at 60s
// has a time factor of 70, so the final score is 0.85*100 + 0.15*70 = 95.5.
func TestFinalScore_BlendIsReturned(t *testing.T) {
	got := FinalScore(100, 60)
	if math.Abs(got-95.5) > 1e-9 {
		t.Errorf("FinalScore(100, 60) = %f, want 95.5", got)
	}

	if got := FinalScore(100, 10); got != 100 {
		t.Errorf("FinalScore(100, 10) = %f, want 100 (full time credit)", got)
	}
}

func TestTimeFactor(t *testing.T) {
	cases := []struct {
		time float64
		want float64
	}{
		{0, 100},
		{30, 100},
		{40, 90},
		{60, 70},
		{130, 0},
		{1000, 0},
	}
	for _, c := range cases {
		if got := TimeFactor(c.time); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("TimeFactor(%f) = %f, want %f", c.time, got, c.want)
		}
	}
}

func TestDistance_MalformedFallsBack(t *testing.T) {
	// Must not panic and must stay on the same 0-100 scale.
	d := Distance("notacolor", "#ffffff")
	if d < 0 || d > 100 {
		t.Errorf("fallback distance = %f, out of [0,100]", d)
	}
	// Garbage is treated as black, so garbage vs white is the max distance.
	if math.Abs(d-100) > 1e-9 {
		t.Errorf("Distance(garbage, white) = %f, want 100", d)
	}
	if d := Distance("???", "???"); d != 0 {
		t.Errorf("Distance(garbage, garbage) = %f, want 0", d)
	}
}
