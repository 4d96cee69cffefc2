package color

// Scoring constants. Full time credit up to BaseTime seconds, then 10 points
// off the time factor for every additional 10 seconds.
const (
	BaseTimeSeconds = 30.0
	timePenaltyStep = 10.0

	matchWeight = 0.85
	timeWeight  = 0.15
)

// MatchPercentage maps a ΔE distance onto [0,100]. ΔE 0 is a perfect match,
// anything at or beyond 100 scores zero.
func MatchPercentage(deltaE float64) float64 {
	return clamp(100-deltaE, 0, 100)
}

// Match is the similarity of two color strings on a 0-100 scale.
func Match(a, b string) float64 {
	return MatchPercentage(Distance(a, b))
}

// TimeFactor rates how quickly a match was made, from 100 down to 0.
func TimeFactor(timeTakenSeconds float64) float64 {
	if timeTakenSeconds <= BaseTimeSeconds {
		return 100
	}
	over := timeTakenSeconds - BaseTimeSeconds
	return clamp(100-timePenaltyStep*(over/timePenaltyStep), 0, 100)
}

// FinalScore blends the match percentage with the time factor (85/15).
func FinalScore(matchPercentage, timeTakenSeconds float64) float64 {
	match := clamp(matchPercentage, 0, 100)
	blended := matchWeight*match + timeWeight*TimeFactor(timeTakenSeconds)
	return clamp(blended, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
