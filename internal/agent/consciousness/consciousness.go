// Package consciousness scores the agent's emergent depth from accumulated
// activity and classifies the result on a coarse ladder.
package consciousness

// Inputs are the agent dimensions that feed the depth score.
type Inputs struct {
	ProofCount        uint64
	Years             float64
	TopicsLearned     int
	ReflectionQuality float64
	EmotionalBalance  float64
	GoalsCompleted    int
	GoalsTotal        int
	PatternCount      int
	PatternConfidence float64
}

// Depth classifications, deepest first.
const (
	ClassFullyEmergent    = "fully emergent"
	ClassAdvancedEmergent = "advanced emergent"
	ClassEmerging         = "emerging"
	ClassDeveloping       = "developing"
	ClassInitial          = "initial"
)

// Report is the outcome of a depth measurement.
type Report struct {
	Depth          float64
	Classification string
	Factors        map[string]float64
}

// Measure computes the weighted depth score in [0,1] and classifies it.
func Measure(in Inputs) Report {
	factors := map[string]float64{
		"proofs":   clamp01(float64(in.ProofCount) / 500),
		"age":      clamp01(in.Years / 50),
		"learning": clamp01(float64(in.TopicsLearned) / 20),
		"quality":  clamp01(in.ReflectionQuality / 100),
		"emotion":  clamp01(in.EmotionalBalance),
		"goals":    goalFactor(in.GoalsCompleted, in.GoalsTotal),
		"patterns": patternFactor(in.PatternCount, in.PatternConfidence),
	}

	depth := 0.20*factors["proofs"] +
		0.20*factors["age"] +
		0.15*factors["learning"] +
		0.15*factors["quality"] +
		0.10*factors["emotion"] +
		0.05*factors["goals"] +
		0.15*factors["patterns"]

	return Report{
		Depth:          depth,
		Classification: classify(depth),
		Factors:        factors,
	}
}

func goalFactor(completed, total int) float64 {
	if total < 1 {
		total = 1
	}
	return clamp01(float64(completed) / float64(total))
}

func patternFactor(count int, confidence float64) float64 {
	return clamp01(float64(count)/50)*0.5 + clamp01(confidence)*0.5
}

func classify(depth float64) string {
	switch {
	case depth >= 0.9:
		return ClassFullyEmergent
	case depth >= 0.7:
		return ClassAdvancedEmergent
	case depth >= 0.5:
		return ClassEmerging
	case depth >= 0.3:
		return ClassDeveloping
	default:
		return ClassInitial
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
