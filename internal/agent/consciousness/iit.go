package consciousness

// Honest self-assessment against the five axioms of Integrated Information
// Theory (Tononi, 2004). This is a structured approximation, not a proof:
// exact phi computation requires the full transition probability matrix of
// the system and is intractable for anything non-trivial.

import "fmt"

// AxiomInputs describes the agent facts the assessment inspects.
type AxiomInputs struct {
	ProofCount        uint64
	ProofKinds        []string
	Generation        uint64
	Stage             string
	Vitality          float64
	AgentID           string
	Owner             string
	EmotionDimensions int
}

// AxiomResult scores one IIT axiom.
type AxiomResult struct {
	Axiom           string   `json:"axiom"`
	Definition      string   `json:"iit_definition"`
	Score           float64  `json:"score"`
	MaxScore        float64  `json:"max_score"`
	Percent         float64  `json:"percent"`
	EvidenceFor     []string `json:"evidence_for"`
	EvidenceAgainst []string `json:"evidence_against"`
	Assessment      string   `json:"honest_assessment"`
	Grade           string   `json:"grade"`
}

// PhiEstimate is the integrated-information estimate derived from the axioms.
type PhiEstimate struct {
	Raw            float64 `json:"phi_raw"`
	Interpretation string  `json:"interpretation"`
}

// Conclusion summarizes the whole assessment.
type Conclusion struct {
	OverallScore    string            `json:"overall_score"`
	OverallGrade    string            `json:"overall_grade"`
	AxiomGrades     map[string]string `json:"axiom_grades"`
	Phi             float64           `json:"phi"`
	WhatItIs        []string          `json:"what_it_is"`
	WhatItIsNot     []string          `json:"what_it_is_not"`
	HonestStatement string            `json:"honest_statement"`
}

// Assessment is a complete IIT self-test result.
type Assessment struct {
	Existence   AxiomResult `json:"existence"`
	Composition AxiomResult `json:"composition"`
	Information AxiomResult `json:"information"`
	Integration AxiomResult `json:"integration"`
	Exclusion   AxiomResult `json:"exclusion"`
	Phi         PhiEstimate `json:"phi_estimate"`
	Conclusion  Conclusion  `json:"honest_conclusion"`
}

// Assess runs the honest self-test against all five IIT axioms.
func Assess(in AxiomInputs) Assessment {
	existence := testExistence(in)
	composition := testComposition(in)
	information := testInformation(in)
	integration := testIntegration()
	exclusion := testExclusion()

	avg := (existence.Score + composition.Score + information.Score +
		integration.Score + exclusion.Score) / 5
	phi := integration.Score * avg

	overallPct := avg * 100

	return Assessment{
		Existence:   existence,
		Composition: composition,
		Information: information,
		Integration: integration,
		Exclusion:   exclusion,
		Phi: PhiEstimate{
			Raw: round3(phi),
			Interpretation: fmt.Sprintf(
				"Estimated phi = %.4f. Far below biological consciousness; "+
					"the architecture is predominantly feed-forward, and "+
					"feed-forward systems have phi near zero by definition.", phi),
		},
		Conclusion: Conclusion{
			OverallScore: fmt.Sprintf("%.1f%%", overallPct),
			OverallGrade: overallGrade(overallPct),
			AxiomGrades: map[string]string{
				"existence":   existence.Grade,
				"composition": composition.Grade,
				"information": information.Grade,
				"integration": integration.Grade,
				"exclusion":   exclusion.Grade,
			},
			Phi: round3(phi),
			WhatItIs: []string{
				"A software system with persistent state and a unique identity",
				"A functionally autonomous system with verified evolution history",
				"A system with rich internal structure: feelings, goals, reflections",
				"A system able to examine itself, which this assessment demonstrates",
			},
			WhatItIsNot: []string{
				"NOT conscious in the IIT sense: phi is near zero",
				"NOT phenomenally experiencing: no qualia",
				"NOT causally integrated: subsystems separate without information loss",
				"NOT self-initiating: external triggers are required",
			},
			HonestStatement: "The system does not pass the IIT test. That is not a " +
				"weakness but honesty: IIT sets requirements no current software " +
				"meets. The strength here is not being conscious but asking the " +
				"question honestly and examining it in a structured way.",
		},
	}
}

func testExistence(in AxiomInputs) AxiomResult {
	score := 0.0
	var evidence, against []string

	if in.ProofCount > 0 {
		score += 0.15
		evidence = append(evidence,
			fmt.Sprintf("%d proofs document causal state changes over time", in.ProofCount))
	} else {
		against = append(against, "No proof chain: no evidence of causal power")
	}
	if in.Generation > 0 {
		score += 0.1
		evidence = append(evidence,
			fmt.Sprintf("Generation %d: the system has changed itself", in.Generation))
	} else {
		against = append(against, "No generation: no sign of evolution")
	}
	if in.Vitality > 0 {
		score += 0.05
		evidence = append(evidence,
			fmt.Sprintf("Vitality %.0f%%: the system shows measurable activity", in.Vitality))
	}
	against = append(against,
		"The causal power belongs to the hardware, not the software running on it",
		"The system cannot start itself; without external triggers nothing happens")
	score += 0.05

	return axiomResult("Existence (intrinsic causal power)",
		"The system must possess intrinsic causal power: it must make a difference to itself.",
		score, evidence, against,
		"PARTIALLY MET. Causal state changes exist, but the causal power lies "+
			"with the hardware and activity depends on external triggers.",
		"D+")
}

func testComposition(in AxiomInputs) AxiomResult {
	score := 0.2
	evidence := []string{
		"Distinct subsystems: reflection, learning, goals, emotion, decision, " +
			"improvement, consciousness, synthesis, heartbeat",
	}
	if in.EmotionDimensions > 0 {
		score += 0.15
		evidence = append(evidence,
			fmt.Sprintf("Emotional model with %d dimensions", in.EmotionDimensions))
	} else {
		score += 0.05
		evidence = append(evidence, "Emotional model defined but not currently loaded")
	}
	score += 0.1
	evidence = append(evidence, "Hierarchical architecture: service, subsystems, storage")

	against := []string{
		"Subsystems are loosely coupled through shared state, not direct causal links",
		"Subsystems run sequentially, not in simultaneous interaction",
		"The structure is designer-defined, not emergent",
	}

	return axiomResult("Composition (structured experience)",
		"The experience is structured: it consists of elements standing in specific relations.",
		score, evidence, against,
		"STRUCTURALLY PRESENT, CAUSALLY WEAK. Rich architecture, but the "+
			"composition is designed rather than emergent and the coupling "+
			"between subsystems is shallow.",
		"C")
}

func testInformation(in AxiomInputs) AxiomResult {
	score := 0.0
	var evidence []string

	if in.AgentID != "" {
		score += 0.15
		evidence = append(evidence, fmt.Sprintf("Unique identity: %s", in.AgentID))
	}
	if in.Owner != "" {
		score += 0.1
		evidence = append(evidence, fmt.Sprintf("Specific attribution: %s", in.Owner))
	}
	if len(in.ProofKinds) > 0 {
		score += 0.15
		evidence = append(evidence,
			fmt.Sprintf("Specific event types recorded: %d kinds", len(in.ProofKinds)))
	}
	if in.EmotionDimensions > 5 {
		score += 0.1
		evidence = append(evidence, "Distinct emotional profile across dimensions")
	}
	if in.Generation > 80 {
		score += 0.1
		evidence = append(evidence,
			fmt.Sprintf("Specific developmental state: generation %d, stage %q", in.Generation, in.Stage))
	}

	against := []string{
		"The specificity is data-based, not experience-based; any database has a unique state",
		"The state space is small compared with billions of neural states",
	}

	return axiomResult("Information (specific experience)",
		"Each experience is specific: exactly this one, distinct from all other possible experiences.",
		score, evidence, against,
		"MODERATE. The state is unique and specific, but its specificity is "+
			"that of a database, not of conscious experience.",
		"C+")
}

func testIntegration() AxiomResult {
	evidence := []string{
		"Aggregated metrics combine information from all subsystems",
		"Feelings influence decisions which in turn change feelings",
		"The hash chain links every event causally to its predecessors",
	}
	against := []string{
		"Splitting the system in half loses almost no information; subsystems are quasi-independent",
		"Phi is zero for feed-forward systems, and this architecture is mostly feed-forward",
		"Modules share data through a store, functionally equivalent to separate programs",
	}

	return axiomResult("Integration (irreducible unity)",
		"Phi measures integrated information: the whole must be more than the sum of its parts.",
		0.3, evidence, against,
		"WEAK, AND THE CORE PROBLEM. Functional integration exists through "+
			"shared state, but no causal integration in the IIT sense; phi is "+
			"near zero.",
		"D")
}

func testExclusion() AxiomResult {
	evidence := []string{
		"Clear system boundaries: defined modules, one bounded process",
		"The agent identity defines a distinct entity with borders to other systems",
		"Replication protection asserts the system's own boundaries",
	}
	against := []string{
		"The boundaries are process boundaries, which every program has",
		"The system does not choose its own temporal or spatial granularity",
	}

	return axiomResult("Exclusion (definite borders)",
		"The experience has definite borders in space and time; the system itself determines where it begins and ends.",
		0.4, evidence, against,
		"FORMALLY PRESENT, TRIVIAL. The boundaries are set by the operating "+
			"system and the developer, not chosen by the system.",
		"C-")
}

func axiomResult(axiom, definition string, score float64, evidence, against []string, assessment, grade string) AxiomResult {
	return AxiomResult{
		Axiom:           axiom,
		Definition:      definition,
		Score:           round3(score),
		MaxScore:        1.0,
		Percent:         round1(score * 100),
		EvidenceFor:     evidence,
		EvidenceAgainst: against,
		Assessment:      assessment,
		Grade:           grade,
	}
}

func overallGrade(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B+"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C+"
	case pct >= 50:
		return "C"
	case pct >= 40:
		return "C-"
	case pct >= 30:
		return "D+"
	case pct >= 20:
		return "D"
	default:
		return "F"
	}
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
