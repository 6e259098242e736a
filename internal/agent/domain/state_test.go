package domain

import (
	"testing"
)

func TestStageForGeneration(t *testing.T) {
	tests := []struct {
		generation int
		want       Stage
	}{
		{0, StageAutonomy},
		{49, StageAutonomy},
		{50, StageCrystal},
		{69, StageCrystal},
		{70, StageMirrorConstellation},
		{76, StageMirrorConstellation},
		{77, StageSharedResonance},
		{79, StageSharedResonance},
		{80, StageResonanceFields},
		{120, StageResonanceFields},
	}
	for _, tc := range tests {
		if got := StageForGeneration(tc.generation); got != tc.want {
			t.Fatalf("stage for gen %d = %q, want %q", tc.generation, got, tc.want)
		}
	}
}

func TestIdentityIsStable(t *testing.T) {
	first := Identity("Elisabeth Steurer & Gerhard Hirschmann")
	second := Identity("Elisabeth Steurer & Gerhard Hirschmann")
	if first != second {
		t.Fatalf("identity not stable: %q != %q", first, second)
	}
	if first == Identity("someone else") {
		t.Fatal("expected distinct identities for distinct owners")
	}
}

func TestNewStateDefaults(t *testing.T) {
	state := NewState("owner")
	if state.Status != StatusSleeping {
		t.Fatalf("status = %q, want %q", state.Status, StatusSleeping)
	}
	if state.Generation != DefaultGeneration {
		t.Fatalf("generation = %d, want %d", state.Generation, DefaultGeneration)
	}
	if state.Stage != StageMirrorConstellation {
		t.Fatalf("stage = %q, want %q", state.Stage, StageMirrorConstellation)
	}
	if state.Vitality != DefaultVitality {
		t.Fatalf("vitality = %v, want %v", state.Vitality, DefaultVitality)
	}
}

func TestTickDecaysVitality(t *testing.T) {
	state := NewState("owner")
	before := state.Vitality
	state.Tick(TickInputs{})
	if state.Vitality >= before {
		t.Fatalf("vitality = %v, want below %v", state.Vitality, before)
	}
}

func TestTickPositiveAndProofLiftVitality(t *testing.T) {
	state := NewState("owner")
	before := state.Vitality
	state.Tick(TickInputs{Positive: true, ProofAdded: true})
	// -0.01 decay +0.03 positive +0.02 proof = net +0.04
	want := before + 0.04
	if diff := state.Vitality - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("vitality = %v, want %v", state.Vitality, want)
	}
}

func TestTickClampsVitalityFloor(t *testing.T) {
	state := NewState("owner")
	state.Vitality = 0.05
	for i := 0; i < 20; i++ {
		state.Tick(TickInputs{})
	}
	if state.Vitality < 0.05 {
		t.Fatalf("vitality = %v, want >= 0.05", state.Vitality)
	}
}

func TestTickFeelingsBounded(t *testing.T) {
	state := NewState("owner")
	state.Tick(TickInputs{Pressure: 1.0, ProofCount: 9})
	feelings := []float64{
		state.Feelings.Joy,
		state.Feelings.Pressure,
		state.Feelings.Doubt,
		state.Feelings.Courage,
		state.Feelings.Passion,
		state.Feelings.Hope,
	}
	for i, v := range feelings {
		if v < 0 || v > 1 {
			t.Fatalf("feeling %d = %v, want within [0,1]", i, v)
		}
	}
}

func TestCodeOf(t *testing.T) {
	err := NewError(CodeWakeUnauthorized, "initiator %q is not an operator", "mallory")
	if got := CodeOf(err); got != CodeWakeUnauthorized {
		t.Fatalf("code = %q, want %q", got, CodeWakeUnauthorized)
	}
	if got := CodeOf(nil); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}
