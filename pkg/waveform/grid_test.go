package waveform

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestGenerateGridEightBeats(t *testing.T) {
	lines := GenerateGrid(8, 800)
	wantX := []float64{100, 200, 300, 400, 500, 600, 700}
	wantType := []LineType{LineBeat, LineBeat, LineBeat, LineQuarter, LineBeat, LineBeat, LineBeat}

	if len(lines) != len(wantX) {
		t.Fatalf("len = %d, want %d", len(lines), len(wantX))
	}
	for i, l := range lines {
		if !scalar.EqualWithinAbs(l.X, wantX[i], tol) {
			t.Errorf("line %d X = %v, want %v", i, l.X, wantX[i])
		}
		if l.Type != wantType[i] {
			t.Errorf("line %d type = %v, want %v", i, l.Type, wantType[i])
		}
	}
}

func TestGenerateGridQuarterMarkers(t *testing.T) {
	lines := GenerateGrid(16, 1600)
	for i, l := range lines {
		beat := i + 1
		if (beat%4 == 0) != (l.Type == LineQuarter) {
			t.Errorf("beat %d type = %v", beat, l.Type)
		}
	}
}

func TestGenerateGridDegenerate(t *testing.T) {
	for _, beats := range []int{-2, 0, 1} {
		if lines := GenerateGrid(beats, 800); len(lines) != 0 {
			t.Errorf("GenerateGrid(%d) returned %d lines, want 0", beats, len(lines))
		}
	}
}

func TestLineTypeString(t *testing.T) {
	if LineBeat.String() != "beat" || LineQuarter.String() != "quarter" {
		t.Errorf("String() = %q/%q", LineBeat.String(), LineQuarter.String())
	}
}
