package emotion

import (
	"math"
	"testing"
)

func TestRenderProducesSampleRateScaledLength(t *testing.T) {
	buf := Render(Happy, 0.8, 2, 200, 400, 0.5, 48000)
	want := int(0.5 * 48000)
	if len(buf) != want {
		t.Fatalf("len(buf) = %d, want %d", len(buf), want)
	}
}

func TestRenderIsDeterministicForIdenticalInputs(t *testing.T) {
	a := Render(Curious, 0.5, 3, 150, 500, 0.3, 44100)
	b := Render(Curious, 0.5, 3, 150, 500, 0.3, 44100)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identical calls: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRenderClampsOutOfRangeIntensityAndComplexity(t *testing.T) {
	buf := Render(Excited, 5.0, 99, 200, 600, 0.2, 44100)
	for i, s := range buf {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			t.Fatalf("sample %d is non-finite: %v", i, s)
		}
		if s > 1.5 || s < -1.5 {
			t.Fatalf("sample %d = %v, expected clamped intensity/complexity to keep output bounded", i, s)
		}
	}
}

func TestRenderReturnsNilForNonPositiveDuration(t *testing.T) {
	if buf := Render(Sad, 0.5, 1, 100, 300, 0, 44100); buf != nil {
		t.Fatalf("expected nil buffer for zero duration, got len %d", len(buf))
	}
}

func TestRenderVariesOutputAcrossDistinctEmotions(t *testing.T) {
	happy := Render(Happy, 0.7, 2, 200, 400, 0.3, 44100)
	sad := Render(Sad, 0.7, 2, 200, 400, 0.3, 44100)
	if len(happy) != len(sad) {
		t.Fatal("expected equal-length buffers for equal duration/sample rate")
	}
	identical := true
	for i := range happy {
		if happy[i] != sad[i] {
			identical = false
			break
		}
	}
	if identical {
		t.Fatal("expected different emotions to produce different contours/params")
	}
}
