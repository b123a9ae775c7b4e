package effects

import (
	"math"
	"testing"
)

func TestDelayProducesOutput(t *testing.T) {
	d := NewDelay(44100, 100, 0.5, 0, 0.5)
	// Feed a pulse and check delayed output appears
	d.Process(1.0, 1.0)
	for i := 0; i < 4409; i++ { // ~100ms at 44100Hz
		d.Process(0, 0)
	}
	l, r := d.Process(0, 0)
	if math.Abs(float64(l)) < 0.01 || math.Abs(float64(r)) < 0.01 {
		t.Errorf("expected delayed output, got l=%f r=%f", l, r)
	}
}

func TestReverbProducesOutput(t *testing.T) {
	r := NewReverb(44100, 0.5)
	// Feed impulse
	r.Process(1.0, 1.0)
	// After some samples, each tap should fire and contribute to the tail
	var maxOut float32
	for i := 0; i < 10000; i++ {
		l, _ := r.Process(0, 0)
		if l > maxOut {
			maxOut = l
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail")
	}
}

func TestReverbTapsMatchDelays(t *testing.T) {
	r := NewReverb(44100, 1.0)
	r.Process(1.0, 1.0)
	for i, ms := range tapDelaysMs {
		off := int(ms / 1000 * 44100)
		for j := 1; j < off; j++ {
			r.Process(0, 0)
		}
		l, _ := r.Process(0, 0)
		if l == 0 {
			t.Errorf("tap %d at %gms expected nonzero contribution", i, ms)
		}
		r = NewReverb(44100, 1.0)
		r.Process(1.0, 1.0)
	}
}

func TestDistortionClips(t *testing.T) {
	d := NewDistortion(44100, 10, 0.5, 0)
	l, r := d.Process(0.5, 0.5)
	// With high pregain, tanh should compress the signal
	if math.Abs(float64(l)) > 1.0 || math.Abs(float64(r)) > 1.0 {
		t.Error("distortion output should be bounded")
	}
	if math.Abs(float64(l)) < 0.01 {
		t.Error("expected non-zero distortion output")
	}
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(
		NewDistortion(44100, 2, 1, 0),
		NewDelay(44100, 10, 0, 0, 0.5),
	)
	l, r := c.Process(0.5, 0.5)
	if l == 0 || r == 0 {
		t.Error("chain should produce output")
	}
}

func TestFilterLowpassSmoothsStep(t *testing.T) {
	f := NewFilter(44100, FilterLP, 200, 0)
	var last float32
	for i := 0; i < 500; i++ {
		last, _ = f.Process(1.0, 1.0)
	}
	if last < 0.9 {
		t.Errorf("expected lowpass to settle near 1.0 after warmup, got %f", last)
	}
}

func TestFilterHighpassBlocksDC(t *testing.T) {
	f := NewFilter(44100, FilterHP, 200, 0)
	var last float32
	for i := 0; i < 2000; i++ {
		last, _ = f.Process(1.0, 1.0)
	}
	if math.Abs(float64(last)) > 0.05 {
		t.Errorf("expected highpass to reject DC after settling, got %f", last)
	}
}

func TestFilterBandpassAttenuatesDC(t *testing.T) {
	f := NewFilter(44100, FilterBP, 1000, 0.3)
	var last float32
	for i := 0; i < 2000; i++ {
		last, _ = f.Process(1.0, 1.0)
	}
	if math.Abs(float64(last)) > 0.1 {
		t.Errorf("expected bandpass to reject DC after settling, got %f", last)
	}
}

func TestChorusFromIntensityScalesDepth(t *testing.T) {
	low := NewChorusFromIntensity(44100, 0.1)
	high := NewChorusFromIntensity(44100, 0.9)
	if low.depth >= high.depth {
		t.Errorf("expected chorus depth to grow with intensity, got low=%f high=%f", low.depth, high.depth)
	}
}

func TestDelayFromIntensityCapsFeedback(t *testing.T) {
	d := NewDelayFromIntensity(44100, 0.1, 1.0)
	if d.feedback > 0.85 {
		t.Errorf("expected feedback capped at 0.85, got %f", d.feedback)
	}
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 1, 50, 0)
	// Feed loud signal repeatedly to let envelope settle
	var out float32
	for i := 0; i < 1000; i++ {
		out, _ = c.Process(1.0, 1.0)
	}
	if out >= 1.0 {
		t.Errorf("compressor should reduce loud signals, got %f", out)
	}
}
