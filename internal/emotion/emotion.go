// Package emotion implements the emotion-parameterized vocalization
// synthesizer: a stateless ring-modulation renderer
// producing a pre-rendered buffer for one robotic utterance.
package emotion

import (
	"math"
	"math/rand"
)

// Emotion is one of the nine vocalization affects this package renders.
type Emotion int

const (
	Happy Emotion = iota
	Sad
	Excited
	Worried
	Curious
	Affirmative
	Negative
	Surprised
	Thoughtful
)

// contour defines a normalized (0..1) pitch shape interpolated across the
// utterance's duration.
var contours = map[Emotion][]float64{
	Sad:         {1.0, 0.8, 0.6, 0.4, 0.2},
	Curious:     {0.2, 0.4, 0.6, 0.8, 1.0},
	Happy:       {0.5, 0.9, 0.6, 1.0, 0.7},
	Excited:     {0.3, 1.0, 0.2, 0.9, 0.3, 0.8},
	Worried:     {0.6, 0.4, 0.7, 0.3, 0.5},
	Affirmative: {0.4, 0.6, 0.5, 0.8},
	Negative:    {0.7, 0.4, 0.3, 0.2},
	Surprised:   {0.3, 1.0, 0.9, 0.7},
	Thoughtful:  {0.5, 0.55, 0.45, 0.5, 0.4},
}

// params holds the per-emotion synthesis settings: modulator ratio and
// vibrato. The base frequency comes from the event's own pitch_range via the
// contour, so the caller's Hz bounds govern pitch.
type params struct {
	modulatorRatio float64
	vibratoDepth   float64 // fraction, <= 0.02
	vibratoRateHz  float64 // <= 2.5 Hz
}

var emotionParams = map[Emotion]params{
	Happy:       {modulatorRatio: 1.5, vibratoDepth: 0.015, vibratoRateHz: 2.0},
	Sad:         {modulatorRatio: 0.75, vibratoDepth: 0.008, vibratoRateHz: 1.0},
	Excited:     {modulatorRatio: 2.2, vibratoDepth: 0.02, vibratoRateHz: 2.5},
	Worried:     {modulatorRatio: 1.1, vibratoDepth: 0.018, vibratoRateHz: 2.2},
	Curious:     {modulatorRatio: 1.8, vibratoDepth: 0.012, vibratoRateHz: 1.6},
	Affirmative: {modulatorRatio: 1.3, vibratoDepth: 0.006, vibratoRateHz: 1.2},
	Negative:    {modulatorRatio: 0.9, vibratoDepth: 0.01, vibratoRateHz: 1.4},
	Surprised:   {modulatorRatio: 2.5, vibratoDepth: 0.02, vibratoRateHz: 2.5},
	Thoughtful:  {modulatorRatio: 1.05, vibratoDepth: 0.005, vibratoRateHz: 0.8},
}

func contourFor(e Emotion) []float64 {
	if c, ok := contours[e]; ok {
		return c
	}
	return []float64{0.5, 0.5}
}

func paramsFor(e Emotion) params {
	if p, ok := emotionParams[e]; ok {
		return p
	}
	return params{modulatorRatio: 1.2, vibratoDepth: 0.01, vibratoRateHz: 1.5}
}

// contourInterp linearly interpolates contour c at fraction frac in [0,1]
// (pitch contour across the utterance).
func contourInterp(c []float64, frac float64) float64 {
	if frac <= 0 {
		return c[0]
	}
	if frac >= 1 {
		return c[len(c)-1]
	}
	scaled := frac * float64(len(c)-1)
	lo := int(math.Floor(scaled))
	hi := lo + 1
	if hi >= len(c) {
		return c[len(c)-1]
	}
	t := scaled - float64(lo)
	return c[lo]*(1-t) + c[hi]*t
}

// Render produces a buffer for one utterance by ring modulation:
// out(t) = carrier(t) * modulator(t) * env(t) * formant_shape(t)
// complexity selects the number of syllable bursts; intensity
// scales only modulation depth and envelope amplitude, never the
// contour-to-pitch mapping (a documented defect to avoid).
func Render(e Emotion, intensity float64, complexity int, pitchMinHz, pitchMaxHz, durationSec, sampleRate float64) []float32 {
	if complexity < 1 {
		complexity = 1
	} else if complexity > 5 {
		complexity = 5
	}
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}

	n := int(durationSec * sampleRate)
	if n <= 0 {
		return nil
	}
	out := make([]float32, n)

	contour := contourFor(e)
	p := paramsFor(e)

	// Deterministic given the same call arguments: seeded from the inputs,
	// not from global state, so this function stays side-effect free.
	seed := int64(math.Float64bits(pitchMinHz)) ^ int64(math.Float64bits(pitchMaxHz))<<1 ^ int64(complexity)<<7 ^ int64(e)<<13
	rng := rand.New(rand.NewSource(seed))

	syllableLen := durationSec / float64(complexity)
	syllableGap := syllableLen * 0.15 // small silence between bursts

	dt := 1 / sampleRate
	t := 0.0
	for i := 0; i < n; i++ {
		frac := t / durationSec
		pitchNorm := contourInterp(contour, frac)
		pitchHz := pitchMinHz + pitchNorm*(pitchMaxHz-pitchMinHz)

		vibrato := 1 + p.vibratoDepth*intensity*math.Sin(2*math.Pi*p.vibratoRateHz*t)
		carrierFreq := pitchHz * vibrato
		carrier := math.Sin(2 * math.Pi * carrierFreq * t)
		carrier += 0.2 * math.Sin(2*2*math.Pi*carrierFreq*t) // 2nd harmonic, <=0.2 amplitude

		modulatorFreq := pitchHz * p.modulatorRatio
		modulator := math.Sin(2 * math.Pi * modulatorFreq * t)

		env := syllableEnvelope(t, syllableLen, syllableGap, complexity)
		formant := formantShape(carrierFreq, rng, t)

		out[i] = float32(carrier * modulator * env * formant * (0.4 + 0.6*intensity))
		t += dt
	}
	return out
}

// syllableEnvelope produces complexity grain bursts across the utterance,
// each with a short attack/release so the ring-modulated tone reads as
// distinct syllables rather than one continuous drone.
func syllableEnvelope(t, syllableLen, gap float64, complexity int) float64 {
	period := syllableLen
	local := math.Mod(t, period)
	active := period - gap
	if local >= active {
		return 0
	}
	frac := local / active
	// Short raised-cosine attack/release inside each syllable.
	const edge = 0.15
	switch {
	case frac < edge:
		return 0.5 - 0.5*math.Cos(math.Pi*frac/edge)
	case frac > 1-edge:
		return 0.5 - 0.5*math.Cos(math.Pi*(1-frac)/edge)
	default:
		return 1
	}
}

// formantShape applies a slowly-varying spectral tilt so the output isn't a
// pure two-tone ring-mod buzz; it stays bounded in [0.6, 1.0] to avoid
// masking the pitch contour with a large competing modulation.
func formantShape(carrierFreq float64, rng *rand.Rand, t float64) float64 {
	wobble := 0.8 + 0.2*math.Sin(2*math.Pi*0.35*t+carrierFreq*1e-4)
	return wobble
}
