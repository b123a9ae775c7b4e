package effects

// Reverb implements a multi-tap approximation: five taps
// at delays {25, 45, 75, 125, 200} ms with decay factor 0.6^k. Dry level is
// 1 - min(0.8, 2*intensity*0.4); wet mix adds taps*intensity*2 with a 0.6
// master wet gain. This is intentionally exaggerated versus a reference
// room so the effect stays audible at moderate intensity.
type Reverb struct {
	bufL, bufR []float32
	pos        int
	tapOffsets [5]int
	tapDecay   [5]float32
	dry        float32
	wetGain    float32
}

var tapDelaysMs = [5]float64{25, 45, 75, 125, 200}

// NewReverb builds a reverb with taps sized for sampleRate and mix driven
// by intensity in [0,1].
func NewReverb(sampleRate int, intensity float32) *Reverb {
	intensity = clamp(intensity, 0, 1)
	r := &Reverb{
		dry:     1 - minf32(0.8, 2*intensity*0.4),
		wetGain: intensity * 2 * 0.6,
	}
	maxOffset := 0
	for i, ms := range tapDelaysMs {
		off := int(ms / 1000 * float64(sampleRate))
		if off < 1 {
			off = 1
		}
		r.tapOffsets[i] = off
		r.tapDecay[i] = pow06(i + 1)
		if off > maxOffset {
			maxOffset = off
		}
	}
	size := maxOffset + 1
	r.bufL = make([]float32, size)
	r.bufR = make([]float32, size)
	return r
}

func pow06(k int) float32 {
	v := float32(1)
	for i := 0; i < k; i++ {
		v *= 0.6
	}
	return v
}

func minf32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func (r *Reverb) Process(l, r2 float32) (float32, float32) {
	r.bufL[r.pos] = l
	r.bufR[r.pos] = r2

	var wetL, wetR float32
	for i, off := range r.tapOffsets {
		idx := r.pos - off
		for idx < 0 {
			idx += len(r.bufL)
		}
		wetL += r.bufL[idx] * r.tapDecay[i]
		wetR += r.bufR[idx] * r.tapDecay[i]
	}

	r.pos++
	if r.pos >= len(r.bufL) {
		r.pos = 0
	}

	outL := l*r.dry + wetL*r.wetGain
	outR := r2*r.dry + wetR*r.wetGain
	return outL, outR
}

func (r *Reverb) Reset() {
	for i := range r.bufL {
		r.bufL[i] = 0
		r.bufR[i] = 0
	}
	r.pos = 0
}
