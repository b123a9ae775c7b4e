package effects

import "github.com/alextrzyna/mcp-muse/internal/lfo"

// Chorus is an LFO-modulated delay around 10-30ms with depth proportional to
// intensity and rate ~0.5-2Hz. The modulation source is a shared
// triangle-wave LFO rather than a private sine oscillator.
type Chorus struct {
	bufL, bufR []float32
	pos        int
	size       int
	sampleRate float64
	mod        lfo.LFO
	depth      float32 // modulation depth in samples, mirrors mod's configured depth
	feedback   float32
	wet        float32
}

// NewChorus creates a chorus/flanger effect.
// delayMs: base delay time in ms (typically 5-30ms)
// feedback: feedback amount 0..1
// depthMs: modulation depth in ms
// rateHz: modulation rate in Hz (typically 0.1-5Hz)
// wet: wet/dry mix 0..1
func NewChorus(sampleRate int, delayMs, feedback, depthMs, rateHz, wet float32) *Chorus {
	baseSamples := int(float64(delayMs) * float64(sampleRate) / 1000.0)
	depthSamples := float64(depthMs) * float64(sampleRate) / 1000.0
	size := baseSamples + int(depthSamples) + 2
	if size < 4 {
		size = 4
	}
	c := &Chorus{
		bufL:       make([]float32, size),
		bufR:       make([]float32, size),
		size:       size,
		sampleRate: float64(sampleRate),
		depth:      float32(depthSamples),
		feedback:   clamp(feedback, 0, 0.9),
		wet:        clamp(wet, 0, 1),
	}
	c.mod.Set(depthSamples, float64(rateHz), lfo.WaveTriangle)
	return c
}

// NewChorusFromIntensity builds a chorus directly from an intensity in
// [0,1]: depth scales 2-10ms and rate scales 0.5-2Hz.
func NewChorusFromIntensity(sampleRate int, intensity float32) *Chorus {
	intensity = clamp(intensity, 0, 1)
	return NewChorus(sampleRate, 20, 0.3, 2+8*intensity, 0.5+1.5*intensity, intensity)
}

func (c *Chorus) Process(l, r float32) (float32, float32) {
	mod := float32(c.mod.Sample(c.sampleRate))
	c.bufL[c.pos] = l
	c.bufR[c.pos] = r

	// size is base+depth+2 samples, so this centres the delay on the base.
	delay := float32(c.size-2) - c.depth + mod
	readPos := float32(c.pos) - delay
	for readPos < 0 {
		readPos += float32(c.size)
	}
	idx := int(readPos)
	frac := readPos - float32(idx)
	idx2 := idx + 1
	if idx2 >= c.size {
		idx2 = 0
	}
	delL := c.bufL[idx]*(1-frac) + c.bufL[idx2]*frac
	delR := c.bufR[idx]*(1-frac) + c.bufR[idx2]*frac

	c.bufL[c.pos] += delL * c.feedback
	c.bufR[c.pos] += delR * c.feedback

	c.pos++
	if c.pos >= c.size {
		c.pos = 0
	}
	return l*(1-c.wet) + delL*c.wet, r*(1-c.wet) + delR*c.wet
}

func (c *Chorus) Reset() {
	for i := range c.bufL {
		c.bufL[i] = 0
		c.bufR[i] = 0
	}
	c.pos = 0
	c.mod.Reset()
}
