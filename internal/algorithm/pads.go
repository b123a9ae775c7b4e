package algorithm

import "math"

// pad implements the pad algorithm: eight harmonics of Freq with slowly evolving
// gains driven by HarmonicEvolution LFOs; Warmth low-passes; Movement
// modulates gains; Space adds a reverb send (returned as a second value so
// the voice/effects layer can route it into the bus reverb rather than
// mixing it in twice). Envelope (slow attack, sustain until release) is the
// voice's job, not this function's.
func pad(t, dt float64, p Params, st *State) (dry, reverbSend float64) {
	evoRate := p.HarmonicEvolution
	if evoRate <= 0 {
		evoRate = 0.1
	}
	movement := p.Movement

	sum := 0.0
	for h := 0; h < 8; h++ {
		st.padEvoPhase[h] += evoRate * (1 + 0.1*float64(h)) * dt
		gain := (1 + movement*math.Sin(2*math.Pi*st.padEvoPhase[h])) / float64(h+1)
		sum += math.Sin(2*math.Pi*p.Freq*float64(h+1)*t) * gain
	}
	sum /= 8

	warmth := p.Warmth
	st.padLP += (sum - st.padLP) * onePoleAlpha(2000-1800*warmth, dt)
	dry = st.padLP
	return dry, dry * p.Space
}

// texture implements the texture algorithm: a mix of an oscillator stack and noise
// weighted by SpectralTilt, with Roughness adding amplitude modulation and
// Evolution slowly modulating parameters.
func texture(t, dt float64, p Params, st *State) float64 {
	tilt := p.SpectralTilt

	stackSum := 0.0
	weightSum := 0.0
	for h := 0; h < 5; h++ {
		weight := math.Pow(1-tilt, float64(h))
		stackSum += math.Sin(2*math.Pi*p.Freq*float64(h+1)*t) * weight
		weightSum += weight
	}
	if weightSum > 0 {
		stackSum /= weightSum
	}

	noise := st.pinkNoise()
	mixed := stackSum*(1-tilt*0.5) + noise*(tilt*0.5)

	evoRate := p.Evolution
	if evoRate <= 0 {
		evoRate = 0.05
	}
	st.textureEvoPhase += evoRate * dt
	roughnessMod := 1 + p.Roughness*math.Sin(2*math.Pi*st.textureEvoPhase*5)

	return mixed * roughnessMod
}

// drone implements the drone algorithm: a fundamental plus N overtones detuned by
// OvertoneSpread, with a slow Modulation LFO on pitch and amplitude.
func drone(t, dt float64, p Params, st *State) float64 {
	n := p.OvertoneCount
	if n <= 0 {
		n = 3
	}
	modRate := p.Modulation
	if modRate <= 0 {
		modRate = 0.2
	}
	st.droneDetunePhase += modRate * dt
	pitchMod := 1 + 0.01*math.Sin(2*math.Pi*st.droneDetunePhase)
	ampMod := 1 + 0.15*math.Sin(2*math.Pi*st.droneDetunePhase*0.7)

	sum := math.Sin(2 * math.Pi * p.Freq * pitchMod * t)
	for k := 1; k <= n; k++ {
		detune := 1 + p.OvertoneSpread*float64(k)/100
		sum += math.Sin(2*math.Pi*p.Freq*float64(k+1)*pitchMod*detune*t) / float64(k+1)
	}
	return sum * ampMod / float64(n+1)
}
