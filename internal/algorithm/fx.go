package algorithm

import "math"

// swoosh implements the swoosh algorithm: band-passed noise whose center frequency
// sweeps from SweepFromHz to SweepToHz over the note; Direction inverts the
// sweep; Intensity scales the amplitude envelope. The band-pass is a
// one-pole HP then LP pair recentered every sample around the swept
// frequency, cheap enough to run per-sample without extra state beyond the
// two running filter values carried in st.swooshLP/st.swooshHP.
func swoosh(t, duration, dt float64, p Params, st *State) float64 {
	from, to := p.SweepFromHz, p.SweepToHz
	if from == 0 {
		from = 200
	}
	if to == 0 {
		to = 4000
	}
	frac := 0.0
	if duration > 0 {
		frac = t / duration
		if frac > 1 {
			frac = 1
		}
	}
	if p.Direction < 0 {
		frac = 1 - frac
	}
	center := from + (to-from)*frac

	n := st.whiteNoise()
	st.swooshLP += (n - st.swooshLP) * onePoleAlpha(center, dt)
	st.swooshHP += (st.swooshLP - st.swooshHP) * onePoleAlpha(center*0.5, dt)
	band := st.swooshLP - st.swooshHP

	env := 1.0
	if duration > 0 {
		env = math.Sin(math.Pi * frac) // rises then falls across the note
	}
	intensity := p.Intensity
	if intensity == 0 {
		intensity = 1
	}
	return band * env * intensity
}

func onePoleAlpha(cutoffHz, dt float64) float64 {
	rc := 1 / (2 * math.Pi * math.Max(cutoffHz, 1))
	return dt / (rc + dt)
}

// zap implements the zap algorithm: fundamental at f*sweep_factor(t) where
// sweep_factor = 1+energy*(2t-1) clamped >= 0.3, plus two inharmonic
// overtones at 2.3x and 3.7x the current swept frequency, an aggressive
// noise burst with e^(-25*energy*t) envelope, and a chaotic modulator at
// 7.1x f. Mix: (harmonic_sum*(1-chaos) + noise*chaos*noise_env)*env*energy
// where chaos = 0.3*energy.
func zap(t float64, p Params, st *State) float64 {
	energy := p.Energy
	if energy == 0 {
		energy = 0.7
	}
	sweepFactor := 1 + energy*(2*t-1)
	if sweepFactor < 0.3 {
		sweepFactor = 0.3
	}
	freq := p.Freq * sweepFactor

	fundamental := math.Sin(2 * math.Pi * freq * t)
	ot1 := math.Sin(2*math.Pi*freq*2.3*t) * 0.5
	ot2 := math.Sin(2*math.Pi*freq*3.7*t) * 0.3
	chaosMod := math.Sin(2 * math.Pi * p.Freq * 7.1 * t)
	harmonicSum := (fundamental + ot1 + ot2) * (0.7 + 0.3*chaosMod) / 1.8

	noiseEnv := math.Exp(-25 * energy * t)
	noise := st.whiteNoise() * noiseEnv

	chaos := 0.3 * energy
	env := math.Exp(-6 * t)
	return (harmonicSum*(1-chaos) + noise*chaos) * env * energy
}

// chime implements the chime algorithm: harmonic_count inharmonic partials
// (stretched integer ratios by Inharmonicity), each with an independent
// exponential decay.
func chime(t, dt float64, p Params, st *State) float64 {
	n := p.HarmonicCount
	if n <= 0 {
		n = 6
	}
	if n > maxChimePartials {
		n = maxChimePartials
	}
	inharm := p.Inharmonicity

	out := 0.0
	for i := 0; i < n; i++ {
		k := float64(i + 1)
		ratio := k * (1 + inharm*k*k)
		decayTime := 1.5 / k
		env := math.Exp(-t / decayTime)
		out += math.Sin(2*math.Pi*p.Freq*ratio*t) * env / k
	}
	return out / math.Log(float64(n)+1.7)
}

// burst implements the burst algorithm: noise band around CenterFreq with Bandwidth,
// Gaussian or exponential shape selected by Shape.
func burst(t, duration, dt float64, p Params, st *State) float64 {
	center := p.CenterFreq
	if center == 0 {
		center = 1000
	}
	bw := p.Bandwidth
	if bw == 0 {
		bw = center * 0.5
	}

	n := st.whiteNoise()
	st.burstLP += (n - st.burstLP) * onePoleAlpha(center+bw/2, dt)
	st.burstHP += (st.burstLP - st.burstHP) * onePoleAlpha(center-bw/2, dt)
	band := st.burstLP - st.burstHP

	frac := 0.0
	if duration > 0 {
		frac = t / duration
	}
	var env float64
	switch p.Shape {
	case BurstExponential:
		env = math.Exp(-5 * frac)
	default: // BurstGaussian
		env = math.Exp(-math.Pow((frac-0.2)*4, 2))
	}
	return band * env
}
