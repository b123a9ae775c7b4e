package algorithm

import "math"

func frac(x float64) float64 {
	return x - math.Floor(x)
}

// sine implements a basic sine oscillator: sin(2*pi*f*t).
func sine(t float64, p Params) float64 {
	return math.Sin(2 * math.Pi * p.Freq * t)
}

// square implements a pulse-width square oscillator: +1 while phase < pulse_width, else -1.
func square(t float64, p Params) float64 {
	pw := p.PulseWidth
	if pw <= 0 {
		pw = 0.5
	}
	if pw < 0.05 {
		pw = 0.05
	} else if pw > 0.95 {
		pw = 0.95
	}
	ph := frac(p.Freq * t)
	if ph < pw {
		return 1
	}
	return -1
}

// sawtooth implements a sawtooth oscillator: 2*frac(f*t) - 1.
func sawtooth(t float64, p Params) float64 {
	return 2*frac(p.Freq*t) - 1
}

// triangle implements a triangle oscillator: piecewise linear between +-1.
func triangle(t float64, p Params) float64 {
	ph := frac(p.Freq * t)
	return 2*math.Abs(2*ph-1) - 1
}

// noiseSample implements a colored noise generator: White/Pink/Brown selected by p.Color.
func noiseSample(st *State, p Params) float64 {
	return st.noise(p.Color)
}

// fm implements frequency modulation synthesis. Two-operator mode (no Operators configured) is
// carrier at Freq, modulator at ModulatorFreq, output =
// sin(2*pi*f*t + ModIndex*sin(2*pi*modFreq*t)). Multi-operator mode sums or
// cascades every operator with a non-zero level; implementers must never
// skip a configured operator.
func fm(t, dt float64, p Params, st *State) float64 {
	if len(p.Operators) == 0 {
		mod := math.Sin(2 * math.Pi * p.ModulatorFreq * t)
		return math.Sin(2*math.Pi*p.Freq*t + p.ModIndex*mod)
	}
	return fmMultiOp(t, dt, p, st)
}

func fmMultiOp(t, dt float64, p Params, st *State) float64 {
	n := len(p.Operators)
	if n > maxFMOperators {
		n = maxFMOperators
	}

	// Advance each operator's phase and envelope, compute its raw output
	// including self-feedback, independent of topology.
	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		op := p.Operators[i]
		if op.Level == 0 {
			continue
		}
		freq := p.Freq * op.FreqMul
		st.fmPhase[i] += freq * dt
		if st.fmPhase[i] >= 1 {
			st.fmPhase[i] -= math.Floor(st.fmPhase[i])
		}
		fb := op.Feedback * st.fmPrev[i]
		v := math.Sin(2*math.Pi*st.fmPhase[i] + fb)
		st.fmEnv[i] = advanceFMEnv(st.fmEnv[i], op, dt)
		v *= op.Level * st.fmEnv[i]
		raw[i] = v
		st.fmPrev[i] = v
	}

	switch p.Algo {
	case FMCascade:
		// Operator n-1 modulates n-2, ... into the carrier (operator 0).
		out := raw[n-1]
		for i := n - 2; i >= 0; i-- {
			if p.Operators[i].Level == 0 {
				out += raw[i]
				continue
			}
			carrierPhase := st.fmPhase[i]
			out = math.Sin(2*math.Pi*carrierPhase+out*p.ModIndex) * p.Operators[i].Level * st.fmEnv[i]
		}
		return out
	default: // FMCarrierSum: every configured operator sums at the carrier.
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += raw[i]
		}
		return sum
	}
}

func advanceFMEnv(env float64, op FMOperator, dt float64) float64 {
	attack := op.AttackSec
	decay := op.DecaySec
	if attack <= 0 {
		attack = 0.005
	}
	if decay <= 0 {
		decay = 0.1
	}
	if env < 1 && attack > 0 {
		env += dt / attack
		if env > 1 {
			env = 1
		}
		return env
	}
	target := op.Sustain
	rate := dt / decay
	return env + (target-env)*rate
}

// wavetable implements wavetable synthesis: a four-stage morph
// sine -> triangle -> sawtooth -> square, where Position in [0,1] selects a
// stage pair and MorphSpeed drives an LFO over Position.
func wavetable(t, dt float64, p Params, st *State) float64 {
	pos := p.Position
	if p.MorphSpeed > 0 {
		st.wtMorphPhase += p.MorphSpeed * dt
		pos += 0.5 * math.Sin(2*math.Pi*st.wtMorphPhase)
	}
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}

	stages := []func(float64, Params) float64{sine, triangle, sawtooth, square}
	scaled := pos * float64(len(stages)-1)
	lo := int(math.Floor(scaled))
	if lo >= len(stages)-1 {
		lo = len(stages) - 2
	}
	hi := lo + 1
	frac := scaled - float64(lo)

	a := stages[lo](t, p)
	b := stages[hi](t, p)
	return a*(1-frac) + b*frac
}

// granular implements granular synthesis: overlapping Hann-windowed grains
// spawned at rate Density, each of length GrainSize seconds. Each grain's
// tone frequency deviates from Freq by up to +-Spread scaled by
// (1-PitchCoherence). Each sample mixes tonal grain (0.7) with low-level
// noise (0.3).
func granular(dt float64, p Params, st *State) float64 {
	density := p.Density
	if density <= 0 {
		density = 10
	}
	period := 1 / density
	coherence := p.PitchCoherence
	if coherence == 0 {
		coherence = 0.8
	}
	spread := p.Spread

	st.grainClock -= dt
	if st.grainClock <= 0 {
		jitter := 1.0
		st.grainClock = period * jitter
		for i := range st.grainPhases {
			if !st.grainPhases[i].active {
				eps := (st.rng.Float64()*2 - 1) * spread * (1 - coherence)
				st.grainPhases[i] = grainVoice{
					age:    0,
					length: p.GrainSize,
					freq:   p.Freq * (1 + eps),
					active: true,
				}
				break
			}
		}
	}

	out := 0.0
	for i := range st.grainPhases {
		g := &st.grainPhases[i]
		if !g.active {
			continue
		}
		g.age += dt
		if g.age >= g.length {
			g.active = false
			continue
		}
		g.phase += g.freq * dt
		tone := math.Sin(2 * math.Pi * g.phase)
		window := 0.5 * (1 - math.Cos(2*math.Pi*g.age/g.length)) // Hann
		out += tone * window
	}
	out *= 0.7
	out += st.whiteNoise() * 0.3
	return out
}
