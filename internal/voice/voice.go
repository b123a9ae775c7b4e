// Package voice implements one active note on top of
// internal/algorithm, and the polyphonic allocator/mixer that drives up to
// N of them.
package voice

import (
	"math"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
	"github.com/alextrzyna/mcp-muse/internal/effects"
)

// EnvState is the voice's position in the ADSR state machine.
type EnvState int

const (
	Idle EnvState = iota
	Attack
	Decay
	Sustain
	Release
)

// FilterKind selects the per-voice filter topology.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterLP
	FilterHP
	FilterBP
)

// FilterSpec configures the per-voice one-pole filter.
type FilterSpec struct {
	Kind      FilterKind
	CutoffHz  float64
	Resonance float64 // [0,1]
}

// Envelope carries the ADSR timing for a voice; zero values fall back to
// algorithm-appropriate defaults chosen in defaultEnvelope.
type Envelope struct {
	AttackSec  float64
	DecaySec   float64
	Sustain    float64
	ReleaseSec float64
}

// Voice is one active (or recently active, mid-release) note (Voice
// runtime). It is owned exclusively by the Manager; nothing outside this
// package mutates a Voice directly.
type Voice struct {
	NoteID     int64
	Algorithm  algorithm.Kind
	Params     algorithm.Params
	state      *algorithm.State

	env      Envelope
	envState EnvState
	envValue float64 // current amplitude envelope, 0..1

	filter FilterSpec
	// One-pole-with-feedback running state, shared by LP/HP; BP composes HP
	// then LP using two independent running values ("BP realized as
	// HP∘LP").
	filterLP1, filterLP2 float64

	// fx is the event's declared effects chain, applied per voice after the
	// envelope multiply. Mono: each stage is fed (sample, sample) and the
	// two returned channels are averaged back to one.
	fx []effects.Effector

	localT     float64 // seconds since NoteOn
	duration   float64 // seconds, from the note event; bounds natural NoteOff
	sampleRate float64

	ageSamples int64
	priority   int
	velocity   float64 // 0..1, scaled from MIDI-style 0..127
	stolen     bool    // forced into a 5ms release by the manager when stolen
}

// allocate resets v into a fresh note, seeded per voice.
func (v *Voice) allocate(noteID int64, seed int64, kind algorithm.Kind, params algorithm.Params, env Envelope, filter FilterSpec, fx []effects.Effector, duration, sampleRate float64, priority int, velocity int) {
	v.NoteID = noteID
	v.Algorithm = kind
	v.Params = params
	v.state = algorithm.NewState(seed)
	v.env = defaultEnvelope(kind, env)
	v.envState = Attack
	v.envValue = 0
	v.filter = filter
	v.filterLP1 = 0
	v.filterLP2 = 0
	v.fx = fx
	v.localT = 0
	v.duration = duration
	v.sampleRate = sampleRate
	v.ageSamples = 0
	v.priority = priority
	v.velocity = clamp(float64(velocity)/127, 0, 1)
	v.stolen = false
}

func defaultEnvelope(kind algorithm.Kind, env Envelope) Envelope {
	if env.AttackSec <= 0 {
		switch kind {
		case algorithm.Pad, algorithm.Texture, algorithm.Drone:
			env.AttackSec = 0.15
		case algorithm.PercussionKick, algorithm.PercussionSnare, algorithm.PercussionHiHat, algorithm.PercussionCymbal, algorithm.Zap, algorithm.Burst:
			env.AttackSec = 0.001
		default:
			env.AttackSec = 0.005
		}
	}
	if env.DecaySec <= 0 {
		env.DecaySec = 0.1
	}
	if env.Sustain == 0 {
		env.Sustain = 0.7
	}
	if env.ReleaseSec <= 0 {
		env.ReleaseSec = 0.2
	}
	return env
}

// noteOff moves the voice into Release unless it already is one.
func (v *Voice) noteOff() {
	if v.envState != Release && v.envState != Idle {
		v.envState = Release
	}
}

// forceRelease is used by the manager's voice-stealing path: it overrides
// the release time to 5ms regardless of the voice's configured release
// (steal forces the victim into a short release).
func (v *Voice) forceRelease() {
	if v.envState == Idle {
		return
	}
	v.envState = Release
	v.env.ReleaseSec = 0.005
	v.stolen = true
}

// advanceEnv steps the ADSR state machine by one sample.
func (v *Voice) advanceEnv() {
	dt := 1 / v.sampleRate
	switch v.envState {
	case Attack:
		if v.env.AttackSec <= 0 {
			v.envValue = 1
		} else {
			v.envValue += dt / v.env.AttackSec
		}
		if v.envValue >= 1 {
			v.envValue = 1
			v.envState = Decay
		}
	case Decay:
		rate := dt / math.Max(v.env.DecaySec, 1e-6)
		v.envValue += (v.env.Sustain - v.envValue) * rate
		if math.Abs(v.envValue-v.env.Sustain) < 1e-4 {
			v.envValue = v.env.Sustain
			v.envState = Sustain
		}
	case Sustain:
		v.envValue = v.env.Sustain
	case Release:
		rate := dt / math.Max(v.env.ReleaseSec, 1e-6)
		v.envValue -= v.envValue * rate
		if v.envValue < 0.001 { // -60dB
			v.envValue = 0
			v.envState = Idle
		}
	case Idle:
		v.envValue = 0
	}
}

// applyFilter runs the configured one-pole filter over raw, carrying state
// between samples.
func (v *Voice) applyFilter(raw float64) float64 {
	if v.filter.Kind == FilterNone || v.filter.CutoffHz <= 0 {
		return raw
	}
	alpha := onePoleAlpha(v.filter.CutoffHz, 1/v.sampleRate)
	fb := v.filter.Resonance * 0.9

	switch v.filter.Kind {
	case FilterLP:
		v.filterLP1 += (raw - v.filterLP1 + fb*v.filterLP1) * alpha
		return v.filterLP1
	case FilterHP:
		v.filterLP1 += (raw - v.filterLP1 + fb*v.filterLP1) * alpha
		return raw - v.filterLP1
	case FilterBP:
		v.filterLP1 += (raw - v.filterLP1) * alpha
		hp := raw - v.filterLP1
		v.filterLP2 += (hp - v.filterLP2) * alpha
		return v.filterLP2
	default:
		return raw
	}
}

func onePoleAlpha(cutoffHz, dt float64) float64 {
	rc := 1 / (2 * math.Pi * math.Max(cutoffHz, 1))
	return dt / (rc + dt)
}

// Render advances the voice by one sample: updates the envelope, computes
// the raw algorithm sample plus its reverb-send level, filters the dry
// path, then scales both by envelope*velocity (per sample: advance
// envelope, generate, filter, apply gain). send is zero for every
// algorithm except Pad, whose Space parameter routes a proportional level
// here instead of folding it into dry.
func (v *Voice) Render() (dry, send float64) {
	v.advanceEnv()
	if v.envState == Idle {
		return 0, 0
	}
	raw, rawSend := algorithm.SampleWithSend(v.Algorithm, v.localT, v.duration, v.sampleRate, v.Params, v.state)
	filtered := v.applyFilter(raw)
	v.localT += 1 / v.sampleRate
	v.ageSamples++
	gain := v.envValue * v.velocity
	out := filtered * gain
	for _, e := range v.fx {
		l, r := e.Process(float32(out), float32(out))
		out = float64(l+r) / 2
	}
	return out, rawSend * gain
}

// Active reports whether the voice is producing (or about to produce)
// sound.
func (v *Voice) Active() bool { return v.envState != Idle }

// State exposes the current envelope stage, for observability.
func (v *Voice) State() EnvState { return v.envState }

// EnvValue exposes the current envelope amplitude, used by the
// LowestVolume stealing strategy.
func (v *Voice) EnvValue() float64 { return v.envValue }

// AgeSamples exposes voice age, used by the OldestFirst stealing strategy.
func (v *Voice) AgeSamples() int64 { return v.ageSamples }

// Priority exposes voice priority, used by the LowestPriority stealing
// strategy.
func (v *Voice) Priority() int { return v.priority }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
