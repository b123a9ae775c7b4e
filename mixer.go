package muse

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync/atomic"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
	"github.com/alextrzyna/mcp-muse/internal/effects"
	"github.com/alextrzyna/mcp-muse/internal/emotion"
	"github.com/alextrzyna/mcp-muse/internal/preset"
	"github.com/alextrzyna/mcp-muse/internal/soundfont"
	"github.com/alextrzyna/mcp-muse/internal/voice"
)

// MixerOption configures a Mixer at construction, mirroring player.go's
// PlayerOption functional-options pattern.
type MixerOption func(*Mixer)

// WithBusGains overrides the default 1.0 per-bus gains.
func WithBusGains(midi, synth, emotionGain float64) MixerOption {
	return func(m *Mixer) {
		m.gMidi, m.gSynth, m.gEmotion = midi, synth, emotionGain
	}
}

// WithVoiceManagerOptions forwards options to the underlying voice.Manager
// (capacity, steal strategy).
func WithVoiceManagerOptions(opts ...voice.ManagerOption) MixerOption {
	return func(m *Mixer) {
		m.voiceOpts = append(m.voiceOpts, opts...)
	}
}

// actionKind tags one timeline entry. The integer value doubles as the
// tie-break ordering at equal sample indices: MidiNoteOn, SynthNoteOn,
// EmitPrerendered, then NoteOff — a NoteOn always fires before a NoteOff at
// the same index.
type actionKind int

const (
	actMidiNoteOn actionKind = iota
	actSynthNoteOn
	actEmitPrerendered
	actNoteOff // covers both MIDI and synth note-offs, fired last
)

type timelineAction struct {
	sample int64
	kind   actionKind

	// MidiNoteOn / NoteOff (midi variant).
	midiChannel int
	midiPitch   int
	midiVel     int
	hasProgram  bool
	midiProgram int
	controller  *ControllerOverlay
	isMidiOff   bool // distinguishes a NoteOff entry's midi vs synth payload

	// SynthNoteOn / NoteOff (synth variant).
	noteID   int64
	algKind  algorithm.Kind
	params   algorithm.Params
	env      voice.Envelope
	filter   voice.FilterSpec
	fx       []effects.Effector
	duration float64
	priority int
	velocity int

	// EmitPrerendered.
	prerenderIdx int
}

type prerenderedBuffer struct {
	samples []float32
	offset  int
}

// Mixer validates and schedules a Sequence at Ingest, then produces output
// samples one at a time from a pull-model production loop, summing the
// SoundFont adapter, the voice manager, and any pre-rendered emotion
// buffers.
type Mixer struct {
	sampleRate float64

	gMidi, gSynth, gEmotion float64

	voiceOpts []voice.ManagerOption
	voices    *voice.Manager
	sf        *soundfont.Adapter // nil if no soundfont was configured
	presets   *preset.Library

	// reverbBus receives every Pad voice's reverb send
	// (see internal/voice.Manager.Render) and mixes its tail back into the
	// synth bus; it is independent of any per-voice EffectReverb chain.
	reverbBus *effects.Reverb

	timeline    []timelineAction
	timelineIdx int
	prerendered [][]float32
	active      []*prerenderedBuffer

	currentSample int64
	endSample     int64

	cancelled  atomic.Bool
	finished   atomic.Bool
	masterGain atomic.Uint64 // float64 bits, default 1.0 (Player.SetMasterVolume)

	nextNoteID int64
}

// NewMixer constructs a Mixer. sf may be nil if the sequence never uses
// MidiEvents; presets must not be nil (an empty *preset.Library is valid).
func NewMixer(sampleRate float64, presets *preset.Library, sf *soundfont.Adapter, opts ...MixerOption) *Mixer {
	m := &Mixer{
		sampleRate: sampleRate,
		gMidi:      1.0,
		gSynth:     1.0,
		gEmotion:   1.0,
		presets:    presets,
		sf:         sf,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.voices = voice.NewManager(sampleRate, m.voiceOpts...)
	m.reverbBus = effects.NewReverb(int(sampleRate), 0.5)
	m.masterGain.Store(math.Float64bits(1.0))
	return m
}

// SetMasterGain scales the mixed bus output before the soft clip. Safe to
// call from outside the audio thread; the audio thread reads it lock-free.
func (m *Mixer) SetMasterGain(gain float64) { m.masterGain.Store(math.Float64bits(gain)) }

// MasterGain returns the current master gain.
func (m *Mixer) MasterGain() float64 { return math.Float64frombits(m.masterGain.Load()) }

// VoiceStats exposes the voice manager's observability surface.
func (m *Mixer) VoiceStats() voice.Stats { return m.voices.Stats() }

// Ingest validates seq, resolves preset events, builds the sample-indexed
// timeline, and returns the success acknowledgment. A non-nil error means
// nothing was scheduled and the mixer is unchanged.
func (m *Mixer) Ingest(seq *Sequence) (Acknowledgment, error) {
	presetExists := func(name string) bool { return m.presets != nil && m.presets.Exists(name) }
	categoryNonEmpty := func(c Category) bool {
		return m.presets != nil && m.presets.CategoryNonEmpty(toPresetCategory(c))
	}
	if err := seq.validate(presetExists, categoryNonEmpty); err != nil {
		return Acknowledgment{}, err
	}

	var timeline []timelineAction
	var prerendered [][]float32
	var warnings []string
	maxReleaseSec := 1.0 // doubled below for the default 2s tail
	var endSample int64

	for i := range seq.Notes {
		ev := &seq.Notes[i]
		startSample := int64(math.Floor(ev.Start * m.sampleRate))
		durSamples := int64(math.Round(ev.Duration * m.sampleRate))
		velocity := defaultVelocity(ev.Velocity)

		switch ev.Kind {
		case KindMidi:
			onAction := timelineAction{
				sample: startSample, kind: actMidiNoteOn,
				midiChannel: ev.Channel, midiPitch: ev.Pitch, midiVel: velocity,
				hasProgram: ev.HasProgram, midiProgram: ev.Program, controller: ev.Controller,
			}
			offAction := timelineAction{
				sample: startSample + durSamples, kind: actNoteOff, isMidiOff: true,
				midiChannel: ev.Channel, midiPitch: ev.Pitch,
			}
			timeline = append(timeline, onAction, offAction)
			if e := startSample + durSamples; e > endSample {
				endSample = e
			}

		case KindSynth:
			env := voice.Envelope{}
			if ev.HasEnvelope {
				env = voice.Envelope(ev.EventEnv)
				if ev.EventEnv.ReleaseSec > maxReleaseSec {
					maxReleaseSec = ev.EventEnv.ReleaseSec
				}
			}
			filter := voice.FilterSpec{}
			if ev.HasFilter {
				filter = voice.FilterSpec{Kind: voice.FilterKind(ev.Filter.Kind), CutoffHz: ev.Filter.CutoffHz, Resonance: ev.Filter.Resonance}
			}
			fx := buildEffectChain(ev.Effects, int(m.sampleRate))
			m.nextNoteID++
			noteID := m.nextNoteID
			timeline = append(timeline,
				timelineAction{
					sample: startSample, kind: actSynthNoteOn,
					noteID: noteID, algKind: ev.Algorithm, params: ev.Params,
					env: env, filter: filter, fx: fx, duration: ev.Duration,
					velocity: velocity, priority: velocity,
				},
				timelineAction{sample: startSample + durSamples, kind: actNoteOff, noteID: noteID},
			)
			if e := startSample + durSamples; e > endSample {
				endSample = e
			}

		case KindEmotion:
			buf := emotion.Render(emotion.Emotion(ev.EmotionKind), ev.Intensity, ev.Complexity, ev.PitchMinHz, ev.PitchMaxHz, ev.Duration, m.sampleRate)
			idx := len(prerendered)
			prerendered = append(prerendered, buf)
			timeline = append(timeline, timelineAction{sample: startSample, kind: actEmitPrerendered, prerenderIdx: idx})
			if e := startSample + int64(len(buf)); e > endSample {
				endSample = e
			}

		case KindPreset:
			sel := preset.Selector{
				ByName: ev.PresetByName, ByCategory: toPresetCategory(ev.PresetByCategory),
				HasCategory: ev.HasByCategory, Random: ev.PresetRandom, Variation: ev.Variation,
			}
			rng := rand.New(rand.NewSource(presetSeed(i, ev)))
			alg, params, penv, pfilter, variationApplied, err := m.presets.Resolve(sel, rng)
			if err != nil {
				return Acknowledgment{}, &ValidationError{Index: i, Reason: err.Error()}
			}
			if ev.Variation != "" && !variationApplied {
				warnings = append(warnings, fmt.Sprintf("note %d: unknown preset variation %q, resolved the base preset instead", i, ev.Variation))
			}
			env := voice.Envelope(penv)
			if env.ReleaseSec > maxReleaseSec {
				maxReleaseSec = env.ReleaseSec
			}
			filter := voice.FilterSpec{Kind: voice.FilterKind(pfilter.Kind), CutoffHz: pfilter.CutoffHz, Resonance: pfilter.Resonance}
			params.Freq = pitchToFreq(ev.Pitch)
			m.nextNoteID++
			noteID := m.nextNoteID
			timeline = append(timeline,
				timelineAction{
					sample: startSample, kind: actSynthNoteOn,
					noteID: noteID, algKind: alg, params: params, env: env, filter: filter,
					duration: ev.Duration, velocity: velocity, priority: velocity,
				},
				timelineAction{sample: startSample + durSamples, kind: actNoteOff, noteID: noteID},
			)
			if e := startSample + durSamples; e > endSample {
				endSample = e
			}
		}
	}

	tailSamples := int64(2 * maxReleaseSec * m.sampleRate)
	endSample += tailSamples

	sort.SliceStable(timeline, func(a, b int) bool {
		if timeline[a].sample != timeline[b].sample {
			return timeline[a].sample < timeline[b].sample
		}
		return timeline[a].kind < timeline[b].kind
	})

	m.timeline = timeline
	m.timelineIdx = 0
	m.prerendered = prerendered
	m.active = nil
	m.currentSample = 0
	m.endSample = endSample
	m.cancelled.Store(false)
	m.finished.Store(false)

	ack := seq.summarize(endSample, tailSamples)
	ack.Warnings = warnings
	return ack, nil
}

// Cancel requests the production loop stop at the next sample boundary and
// releases every active voice.
func (m *Mixer) Cancel() {
	m.cancelled.Store(true)
	m.voices.Release()
}

// Finished reports whether the production loop has reached end_sample or
// been cancelled; the audio stream uses this to signal EOF (matches
// internal/audio's FinishingSource contract).
func (m *Mixer) Finished() bool { return m.finished.Load() }

func (m *Mixer) fireActions(sample int64) {
	for m.timelineIdx < len(m.timeline) && m.timeline[m.timelineIdx].sample <= sample {
		a := &m.timeline[m.timelineIdx]
		switch a.kind {
		case actMidiNoteOn:
			if m.sf != nil {
				if a.hasProgram {
					m.sf.ProgramChange(a.midiChannel, a.midiProgram)
				}
				if a.controller != nil {
					m.sf.SetController(a.midiChannel, soundfont.Volume, a.controller.Volume)
					m.sf.SetController(a.midiChannel, soundfont.Pan, a.controller.Pan)
					m.sf.SetController(a.midiChannel, soundfont.Reverb, a.controller.Reverb)
					m.sf.SetController(a.midiChannel, soundfont.Chorus, a.controller.Chorus)
					m.sf.SetController(a.midiChannel, soundfont.Expression, a.controller.Expression)
				}
				m.sf.NoteOn(a.midiChannel, a.midiPitch, a.midiVel)
			}
		case actSynthNoteOn:
			m.voices.NoteOn(a.noteID, a.algKind, a.params, a.env, a.filter, a.fx, a.duration, a.priority, a.velocity)
		case actEmitPrerendered:
			m.active = append(m.active, &prerenderedBuffer{samples: m.prerendered[a.prerenderIdx]})
		case actNoteOff:
			if a.isMidiOff {
				if m.sf != nil {
					m.sf.NoteOff(a.midiChannel, a.midiPitch)
				}
			} else {
				m.voices.NoteOff(a.noteID)
			}
		}
		m.timelineIdx++
	}
}

func (m *Mixer) renderPrerendered() float64 {
	sum := 0.0
	n := 0
	for _, b := range m.active {
		if b.offset >= len(b.samples) {
			continue
		}
		sum += float64(b.samples[b.offset])
		b.offset++
		if b.offset < len(b.samples) {
			m.active[n] = b
			n++
		}
	}
	m.active = m.active[:n]
	return sum
}

// renderOne produces exactly one output sample, or reports ok=false once the
// stream has been cancelled or has passed end_sample.
func (m *Mixer) renderOne() (float32, bool) {
	if m.cancelled.Load() || m.currentSample > m.endSample {
		m.finished.Store(true)
		return 0, false
	}
	m.fireActions(m.currentSample)

	midiSample := 0.0
	if m.sf != nil {
		l, r := m.sf.Render()
		midiSample = float64(l+r) / 2 // stereo downmix to mono
	}
	synthSample, synthSend := m.voices.Render()
	reverbL, reverbR := m.reverbBus.Process(float32(synthSend), float32(synthSend))
	reverbSample := float64(reverbL+reverbR) / 2
	emotionSample := m.renderPrerendered()

	mixed := m.MasterGain() * (m.gMidi*midiSample + m.gSynth*(synthSample+reverbSample) + m.gEmotion*emotionSample)
	out := float32(math.Tanh(mixed))

	m.currentSample++
	if m.currentSample > m.endSample {
		m.finished.Store(true)
	}
	return out, true
}

// Process implements internal/audio.SampleSource: it fills dst with
// interleaved stereo frames, duplicating the mono bus to both channels.
func (m *Mixer) Process(dst []float32) {
	frames := len(dst) / 2
	for f := 0; f < frames; f++ {
		s, ok := m.renderOne()
		dst[f*2] = s
		dst[f*2+1] = s
		if !ok {
			for g := f + 1; g < frames; g++ {
				dst[g*2] = 0
				dst[g*2+1] = 0
			}
			return
		}
	}
}

// RenderMono fills out with up to len(out) mono samples and returns the
// count actually written; fewer than len(out) means the stream finished or
// was cancelled. Used for offline rendering.
func (m *Mixer) RenderMono(out []float32) int {
	for i := range out {
		s, ok := m.renderOne()
		if !ok {
			return i
		}
		out[i] = s
	}
	return len(out)
}

func toPresetCategory(c Category) preset.Category { return preset.Category(c) }

// presetSeed derives a deterministic RNG seed from the event's position and
// content so resolving the same PresetEvent twice yields identical output.
func presetSeed(index int, ev *Event) int64 {
	h := int64(index) * 1_000_003
	for _, b := range []byte(ev.PresetByName) {
		h = h*31 + int64(b)
	}
	h ^= int64(ev.PresetByCategory) << 8
	h ^= int64(ev.Pitch) << 16
	return h
}

// pitchToFreq converts a MIDI-style pitch (0..127) to Hz, A4=69=440Hz,
// matching the SoundFont adapter's own note numbering.
func pitchToFreq(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}

// buildEffectChain converts a SynthEvent's declared effects chain into
// per-voice effectors, applied in declared order. EffectFilter entries
// in this chain are skipped: the data model carries no cutoff/resonance for
// a chain-level filter (only the dedicated FilterSpec field does), so
// per-voice filtering always goes through that field instead.
func buildEffectChain(specs []EffectSpec, sampleRate int) []effects.Effector {
	if len(specs) == 0 {
		return nil
	}
	chain := make([]effects.Effector, 0, len(specs))
	for _, spec := range specs {
		switch spec.Kind {
		case EffectReverb:
			chain = append(chain, effects.NewReverb(sampleRate, float32(spec.Intensity)))
		case EffectChorus:
			chain = append(chain, effects.NewChorusFromIntensity(sampleRate, float32(spec.Intensity)))
		case EffectDelay:
			delaySec := spec.DelaySec
			if delaySec <= 0 {
				delaySec = 0.25
			}
			feedback := spec.Feedback
			if feedback <= 0 {
				feedback = spec.Intensity * 0.85
			}
			chain = append(chain, effects.NewDelay(sampleRate, delaySec*1000, float32(feedback), 0, float32(spec.Intensity)))
		case EffectFilter:
			// see doc comment above: no cutoff/resonance carried here.
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}
