package muse

import (
	"encoding/json"
	"fmt"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
)

// Kind discriminates the four production kinds an Event may carry. Exactly
// one of the Kind-specific field groups on Event is meaningful for a given
// Kind; the rest are zero value and ignored. This mirrors the tagged-struct
// shape mml.Event uses rather than four separate concrete types, because the
// scheduler needs to range over a single homogeneous slice at ingest.
type Kind int

const (
	KindMidi Kind = iota + 1
	KindSynth
	KindEmotion
	KindPreset
)

// MarshalJSON/UnmarshalJSON render Kind as its lowercase name ("midi",
// "synth", "emotion", "preset") in the play_sequence wire format.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "midi":
		*k = KindMidi
	case "synth":
		*k = KindSynth
	case "emotion":
		*k = KindEmotion
	case "preset":
		*k = KindPreset
	default:
		return fmt.Errorf("unknown event kind %q", s)
	}
	return nil
}

func (k Kind) String() string {
	switch k {
	case KindMidi:
		return "midi"
	case KindSynth:
		return "synth"
	case KindEmotion:
		return "emotion"
	case KindPreset:
		return "preset"
	default:
		return "unknown"
	}
}

// Category is a Preset grouping.
type Category int

const (
	CategoryBass Category = iota
	CategoryPad
	CategoryLead
	CategoryKeys
	CategoryOrgan
	CategoryArp
	CategoryDrums
	CategoryEffects
)

func (c Category) String() string {
	switch c {
	case CategoryBass:
		return "Bass"
	case CategoryPad:
		return "Pad"
	case CategoryLead:
		return "Lead"
	case CategoryKeys:
		return "Keys"
	case CategoryOrgan:
		return "Organ"
	case CategoryArp:
		return "Arp"
	case CategoryDrums:
		return "Drums"
	case CategoryEffects:
		return "Effects"
	default:
		return "unknown"
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for cat := CategoryBass; cat <= CategoryEffects; cat++ {
		if cat.String() == s {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown preset category %q", s)
}

// Emotion is one of the nine vocalization affects C4 supports.
type Emotion int

const (
	EmotionHappy Emotion = iota
	EmotionSad
	EmotionExcited
	EmotionWorried
	EmotionCurious
	EmotionAffirmative
	EmotionNegative
	EmotionSurprised
	EmotionThoughtful
)

func (e Emotion) String() string {
	switch e {
	case EmotionHappy:
		return "Happy"
	case EmotionSad:
		return "Sad"
	case EmotionExcited:
		return "Excited"
	case EmotionWorried:
		return "Worried"
	case EmotionCurious:
		return "Curious"
	case EmotionAffirmative:
		return "Affirmative"
	case EmotionNegative:
		return "Negative"
	case EmotionSurprised:
		return "Surprised"
	case EmotionThoughtful:
		return "Thoughtful"
	default:
		return "unknown"
	}
}

func (e Emotion) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

func (e *Emotion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for em := EmotionHappy; em <= EmotionThoughtful; em++ {
		if em.String() == s {
			*e = em
			return nil
		}
	}
	return fmt.Errorf("unknown emotion %q", s)
}

// ControllerOverlay holds the five GM controllers a MidiEvent may carry,
// each 0..127. A nil *ControllerOverlay on an Event means "don't send any
// controller change".
type ControllerOverlay struct {
	Volume     int `json:"volume"`
	Pan        int `json:"pan"`
	Reverb     int `json:"reverb"`
	Chorus     int `json:"chorus"`
	Expression int `json:"expression"`
}

// FilterSpec configures a voice's per-sample one-pole filter.
type FilterSpec struct {
	Kind      FilterKind `json:"kind"`
	CutoffHz  float64    `json:"cutoff_hz"`
	Resonance float64    `json:"resonance"` // [0,1]
}

// FilterKind selects the filter topology applied after the algorithm and
// before the envelope multiply.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterLP
	FilterHP
	FilterBP
)

func (k FilterKind) String() string {
	switch k {
	case FilterLP:
		return "LP"
	case FilterHP:
		return "HP"
	case FilterBP:
		return "BP"
	default:
		return "none"
	}
}

func (k FilterKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *FilterKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "LP":
		*k = FilterLP
	case "HP":
		*k = FilterHP
	case "BP":
		*k = FilterBP
	case "none", "":
		*k = FilterNone
	default:
		return fmt.Errorf("unknown filter kind %q", s)
	}
	return nil
}

// Envelope overrides the default ADSR timing a voice would otherwise pick
// from its algorithm's defaults.
type Envelope struct {
	AttackSec  float64 `json:"attack"`
	DecaySec   float64 `json:"decay"`
	Sustain    float64 `json:"sustain"` // level, [0,1]
	ReleaseSec float64 `json:"release"`
}

// EffectSpec names one stage of a per-voice or per-bus effects chain.
// Params are interpreted by the effect named by Kind; unused fields are
// zero value.
type EffectSpec struct {
	Kind      EffectKind `json:"kind"`
	Intensity float64    `json:"intensity"`
	DelaySec  float64    `json:"delay_sec"`
	Feedback  float64    `json:"feedback"`
	RateHz    float64    `json:"rate_hz"`
}

// EffectKind enumerates the four effect blocks.
type EffectKind int

const (
	EffectReverb EffectKind = iota
	EffectChorus
	EffectDelay
	EffectFilter
)

func (k EffectKind) String() string {
	switch k {
	case EffectReverb:
		return "reverb"
	case EffectChorus:
		return "chorus"
	case EffectDelay:
		return "delay"
	case EffectFilter:
		return "filter"
	default:
		return "unknown"
	}
}

func (k EffectKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *EffectKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "reverb":
		*k = EffectReverb
	case "chorus":
		*k = EffectChorus
	case "delay":
		*k = EffectDelay
	case "filter":
		*k = EffectFilter
	default:
		return fmt.Errorf("unknown effect kind %q", s)
	}
	return nil
}

// Event is a single scheduled production request. All events share
// Start/Duration/Velocity; the remaining fields are grouped by Kind and
// only the group matching Kind is read.
type Event struct {
	Kind     Kind    `json:"kind"`
	Start    float64 `json:"start"`    // seconds, >= 0
	Duration float64 `json:"duration"` // seconds, > 0
	Velocity int     `json:"velocity,omitempty"` // 0..127, defaults to 100 if unset

	// MidiEvent fields.
	Pitch      int                `json:"pitch,omitempty"` // 0..127
	Channel    int                `json:"channel,omitempty"`
	Program    int                `json:"program,omitempty"` // 0..127, GM instrument
	HasProgram bool               `json:"has_program,omitempty"`
	Controller *ControllerOverlay `json:"controller,omitempty"`

	// SynthEvent fields.
	Algorithm   algorithm.Kind   `json:"algorithm,omitempty"`
	Params      algorithm.Params `json:"params,omitempty"`
	HasEnvelope bool             `json:"has_envelope,omitempty"`
	EventEnv    Envelope         `json:"envelope,omitempty"`
	HasFilter   bool             `json:"has_filter,omitempty"`
	Filter      FilterSpec       `json:"filter,omitempty"`
	Effects     []EffectSpec     `json:"effects,omitempty"`

	// EmotionEvent fields.
	EmotionKind Emotion `json:"emotion,omitempty"`
	Intensity   float64 `json:"intensity,omitempty"` // [0,1]
	Complexity  int     `json:"complexity,omitempty"` // 1..5
	PitchMinHz  float64 `json:"pitch_min_hz,omitempty"`
	PitchMaxHz  float64 `json:"pitch_max_hz,omitempty"`

	// PresetEvent fields.
	PresetByName     string   `json:"by_name,omitempty"`
	PresetByCategory Category `json:"by_category,omitempty"`
	HasByCategory    bool     `json:"has_by_category,omitempty"`
	PresetRandom     bool     `json:"random,omitempty"`
	Variation        string   `json:"variation,omitempty"`
}

// Sequence is the single request the core exposes (play_sequence).
// TempoBPM is informational only; every Event carries absolute seconds.
type Sequence struct {
	TempoBPM float64 `json:"tempo_bpm,omitempty"`
	Notes    []Event `json:"notes"`
}

// Acknowledgment is returned on a successful play_sequence/ingest: a
// breakdown of counts by kind plus the derived timeline bounds, so a caller
// can pre-allocate playback buffers without re-deriving them.
type Acknowledgment struct {
	DurationSec  float64  `json:"duration_sec"`
	MidiCount    int      `json:"midi_count"`
	SynthCount   int      `json:"synth_count"`
	EmotionCount int      `json:"emotion_count"`
	PresetCount  int      `json:"preset_count"`
	EndSample    int64    `json:"end_sample"`
	TailSamples  int64    `json:"tail_samples"`
	// Warnings carries non-fatal resolution notes, e.g. a PresetEvent whose
	// variation name was unknown and fell back to the base preset.
	Warnings []string `json:"warnings,omitempty"`
}

func defaultVelocity(v int) int {
	if v == 0 {
		return 100
	}
	return v
}

// validate enforces the data model invariants on every event of a sequence and
// returns the first violation found, reported through index i within
// seq.Notes. presetExists/categoryNonEmpty let the caller (the C6 resolver,
// at ingest) plug in the preset-library lookups without this package
// depending on internal/preset.
func (seq *Sequence) validate(presetExists func(name string) bool, categoryNonEmpty func(c Category) bool) error {
	for i := range seq.Notes {
		ev := &seq.Notes[i]
		if ev.Start < 0 {
			return newValidationError(i, "start must be >= 0, got %g", ev.Start)
		}
		if ev.Duration <= 0 {
			return newValidationError(i, "duration must be > 0, got %g", ev.Duration)
		}
		if ev.Velocity != 0 && (ev.Velocity < 0 || ev.Velocity > 127) {
			return newValidationError(i, "velocity must be within 0..127, got %d", ev.Velocity)
		}

		switch ev.Kind {
		case KindMidi:
			if ev.Pitch < 0 || ev.Pitch > 127 {
				return newValidationError(i, "midi pitch must be within 0..127, got %d", ev.Pitch)
			}
			if ev.Channel < 0 || ev.Channel > 15 {
				return newValidationError(i, "midi channel must be within 0..15, got %d", ev.Channel)
			}
			if ev.HasProgram && (ev.Program < 0 || ev.Program > 127) {
				return newValidationError(i, "midi program must be within 0..127, got %d", ev.Program)
			}
			if c := ev.Controller; c != nil {
				if err := validateController(i, c); err != nil {
					return err
				}
			}
		case KindSynth:
			if !algorithm.Valid(ev.Algorithm) {
				return newValidationError(i, "unknown algorithm %v", ev.Algorithm)
			}
			if ev.HasFilter && ev.Filter.Kind != FilterNone {
				if ev.Filter.Resonance < 0 || ev.Filter.Resonance > 1 {
					return newValidationError(i, "filter resonance must be within [0,1], got %g", ev.Filter.Resonance)
				}
			}
		case KindEmotion:
			if ev.Intensity < 0 || ev.Intensity > 1 {
				return newValidationError(i, "emotion intensity must be within [0,1], got %g", ev.Intensity)
			}
			if ev.Complexity < 1 || ev.Complexity > 5 {
				return newValidationError(i, "emotion complexity must be within 1..5, got %d", ev.Complexity)
			}
			if !(50 <= ev.PitchMinHz && ev.PitchMinHz < ev.PitchMaxHz && ev.PitchMaxHz <= 2000) {
				return newValidationError(i, "emotion pitch_range must satisfy 50<=min<max<=2000, got [%g,%g]", ev.PitchMinHz, ev.PitchMaxHz)
			}
		case KindPreset:
			tagCount := 0
			if ev.PresetByName != "" {
				tagCount++
			}
			if ev.HasByCategory {
				tagCount++
			}
			if ev.PresetRandom {
				tagCount++
			}
			if tagCount != 1 {
				return newValidationError(i, "preset event must set exactly one of by_name/by_category/random, got %d", tagCount)
			}
			if ev.PresetByName != "" && presetExists != nil && !presetExists(ev.PresetByName) {
				return newValidationError(i, "unknown preset %q", ev.PresetByName)
			}
			if ev.HasByCategory && categoryNonEmpty != nil && !categoryNonEmpty(ev.PresetByCategory) {
				return newValidationError(i, "preset category %v has no members", ev.PresetByCategory)
			}
			if ev.Pitch < 0 || ev.Pitch > 127 {
				return newValidationError(i, "preset pitch must be within 0..127, got %d", ev.Pitch)
			}
		default:
			return newValidationError(i, "event has no kind tag")
		}
	}
	return nil
}

func validateController(i int, c *ControllerOverlay) error {
	for _, v := range []struct {
		name string
		val  int
	}{
		{"volume", c.Volume}, {"pan", c.Pan}, {"reverb", c.Reverb},
		{"chorus", c.Chorus}, {"expression", c.Expression},
	} {
		if v.val < 0 || v.val > 127 {
			return newValidationError(i, "controller %s must be within 0..127, got %d", v.name, v.val)
		}
	}
	return nil
}

// summarize builds the success acknowledgment from a validated
// sequence; endSample/tailSamples are supplied by the scheduler once the
// timeline is built.
func (seq *Sequence) summarize(endSample, tailSamples int64) Acknowledgment {
	ack := Acknowledgment{EndSample: endSample, TailSamples: tailSamples}
	maxEnd := 0.0
	for _, ev := range seq.Notes {
		switch ev.Kind {
		case KindMidi:
			ack.MidiCount++
		case KindSynth:
			ack.SynthCount++
		case KindEmotion:
			ack.EmotionCount++
		case KindPreset:
			ack.PresetCount++
		}
		if end := ev.Start + ev.Duration; end > maxEnd {
			maxEnd = end
		}
	}
	ack.DurationSec = maxEnd
	return ack
}
