package muse

import (
	"math"
	"testing"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
	"github.com/alextrzyna/mcp-muse/internal/preset"
)

func sineEvent(start, duration float64) Event {
	return Event{Kind: KindSynth, Start: start, Duration: duration, Algorithm: algorithm.Sine, Params: algorithm.Params{Freq: 440}}
}

func TestMixerIngestRejectsInvalidSequence(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	seq := &Sequence{Notes: []Event{{Kind: KindSynth, Start: -1, Duration: 0.1, Algorithm: algorithm.Sine}}}
	if _, err := m.Ingest(seq); err == nil {
		t.Fatal("expected validation error for negative start")
	}
}

func TestMixerEndSampleIncludesDoubledReleaseTail(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	seq := &Sequence{Notes: []Event{sineEvent(0, 1.0)}}
	ack, err := m.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	// Default maxReleaseSec is 1.0 when no event overrides it via an envelope,
	// so the tail is 2*1.0*sampleRate.
	wantTail := int64(2 * 1.0 * 48000)
	if ack.TailSamples != wantTail {
		t.Fatalf("tail_samples = %d, want %d", ack.TailSamples, wantTail)
	}
	wantEnd := int64(1.0*48000) + wantTail
	if ack.EndSample != wantEnd {
		t.Fatalf("end_sample = %d, want %d", ack.EndSample, wantEnd)
	}
}

func TestMixerEndSampleGrowsWithLongerEnvelopeRelease(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	ev := sineEvent(0, 0.5)
	ev.HasEnvelope = true
	ev.EventEnv = Envelope{AttackSec: 0.01, DecaySec: 0.01, Sustain: 0.8, ReleaseSec: 3.0}
	seq := &Sequence{Notes: []Event{ev}}
	ack, err := m.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	wantTail := int64(2 * 3.0 * 48000)
	if ack.TailSamples != wantTail {
		t.Fatalf("tail_samples = %d, want %d", ack.TailSamples, wantTail)
	}
}

func TestMixerIngestIsRepeatable(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	seq := &Sequence{Notes: []Event{sineEvent(0, 0.2), sineEvent(0.1, 0.2)}}
	first, err := m.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest 1: %v", err)
	}
	second, err := m.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest 2: %v", err)
	}
	if first != second {
		t.Fatalf("re-ingesting the same sequence produced different acknowledgments: %+v vs %+v", first, second)
	}
}

func TestMixerPresetResolutionIsIdempotent(t *testing.T) {
	lib := preset.NewLibrary()
	presets := lib.List()
	if len(presets) == 0 {
		t.Fatal("expected a non-empty preset library")
	}
	seq := &Sequence{Notes: []Event{{
		Kind: KindPreset, Start: 0, Duration: 0.3, Pitch: 60,
		PresetByCategory: CategoryBass, HasByCategory: true, PresetRandom: false,
	}}}

	m1 := NewMixer(48000, lib, nil)
	ack1, err := m1.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest 1: %v", err)
	}
	m2 := NewMixer(48000, lib, nil)
	ack2, err := m2.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest 2: %v", err)
	}
	if ack1.EndSample != ack2.EndSample {
		t.Fatalf("preset resolution was not idempotent: end_sample %d vs %d", ack1.EndSample, ack2.EndSample)
	}
}

func TestMixerTimelineOrdersNoteOnBeforeNoteOffAtSameSample(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	// Back-to-back notes: the first's NoteOff and the second's NoteOn land on
	// the same sample index. NoteOn must fire first so the voice manager
	// never dips to zero active voices between them.
	seq := &Sequence{Notes: []Event{sineEvent(0, 0.1), sineEvent(0.1, 0.1)}}
	if _, err := m.Ingest(seq); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	boundary := int64(0.1 * 48000)
	var onIdx, offIdx = -1, -1
	for i, a := range m.timeline {
		if a.sample != boundary {
			continue
		}
		if a.kind == actSynthNoteOn && onIdx == -1 {
			onIdx = i
		}
		if a.kind == actNoteOff && offIdx == -1 {
			offIdx = i
		}
	}
	if onIdx == -1 || offIdx == -1 {
		t.Fatalf("expected both a NoteOn and NoteOff at sample %d", boundary)
	}
	if onIdx > offIdx {
		t.Fatalf("NoteOn (index %d) must sort before NoteOff (index %d) at the same sample", onIdx, offIdx)
	}
}

func TestMixerRenderStaysWithinSoftClipRange(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	seq := &Sequence{Notes: []Event{sineEvent(0, 0.05), sineEvent(0, 0.05), sineEvent(0, 0.05)}}
	if _, err := m.Ingest(seq); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	out := make([]float32, 4000)
	n := m.RenderMono(out)
	for i := 0; i < n; i++ {
		if out[i] > 1.0001 || out[i] < -1.0001 {
			t.Fatalf("sample %d = %v, outside soft-clip range despite 3 summed voices", i, out[i])
		}
	}
}

func TestMixerCancelStopsRenderBeforeEndSample(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	seq := &Sequence{Notes: []Event{sineEvent(0, 5.0)}}
	ack, err := m.Ingest(seq)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	out := make([]float32, 10)
	m.RenderMono(out)
	m.Cancel()
	remaining := make([]float32, int(ack.EndSample))
	n := m.RenderMono(remaining)
	if int64(n) >= ack.EndSample {
		t.Fatalf("expected Cancel to truncate the render well short of end_sample=%d, got %d samples", ack.EndSample, n)
	}
	if !m.Finished() {
		t.Fatal("expected Finished() to report true after cancellation")
	}
}

func TestMixerMasterGainScalesOutput(t *testing.T) {
	m := NewMixer(48000, preset.NewLibrary(), nil)
	seq := &Sequence{Notes: []Event{sineEvent(0, 0.02)}}
	if _, err := m.Ingest(seq); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	m.SetMasterGain(0)
	out := make([]float32, 500)
	m.RenderMono(out)
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %v, expected silence with master gain 0", i, s)
		}
	}
}

func TestMixerBusGainsAreIndependentlyConfigurable(t *testing.T) {
	mLoud := NewMixer(48000, preset.NewLibrary(), nil, WithBusGains(1, 1, 1))
	mQuiet := NewMixer(48000, preset.NewLibrary(), nil, WithBusGains(1, 0.01, 1))
	seq := &Sequence{Notes: []Event{sineEvent(0, 0.02)}}
	if _, err := mLoud.Ingest(seq); err != nil {
		t.Fatalf("ingest loud: %v", err)
	}
	if _, err := mQuiet.Ingest(seq); err != nil {
		t.Fatalf("ingest quiet: %v", err)
	}
	outLoud := make([]float32, 200)
	outQuiet := make([]float32, 200)
	mLoud.RenderMono(outLoud)
	mQuiet.RenderMono(outQuiet)
	var sumLoud, sumQuiet float64
	for i := range outLoud {
		sumLoud += math.Abs(float64(outLoud[i]))
		sumQuiet += math.Abs(float64(outQuiet[i]))
	}
	if sumQuiet >= sumLoud {
		t.Fatalf("expected the synth bus gain to reduce total energy: loud=%v quiet=%v", sumLoud, sumQuiet)
	}
}

func TestPresetSeedIsDeterministicPerEvent(t *testing.T) {
	ev := &Event{PresetByName: "warm-pad", PresetByCategory: CategoryPad, Pitch: 64}
	s1 := presetSeed(3, ev)
	s2 := presetSeed(3, ev)
	if s1 != s2 {
		t.Fatalf("presetSeed is not deterministic for identical inputs: %d vs %d", s1, s2)
	}
	if s1 == presetSeed(4, ev) {
		t.Fatal("expected presetSeed to vary by event index")
	}
}

func TestPitchToFreqMatchesA440(t *testing.T) {
	if got := pitchToFreq(69); math.Abs(got-440) > 1e-9 {
		t.Fatalf("pitchToFreq(69) = %v, want 440", got)
	}
	if got := pitchToFreq(81); math.Abs(got-880) > 1e-6 {
		t.Fatalf("pitchToFreq(81) = %v, want 880 (one octave up)", got)
	}
}
