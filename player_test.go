package muse

import (
	"testing"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
	intfx "github.com/alextrzyna/mcp-muse/internal/effects"
	"github.com/alextrzyna/mcp-muse/internal/preset"
)

func TestPlayerMasterVolumeRuntimeAPI(t *testing.T) {
	pl, err := NewPlayer(48000, preset.NewLibrary())
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	// With no Mixer yet (nothing played), MasterVolume reports the default.
	if got := pl.MasterVolume(); got != 1 {
		t.Fatalf("default master volume = %v, want 1", got)
	}
	// SetMasterVolume before any Play is a no-op (no Mixer to apply it to);
	// MasterVolume still reports the unstarted default.
	pl.SetMasterVolume(0.35)
	if got := pl.MasterVolume(); got != 1 {
		t.Fatalf("master volume before Play = %v, want 1 (unstarted default)", got)
	}
}

func TestPlayerListPresets(t *testing.T) {
	lib := preset.NewLibrary()
	pl, err := NewPlayer(44100, lib)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if got, want := len(pl.ListPresets()), len(lib.List()); got != want {
		t.Fatalf("ListPresets returned %d entries, want %d", got, want)
	}
}

func TestPlayerRejectsNonPositiveSampleRate(t *testing.T) {
	if _, err := NewPlayer(0, preset.NewLibrary()); err == nil {
		t.Fatal("expected error for sampleRate=0")
	}
}

func TestWithMasterEffectsConfiguresThePlayersEffectChain(t *testing.T) {
	pl, err := NewPlayer(48000, preset.NewLibrary(),
		WithMasterEffects(
			intfx.NewDistortion(48000, 2, 1, 0),
			intfx.NewCompressor(48000, -10, 4, 1, 50, 0),
		),
	)
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if len(pl.masterFX) != 2 {
		t.Fatalf("masterFX length = %d, want 2", len(pl.masterFX))
	}
}

// TestEventWrapperAppliesMasterEffectsChain exercises WithMasterEffects'
// functional effect on rendered output, driving eventWrapper directly rather
// than Player.Play (which opens a real audio output stream).
func TestEventWrapperAppliesMasterEffectsChain(t *testing.T) {
	seq := &Sequence{Notes: []Event{
		{Kind: KindSynth, Start: 0, Duration: 0.2, Algorithm: algorithm.Sine, Params: algorithm.Params{Freq: 440}},
	}}
	presets := preset.NewLibrary()

	plain := NewMixer(48000, presets, nil)
	if _, err := plain.Ingest(seq); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	plainWrapper := &eventWrapper{mixer: plain}
	plainOut := make([]float32, 200)
	plainWrapper.Process(plainOut)

	driven := NewMixer(48000, presets, nil)
	if _, err := driven.Ingest(seq); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	drivenWrapper := &eventWrapper{
		mixer:    driven,
		masterFX: []intfx.Effector{intfx.NewDistortion(48000, 20, 1, 0)},
	}
	drivenOut := make([]float32, 200)
	drivenWrapper.Process(drivenOut)

	differs := false
	for i := range plainOut {
		if plainOut[i] != drivenOut[i] {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatal("expected the master effects chain to alter the rendered output")
	}
}
