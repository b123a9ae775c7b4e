package muse

import (
	"testing"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
	"github.com/alextrzyna/mcp-muse/internal/preset"
)

func TestRenderOfflineProducesBoundedSamples(t *testing.T) {
	seq := &Sequence{Notes: []Event{
		{Kind: KindSynth, Start: 0, Duration: 0.2, Algorithm: algorithm.Sine, Params: algorithm.Params{Freq: 440}},
	}}
	samples, ack, err := RenderOffline(seq, 48000, preset.NewLibrary(), nil, 5)
	if err != nil {
		t.Fatalf("render offline: %v", err)
	}
	if len(samples) == 0 {
		t.Fatal("expected non-empty render")
	}
	if int64(len(samples)) > ack.EndSample+1 {
		t.Fatalf("render produced %d samples, more than end_sample+1=%d", len(samples), ack.EndSample+1)
	}
	for i, s := range samples {
		if s > 1.0001 || s < -1.0001 {
			t.Fatalf("sample %d out of soft-clip range: %v", i, s)
		}
	}
}

func TestRenderOfflineRejectsInvalidSequence(t *testing.T) {
	seq := &Sequence{Notes: []Event{
		{Kind: KindSynth, Start: -1, Duration: 0.2, Algorithm: algorithm.Sine},
	}}
	if _, _, err := RenderOffline(seq, 48000, preset.NewLibrary(), nil, 1); err == nil {
		t.Fatal("expected validation error for negative start")
	}
}

func TestEncodeWAVFloat32LEHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAVFloat32LE(samples, 44100, 2)
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE header: %x", wav[:12])
	}
	if string(wav[36:40]) != "data" {
		t.Fatalf("missing data chunk id: %x", wav[36:40])
	}
	wantLen := 44 + len(samples)*4
	if len(wav) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(wav), wantLen)
	}
}
