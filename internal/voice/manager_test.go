package voice

import (
	"testing"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
)

func sineParams() algorithm.Params { return algorithm.Params{Freq: 440} }

func TestManagerAllocatesUpToCapacityWithoutStealing(t *testing.T) {
	m := NewManager(48000, WithCapacity(4))
	for i := int64(1); i <= 4; i++ {
		m.NoteOn(i, algorithm.Sine, sineParams(), Envelope{}, FilterSpec{}, nil, 1, 0, 100)
	}
	st := m.Stats()
	if st.ActiveVoices != 4 {
		t.Fatalf("active voices = %d, want 4", st.ActiveVoices)
	}
	if st.TotalStolen != 0 {
		t.Fatalf("expected no stealing within capacity, got %d", st.TotalStolen)
	}
}

func TestManagerLowestPriorityStealsQuietestVelocityFirst(t *testing.T) {
	m := NewManager(48000, WithCapacity(2), WithStealStrategy(LowestPriority))
	m.NoteOn(1, algorithm.Sine, sineParams(), Envelope{}, FilterSpec{}, nil, 1, 20, 20)  // low priority
	m.NoteOn(2, algorithm.Sine, sineParams(), Envelope{}, FilterSpec{}, nil, 1, 120, 120) // high priority
	// Capacity is full; a third NoteOn must steal voice 1 (lowest priority).
	m.NoteOn(3, algorithm.Sine, sineParams(), Envelope{}, FilterSpec{}, nil, 1, 80, 80)

	if m.Stats().TotalStolen != 1 {
		t.Fatalf("expected exactly one steal, got %d", m.Stats().TotalStolen)
	}
	if _, ok := m.byNoteID[2]; !ok {
		t.Fatal("expected the higher-priority voice (noteID 2) to survive the steal")
	}
	if _, ok := m.byNoteID[1]; ok {
		t.Fatal("expected the lowest-priority voice (noteID 1) to have been stolen")
	}
}

func TestManagerNoteOffIsNoOpForUnknownNoteID(t *testing.T) {
	m := NewManager(48000)
	m.NoteOff(9999) // must not panic
}

func TestManagerRenderStaysBoundedWithAllVoicesActive(t *testing.T) {
	m := NewManager(48000, WithCapacity(32))
	for i := int64(1); i <= 32; i++ {
		m.NoteOn(i, algorithm.Sine, algorithm.Params{Freq: 220 + float64(i)*10}, Envelope{}, FilterSpec{}, nil, 1, 100, 100)
	}
	for i := 0; i < 1000; i++ {
		s, _ := m.Render()
		if s > 1.0001 || s < -1.0001 {
			t.Fatalf("sample %d = %v, outside soft-clip bounds with 32 active voices", i, s)
		}
	}
}

func TestManagerRenderRoutesPadSpaceToReverbSend(t *testing.T) {
	m := NewManager(48000, WithCapacity(1))
	m.NoteOn(1, algorithm.Pad, algorithm.Params{Freq: 220, Space: 0.8}, Envelope{AttackSec: 0.001, DecaySec: 0.01, Sustain: 1, ReleaseSec: 0.01}, FilterSpec{}, nil, 1, 100, 100)
	var sawSend bool
	for i := 0; i < 2000; i++ {
		if _, send := m.Render(); send != 0 {
			sawSend = true
			break
		}
	}
	if !sawSend {
		t.Fatal("expected a Pad voice with Space>0 to contribute a nonzero reverb send")
	}

	m2 := NewManager(48000, WithCapacity(1))
	m2.NoteOn(1, algorithm.Sine, sineParams(), Envelope{AttackSec: 0.001, DecaySec: 0.01, Sustain: 1, ReleaseSec: 0.01}, FilterSpec{}, nil, 1, 100, 100)
	for i := 0; i < 100; i++ {
		if _, send := m2.Render(); send != 0 {
			t.Fatalf("expected a Sine voice to contribute no reverb send, got %v", send)
		}
	}
}

func TestManagerReleaseForcesEveryActiveVoiceIntoRelease(t *testing.T) {
	m := NewManager(48000, WithCapacity(3))
	for i := int64(1); i <= 3; i++ {
		m.NoteOn(i, algorithm.Sine, sineParams(), Envelope{AttackSec: 0.001, DecaySec: 0.001, Sustain: 1, ReleaseSec: 0.05}, FilterSpec{}, nil, 10, 100, 100)
	}
	m.Release()
	for i := range m.voices {
		if m.voices[i].envState != Release && m.voices[i].envState != Idle {
			t.Fatalf("voice %d expected to be in Release (or already Idle), got state %v", i, m.voices[i].envState)
		}
	}
}
