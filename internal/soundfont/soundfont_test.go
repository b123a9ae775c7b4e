package soundfont

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

func TestNewRejectsInvalidSoundfontData(t *testing.T) {
	if _, err := New([]byte("not a soundfont"), 44100); err == nil {
		t.Fatal("expected an error parsing invalid SF2 data")
	}
}

func TestControllerConstantsMatchGMControlNumbers(t *testing.T) {
	cases := map[Controller]int{Volume: 7, Pan: 10, Expression: 11, Reverb: 91, Chorus: 93}
	for c, want := range cases {
		if int(c) != want {
			t.Fatalf("controller %v = %d, want %d", c, int(c), want)
		}
	}
}

func TestExtractMIDIComponentsDecodesNoteOn(t *testing.T) {
	channel, command, data1, data2 := extractMIDIComponents(midi.NoteOn(3, 60, 100))
	if channel != 3 {
		t.Fatalf("channel = %d, want 3", channel)
	}
	if command != 0x90 {
		t.Fatalf("command = %#x, want 0x90 (note-on)", command)
	}
	if data1 != 60 || data2 != 100 {
		t.Fatalf("data1/data2 = %d/%d, want 60/100", data1, data2)
	}
}

func TestExtractMIDIComponentsHandlesEmptyMessage(t *testing.T) {
	channel, command, data1, data2 := extractMIDIComponents(midi.Message{})
	if channel != 0 || command != 0 || data1 != 0 || data2 != 0 {
		t.Fatal("expected all-zero decode for an empty message")
	}
}
