// Package soundfont adapts github.com/sinshu/go-meltysynth/meltysynth into
// the General-MIDI synth contract: accept
// note-on/off, program-change and controller events on 16 channels, and
// produce interleaved stereo samples pulled one at a time by the Mixer.
package soundfont

import (
	"bytes"
	"fmt"

	"github.com/sinshu/go-meltysynth/meltysynth"
	"gitlab.com/gomidi/midi/v2"
)

// Controller identifies one of the five GM controllers this adapter
// forwards.
type Controller int

const (
	Volume     Controller = 7
	Pan        Controller = 10
	Reverb     Controller = 91
	Chorus     Controller = 93
	Expression Controller = 11
)

// Adapter wraps a single meltysynth.Synthesizer. It is single-owner, not
// shared across threads (single-owner: only the mixer touches it).
type Adapter struct {
	synth *meltysynth.Synthesizer

	// Single-frame scratch buffers, reused across Render calls so the
	// production loop never allocates.
	frameL, frameR []float32
}

// New parses sfData as an SF2 soundfont and constructs the synthesizer at
// sampleRate. A parse failure is a ResourceError-class condition at the
// caller (construction-time).
func New(sfData []byte, sampleRate int) (*Adapter, error) {
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(sfData))
	if err != nil {
		return nil, fmt.Errorf("parse soundfont: %w", err)
	}
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	synth, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}
	return &Adapter{synth: synth, frameL: make([]float32, 1), frameR: make([]float32, 1)}, nil
}

func (a *Adapter) send(msg midi.Message) {
	channel, command, data1, data2 := extractMIDIComponents(msg)
	a.synth.ProcessMidiMessage(int32(channel), int32(command), int32(data1), int32(data2))
}

// NoteOn starts pitch on channel at velocity (0..127).
func (a *Adapter) NoteOn(channel, pitch, velocity int) {
	a.send(midi.NoteOn(uint8(channel), uint8(pitch), uint8(velocity)))
}

// NoteOff stops pitch on channel.
func (a *Adapter) NoteOff(channel, pitch int) {
	a.send(midi.NoteOff(uint8(channel), uint8(pitch)))
}

// ProgramChange selects a GM instrument (0..127) on channel.
func (a *Adapter) ProgramChange(channel, program int) {
	a.send(midi.ProgramChange(uint8(channel), uint8(program)))
}

// SetController sends a controller change on channel (the five controllers:
// volume=7, pan=10, reverb=91, chorus=93, expression=11).
func (a *Adapter) SetController(channel int, c Controller, value int) {
	a.send(midi.ControlChange(uint8(channel), uint8(c), uint8(value)))
}

// Render renders one stereo frame. The Mixer calls this once per output
// sample, interleaving it with event delivery ("rendering is driven
// per sample by the Mixer").
func (a *Adapter) Render() (left, right float32) {
	a.synth.Render(a.frameL, a.frameR)
	return a.frameL[0], a.frameR[0]
}

// extractMIDIComponents decodes a gomidi message's raw bytes into the
// (channel, command, data1, data2) tuple meltysynth.ProcessMidiMessage
// expects.
func extractMIDIComponents(msg midi.Message) (channel, command, data1, data2 byte) {
	raw := msg.Bytes()
	if len(raw) == 0 {
		return 0, 0, 0, 0
	}
	status := raw[0]
	if status >= 0x80 && status < 0xF0 {
		channel = status & 0x0F
		command = status & 0xF0
	} else {
		channel = 0
		command = status
	}
	if len(raw) > 1 {
		data1 = raw[1]
	}
	if len(raw) > 2 {
		data2 = raw[2]
	}
	return channel, command, data1, data2
}
