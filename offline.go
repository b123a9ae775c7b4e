package muse

import (
	"encoding/binary"
	"math"

	"github.com/alextrzyna/mcp-muse/internal/preset"
	"github.com/alextrzyna/mcp-muse/internal/soundfont"
)

// RenderOffline ingests seq into a standalone Mixer and drains it to
// completion (through end_sample, which already includes the release tail, or until maxSeconds is
// reached, whichever comes first), returning the mono samples produced. It
// does not touch the shared audio output stream, so it is safe to call
// without a Player or any prior playback.
func RenderOffline(seq *Sequence, sampleRate int, presets *preset.Library, sf *soundfont.Adapter, maxSeconds float64) ([]float32, Acknowledgment, error) {
	mixer := NewMixer(float64(sampleRate), presets, sf)
	ack, err := mixer.Ingest(seq)
	if err != nil {
		return nil, Acknowledgment{}, err
	}

	maxFrames := int(float64(sampleRate) * maxSeconds)
	out := make([]float32, maxFrames)
	n := mixer.RenderMono(out)
	return out[:n], ack, nil
}

// EncodeWAVFloat32LE wraps raw samples in a minimal 32-bit float PCM WAV
// container (format tag 3).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
