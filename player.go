package muse

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	intaudio "github.com/alextrzyna/mcp-muse/internal/audio"
	intfx "github.com/alextrzyna/mcp-muse/internal/effects"
	"github.com/alextrzyna/mcp-muse/internal/preset"
	"github.com/alextrzyna/mcp-muse/internal/soundfont"
	"github.com/alextrzyna/mcp-muse/internal/voice"
)

// PlaybackEvent carries playback state transitions from Watch().
type PlaybackEvent struct {
	Kind int // EventPlaybackEnded
}

const (
	EventPlaybackEnded int = iota
)

// PlayerOption configures a Player at construction.
type PlayerOption func(*playerConfig)

type playerConfig struct {
	soundfontPath  string
	soundfontBytes []byte
	voiceOpts      []voice.ManagerOption
	masterEffects  []intfx.Effector
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{}
}

// WithSoundfontPath loads an SF2 file from disk at NewPlayer time. MidiEvents
// are rejected at Play if no soundfont was configured.
func WithSoundfontPath(path string) PlayerOption {
	return func(cfg *playerConfig) { cfg.soundfontPath = path }
}

// WithSoundfontBytes supplies SF2 data already read into memory, bypassing
// the filesystem read WithSoundfontPath performs.
func WithSoundfontBytes(data []byte) PlayerOption {
	return func(cfg *playerConfig) { cfg.soundfontBytes = data }
}

// WithVoiceManagerOptions forwards options to the Voice Manager backing
// every Play call (capacity, steal strategy).
func WithVoiceManagerOptions(opts ...voice.ManagerOption) PlayerOption {
	return func(cfg *playerConfig) { cfg.voiceOpts = append(cfg.voiceOpts, opts...) }
}

// WithMasterEffects installs a fixed post-mix effects chain (distortion, EQ,
// compressor, ...) applied after the Mixer's own soft clip and before the
// 5-band master EQ.
func WithMasterEffects(effectors ...intfx.Effector) PlayerOption {
	return func(cfg *playerConfig) { cfg.masterEffects = append(cfg.masterEffects, effectors...) }
}

// Player is the top-level handle for play_sequence/list_presets: it owns the
// preset library, an optional SoundFont adapter, and the single shared audio
// output stream, and constructs a fresh Mixer for each Play call.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	presets    *preset.Library
	sf         *soundfont.Adapter
	voiceOpts  []voice.ManagerOption
	masterFX   []intfx.Effector
	masterEQ   *intfx.EQ5Band

	mixer     *Mixer
	audio     *intaudio.Player
	done      chan struct{}
	eventCh   chan PlaybackEvent
	eventChMu sync.Mutex
}

// eventWrapper wraps a Mixer and applies the master effects chain + EQ.
type eventWrapper struct {
	mixer     *Mixer
	masterFX  []intfx.Effector
	masterEQ  *intfx.EQ5Band
	sampleTap func([]float32)
	onEnded   func()
	signaled  atomic.Bool
}

func (w *eventWrapper) Process(dst []float32) {
	w.mixer.Process(dst)
	for _, eff := range w.masterFX {
		for i := 0; i+1 < len(dst); i += 2 {
			dst[i], dst[i+1] = eff.Process(dst[i], dst[i+1])
		}
	}
	if w.masterEQ != nil {
		for i := 0; i+1 < len(dst); i += 2 {
			dst[i], dst[i+1] = w.masterEQ.Process(dst[i], dst[i+1])
		}
	}
	if w.sampleTap != nil {
		w.sampleTap(dst)
	}
	if w.mixer.Finished() && !w.signaled.Swap(true) && w.onEnded != nil {
		w.onEnded()
	}
}

func (w *eventWrapper) Finished() bool { return w.mixer.Finished() }

// NewPlayer constructs a Player at sampleRate, loading a SoundFont if one was
// configured via WithSoundfontPath/WithSoundfontBytes.
func NewPlayer(sampleRate int, presets *preset.Library, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var sf *soundfont.Adapter
	sfData := cfg.soundfontBytes
	if sfData == nil && cfg.soundfontPath != "" {
		raw, err := os.ReadFile(cfg.soundfontPath)
		if err != nil {
			return nil, &ResourceError{Resource: cfg.soundfontPath, Cause: err}
		}
		sfData = raw
	}
	if sfData != nil {
		adapter, err := soundfont.New(sfData, sampleRate)
		if err != nil {
			return nil, &ResourceError{Resource: cfg.soundfontPath, Cause: err}
		}
		sf = adapter
	}

	return &Player{
		sampleRate: sampleRate,
		presets:    presets,
		sf:         sf,
		voiceOpts:  cfg.voiceOpts,
		masterFX:   cfg.masterEffects,
		masterEQ:   intfx.NewEQ5Band(sampleRate),
	}, nil
}

// Play ingests seq into a fresh Mixer and starts playback on the shared
// audio output stream, replacing any currently playing sequence.
func (p *Player) Play(seq *Sequence) (Acknowledgment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done != nil {
		close(p.done)
	}
	p.done = make(chan struct{})

	if p.sf == nil {
		for i := range seq.Notes {
			if seq.Notes[i].Kind == KindMidi {
				return Acknowledgment{}, &ResourceError{Resource: "soundfont"}
			}
		}
	}

	mixer := NewMixer(float64(p.sampleRate), p.presets, p.sf, WithVoiceManagerOptions(p.voiceOpts...))
	ack, err := mixer.Ingest(seq)
	if err != nil {
		return Acknowledgment{}, err
	}
	p.mixer = mixer

	wrapper := &eventWrapper{
		mixer:    mixer,
		masterFX: p.masterFX,
		masterEQ: p.masterEQ,
	}
	wrapper.onEnded = func() {
		p.sendEvent(PlaybackEvent{Kind: EventPlaybackEnded})
		p.signalDone()
	}

	backend, err := intaudio.NewPlayer(p.sampleRate, wrapper)
	if err != nil {
		return Acknowledgment{}, fmt.Errorf("start audio output: %w", err)
	}
	if p.audio != nil {
		_ = p.audio.Stop()
	}
	p.audio = backend
	p.audio.Play()
	return ack, nil
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (p *Player) signalDone() {
	p.mu.Lock()
	done := p.done
	p.done = nil
	p.mu.Unlock()
	if done != nil {
		close(done)
	}
}

// Pause pauses the audio output stream without cancelling the Mixer.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

// Resume resumes a paused audio output stream.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

// Stop cancels the active Mixer (forcing every voice into Release) and stops
// the audio output stream.
func (p *Player) Stop() error {
	p.mu.Lock()
	if p.audio == nil {
		p.mu.Unlock()
		return nil
	}
	if p.mixer != nil {
		p.mixer.Cancel()
	}
	err := p.audio.Stop()
	p.audio = nil
	done := p.done
	p.done = nil
	p.mu.Unlock()
	p.sendEvent(PlaybackEvent{Kind: EventPlaybackEnded})
	if done != nil {
		close(done)
	}
	return err
}

// Wait blocks until the current playback ends, or returns immediately if
// nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a channel that receives an EventPlaybackEnded event when the
// current Mixer reaches end_sample or is cancelled. The channel is buffered
// (cap 8); only the most recently returned channel receives events.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 8)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

// SetMasterVolume sets the runtime master gain scalar. 1.0 is unity.
func (p *Player) SetMasterVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	p.mu.Lock()
	mixer := p.mixer
	p.mu.Unlock()
	if mixer != nil {
		mixer.SetMasterGain(volume)
	}
}

// MasterVolume returns the current runtime master gain scalar.
func (p *Player) MasterVolume() float64 {
	p.mu.Lock()
	mixer := p.mixer
	p.mu.Unlock()
	if mixer == nil {
		return 1.0
	}
	return mixer.MasterGain()
}

// SetEQBand sets the gain for a master EQ band (0-4). 1.0 = unity.
// Band frequencies: 0=<200Hz, 1=200-800Hz, 2=800-2.5kHz, 3=2.5-8kHz, 4=>8kHz.
// Takes effect immediately on the audio thread (lock-free).
func (p *Player) SetEQBand(band int, gain float32) {
	p.masterEQ.SetGain(band, gain)
}

// EQBand returns the current gain for a master EQ band (0-4).
func (p *Player) EQBand(band int) float32 {
	return p.masterEQ.Gain(band)
}

// PlaybackPosition returns the current output position of the audio driver,
// i.e. what the listener actually hears right now, as a sample index.
// Returns 0 if not playing.
func (p *Player) PlaybackPosition() int64 {
	p.mu.Lock()
	a := p.audio
	p.mu.Unlock()
	if a == nil {
		return 0
	}
	pos := a.Position()
	return int64(pos.Seconds() * float64(p.sampleRate))
}

// ListPresets returns every preset in the library.
func (p *Player) ListPresets() []*preset.Preset {
	return p.presets.List()
}

// VoiceStats exposes the active Mixer's voice manager statistics, or the
// zero value if nothing is currently playing.
func (p *Player) VoiceStats() voice.Stats {
	p.mu.Lock()
	mixer := p.mixer
	p.mu.Unlock()
	if mixer == nil {
		return voice.Stats{}
	}
	return mixer.VoiceStats()
}
