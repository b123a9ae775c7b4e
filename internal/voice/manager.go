package voice

import (
	"math"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
	"github.com/alextrzyna/mcp-muse/internal/effects"
)

// StealStrategy selects which active voice is sacrificed when NoteOn
// arrives with no Idle slot available.
type StealStrategy int

const (
	OldestFirst StealStrategy = iota
	LowestPriority
	LowestVolume
)

// Stats is the observability surface: active_voices,
// voices_by_state, total_stolen, total_allocated.
type Stats struct {
	ActiveVoices int
	ByState      map[EnvState]int
	TotalStolen  int64
	TotalAllocated int64
}

// ManagerOption configures a Manager at construction, mirroring the
// teacher's functional-options pattern.
type ManagerOption func(*Manager)

// WithCapacity overrides the default 32-voice capacity.
func WithCapacity(n int) ManagerOption {
	return func(m *Manager) { m.capacity = n }
}

// WithStealStrategy selects the stealing strategy used when the manager is
// at capacity.
func WithStealStrategy(s StealStrategy) ManagerOption {
	return func(m *Manager) { m.strategy = s }
}

// Manager allocates and steals up to Capacity voices and mixes their output
// per sample. It runs single-threaded on the audio-production path;
// callers must serialize NoteOn/NoteOff with Render.
type Manager struct {
	capacity   int
	strategy   StealStrategy
	sampleRate float64
	voices     []Voice
	byNoteID   map[int64]int // noteID -> slot index, for NoteOff lookup

	nextSeed       int64
	totalStolen    int64
	totalAllocated int64
}

// NewManager constructs a Manager with N=32 voices unless overridden by
// WithCapacity.
func NewManager(sampleRate float64, opts ...ManagerOption) *Manager {
	m := &Manager{
		capacity:   32,
		strategy:   OldestFirst,
		sampleRate: sampleRate,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.voices = make([]Voice, m.capacity)
	m.byNoteID = make(map[int64]int, m.capacity)
	return m
}

// NoteOn allocates a voice for noteID, stealing per m.strategy if every
// slot is occupied.
func (m *Manager) NoteOn(noteID int64, kind algorithm.Kind, params algorithm.Params, env Envelope, filter FilterSpec, fx []effects.Effector, duration float64, priority int, velocity int) {
	slot := m.findIdleSlot()
	if slot < 0 {
		slot = m.steal()
		m.totalStolen++
	}
	m.totalAllocated++
	m.nextSeed++
	seed := m.nextSeed ^ noteID<<20
	m.voices[slot].allocate(noteID, seed, kind, params, env, filter, fx, duration, m.sampleRate, priority, velocity)
	m.byNoteID[noteID] = slot
}

// NoteOff transitions the voice owning noteID into Release (envelope
// "NoteOff at sample S ends Sustain at S; Release begins at S"). It is a
// no-op if noteID is unknown (already reclaimed or never allocated).
func (m *Manager) NoteOff(noteID int64) {
	slot, ok := m.byNoteID[noteID]
	if !ok {
		return
	}
	m.voices[slot].noteOff()
}

func (m *Manager) findIdleSlot() int {
	for i := range m.voices {
		if !m.voices[i].Active() {
			return i
		}
	}
	return -1
}

// steal picks a victim per m.strategy, forces it into a 5ms release and
// returns its slot. NoteOn reallocates that slot in the same call, so the
// victim's release is not rendered: it stops at once and the new voice
// starts on the same sample.
func (m *Manager) steal() int {
	victim := 0
	switch m.strategy {
	case LowestPriority:
		best := m.voices[0].Priority()
		bestAge := m.voices[0].AgeSamples()
		for i := 1; i < len(m.voices); i++ {
			p := m.voices[i].Priority()
			a := m.voices[i].AgeSamples()
			if p < best || (p == best && a > bestAge) {
				best, bestAge, victim = p, a, i
			}
		}
	case LowestVolume:
		best := m.voices[0].EnvValue()
		for i := 1; i < len(m.voices); i++ {
			if v := m.voices[i].EnvValue(); v < best {
				best, victim = v, i
			}
		}
	default: // OldestFirst
		best := m.voices[0].AgeSamples()
		for i := 1; i < len(m.voices); i++ {
			if a := m.voices[i].AgeSamples(); a > best {
				best, victim = a, i
			}
		}
	}
	m.voices[victim].forceRelease()
	delete(m.byNoteID, m.voices[victim].NoteID)
	return victim
}

// Render mixes one sample across every active voice and applies soft
// clipping at the bus. send is the summed, unclipped reverb-send level
// (nonzero only for Pad voices), left to the caller to route into a
// shared reverb bus.
func (m *Manager) Render() (mix, send float64) {
	sum := 0.0
	sendSum := 0.0
	for i := range m.voices {
		if m.voices[i].Active() {
			d, s := m.voices[i].Render()
			sum += d
			sendSum += s
		}
		if m.voices[i].envState == Idle && m.voices[i].stolen {
			// Slot is free again immediately; nothing else to do, NoteOn's
			// findIdleSlot will pick it up next time it scans.
			m.voices[i].stolen = false
		}
	}
	return math.Tanh(sum), sendSum
}

// ActiveCount reports how many voices are not Idle.
func (m *Manager) ActiveCount() int {
	n := 0
	for i := range m.voices {
		if m.voices[i].Active() {
			n++
		}
	}
	return n
}

// Stats reports the manager's observability surface.
func (m *Manager) Stats() Stats {
	st := Stats{
		ByState:        make(map[EnvState]int, 5),
		TotalStolen:    m.totalStolen,
		TotalAllocated: m.totalAllocated,
	}
	for i := range m.voices {
		st.ByState[m.voices[i].envState]++
		if m.voices[i].Active() {
			st.ActiveVoices++
		}
	}
	return st
}

// Release forces every active voice into Release, used when the mixer is
// cancelled mid-stream (on cancellation the Voice Manager is released,
// releasing all active voices").
func (m *Manager) Release() {
	for i := range m.voices {
		m.voices[i].noteOff()
	}
}
