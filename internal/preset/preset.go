// Package preset implements the preset library and resolver: named
// vintage-synthesizer recreations mapped onto
// internal/algorithm kinds and parameters.
package preset

import (
	"fmt"
	"math/rand"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
)

// Category groups presets.
type Category int

const (
	Bass Category = iota
	Pad
	Lead
	Keys
	Organ
	Arp
	Drums
	Effects
)

func (c Category) String() string {
	names := [...]string{"Bass", "Pad", "Lead", "Keys", "Organ", "Arp", "Drums", "Effects"}
	if int(c) < 0 || int(c) >= len(names) {
		return "unknown"
	}
	return names[c]
}

// Variation is a named parameter overlay (preset variations, resolution
// 3: "shallow merge of parameter overrides"). Apply mutates a clone of the
// preset's base params and (optionally) its base filter in place.
type Variation struct {
	Name  string
	Apply func(*algorithm.Params, *FilterSpec)
}

// Preset is a named record mapping onto one C1 algorithm and a base
// parameter set. Immutable after the library is built.
type Preset struct {
	Name        string
	Category    Category
	Algorithm   algorithm.Kind
	BaseParams  algorithm.Params
	BaseEnv     Envelope
	BaseFilter  FilterSpec
	Variations  []Variation
	Tags        []string
	Inspiration string
}

// Envelope mirrors internal/voice.Envelope so this package does not import
// internal/voice (which would create an import cycle through the root
// package that wires both together).
type Envelope struct {
	AttackSec  float64
	DecaySec   float64
	Sustain    float64
	ReleaseSec float64
}

// FilterKind mirrors internal/voice.FilterKind, for the same import-cycle
// reason as Envelope above.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterLP
	FilterHP
	FilterBP
)

// FilterSpec mirrors internal/voice.FilterSpec: a preset (or one of its
// variations, e.g. Minimoog Bass's "bright") can carry a per-voice filter
// overlay alongside its base params.
type FilterSpec struct {
	Kind      FilterKind
	CutoffHz  float64
	Resonance float64
}

func (p *Preset) variation(name string) (Variation, bool) {
	for _, v := range p.Variations {
		if v.Name == name {
			return v, true
		}
	}
	return Variation{}, false
}

// Library is the immutable, read-only-shared preset index ("loaded once
// at startup into three indexes").
type Library struct {
	byName     map[string]*Preset
	byCategory map[Category][]*Preset
	byTag      map[string][]*Preset
	all        []*Preset
}

// NewLibrary builds the three indexes from the built-in catalog
// (catalog.go).
func NewLibrary() *Library {
	lib := &Library{
		byName:     make(map[string]*Preset),
		byCategory: make(map[Category][]*Preset),
		byTag:      make(map[string][]*Preset),
	}
	for i := range catalog {
		p := &catalog[i]
		lib.all = append(lib.all, p)
		lib.byName[p.Name] = p
		lib.byCategory[p.Category] = append(lib.byCategory[p.Category], p)
		for _, tag := range p.Tags {
			lib.byTag[tag] = append(lib.byTag[tag], p)
		}
	}
	return lib
}

// Exists reports whether name is a known preset; used at ingest validation.
func (lib *Library) Exists(name string) bool {
	_, ok := lib.byName[name]
	return ok
}

// CategoryNonEmpty reports whether category has at least one preset.
func (lib *Library) CategoryNonEmpty(c Category) bool {
	return len(lib.byCategory[c]) > 0
}

// List returns every preset, for list_presets.
func (lib *Library) List() []*Preset {
	return lib.all
}

// Selector names which of by_name/by_category/random a PresetEvent uses
// (PresetEvent field, resolved at ingest time).
type Selector struct {
	ByName     string
	ByCategory Category
	HasCategory bool
	Random     bool
	Variation  string
}

// Resolve maps a Selector to a concrete algorithm kind and parameter set
// direct lookup for by_name (fail if missing), uniform random pick
// within category for by_category (fail if empty), uniform random over all
// for random. If Variation is set and the preset defines it, the overlay is
// applied; an unknown variation falls back to the base preset ("unknown
// variation -> resolve base preset and warn" — the warning is surfaced via
// the bool return).
func (lib *Library) Resolve(sel Selector, rng *rand.Rand) (algorithm.Kind, algorithm.Params, Envelope, FilterSpec, bool, error) {
	var p *Preset
	switch {
	case sel.ByName != "":
		found, ok := lib.byName[sel.ByName]
		if !ok {
			return 0, algorithm.Params{}, Envelope{}, FilterSpec{}, false, fmt.Errorf("unknown preset %q", sel.ByName)
		}
		p = found
	case sel.HasCategory:
		options := lib.byCategory[sel.ByCategory]
		if len(options) == 0 {
			return 0, algorithm.Params{}, Envelope{}, FilterSpec{}, false, fmt.Errorf("preset category %v has no members", sel.ByCategory)
		}
		p = options[rng.Intn(len(options))]
	case sel.Random:
		if len(lib.all) == 0 {
			return 0, algorithm.Params{}, Envelope{}, FilterSpec{}, false, fmt.Errorf("preset library is empty")
		}
		p = lib.all[rng.Intn(len(lib.all))]
	default:
		return 0, algorithm.Params{}, Envelope{}, FilterSpec{}, false, fmt.Errorf("preset selector sets none of by_name/by_category/random")
	}

	params := p.BaseParams
	filter := p.BaseFilter
	variationApplied := true
	if sel.Variation != "" {
		if v, ok := p.variation(sel.Variation); ok {
			v.Apply(&params, &filter)
		} else {
			variationApplied = false // unknown variation: resolved base, caller should warn
		}
	}
	return p.Algorithm, params, p.BaseEnv, filter, variationApplied, nil
}
