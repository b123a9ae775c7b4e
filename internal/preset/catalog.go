package preset

import "github.com/alextrzyna/mcp-muse/internal/algorithm"

// catalog is the built-in preset library: vintage-synthesizer recreations
// mapped onto internal/algorithm kinds, across all eight categories
// a preset library mapping named vintage-synthesizer recreations.
var catalog = []Preset{
	{
		Name:      "Minimoog Bass",
		Category:  Bass,
		Algorithm: algorithm.Sawtooth,
		BaseParams: algorithm.Params{
			Freq: 110,
		},
		BaseEnv:     Envelope{AttackSec: 0.003, DecaySec: 0.15, Sustain: 0.8, ReleaseSec: 0.1},
		Tags:        []string{"analog", "bass", "classic"},
		Inspiration: "Moog Minimoog Model D bass patch",
		Variations: []Variation{
			{Name: "fat", Apply: func(p *algorithm.Params, f *FilterSpec) { p.PulseWidth = 0.5 }},
			{Name: "sub", Apply: func(p *algorithm.Params, f *FilterSpec) { p.Freq /= 2 }},
			{Name: "bright", Apply: func(p *algorithm.Params, f *FilterSpec) {
				*f = FilterSpec{Kind: FilterLP, CutoffHz: 4000, Resonance: 0.05}
			}},
		},
	},
	{
		Name:      "TB-303 Acid Lead",
		Category:  Bass,
		Algorithm: algorithm.Square,
		BaseParams: algorithm.Params{
			Freq:       110,
			PulseWidth: 0.5,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.3, Sustain: 0.2, ReleaseSec: 0.05},
		Tags:        []string{"acid", "bass", "resonant"},
		Inspiration: "Roland TB-303 Bassline",
	},
	{
		Name:      "Juno Pad",
		Category:  Pad,
		Algorithm: algorithm.Pad,
		BaseParams: algorithm.Params{
			Freq:              220,
			HarmonicEvolution: 0.08,
			Warmth:            0.6,
			Movement:          0.3,
			Space:             0.4,
		},
		BaseEnv:     Envelope{AttackSec: 0.6, DecaySec: 0.5, Sustain: 0.9, ReleaseSec: 1.2},
		Tags:        []string{"analog", "pad", "warm"},
		Inspiration: "Roland Juno-106 chorused string pad",
		Variations: []Variation{
			{Name: "bright", Apply: func(p *algorithm.Params, f *FilterSpec) { p.Warmth = 0.2 }},
			{Name: "glacial", Apply: func(p *algorithm.Params, f *FilterSpec) { p.HarmonicEvolution = 0.02 }},
		},
	},
	{
		Name:      "Glass Drone",
		Category:  Pad,
		Algorithm: algorithm.Drone,
		BaseParams: algorithm.Params{
			Freq:           110,
			OvertoneCount:  4,
			OvertoneSpread: 0.6,
			Modulation:     0.15,
		},
		BaseEnv:     Envelope{AttackSec: 1.5, DecaySec: 0.3, Sustain: 1.0, ReleaseSec: 2.0},
		Tags:        []string{"drone", "ambient"},
		Inspiration: "bowed-glass ambient drone",
	},
	{
		Name:      "DX7 E.Piano",
		Category:  Keys,
		Algorithm: algorithm.FM,
		BaseParams: algorithm.Params{
			Freq: 261.63,
			Algo: algorithm.FMCarrierSum,
			Operators: []algorithm.FMOperator{
				{FreqMul: 1, Level: 1.0, AttackSec: 0.002, DecaySec: 0.6, Sustain: 0.4, ReleaseSec: 0.4},
				{FreqMul: 14, Level: 0.5, Feedback: 0.2, AttackSec: 0.001, DecaySec: 0.3, Sustain: 0.0, ReleaseSec: 0.2},
			},
			ModIndex: 2.0,
		},
		BaseEnv:     Envelope{AttackSec: 0.002, DecaySec: 0.6, Sustain: 0.4, ReleaseSec: 0.4},
		Tags:        []string{"fm", "electric-piano", "classic"},
		Inspiration: "Yamaha DX7 \"E.PIANO 1\" patch",
		Variations: []Variation{
			{Name: "bright", Apply: func(p *algorithm.Params, f *FilterSpec) { p.ModIndex = 4.0 }},
		},
	},
	{
		Name:      "CP Tines",
		Category:  Keys,
		Algorithm: algorithm.FM,
		BaseParams: algorithm.Params{
			Freq: 329.63,
			Algo: algorithm.FMCascade,
			Operators: []algorithm.FMOperator{
				{FreqMul: 1, Level: 1.0, AttackSec: 0.001, DecaySec: 0.8, Sustain: 0.3, ReleaseSec: 0.5},
				{FreqMul: 3.5, Level: 0.6, AttackSec: 0.001, DecaySec: 0.2, Sustain: 0.0, ReleaseSec: 0.2},
			},
			ModIndex: 1.2,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.8, Sustain: 0.3, ReleaseSec: 0.5},
		Tags:        []string{"fm", "electric-piano"},
		Inspiration: "tine-style electric piano",
	},
	{
		Name:      "B3 Organ",
		Category:  Organ,
		Algorithm: algorithm.Pad,
		BaseParams: algorithm.Params{
			Freq:              220,
			HarmonicEvolution: 6.0,
			Warmth:            0.1,
			Movement:          0.05,
		},
		BaseEnv:     Envelope{AttackSec: 0.01, DecaySec: 0.01, Sustain: 1.0, ReleaseSec: 0.05},
		Tags:        []string{"organ", "drawbar"},
		Inspiration: "Hammond B3 with fast Leslie",
	},
	{
		Name:      "Pipe Organ",
		Category:  Organ,
		Algorithm: algorithm.Drone,
		BaseParams: algorithm.Params{
			Freq:           110,
			OvertoneCount:  6,
			OvertoneSpread: 0.0,
			Modulation:     0.05,
		},
		BaseEnv:     Envelope{AttackSec: 0.05, DecaySec: 0.02, Sustain: 1.0, ReleaseSec: 0.3},
		Tags:        []string{"organ", "cathedral"},
		Inspiration: "church pipe organ diapason rank",
	},
	{
		Name:      "DX7 Lead",
		Category:  Lead,
		Algorithm: algorithm.FM,
		BaseParams: algorithm.Params{
			Freq: 440,
			Algo: algorithm.FMCarrierSum,
			Operators: []algorithm.FMOperator{
				{FreqMul: 1, Level: 1.0, AttackSec: 0.005, DecaySec: 0.2, Sustain: 0.7, ReleaseSec: 0.2},
				{FreqMul: 2, Level: 0.4, Feedback: 0.3, AttackSec: 0.005, DecaySec: 0.2, Sustain: 0.3, ReleaseSec: 0.2},
				{FreqMul: 3, Level: 0.2, AttackSec: 0.005, DecaySec: 0.3, Sustain: 0.1, ReleaseSec: 0.2},
			},
			ModIndex: 3.0,
		},
		BaseEnv:     Envelope{AttackSec: 0.005, DecaySec: 0.2, Sustain: 0.7, ReleaseSec: 0.2},
		Tags:        []string{"fm", "lead"},
		Inspiration: "Yamaha DX7 brass-lead patch",
	},
	{
		Name:      "Wavetable Synthwave",
		Category:  Lead,
		Algorithm: algorithm.Wavetable,
		BaseParams: algorithm.Params{
			Freq:       440,
			Position:   0.3,
			MorphSpeed: 0.5,
		},
		BaseEnv:     Envelope{AttackSec: 0.01, DecaySec: 0.15, Sustain: 0.6, ReleaseSec: 0.2},
		Tags:        []string{"wavetable", "lead", "modern"},
		Inspiration: "PPG-style wavetable lead",
	},
	{
		Name:      "Arp Pluck",
		Category:  Arp,
		Algorithm: algorithm.Triangle,
		BaseParams: algorithm.Params{
			Freq: 440,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.12, Sustain: 0.0, ReleaseSec: 0.05},
		Tags:        []string{"arp", "pluck"},
		Inspiration: "sequencer-friendly plucked triangle",
	},
	{
		Name:      "Granular Shimmer Arp",
		Category:  Arp,
		Algorithm: algorithm.Granular,
		BaseParams: algorithm.Params{
			Freq:           440,
			Density:        18,
			GrainSize:      0.05,
			Spread:         0.1,
			PitchCoherence: 0.9,
		},
		BaseEnv:     Envelope{AttackSec: 0.01, DecaySec: 0.1, Sustain: 0.7, ReleaseSec: 0.3},
		Tags:        []string{"granular", "arp", "texture"},
		Inspiration: "granular shimmer sequence",
	},
	{
		Name:      "808 Kick",
		Category:  Drums,
		Algorithm: algorithm.PercussionKick,
		BaseParams: algorithm.Params{
			BodyFreq:  55,
			ClickFreq: 1800,
			Sustain:   0.6,
			Punch:     0.7,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.3, Sustain: 0.0, ReleaseSec: 0.2},
		Tags:        []string{"drums", "kick", "808"},
		Inspiration: "Roland TR-808 bass drum",
	},
	{
		Name:      "808 Snare",
		Category:  Drums,
		Algorithm: algorithm.PercussionSnare,
		BaseParams: algorithm.Params{
			ToneFreq: 180,
			Snap:     0.6,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.15, Sustain: 0.0, ReleaseSec: 0.1},
		Tags:        []string{"drums", "snare", "808"},
		Inspiration: "Roland TR-808 snare drum",
	},
	{
		Name:      "808 Hi-Hat",
		Category:  Drums,
		Algorithm: algorithm.PercussionHiHat,
		BaseParams: algorithm.Params{
			Freq:       800,
			Decay:      0.06,
			Brightness: 0.7,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.06, Sustain: 0.0, ReleaseSec: 0.02},
		Tags:        []string{"drums", "hihat", "808"},
		Inspiration: "Roland TR-808 closed hi-hat",
		Variations: []Variation{
			{Name: "open", Apply: func(p *algorithm.Params, f *FilterSpec) { p.Decay = 0.3 }},
		},
	},
	{
		Name:      "Crash Cymbal",
		Category:  Drums,
		Algorithm: algorithm.PercussionCymbal,
		BaseParams: algorithm.Params{
			Freq:            300,
			Size:            1.4,
			StrikeIntensity: 0.8,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 1.2, Sustain: 0.0, ReleaseSec: 0.8},
		Tags:        []string{"drums", "cymbal"},
		Inspiration: "crash cymbal recreation",
	},
	{
		Name:      "Wind Swoosh",
		Category:  Effects,
		Algorithm: algorithm.Swoosh,
		BaseParams: algorithm.Params{
			SweepFromHz: 200,
			SweepToHz:   3000,
			Intensity:   1.0,
		},
		BaseEnv:     Envelope{AttackSec: 0.05, DecaySec: 0.2, Sustain: 0.5, ReleaseSec: 0.3},
		Tags:        []string{"effects", "sweep", "cinematic"},
		Inspiration: "riser/transition sound effect",
		Variations: []Variation{
			{Name: "reverse", Apply: func(p *algorithm.Params, f *FilterSpec) { p.Direction = -1 }},
		},
	},
	{
		Name:      "Laser Zap",
		Category:  Effects,
		Algorithm: algorithm.Zap,
		BaseParams: algorithm.Params{
			Freq:   800,
			Energy: 0.8,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 0.2, Sustain: 0.0, ReleaseSec: 0.1},
		Tags:        []string{"effects", "zap", "retro-game"},
		Inspiration: "8-bit arcade laser sound effect",
	},
	{
		Name:      "Wind Chime",
		Category:  Effects,
		Algorithm: algorithm.Chime,
		BaseParams: algorithm.Params{
			Freq:          880,
			HarmonicCount: 6,
			Inharmonicity: 0.02,
		},
		BaseEnv:     Envelope{AttackSec: 0.001, DecaySec: 1.5, Sustain: 0.0, ReleaseSec: 1.0},
		Tags:        []string{"effects", "chime", "percussive"},
		Inspiration: "tubular wind chime",
	},
}
