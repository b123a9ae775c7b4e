package algorithm

// Sample produces one un-enveloped sample for kind at local time tLocal
// (seconds since note-on), advancing whatever running state st holds for
// generators that need it (noise, FM operators, grains, LFOs). duration is
// the note's total length in seconds, used by shape-over-note algorithms
// (Swoosh, Zap, Burst); pass 0 if unknown.
func Sample(kind Kind, tLocal, duration, sampleRate float64, p Params, st *State) float64 {
	dt := 1 / sampleRate
	switch kind {
	case Sine:
		return sine(tLocal, p)
	case Square:
		return square(tLocal, p)
	case Sawtooth:
		return sawtooth(tLocal, p)
	case Triangle:
		return triangle(tLocal, p)
	case Noise:
		return noiseSample(st, p)
	case FM:
		return fm(tLocal, dt, p, st)
	case Wavetable:
		return wavetable(tLocal, dt, p, st)
	case Granular:
		return granular(dt, p, st)
	case PercussionKick:
		return percussionKick(tLocal, p)
	case PercussionSnare:
		return percussionSnare(tLocal, p, st)
	case PercussionHiHat:
		return percussionHiHat(tLocal, p, st)
	case PercussionCymbal:
		return percussionCymbal(tLocal, dt, p, st)
	case Swoosh:
		return swoosh(tLocal, duration, dt, p, st)
	case Zap:
		return zap(tLocal, p, st)
	case Chime:
		return chime(tLocal, dt, p, st)
	case Burst:
		return burst(tLocal, duration, dt, p, st)
	case Pad:
		dry, _ := pad(tLocal, dt, p, st)
		return dry
	case Texture:
		return texture(tLocal, dt, p, st)
	case Drone:
		return drone(tLocal, dt, p, st)
	default:
		return 0
	}
}

// SampleWithSend is the Pad-aware variant of Sample that also returns the
// effects-send level (a pad's "space" parameter adds a reverb send). The
// voice layer calls it for every voice; only Pad returns a nonzero send, so
// Space can route into the bus reverb instead of being folded into the dry
// signal twice.
func SampleWithSend(kind Kind, tLocal, duration, sampleRate float64, p Params, st *State) (dry, send float64) {
	if kind == Pad {
		dt := 1 / sampleRate
		return pad(tLocal, dt, p, st)
	}
	return Sample(kind, tLocal, duration, sampleRate, p, st), 0
}
