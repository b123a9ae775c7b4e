package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	muse "github.com/alextrzyna/mcp-muse"
	"github.com/alextrzyna/mcp-muse/internal/preset"
)

func main() {
	var (
		sampleRate   = flag.Int("sample-rate", 44100, "output sample rate")
		sequencePath = flag.String("sequence", "", "path to a play_sequence JSON file")
		soundfont    = flag.String("soundfont", "", "path to a General-MIDI SF2 soundfont (required if the sequence has MidiEvents)")
		volume       = flag.Float64("volume", 1.0, "master volume scalar")
		listOnly     = flag.Bool("list-presets", false, "print the preset catalog and exit")
	)
	flag.Parse()

	presets := preset.NewLibrary()

	if *listOnly {
		for _, p := range presets.List() {
			fmt.Printf("%-24s %-8s %v\n", p.Name, p.Category, p.Tags)
		}
		return
	}

	if *sequencePath == "" {
		log.Fatal("-sequence is required (or pass -list-presets)")
	}
	raw, err := os.ReadFile(*sequencePath)
	if err != nil {
		log.Fatal(err)
	}
	var seq muse.Sequence
	if err := json.Unmarshal(raw, &seq); err != nil {
		log.Fatalf("parse sequence: %v", err)
	}

	var opts []muse.PlayerOption
	if *soundfont != "" {
		opts = append(opts, muse.WithSoundfontPath(*soundfont))
	}
	pl, err := muse.NewPlayer(*sampleRate, presets, opts...)
	if err != nil {
		log.Fatal(err)
	}

	ch := pl.Watch()
	ack, err := pl.Play(&seq)
	if err != nil {
		log.Fatal(err)
	}
	pl.SetMasterVolume(*volume)
	fmt.Printf("playing %d notes (%d midi, %d synth, %d emotion, %d preset), %.2fs\n",
		len(seq.Notes), ack.MidiCount, ack.SynthCount, ack.EmotionCount, ack.PresetCount, ack.DurationSec)

	for event := range ch {
		if event.Kind == muse.EventPlaybackEnded {
			fmt.Println("playback completed")
			break
		}
	}
	pl.Wait()
}
