// ABOUTME: Entry point for the offline warble renderer
// ABOUTME: Parses CLI flags and processes audio files through the chain
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Warble-Audio/warble-go/internal/render"
	"github.com/Warble-Audio/warble-go/pkg/synth"
)

var (
	inFile   = flag.String("in", "", "Input audio file (WAV or MP3). If not specified, renders a synth voice")
	outFile  = flag.String("out", "out.wav", "Output WAV file path")
	duration = flag.Float64("duration", 5.0, "Voice render duration in seconds (no -in only)")

	wave      = flag.String("wave", "sine", "Waveform for voice rendering: sine, square, saw, triangle, blip")
	frequency = flag.Float64("freq", 440, "Oscillator frequency in Hz (no -in only)")

	combType  = flag.String("comb", "", "Comb filter type: fir or iir (empty disables)")
	combDelay = flag.Float64("comb-delay", 0.05, "Comb delay in seconds")
	combGain  = flag.Float64("comb-gain", 0.5, "Comb feedback gain")

	modFreq  = flag.Float64("mod-freq", 0, "Vibrato LFO frequency in Hz")
	modDepth = flag.Float64("mod-depth", 0, "Vibrato depth in seconds (0 disables)")

	delay = flag.Float64("delay", 0, "Tail delay in seconds")
	gain  = flag.Float64("gain", 1.0, "Output gain")
)

func main() {
	flag.Parse()

	log.SetOutput(os.Stderr)

	if *inFile == "" {
		if err := renderVoice(); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	} else {
		if err := renderFile(); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	}

	fmt.Printf("Wrote %s\n", *outFile)
}

// renderFile processes an input file through the effect chain.
func renderFile() error {
	opts := render.Options{
		CombDelaySeconds: *combDelay,
		ModFreqHz:        *modFreq,
		ModDepthSeconds:  *modDepth,
		DelaySeconds:     *delay,
		OutputGain:       *gain,
	}
	if *combType != "" {
		opts.CombType = synth.ParseFilterType(*combType)
		opts.CombGain = *combGain
	}
	return render.RenderFile(*inFile, *outFile, opts)
}

// renderVoice generates a synth voice offline.
func renderVoice() error {
	gc := synth.GraphConfig{
		Wave:         synth.ParseWaveform(*wave),
		FrequencyHz:  *frequency,
		DelaySeconds: *delay,
		OutputGain:   *gain,
	}
	if *combType != "" {
		gc.Comb = &synth.CombConfig{
			Type:         synth.ParseFilterType(*combType),
			DelaySeconds: *combDelay,
			Gain:         *combGain,
		}
	}
	if *modDepth > 0 {
		gc.EnableVibrato = true
		gc.MaxModDepthSeconds = *modDepth
		gc.ModFreqHz = *modFreq
		gc.ModDepthSeconds = *modDepth
	}
	return render.RenderVoice(*outFile, gc, *duration)
}
