// ABOUTME: Entry point for the interactive warble synth player
// ABOUTME: Parses CLI flags, starts the engine and drives the TUI
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Warble-Audio/warble-go/internal/control"
	"github.com/Warble-Audio/warble-go/internal/ui"
	"github.com/Warble-Audio/warble-go/pkg/audio"
	"github.com/Warble-Audio/warble-go/pkg/audio/output"
	"github.com/Warble-Audio/warble-go/pkg/engine"
	"github.com/Warble-Audio/warble-go/pkg/synth"
)

var (
	sampleRate  = flag.Int("rate", synth.DefaultSampleRate, "Output sample rate in Hz")
	blockSize   = flag.Int("block", synth.DefaultBlockSize, "Samples per processing block")
	backend     = flag.String("backend", "oto", "Audio backend: oto, malgo, portaudio, headless")
	controlPort = flag.Int("control-port", 0, "WebSocket control port (0 disables)")
	logFile     = flag.String("log-file", "warble.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs  = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		multiWriter := io.MultiWriter(os.Stdout, f)
		log.SetOutput(multiWriter)
	}

	sink, err := sinkFactory(*backend)
	if err != nil {
		log.Fatalf("Invalid backend: %v", err)
	}

	eng := engine.New(engine.Config{
		Format:    audio.Format{SampleRate: *sampleRate, Channels: 1},
		BlockSize: *blockSize,
		NewSink:   sink,
	})
	defer eng.Close()

	log.Printf("Warble starting: backend=%s rate=%d block=%d", *backend, *sampleRate, *blockSize)

	// Optional remote control surface
	var ctrlServer *control.Server
	if *controlPort != 0 {
		ctrlServer = control.New(control.Config{Port: *controlPort}, eng)
		go func() {
			if err := ctrlServer.Start(); err != nil {
				log.Printf("Control server error: %v", err)
			}
		}()
	}

	// TUI setup
	var tuiProg *tea.Program
	var tuiCtrl *ui.Control

	if useTUI {
		tuiCtrl = ui.NewControl()
		tuiProg, err = ui.Run(tuiCtrl)
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()

		go handleActions(eng, tuiCtrl)
		go statsUpdateLoop(eng, tuiProg)
	} else {
		log.Printf("TUI disabled - playing default voice")
		if _, err := eng.Play(synth.GraphConfig{Wave: synth.Sine}); err != nil {
			log.Fatalf("Failed to start playback: %v", err)
		}
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if tuiCtrl != nil {
		select {
		case <-tuiCtrl.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	if ctrlServer != nil {
		ctrlServer.Stop()
	}
	if err := eng.Close(); err != nil {
		log.Printf("Error closing engine: %v", err)
	}

	log.Printf("Warble stopped")
}

// sinkFactory maps a backend name to its sink constructor.
func sinkFactory(name string) (output.Factory, error) {
	switch name {
	case "oto":
		return output.NewOto, nil
	case "malgo":
		return output.NewMalgo, nil
	case "portaudio":
		return output.NewPortAudio, nil
	case "headless":
		return output.NewHeadless, nil
	}
	return nil, fmt.Errorf("unknown audio backend: %s", name)
}

// handleActions applies TUI control requests to the engine. The TUI
// drives a single voice at a time.
func handleActions(eng *engine.Engine, ctrl *ui.Control) {
	var voice *engine.Handle

	for {
		select {
		case a := <-ctrl.Actions:
			switch a.Kind {
			case ui.ActionPlay:
				if voice != nil {
					continue
				}
				h, err := eng.Play(synth.GraphConfig{Wave: synth.ParseWaveform(a.Wave)})
				if err != nil {
					log.Printf("Play failed: %v", err)
					continue
				}
				voice = h
			case ui.ActionFree:
				if voice == nil {
					continue
				}
				if err := voice.Free(); err != nil {
					log.Printf("Free failed: %v", err)
				}
				voice = nil
			case ui.ActionSetParam:
				if voice == nil {
					continue
				}
				if err := voice.SetParam(a.Name, a.Value); err != nil {
					log.Printf("SetParam %s failed: %v", a.Name, err)
				}
			}
		case <-ctrl.Quit:
			return
		}
	}
}

// statsUpdateLoop periodically pushes engine counters into the TUI.
func statsUpdateLoop(eng *engine.Engine, prog *tea.Program) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		var msg ui.StatusMsg
		for _, h := range eng.Handles() {
			msg.Handle = h.ID().String()
			msg.Blocks += h.Blocks()
			msg.Underruns += h.Underruns()
		}
		prog.Send(msg)
	}
}
