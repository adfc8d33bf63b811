// ABOUTME: Entry point for the sio-play audio file player
// ABOUTME: Parses CLI flags, picks an output backend, and starts playback
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sio-project/sio-go/internal/app"
	"github.com/sio-project/sio-go/internal/decode"
	"github.com/sio-project/sio-go/internal/ui"
	"github.com/sio-project/sio-go/internal/version"
	"github.com/sio-project/sio-go/pkg/backend"
	"github.com/sio-project/sio-go/pkg/sio"
)

var (
	file        = flag.String("file", "", "Audio file to play (wav, mp3, flac)")
	backendName = flag.String("backend", "oto", "Output backend: oto, malgo, or portaudio")
	deviceName  = flag.String("device", "", "Output device name override")
	volume      = flag.Int("volume", 100, "Initial volume (0-100)")
	bufferMs    = flag.Int("buffer-ms", 500, "Output buffer size in milliseconds")
	logFile     = flag.String("log-file", "sio-play.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		flag.Usage()
		os.Exit(2)
	}

	useTUI := !*noTUI

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
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	dec, err := decode.Open(*file)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to open %s: %v", *file, err)
	}

	// Mono sources still play on a stereo stream; the player duplicates
	// the channel.
	channels := dec.Channels()
	if channels < 2 {
		channels = 2
	}

	opts := backend.Options{
		SampleRate:     dec.SampleRate(),
		Layout:         sio.LayoutForChannels(channels),
		Format:         sio.FormatFloat32LE,
		BufferDuration: time.Duration(*bufferMs) * time.Millisecond,
		DeviceName:     *deviceName,
	}

	raw, err := newBackend(*backendName, opts)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("%v", err)
	}

	stream := sio.New(raw)
	player := app.New(stream, dec, app.Config{Volume: *volume})

	log.Printf("Playing %s via %s (%dHz, %d channels)",
		*file, *backendName, dec.SampleRate(), dec.Channels())

	if err := player.Start(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to start playback: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if useTUI {
		runTUI(player, sigChan)
	} else {
		runHeadless(player, sigChan)
	}

	if err := player.Close(); err != nil {
		log.Printf("Error closing player: %v", err)
	}
	log.Printf("Playback stopped")
}

// newBackend constructs the raw stream for a backend name.
func newBackend(name string, opts backend.Options) (sio.RawStream, error) {
	switch name {
	case "oto":
		return backend.NewOto(opts), nil
	case "malgo":
		return backend.NewMalgo(opts), nil
	case "portaudio":
		return backend.NewPortAudio(opts), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want oto, malgo, or portaudio)", name)
	}
}

// runTUI drives the bubbletea display until playback ends or the user quits.
func runTUI(player *app.Player, sigChan chan os.Signal) {
	t := ui.NewPlayerTUI(player, filepath.Base(*file), *backendName)

	go func() {
		select {
		case <-player.Done():
			// Let the buffered tail play out before tearing down.
			time.Sleep(player.Drained())
			t.Finish()
		case <-sigChan:
			t.Quit()
		}
	}()

	if err := t.Run(); err != nil {
		log.Printf("TUI error: %v", err)
	}
}

// runHeadless waits for end of playback or a shutdown signal.
func runHeadless(player *app.Player, sigChan chan os.Signal) {
	select {
	case <-player.Done():
		status := player.Status()
		if status.Err != nil {
			log.Printf("Playback ended with error: %v", status.Err)
		}
		time.Sleep(player.Drained())
	case <-sigChan:
		log.Printf("Shutdown signal received")
	}
}
