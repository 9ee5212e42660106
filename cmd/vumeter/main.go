package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/lixenwraith/vumeter/audio"
	"github.com/lixenwraith/vumeter/engine"
	"github.com/lixenwraith/vumeter/level"
	"github.com/lixenwraith/vumeter/render"
	"github.com/lixenwraith/vumeter/service"
	"github.com/lixenwraith/vumeter/status"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "2.0"

// options are the command line settings layered over the environment configuration
type options struct {
	debug       bool
	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseFlags applies command line flags on top of env-loaded configuration
func parseFlags(args []string, stderr io.Writer, meterCfg *engine.Config, audioCfg *audio.Config) (options, error) {
	var opts options

	fs := flag.NewFlagSet("vumeter", flag.ContinueOnError)
	fs.SetOutput(stderr)

	channels := fs.Int("channels", meterCfg.Channels, "number of meter channels (1-8)")
	curve := fs.String("curve", meterCfg.Policy.Curve.String(), "force curve: basic, compressed")
	source := fs.String("source", audioCfg.Source.String(), "audio source: capture, file, tone, none")
	file := fs.String("file", audioCfg.File, "WAV file to play and meter")
	tone := fs.Float64("tone", audioCfg.ToneFrequency, "test tone frequency in Hz")
	toneLevel := fs.Float64("level", audioCfg.ToneLevelDB, "test tone level in dBFS")
	fs.BoolVar(&opts.debug, "debug", false, "write a debug log to logs/"+logFileName)
	fs.BoolVar(&opts.showVersion, "v", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	meterCfg.Channels = *channels
	audioCfg.Channels = *channels

	if set["curve"] {
		c, err := level.ParseCurve(*curve)
		if err != nil {
			return opts, err
		}
		// Keep env threshold overrides, swap only the curve
		meterCfg.Policy.Curve = c
	}

	if set["source"] {
		src, err := audio.ParseSource(*source)
		if err != nil {
			return opts, err
		}
		audioCfg.Source = src
	}

	audioCfg.File = *file
	audioCfg.ToneFrequency = *tone
	audioCfg.ToneLevelDB = *toneLevel

	// -file or -tone alone pick their source
	if !set["source"] {
		switch {
		case set["file"]:
			audioCfg.Source = audio.SourceFile
		case set["tone"] || set["level"]:
			audioCfg.Source = audio.SourceTone
		}
	}

	return opts, nil
}

// run is main without os.Exit, returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	meterCfg, err := engine.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "vumeter: %v\n", err)
		return 1
	}
	audioCfg, err := audio.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "vumeter: %v\n", err)
		return 1
	}

	opts, err := parseFlags(args, stderr, &meterCfg, audioCfg)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "vumeter: %v\n", err)
		return 1
	}

	if opts.showVersion {
		fmt.Fprintf(stderr, "vumeter %s\n", version)
		return 0
	}

	// Configuration errors are reported before the terminal is touched
	if err := audioCfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "vumeter: audio: %v\n", err)
		return 1
	}

	registry := status.NewRegistry()
	meter, err := engine.NewMeter(meterCfg, nil, registry)
	if err != nil {
		fmt.Fprintf(stderr, "vumeter: %v\n", err)
		return 1
	}

	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}
	log.Printf("vumeter %s: channels=%d curve=%v source=%v rate=%d",
		version, meterCfg.Channels, meterCfg.Policy.Curve, audioCfg.Source, audioCfg.SampleRate)

	var display render.Display
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		display = render.NewTerminalDisplay(meter, nil, nil)
	} else {
		display = render.NewLogDisplay(meter, nil, stdout, 0)
	}

	hub := service.NewHub()
	for _, svc := range []service.Service{
		engine.NewScheduler(meter, nil, meterCfg.TickInterval),
		audio.NewService(audioCfg, meter, registry),
		display,
	} {
		if err := hub.Register(svc); err != nil {
			fmt.Fprintf(stderr, "vumeter: %v\n", err)
			return 1
		}
	}

	if err := hub.InitAll(); err != nil {
		fmt.Fprintf(stderr, "vumeter: %v\n", err)
		return 1
	}
	if err := hub.StartAll(); err != nil {
		_ = hub.StopAll()
		fmt.Fprintf(stderr, "vumeter: %v\n", err)
		return 1
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-display.Done():
	case sig := <-sigChan:
		log.Printf("received %v", sig)
	}

	if err := hub.StopAll(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Printf("final: %s", registry.Summary())
	return 0
}
