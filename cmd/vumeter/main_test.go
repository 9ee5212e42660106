package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/lixenwraith/vumeter/audio"
	"github.com/lixenwraith/vumeter/engine"
	"github.com/lixenwraith/vumeter/level"
)

func defaultConfigs() (engine.Config, *audio.Config) {
	return engine.DefaultConfig(), audio.DefaultConfig()
}

// TestParseFlagsDefaults verifies no flags keep the loaded configuration
func TestParseFlagsDefaults(t *testing.T) {
	m, a := defaultConfigs()
	opts, err := parseFlags(nil, io.Discard, &m, a)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.debug || opts.showVersion {
		t.Errorf("Expected no debug or version, got %+v", opts)
	}
	if m.Channels != 2 || a.Channels != 2 {
		t.Errorf("Expected 2 channels, got meter=%d audio=%d", m.Channels, a.Channels)
	}
	if a.Source != audio.SourceCapture {
		t.Errorf("Expected capture source, got %v", a.Source)
	}
}

// TestParseFlagsOverrides verifies each flag reaches its configuration field
func TestParseFlagsOverrides(t *testing.T) {
	m, a := defaultConfigs()
	args := []string{"-channels", "1", "-curve", "compressed", "-source", "tone", "-tone", "440", "-level", "-10", "-debug"}
	opts, err := parseFlags(args, io.Discard, &m, a)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if m.Channels != 1 || a.Channels != 1 {
		t.Errorf("Expected 1 channel, got meter=%d audio=%d", m.Channels, a.Channels)
	}
	if m.Policy.Curve != level.CurveCompressed {
		t.Errorf("Expected compressed curve, got %v", m.Policy.Curve)
	}
	if a.Source != audio.SourceTone || a.ToneFrequency != 440 || a.ToneLevelDB != -10 {
		t.Errorf("Expected 440Hz -10dB tone, got %v %f %f", a.Source, a.ToneFrequency, a.ToneLevelDB)
	}
	if !opts.debug {
		t.Error("Expected debug enabled")
	}
}

// TestParseFlagsImpliedSource verifies -file and -tone select their source
func TestParseFlagsImpliedSource(t *testing.T) {
	m, a := defaultConfigs()
	if _, err := parseFlags([]string{"-file", "music.wav"}, io.Discard, &m, a); err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if a.Source != audio.SourceFile || a.File != "music.wav" {
		t.Errorf("Expected file source, got %v %q", a.Source, a.File)
	}

	m, a = defaultConfigs()
	if _, err := parseFlags([]string{"-tone", "1000"}, io.Discard, &m, a); err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if a.Source != audio.SourceTone {
		t.Errorf("Expected tone source, got %v", a.Source)
	}

	m, a = defaultConfigs()
	if _, err := parseFlags([]string{"-file", "x.wav", "-source", "none"}, io.Discard, &m, a); err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if a.Source != audio.SourceNone {
		t.Errorf("Expected explicit source to win, got %v", a.Source)
	}
}

// TestParseFlagsErrors verifies bad values are rejected
func TestParseFlagsErrors(t *testing.T) {
	cases := [][]string{
		{"-curve", "linear"},
		{"-source", "radio"},
		{"-channels", "two"},
		{"extra"},
	}
	for _, args := range cases {
		m, a := defaultConfigs()
		if _, err := parseFlags(args, io.Discard, &m, a); err == nil {
			t.Errorf("Args %v: expected error", args)
		}
	}
}

// TestRunVersion verifies -v prints the version and exits cleanly
func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-v"}, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit 0, got %d (%s)", code, stderr.String())
	}
	if got := stderr.String(); got != "vumeter 2.0\n" {
		t.Errorf("Expected version line on stderr, got %q", got)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout, got %q", stdout.String())
	}
}

// TestRunRejectsInvalidChannels verifies configuration errors exit 1 before anything starts
func TestRunRejectsInvalidChannels(t *testing.T) {
	for _, n := range []string{"0", "9"} {
		var stdout, stderr bytes.Buffer
		if code := run([]string{"-channels", n, "-source", "none"}, &stdout, &stderr); code != 1 {
			t.Errorf("Channels=%s: expected exit 1, got %d", n, code)
		}
		if !strings.Contains(stderr.String(), "channel") {
			t.Errorf("Channels=%s: expected channel error on stderr, got %q", n, stderr.String())
		}
	}
}

// TestRunRejectsWidePlayback verifies playback sources refuse more than two channels
func TestRunRejectsWidePlayback(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-channels", "4", "-tone", "1000"}, &stdout, &stderr); code != 1 {
		t.Errorf("Expected exit 1, got %d", code)
	}
}
