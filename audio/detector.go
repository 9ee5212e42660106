package audio

import (
	"os/exec"
	"strconv"

	"github.com/lixenwraith/vumeter/parameter"
)

// lookPath is swapped in tests
var lookPath = exec.LookPath

// DetectCaptureBackend searches for a tool that records the default input as raw s16le on stdout
// Priority: pacat > pw-cat > arecord > rec (sox)
func DetectCaptureBackend(rate, channels int) (*BackendConfig, error) {
	r := strconv.Itoa(rate)
	c := strconv.Itoa(channels)

	// PulseAudio/PipeWire pulse server
	if path, err := lookPath("pacat"); err == nil {
		return &BackendConfig{
			Type: BackendPulse,
			Name: "pacat",
			Path: path,
			Args: []string{
				"--record",
				"--raw",
				"--format=s16le",
				"--rate=" + r,
				"--channels=" + c,
				"--latency-msec=" + strconv.Itoa(parameter.AudioCaptureLatencyMs),
			},
		}, nil
	}

	// PipeWire native
	if path, err := lookPath("pw-cat"); err == nil {
		return &BackendConfig{
			Type: BackendPipeWire,
			Name: "pw-cat",
			Path: path,
			Args: []string{
				"--record",
				"--format=s16",
				"--rate=" + r,
				"--channels=" + c,
				"-",
			},
		}, nil
	}

	// ALSA
	if path, err := lookPath("arecord"); err == nil {
		return &BackendConfig{
			Type: BackendALSA,
			Name: "arecord",
			Path: path,
			Args: []string{
				"-t", "raw",
				"-f", "S16_LE",
				"-r", r,
				"-c", c,
				"-q",
			},
		}, nil
	}

	// SoX
	if path, err := lookPath("rec"); err == nil {
		return &BackendConfig{
			Type: BackendSoX,
			Name: "sox",
			Path: path,
			Args: []string{
				"-q",
				"-t", "raw",
				"-e", "signed",
				"-b", "16",
				"-c", c,
				"-r", r,
				"-",
			},
		}, nil
	}

	return nil, ErrNoCaptureBackend
}
