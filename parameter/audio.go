package parameter

// PCM Format
const (
	AudioSampleRate     = 48000
	AudioBitDepth       = 16
	AudioBytesPerSample = AudioBitDepth / 8

	// AudioFullScale is the magnitude of the most negative 16-bit sample
	AudioFullScale = 32768.0
)

// Block Delivery
const (
	// AudioBlockFrames is frames per submitted block (~21ms at 48kHz)
	AudioBlockFrames = 1024

	// AudioSpeakerBufferFrames is the beep speaker buffer size
	AudioSpeakerBufferFrames = 1024

	// AudioPlaybackMaxChannels is the channel limit of stereo streamer sources
	AudioPlaybackMaxChannels = 2
)

// Test Tone
const (
	AudioToneFrequency = 1000.0
	AudioToneLevelDB   = -4.0
)

// Capture
const (
	// AudioCaptureLatencyMs is requested from capture tools that accept a latency hint
	AudioCaptureLatencyMs = 20
)
