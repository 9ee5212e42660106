package audio

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vumeter/core"
	"github.com/lixenwraith/vumeter/status"
)

// Metric keys published by the audio service
const (
	MetricFrames = "audio.frames"
	MetricSilent = "audio.silent"
	MetricSource = "audio.source"
)

// Service wraps the configured source as a service.Service
// Handles graceful degradation: a missing backend or a failed device leaves the meter running silent
type Service struct {
	config *Config
	sink   Sink

	source Source
	mu     sync.Mutex

	frames     *atomic.Int64
	silent     *atomic.Bool
	sourceName *status.AtomicString

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewService creates the audio service delivering to sink; registry nil creates a private one
func NewService(cfg *Config, sink Sink, registry *status.Registry) *Service {
	if registry == nil {
		registry = status.NewRegistry()
	}
	return &Service{
		config:     cfg,
		sink:       sink,
		frames:     registry.Ints.Get(MetricFrames),
		silent:     registry.Bools.Get(MetricSilent),
		sourceName: registry.Strings.Get(MetricSource),
		stopChan:   make(chan struct{}),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return []string{"meter"}
}

// Init implements service.Service
// Configuration errors are returned; an unavailable capture backend only selects silent mode
func (s *Service) Init() error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	var src Source
	switch s.config.Source {
	case SourceCapture:
		backend, err := DetectCaptureBackend(s.config.SampleRate, s.config.Channels)
		if err != nil {
			log.Printf("audio: %v, running silent", err)
			break
		}
		src = NewCapture(s.config, backend, s.frames)
	case SourceFile, SourceTone:
		src = NewPlayer(s.config, s.frames)
	}

	s.mu.Lock()
	s.source = src
	s.mu.Unlock()

	if src == nil {
		s.goSilent()
	} else {
		s.sourceName.Store(src.Name())
	}
	return nil
}

// Start implements service.Service
// Start failures are logged and degrade to silent mode, never returned
func (s *Service) Start() error {
	src := s.Source()
	if src == nil {
		return nil
	}

	if err := src.Start(s.sink); err != nil {
		log.Printf("audio: %s failed: %v, running silent", src.Name(), err)
		s.goSilent()
		return nil
	}

	if c, ok := src.(*Capture); ok {
		core.Go(func() {
			select {
			case <-c.Errors():
				s.goSilent()
			case <-s.stopChan:
			}
		})
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if src := s.Source(); src != nil {
			err = src.Stop()
		}
	})
	return err
}

// Source returns the active source, nil when silent from Init
func (s *Service) Source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// IsSilent reports whether no audio reaches the meter
func (s *Service) IsSilent() bool {
	return s.silent.Load()
}

func (s *Service) goSilent() {
	s.silent.Store(true)
	s.sourceName.Store(SourceNone.String())
}
