package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// DeviceInfo describes an input device
type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	DefaultLatency    time.Duration
	Default           bool
}

// PortAudioConfig holds the stream parameters for a PortAudioSource
type PortAudioConfig struct {
	// Device name; empty selects the default input device
	Device          string
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	// Latency hint; zero uses the device's default low input latency
	Latency       time.Duration
	Amplification float32
}

// PortAudioSource reads frames from a blocking PortAudio input stream
type PortAudioSource struct {
	stream        *portaudio.Stream
	read          func() error
	overflows     int
	sampleRate    int
	channels      int
	inputBuffer   []float32
	pending       []float32
	amplification float32
	mu            sync.Mutex
	closed        bool
}

var (
	paMu    sync.Mutex
	paUsers int
)

// initialize starts PortAudio for the first user
func initialize() error {
	paMu.Lock()
	defer paMu.Unlock()

	if paUsers == 0 {
		if err := portaudio.Initialize(); err != nil {
			return fmt.Errorf("initialize portaudio: %w", err)
		}
	}
	paUsers++
	return nil
}

// terminate stops PortAudio once the last user is done
func terminate() error {
	paMu.Lock()
	defer paMu.Unlock()

	if paUsers == 0 {
		return nil
	}
	paUsers--
	if paUsers == 0 {
		return portaudio.Terminate()
	}
	return nil
}

// ListInputDevices returns every device able to capture audio
func ListInputDevices() ([]DeviceInfo, error) {
	if err := initialize(); err != nil {
		return nil, err
	}
	defer terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	defaultName := ""
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultName = def.Name
	}

	var inputs []DeviceInfo
	for _, d := range devices {
		if d.MaxInputChannels < 1 {
			continue
		}
		inputs = append(inputs, DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			DefaultLatency:    d.DefaultLowInputLatency,
			Default:           d.Name == defaultName,
		})
	}

	return inputs, nil
}

// findDevice looks up an input device by name, or the default one
func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" || name == "default" {
		return portaudio.DefaultInputDevice()
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		if d.Name == name && d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("input device %q not found", name)
}

// NewPortAudioSource opens and starts a blocking capture stream
func NewPortAudioSource(cfg PortAudioConfig) (*PortAudioSource, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("portaudio: invalid sample rate %d", cfg.SampleRate)
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.FramesPerBuffer <= 0 {
		cfg.FramesPerBuffer = 512
	}
	if cfg.Amplification <= 0 {
		cfg.Amplification = 1
	}

	if err := initialize(); err != nil {
		return nil, err
	}

	device, err := findDevice(cfg.Device)
	if err != nil {
		terminate()
		return nil, fmt.Errorf("portaudio: %w", err)
	}

	latency := cfg.Latency
	if latency <= 0 {
		latency = device.DefaultLowInputLatency
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  latency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: cfg.FramesPerBuffer,
	}

	source := &PortAudioSource{
		sampleRate:    cfg.SampleRate,
		channels:      cfg.Channels,
		inputBuffer:   make([]float32, cfg.FramesPerBuffer*cfg.Channels),
		amplification: cfg.Amplification,
	}

	source.stream, err = portaudio.OpenStream(params, source.inputBuffer)
	if err != nil {
		terminate()
		return nil, fmt.Errorf("portaudio: open %q: %w", device.Name, err)
	}
	source.read = source.stream.Read

	if err := source.stream.Start(); err != nil {
		source.stream.Close()
		terminate()
		return nil, fmt.Errorf("portaudio: start %q: %w", device.Name, err)
	}

	return source, nil
}

// ReadFrames blocks until len(dst) mono frames have been captured
func (s *PortAudioSource) ReadFrames(dst []float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSourceClosed
	}

	n := 0
	for n < len(dst) {
		if len(s.pending) == 0 {
			if err := s.read(); err != nil {
				if !errors.Is(err, portaudio.InputOverflowed) {
					s.pending = s.pending[:0]
					return n, fmt.Errorf("portaudio read: %w", err)
				}
				// Frames were lost before this read but the buffer is filled
				s.overflows++
			}
			s.pending = s.inputBuffer
		}

		// Copy whole frames, averaging channels into mono
		frames := len(s.pending) / s.channels
		take := min(frames, len(dst)-n)
		for i := 0; i < take; i++ {
			sum := float32(0)
			for ch := 0; ch < s.channels; ch++ {
				sum += s.pending[i*s.channels+ch]
			}
			dst[n+i] = float64(sum / float32(s.channels) * s.amplification)
		}
		s.pending = s.pending[take*s.channels:]
		n += take
	}

	return n, nil
}

// SampleRate returns the stream rate
func (s *PortAudioSource) SampleRate() int {
	return s.sampleRate
}

// Overflows returns how many reads reported dropped input so far
func (s *PortAudioSource) Overflows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflows
}

// SetAmplification sets the audio amplification factor
func (s *PortAudioSource) SetAmplification(factor float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure amplification is positive
	if factor < 0.1 {
		factor = 0.1
	}

	s.amplification = factor
}

// Close stops the stream and releases PortAudio
func (s *PortAudioSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return errors.Join(s.stream.Stop(), s.stream.Close(), terminate())
}
