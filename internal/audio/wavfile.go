package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavSource reads PCM frames from a WAV file, mixing channels down to mono
type WavSource struct {
	file       *os.File
	decoder    *wav.Decoder
	buf        *goaudio.IntBuffer
	sampleRate int
	channels   int
	scale      float64
	offset     int
	eof        bool
}

// WAV format tags accepted by OpenWavSource
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// OpenWavSource opens an integer PCM WAV file for reading
func OpenWavSource(path string) (*WavSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		file.Close()
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}
	if decoder.NumChans == 0 || decoder.BitDepth == 0 {
		file.Close()
		return nil, fmt.Errorf("%s: missing format information", path)
	}

	if f := decoder.WavAudioFormat; f != wavFormatPCM && f != wavFormatExtensible {
		file.Close()
		return nil, fmt.Errorf("%s: %w: format tag %d, integer PCM required", path, ErrUnsupportedFormat, f)
	}

	// 8-bit samples are unsigned with silence at 128
	offset := 0
	if decoder.BitDepth == 8 {
		offset = 128
	}

	channels := int(decoder.NumChans)
	return &WavSource{
		file:       file,
		decoder:    decoder,
		sampleRate: int(decoder.SampleRate),
		channels:   channels,
		scale:      float64(int64(1) << (decoder.BitDepth - 1)),
		offset:     offset,
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  int(decoder.SampleRate),
			},
			SourceBitDepth: int(decoder.BitDepth),
		},
	}, nil
}

// ReadFrames reads up to len(dst) frames. Reaching the end of the data
// returns a short count and io.EOF.
func (s *WavSource) ReadFrames(dst []float64) (int, error) {
	if s.decoder == nil {
		return 0, ErrSourceClosed
	}
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) * s.channels
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decode wav: %w", err)
	}

	frames := n / s.channels
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < s.channels; ch++ {
			sum += s.buf.Data[i*s.channels+ch] - s.offset
		}
		dst[i] = float64(sum) / float64(s.channels) / s.scale
	}

	if frames < len(dst) {
		s.eof = true
		return frames, io.EOF
	}
	return frames, nil
}

// SampleRate returns the file's sample rate
func (s *WavSource) SampleRate() int {
	return s.sampleRate
}

// Channels returns the number of interleaved channels in the file
func (s *WavSource) Channels() int {
	return s.channels
}

// Close closes the file
func (s *WavSource) Close() error {
	if s.decoder == nil {
		return nil
	}
	s.decoder = nil
	return s.file.Close()
}
