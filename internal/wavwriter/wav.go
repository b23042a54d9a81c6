// Package wavwriter records the beeper output of the machine as a WAV file.
// The audio data is buffered in memory and written to disk on Close.
package wavwriter

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Audio format of the written file.
const (
	SampleRate = 44100
	BitDepth   = 16
	Channels   = 1
	ToneHz     = 440

	amplitude = 8000
	pcmFormat = 1
)

// Writer buffers square wave samples for the beeper.
type Writer struct {
	filename string
	samples  []int
	duration time.Duration // total duration of all added audio
}

// New returns a new writer for the given file.
func New(filename string) *Writer {
	return &Writer{
		filename: filename,
	}
}

// Add appends audio of the given duration, either the beep tone or silence.
func (w *Writer) Add(beeping bool, d time.Duration) {
	if d <= 0 {
		return
	}

	w.duration += d
	target := int(int64(w.duration) * SampleRate / int64(time.Second))

	for position := len(w.samples); position < target; position++ {
		if !beeping {
			w.samples = append(w.samples, 0)
			continue
		}

		// square wave, two half periods per tone cycle
		if position*2*ToneHz/SampleRate%2 == 0 {
			w.samples = append(w.samples, amplitude)
		} else {
			w.samples = append(w.samples, -amplitude)
		}
	}
}

// SampleCount returns the number of buffered samples.
func (w *Writer) SampleCount() int {
	return len(w.samples)
}

// Close encodes all buffered samples and writes the file.
func (w *Writer) Close() (rerr error) {
	f, err := os.Create(w.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, BitDepth, Channels, pcmFormat)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: Channels,
			SampleRate:  SampleRate,
		},
		Data:           w.samples,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}
	return nil
}
