// Package wavrec writes the emulator's mixed audio to a WAV file.
package wavrec

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth    = 16
	numChannels = 1
	wavFormPCM  = 1

	chunkSize = 4096
)

// Recorder encodes mono float samples as 16-bit PCM. It is not safe for
// concurrent use.
type Recorder struct {
	file *os.File
	enc  *wav.Encoder
	buf  *audio.IntBuffer

	written int
}

func New(path string, sampleRate int) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't create wav file: %w", err)
	}

	return &Recorder{
		file: file,
		enc:  wav.NewEncoder(file, sampleRate, bitDepth, numChannels, wavFormPCM),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
			Data:           make([]int, 0, chunkSize),
		},
	}, nil
}

// Write queues a sample in [-1, 1]. Values outside the range are clipped.
func (r *Recorder) Write(sample float32) error {
	sample = max(-1, min(1, sample))
	r.buf.Data = append(r.buf.Data, int(sample*0x7fff))
	r.written++
	if len(r.buf.Data) == chunkSize {
		return r.flush()
	}
	return nil
}

// Samples returns how many samples have been written so far.
func (r *Recorder) Samples() int {
	return r.written
}

func (r *Recorder) flush() error {
	if len(r.buf.Data) == 0 {
		return nil
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("couldn't encode samples: %w", err)
	}
	r.buf.Data = r.buf.Data[:0]
	return nil
}

// Close flushes pending samples, fixes up the WAV header and closes the
// file.
func (r *Recorder) Close() error {
	if err := r.flush(); err != nil {
		r.file.Close()
		return err
	}
	if err := r.enc.Close(); err != nil {
		r.file.Close()
		return fmt.Errorf("couldn't finalize wav file: %w", err)
	}
	return r.file.Close()
}
