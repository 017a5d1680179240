package wavrec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	rec, err := New(path, 44100)
	require.NoError(t, err)

	samples := []float32{0, 0.5, -0.5, 1, -1, 2, -2}
	for i := 0; i < chunkSize; i++ {
		require.NoError(t, rec.Write(samples[i%len(samples)]))
	}
	for _, s := range samples {
		require.NoError(t, rec.Write(s))
	}
	assert.Equal(t, chunkSize+len(samples), rec.Samples())
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(44100), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, chunkSize+len(samples))

	tail := buf.Data[chunkSize:]
	assert.Equal(t, []int{0, 0x3fff, -0x3fff, 0x7fff, -0x7fff, 0x7fff, -0x7fff}, tail)
}

func TestRecorder_BadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "out.wav"), 44100)
	assert.Error(t, err)
}
