package ui

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const bytesPerSample = 4

// audioPlayer feeds oto from a bounded queue of mono float samples. The
// emulator pushes from the game loop while oto pulls from its own goroutine.
type audioPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	queue   []float32
	limit   int
	volume  float32
	dropped int
}

func newAudioPlayer(sampleRate int, volume float32) (*audioPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't create audio context: %w", err)
	}
	<-ready

	ap := &audioPlayer{
		ctx: ctx,
		// a quarter of a second of latency at most
		limit:  sampleRate / 4,
		volume: volume,
	}
	ap.player = ctx.NewPlayer(ap)
	ap.player.Play()
	return ap, nil
}

func (ap *audioPlayer) push(sample float32) {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	if len(ap.queue) >= ap.limit {
		ap.queue = ap.queue[1:]
		ap.dropped++
	}
	ap.queue = append(ap.queue, sample*ap.volume)
}

// Read implements io.Reader for oto. Underruns are filled with silence.
func (ap *audioPlayer) Read(p []byte) (int, error) {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	n := len(p) / bytesPerSample
	for i := 0; i < n; i++ {
		var sample float32
		if len(ap.queue) > 0 {
			sample = ap.queue[0]
			ap.queue = ap.queue[1:]
		}
		binary.LittleEndian.PutUint32(p[i*bytesPerSample:], math.Float32bits(sample))
	}
	return n * bytesPerSample, nil
}

func (ap *audioPlayer) Close() error {
	if ap.player == nil {
		return nil
	}
	err := ap.player.Close()
	ap.player = nil
	return err
}
