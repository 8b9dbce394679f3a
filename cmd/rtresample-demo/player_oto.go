//go:build oto

package main

import (
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoPlayer is the fallback backend for builds without portaudio's cgo
// bridge (`-tags oto`): it implements io.Reader and lets oto pull bytes
// on its own schedule rather than being driven by a host callback,
// grounded in IntuitionAmiga-IntuitionEngine's OtoPlayer.
type otoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	fill   func(out []float32)
	buf    []float32
}

func newPlayer(sampleRate float64, blockSize int, fill func(out []float32)) (player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	op := &otoPlayer{ctx: ctx, fill: fill, buf: make([]float32, blockSize)}
	op.player = ctx.NewPlayer(op)
	return op, nil
}

func (op *otoPlayer) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n > len(op.buf) {
		op.buf = make([]float32, n)
	}
	samples := op.buf[:n]
	op.fill(samples)

	for i, v := range samples {
		bits := float32ToLEBytes(v)
		copy(p[i*4:i*4+4], bits[:])
	}
	return n * 4, nil
}

func float32ToLEBytes(v float32) [4]byte {
	bits := math.Float32bits(v)
	return [4]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
}

func (op *otoPlayer) PlayFor(seconds float64) error {
	op.player.Play()
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return nil
}

func (op *otoPlayer) Close() error {
	return op.player.Close()
}
