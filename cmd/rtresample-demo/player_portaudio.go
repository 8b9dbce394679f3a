//go:build !oto

package main

import (
	"time"

	"github.com/gordonklaus/portaudio"
)

// portaudioPlayer is the default backend: a real output-only (mono, no
// input channels) audio stream opened via gordonklaus/portaudio's cgo
// bridge to PortAudio.
type portaudioPlayer struct {
	stream *portaudio.Stream
}

func newPlayer(sampleRate float64, blockSize int, fill func(out []float32)) (player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, blockSize, func(out []float32) {
		fill(out)
	})
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	return &portaudioPlayer{stream: stream}, nil
}

func (p *portaudioPlayer) PlayFor(seconds float64) error {
	if err := p.stream.Start(); err != nil {
		return err
	}
	time.Sleep(time.Duration(seconds * float64(time.Second)))
	return p.stream.Stop()
}

func (p *portaudioPlayer) Close() error {
	err := p.stream.Close()
	portaudio.Terminate()
	return err
}
