package resampler

import "errors"

// Construction-time error types. These are the only errors this package
// ever returns; none of them can occur on the audio-processing hot path
// (spec.md §7).
var (
	// ErrInvalidSampleRate indicates a non-positive input or output rate.
	ErrInvalidSampleRate = errors.New("resampler: sample rate must be positive")

	// ErrInvalidChannels indicates a non-positive channel count.
	ErrInvalidChannels = errors.New("resampler: channel count must be positive")

	// ErrInvalidBlockSize indicates a non-positive max block size passed
	// to Reset.
	ErrInvalidBlockSize = errors.New("resampler: max block size must be positive")

	// ErrUnknownMode indicates a Mode value outside the defined range.
	ErrUnknownMode = errors.New("resampler: unknown mode")
)
