package oversampler

import "errors"

// Construction-time errors, following the "pkg: message" convention of
// gopus/errors.go. None of these can occur on Process/ProcessGen/
// ProcessBlock's hot path.
var (
	// ErrInvalidFactor indicates a Factor value outside the defined range.
	ErrInvalidFactor = errors.New("oversampler: invalid factor")

	// ErrInvalidRate indicates a rate passed to FactorFromRate that is not
	// one of 1, 2, 4, 8, 16.
	ErrInvalidRate = errors.New("oversampler: rate must be one of 1, 2, 4, 8, 16")

	// ErrInvalidBlockSize indicates a non-positive block size passed to Reset.
	ErrInvalidBlockSize = errors.New("oversampler: block size must be positive")
)
