package resampler

import (
	"math"

	"github.com/audiocore/rtresample/util"
)

// linearInterpolate resamples inputs (inputLen frames, nChans channels)
// by ratio using piecewise-linear interpolation, writing up to
// maxOutputLen frames into outputs and returning the number written.
// This is the cheap fallback path of spec.md §4.E step 2, also used
// internally as the Mode Linear implementation.
func linearInterpolate[T Sample](inputs, outputs [][]T, inputLen, nChans int, ratio float64, maxOutputLen int) int {
	outputLen := int(math.Ceil(float64(inputLen) / ratio))
	if outputLen > maxOutputLen {
		outputLen = maxOutputLen
	}

	for writePos := 0; writePos < outputLen; writePos++ {
		readPos := ratio * float64(writePos)
		readPosTrunc := math.Floor(readPos)
		readPosInt := int(readPosTrunc)

		if readPosInt >= inputLen {
			continue
		}

		y := readPos - readPosTrunc

		for chan_ := 0; chan_ < nChans; chan_++ {
			x0 := inputs[chan_][readPosInt]
			var x1 T
			if readPosInt+1 < inputLen {
				x1 = inputs[chan_][readPosInt+1]
			} else {
				x1 = inputs[chan_][util.Clamp(readPosInt-1, 0, inputLen-1)]
			}
			outputs[chan_][writePos] = T((1.0-y)*float64(x0) + y*float64(x1))
		}
	}

	return outputLen
}

// cubicInterpolate resamples inputs by ratio using a 4-tap cubic kernel,
// per spec.md §4.E "Cubic interpolation details". At the boundaries the
// clamp is asymmetric, as in the reference that spec.md §9 calls out as
// an open question to preserve rather than "fix": x_{-1} is zero when
// readPosInt-1 <= 0, and a missing x_1 or x_2 past the end of the input
// takes inputs[readPosInt-1] (clamped into range), not the last sample.
func cubicInterpolate[T Sample](inputs, outputs [][]T, inputLen, nChans int, ratio float64, maxOutputLen int) int {
	outputLen := int(math.Ceil(float64(inputLen) / ratio))
	if outputLen > maxOutputLen {
		outputLen = maxOutputLen
	}

	for writePos := 0; writePos < outputLen; writePos++ {
		readPos := ratio * float64(writePos)
		readPosTrunc := math.Floor(readPos)
		readPosInt := int(readPosTrunc)

		if readPosInt >= inputLen {
			continue
		}

		y := readPos - readPosTrunc

		for chan_ := 0; chan_ < nChans; chan_++ {
			var xm1 float64
			if readPosInt-1 > 0 {
				xm1 = float64(inputs[chan_][readPosInt-1])
			}

			x0 := float64(inputs[chan_][readPosInt])

			var x1 float64
			if readPosInt+1 < inputLen {
				x1 = float64(inputs[chan_][readPosInt+1])
			} else {
				x1 = float64(inputs[chan_][util.Clamp(readPosInt-1, 0, inputLen-1)])
			}

			var x2 float64
			if readPosInt+2 < inputLen {
				x2 = float64(inputs[chan_][readPosInt+2])
			} else {
				x2 = float64(inputs[chan_][util.Clamp(readPosInt-1, 0, inputLen-1)])
			}

			c := 0.5 * (x1 - xm1)
			v := x0 - x1
			w := c + v
			a := w + v + 0.5*(x2-x0)
			b := w + a

			outputs[chan_][writePos] = T((((a*y)-b)*y+c)*y + x0)
		}
	}

	return outputLen
}
