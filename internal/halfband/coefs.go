package halfband

// Baked-in half-band all-pass coefficients for the four 2x doubling
// stages used by the integer oversampler, per spec.md §6. These are the
// iPlug2/HIIR reference tables (96dB stop-band); any conformant
// implementation must ship these literal constants or document a
// replacement that doesn't raise the stop-band floor.

// Coefs2x is the 12-tap stage for the 1x<->2x doubling, transition near
// 0.01*Fs.
var Coefs2x = []float64{
	0.036681502163648017, 0.13654762463195794, 0.27463175937945444,
	0.42313861743656711, 0.56109869787919531, 0.67754004997416184,
	0.76974183386322703, 0.83988962484963892, 0.89226081800387902,
	0.9315419599631839, 0.96209454837808417, 0.98781637073289585,
}

// Coefs4x is the 4-tap stage for the 2x<->4x doubling, transition near
// 0.255*Fs.
var Coefs4x = []float64{
	0.041893991997656171, 0.16890348243995201, 0.39056077292116603,
	0.74389574826847926,
}

// Coefs8x is the 3-tap stage for the 4x<->8x doubling, transition near
// 0.3775*Fs.
var Coefs8x = []float64{
	0.055748680811302048, 0.24305119574153072, 0.64669913119268196,
}

// Coefs16x is the 2-tap stage for the 8x<->16x doubling, transition near
// 0.43865*Fs.
var Coefs16x = []float64{
	0.10717745346023573, 0.53091435354504557,
}

// coefsAs converts the canonical float64 coefficient table to T.
func coefsAs[T Sample](src []float64) []T {
	dst := make([]T, len(src))
	for i, v := range src {
		dst[i] = T(v)
	}
	return dst
}

// Coefs2xT returns Coefs2x converted to T.
func Coefs2xT[T Sample]() []T { return coefsAs[T](Coefs2x) }

// Coefs4xT returns Coefs4x converted to T.
func Coefs4xT[T Sample]() []T { return coefsAs[T](Coefs4x) }

// Coefs8xT returns Coefs8x converted to T.
func Coefs8xT[T Sample]() []T { return coefsAs[T](Coefs8x) }

// Coefs16xT returns Coefs16x converted to T.
func Coefs16xT[T Sample]() []T { return coefsAs[T](Coefs16x) }
