package cava

const (
	baseFFTSize          = 512
	bassBufferMultiplier = 2
)

// fftMultiplier scales the FFT size with the sample rate the same way
// libcava sizes its bass buffer.
func fftMultiplier(rate int) int {
	switch {
	case rate <= 8125:
		return 1
	case rate <= 16250:
		return 2
	case rate <= 32500:
		return 4
	case rate <= 75000:
		return 8
	case rate <= 150000:
		return 16
	case rate <= 300000:
		return 32
	default:
		return 64
	}
}

// BufferSize returns the number of interleaved samples a plan for the given
// rate and channel count accepts per execute call.
func BufferSize(rate, channels int) int {
	return baseFFTSize * fftMultiplier(rate) * bassBufferMultiplier * channels
}
