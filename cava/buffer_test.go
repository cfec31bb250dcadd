package cava

import "testing"

func TestBufferSize(t *testing.T) {
	tests := []struct {
		rate     int
		channels int
		want     int
	}{
		{8000, 1, 1024},
		{8125, 1, 1024},
		{8126, 1, 2048},
		{16000, 2, 4096},
		{32000, 1, 4096},
		{44100, 1, 8192},
		{44100, 2, 16384},
		{48000, 2, 16384},
		{96000, 2, 32768},
		{192000, 1, 32768},
		{384000, 1, 65536},
	}

	for _, test := range tests {
		if got := BufferSize(test.rate, test.channels); got != test.want {
			t.Errorf("BufferSize(%d, %d) = %d, want %d",
				test.rate, test.channels, got, test.want)
		}
	}
}
