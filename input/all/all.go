// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/gocava/input/alsa"
	_ "github.com/noriah/gocava/input/fifo"
	_ "github.com/noriah/gocava/input/pipewire"
	_ "github.com/noriah/gocava/input/portaudio"
	_ "github.com/noriah/gocava/input/pulse"
	_ "github.com/noriah/gocava/input/simple"
)
