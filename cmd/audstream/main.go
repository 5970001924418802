// SPDX-License-Identifier: EPL-2.0

// Command audstream plays, inspects and converts audio files through the
// audstream engine.
package main

import (
	"os"

	// register output backends.
	_ "github.com/ik5/audstream/device/beep"
	_ "github.com/ik5/audstream/device/malgo"
	_ "github.com/ik5/audstream/device/oto"
	_ "github.com/ik5/audstream/device/portaudio"
	_ "github.com/ik5/audstream/device/wavfile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
