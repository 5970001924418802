// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into an audio.Registry.
package formats

import (
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/formats/mp3"
	"github.com/ik5/audstream/formats/vorbis"
	"github.com/ik5/audstream/formats/wav"
)

// Format keys used by DefaultRegistry.
const (
	WAV    = "wav"
	MP3    = "mp3"
	Vorbis = "ogg vorbis"
	AIFF   = "aiff"
)

// DefaultRegistry returns a registry with the WAV, AIFF, Ogg Vorbis and MP3
// decoders. MP3 is probed last since go-mp3 resynchronizes on arbitrary
// bytes and would otherwise claim other containers.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(WAV, wav.Decoder{}, ".wav", ".wave")
	reg.Register(AIFF, aiff.Decoder{}, ".aif", ".aiff")
	reg.Register(Vorbis, vorbis.Decoder{}, ".ogg", ".oga")
	reg.Register(MP3, mp3.Decoder{}, ".mp3")

	return reg
}
