// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3, which always produces
// 16-bit stereo, so the returned source reports two channels even for mono
// files. Length and seeking rely on the decoder's byte offsets (four bytes
// per frame) and need an io.ReadSeeker; other readers are buffered first.
//
//	source, err := mp3.Decoder{}.Decode(file)
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
package mp3
