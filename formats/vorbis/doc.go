// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis. The total length and
// SetPosition based seeking need a seekable input; readers that cannot
// seek are buffered into memory by Decode.
//
//	source, err := vorbis.Decoder{}.Decode(file)
//	seekable := source.(audio.SeekableSource)
//	seekable.SeekFrame(48000)
package vorbis
