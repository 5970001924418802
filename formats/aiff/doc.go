// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to parse the container. The
// PCM data is decoded into memory when the file is opened, which keeps
// SeekFrame exact and cheap:
//
//	source, err := aiff.Decoder{}.Decode(file)
//	seekable := source.(audio.SeekableSource)
//	frames := seekable.TotalFrames()
//
// Only 16-bit PCM is supported; other depths return ErrOnlyPCM16bitSupported.
package aiff
