// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Container parsing goes through github.com/go-audio/wav; once the data
// chunk is located the decoder reads PCM 16-bit frames directly, which makes
// seeking a single byte-offset move.
//
// # Decoding WAV Files
//
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	seekable := source.(audio.SeekableSource)
//	seekable.SeekFrame(44100)
//
// Inputs that are not an io.ReadSeeker are read into memory first.
//
// # Writing WAV Files
//
//	samples := []int16{100, -100, 200, -200}
//	err := wav.WriteWAV16(file, 8000, 2, samples)
//
// # Error Handling
//
//   - ErrNotWavFile: The input is not a valid WAV file
//   - ErrOnlyPCM16bitSupported: Only 16-bit PCM is supported
//   - ErrUnsupportedWavLayout: Unsupported WAV file structure
//   - ErrUnsupportedWavChunks: No data chunk could be located
package wav
