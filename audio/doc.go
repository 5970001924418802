// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the core audio processing building blocks:
//   - Source and SeekableSource interfaces for audio input
//   - Resampler for sample rate and pitch conversion
//   - ChannelMixer for channel layout conversion
//   - Format registry for decoder registration and detection
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All audio decoders and processors implement this interface, allowing
// them to be chained together in processing pipelines.
//
// # Resampling
//
// The Resampler changes the sample rate of audio using cubic interpolation:
//
//	resampler := audio.NewResampler(source, 16000)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// Resampling works for both upsampling and downsampling. SetPitch scales
// the playback rate on top of the rate conversion, which is how the device
// mixer applies a voice's pitch. A source that momentarily has nothing to
// give may return (0, nil); the Resampler passes that through and resumes
// where it stopped.
//
// # Channel Mixing
//
// The ChannelMixer converts any channel count to any other:
//
//	stereo := audio.NewChannelMixer(source, 2)
//	mono := audio.NewMonoMixer(source)
//
// Downmixing averages the folded channels; upmixing repeats them.
//
// # Format Registry
//
// The registry allows dynamic decoder registration:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{}, ".wav")
//	format, decoder, ok := registry.ForPath("song.wav")
//	format, source, err := registry.Detect(file, "wav")
//
// Detect probes each decoder in registration order and rewinds the input
// between attempts.
//
// # Seeking
//
// Decoders in the formats packages return a SeekableSource, which adds
// TotalFrames and SeekFrame. Seeking past the end lands on the end.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// This normalized format makes it easy to process audio without worrying
// about bit depths and ensures no clipping during intermediate processing.
//
// # Performance Considerations
//
// Processors allocate their scratch buffers up front and reuse them, so
// steady-state reads do not allocate.
//
// # Error Handling
//
// Audio processing functions return io.EOF when no more data is available.
// Other errors indicate problems with the source or processing:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
