// SPDX-License-Identifier: EPL-2.0

// Package audstream streams decoded audio to a sound device a few buffers
// at a time, without ever holding a whole file in memory.
//
// The engine is split across subpackages:
//   - audio: the Source, Decoder and Registry contracts, the Resampler and
//     the ChannelMixer
//   - formats: WAV, AIFF, Ogg Vorbis and MP3 decoders with seeking
//   - device: the shared, reference-counted output Context, the software
//     Mixer every backend is built on, and the null backend
//   - device/malgo, device/oto, device/portaudio, device/beep and
//     device/wavfile: output backends, registered by importing them
//   - stream: the Stream playback engine and its SoundSource attributes
//   - music: file-backed streams with loop points
//   - tone: generated test signals
//   - config: YAML, .env and environment configuration
//
// # Playing a File
//
//	import _ "github.com/ik5/audstream/device/malgo"
//
//	factory, _ := device.Lookup("malgo")
//	dev := device.NewContext(factory(device.DefaultConfig()), logger)
//
//	m := music.New(music.Options{Options: stream.Options{Device: dev}})
//	defer m.Close()
//	if err := m.OpenFile("song.ogg"); err != nil {
//		return err
//	}
//	m.SetLooping(true)
//	m.Play()
//
// Streams that share a device.Context share one backend; the backend is
// opened by the first Play and closed when the last stream is closed. If
// it cannot be opened, streams keep their timing on a silent voice.
//
// # Writing a Source
//
// Anything implementing stream.Source can be played. Produce is called
// from the stream's worker whenever a buffer frees up and Seek whenever
// the playing offset is changed:
//
//	type noise struct{ buf []float32 }
//
//	func (n *noise) Produce(maxFrames int, loop bool) (stream.Chunk, bool) {
//		n.buf = n.buf[:0]
//		for range maxFrames {
//			n.buf = append(n.buf, rand.Float32()*2-1)
//		}
//		return stream.Chunk{Samples: n.buf}, true
//	}
//
//	func (n *noise) Seek(frame int64) int64 { return frame }
//
//	s := stream.New(&noise{}, stream.Options{Device: dev})
//	s.Initialize(1, 44100, nil)
//	s.Play()
//
// # Offline Conversion
//
// Render16 runs any audio.Source through the resampler and channel mixer
// and returns 16-bit PCM, which formats/wav can write out.
package audstream
