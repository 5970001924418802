// SPDX-License-Identifier: EPL-2.0

// Package tone synthesizes periodic waveforms and plays them through a
// stream.Stream. A Tone is mostly useful for testing a device setup without
// an audio file at hand:
//
//	t, err := tone.New(tone.Config{
//		Waveform:   tone.Sine,
//		Frequency:  440,
//		Amplitude:  0.3,
//		Channels:   2,
//		SampleRate: 44100,
//		Duration:   2 * time.Second,
//	}, stream.Options{Device: ctx})
//	if err != nil {
//		return err
//	}
//	defer t.Close()
//	t.Play()
package tone
