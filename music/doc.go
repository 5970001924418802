// SPDX-License-Identifier: EPL-2.0

// Package music streams audio files through a stream.Stream.
//
//	m := music.New(music.Options{})
//	defer m.Close()
//	if err := m.OpenFile("theme.ogg"); err != nil {
//		return err
//	}
//	m.SetLooping(true)
//	m.Play()
//
// WAV, AIFF, Ogg Vorbis and MP3 are decoded by default; pass a Registry in
// Options to change that.
package music
