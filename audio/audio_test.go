// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audstream/internal/audiotest"
)

// magicDecoder accepts input starting with its magic bytes.
type magicDecoder struct {
	magic string
	calls *int
}

func (d magicDecoder) Decode(r io.Reader) (Source, error) {
	if d.calls != nil {
		*d.calls++
	}
	buf := make([]byte, len(d.magic))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	if string(buf) != d.magic {
		return nil, errors.New("bad magic " + d.magic)
	}
	return audiotest.NewSilentSource(8000, 1, 10), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("wav", magicDecoder{magic: "RIFF"}, ".wav", "WAVE")
	reg.Register("ogg", magicDecoder{magic: "OggS"}, "ogg")

	if _, ok := reg.Get("wav"); !ok {
		t.Error("Get(wav) not found")
	}
	if _, ok := reg.Get("flac"); ok {
		t.Error("Get(flac) found, want missing")
	}

	got := reg.Formats()
	if len(got) != 2 || got[0] != "wav" || got[1] != "ogg" {
		t.Errorf("Formats() = %v, want [wav ogg]", got)
	}

	// re-registering keeps the original order
	reg.Register("wav", magicDecoder{magic: "RIFF"})
	if got := reg.Formats(); len(got) != 2 {
		t.Errorf("Formats() after re-register = %v", got)
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("wav", magicDecoder{magic: "RIFF"}, ".wav", ".wave")
	reg.Register("ogg", magicDecoder{magic: "OggS"}, "ogg")

	tests := []struct {
		path   string
		format string
		ok     bool
	}{
		{path: "/tmp/a.wav", format: "wav", ok: true},
		{path: "A.WAVE", format: "wav", ok: true},
		{path: "music.ogg", format: "ogg", ok: true},
		{path: "noext", ok: false},
		{path: "song.flac", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			format, dec, ok := reg.ForPath(tt.path)
			if ok != tt.ok || format != tt.format {
				t.Errorf("ForPath(%q) = %q, %v; want %q, %v", tt.path, format, ok, tt.format, tt.ok)
			}
			if ok && dec == nil {
				t.Error("ForPath returned nil decoder")
			}
		})
	}
}

func TestRegistry_Detect(t *testing.T) {
	t.Parallel()

	var wavCalls, oggCalls int
	reg := NewRegistry()
	reg.Register("wav", magicDecoder{magic: "RIFF", calls: &wavCalls})
	reg.Register("ogg", magicDecoder{magic: "OggS", calls: &oggCalls})

	format, src, err := reg.Detect(bytes.NewReader([]byte("OggS....")), "")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if format != "ogg" || src == nil {
		t.Errorf("Detect() = %q, %v; want ogg", format, src)
	}
	if wavCalls != 1 || oggCalls != 1 {
		t.Errorf("calls wav=%d ogg=%d, want 1 and 1", wavCalls, oggCalls)
	}

	// hint is probed first
	wavCalls, oggCalls = 0, 0
	if _, _, err := reg.Detect(bytes.NewReader([]byte("OggS....")), "ogg"); err != nil {
		t.Fatalf("Detect() with hint error = %v", err)
	}
	if wavCalls != 0 || oggCalls != 1 {
		t.Errorf("with hint calls wav=%d ogg=%d, want 0 and 1", wavCalls, oggCalls)
	}
}

func TestRegistry_DetectUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, _, err := reg.Detect(bytes.NewReader([]byte("junk")), "")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("empty registry error = %v, want ErrUnknownFormat", err)
	}

	reg.Register("wav", magicDecoder{magic: "RIFF"})
	_, _, err = reg.Detect(bytes.NewReader([]byte("junk")), "")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}
