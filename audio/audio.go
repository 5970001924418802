// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	// A live source may return (0, nil) when it has nothing buffered yet.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// SeekableSource is a Source with a known length that can be repositioned.
type SeekableSource interface {
	Source

	// TotalFrames returns the number of frames in the stream, or -1 when unknown.
	TotalFrames() int64
	// SeekFrame moves the read cursor to frame and returns the frame actually
	// reached. Targets past the end land on the end.
	SeekFrame(frame int64) (int64, error)
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
// Registration order is kept and decides probe order in Detect.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register adds d under format. Extensions are matched case-insensitively,
// with or without the leading dot.
func (r *Registry) Register(format string, d Decoder, extensions ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d

	for _, ext := range extensions {
		r.exts[normalizeExt(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// ForPath resolves a decoder from the extension of path.
func (r *Registry) ForPath(path string) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	format, ok := r.exts[normalizeExt(filepath.Ext(path))]
	if !ok {
		return "", nil, false
	}

	return format, r.codecs[format], true
}

// Formats lists registered format keys in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Clone(r.order)
}

// Detect probes rs with every registered decoder, starting with hint when it
// names a registered format, and returns the first one that accepts it.
// rs is rewound before each attempt.
func (r *Registry) Detect(rs io.ReadSeeker, hint string) (string, Source, error) {
	r.mtx.Lock()
	formats := make([]string, 0, len(r.order))
	if _, ok := r.codecs[hint]; ok {
		formats = append(formats, hint)
	}
	for _, f := range r.order {
		if f != hint {
			formats = append(formats, f)
		}
	}
	decoders := make([]Decoder, len(formats))
	for i, f := range formats {
		decoders[i] = r.codecs[f]
	}
	r.mtx.Unlock()

	var lastErr error
	for i, d := range decoders {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return "", nil, fmt.Errorf("rewinding input: %w", err)
		}

		src, err := d.Decode(rs)
		if err == nil {
			return formats[i], src, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrUnknownFormat, lastErr)
	}

	return "", nil, ErrUnknownFormat
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
