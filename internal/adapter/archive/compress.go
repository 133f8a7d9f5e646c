package archive

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Codec identifies the compression applied to a file.
type Codec int

const (
	CodecNone Codec = iota
	CodecGzip
	CodecZstd
)

// CodecFor picks the codec from the file extension.
func CodecFor(path string) Codec {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CodecGzip
	case strings.HasSuffix(path, ".zst"):
		return CodecZstd
	default:
		return CodecNone
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open opens a file for reading, decompressing by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(f, CodecFor(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return readCloser{Reader: rc, close: func() error {
		rc.Close()
		return f.Close()
	}}, nil
}

// NewReader wraps r with the decompressor for codec. Closing the result does
// not close r.
func NewReader(r io.Reader, codec Codec) (io.ReadCloser, error) {
	switch codec {
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case CodecZstd:
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return readCloser{Reader: d, close: func() error {
			d.Close()
			return nil
		}}, nil
	default:
		return io.NopCloser(r), nil
	}
}

type writeCloser struct {
	io.Writer
	close func() error
}

func (w writeCloser) Close() error { return w.close() }

// Create creates or truncates a file, compressing by extension. Close flushes
// the compressor before closing the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	wc, err := NewWriter(f, CodecFor(path))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return writeCloser{Writer: wc, close: func() error {
		if err := wc.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}}, nil
}

// NewWriter wraps w with the compressor for codec. Closing the result flushes
// the compressor but does not close w.
func NewWriter(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case CodecGzip:
		return gzip.NewWriterLevel(w, gzip.BestSpeed)
	case CodecZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
