package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/metdatasystem/chprotolist/internal/payload"
)

type FileOptions struct {
	Name string
	// Append adds to an existing file instead of replacing it.
	Append bool
}

// File writes payloads to a local file. Names ending in .zst are zstd
// compressed, each write adding one zstd frame.
type File struct {
	opts FileOptions
}

func NewFile(opts FileOptions) (*File, error) {
	if opts.Name == "" {
		return nil, errors.New("no filename given")
	}
	return &File{opts: opts}, nil
}

func isCompressed(name string) bool {
	return strings.HasSuffix(name, ".zst")
}

func (f *File) Write(ctx context.Context, p payload.Payload) error {
	flags := os.O_CREATE | os.O_WRONLY
	if f.opts.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(f.opts.Name, flags, 0644) // 0644 permissions (rw-r--r--)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	var w io.Writer = file
	var enc *zstd.Encoder
	if isCompressed(f.opts.Name) {
		enc, err = zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return fmt.Errorf("error writing to file: %w", err)
		}
		w = enc
	}

	if _, err := w.Write(p.Data); err != nil {
		file.Close()
		return fmt.Errorf("error writing to file: %w", err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			file.Close()
			return fmt.Errorf("error writing to file: %w", err)
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }

type fileReader struct {
	io.Reader
	closers []func() error
}

func (r *fileReader) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// OpenFile opens a file written by File, decompressing it if needed.
func OpenFile(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !isCompressed(name) {
		return file, nil
	}

	dec, err := zstd.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open zstd stream: %w", err)
	}

	return &fileReader{
		Reader:  dec,
		closers: []func() error{func() error { dec.Close(); return nil }, file.Close},
	}, nil
}
