package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/kmsig/blobstore"
)

// Open opens a blob for sequential reading, decompressing by name suffix.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (io.ReadCloser, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", name, err)
	}

	rc, err := NewDecompressor(blobstore.NewReader(blob), CompressionFor(name))
	if err != nil {
		_ = blob.Close()
		return nil, fmt.Errorf("dataset: open %s: %w", name, err)
	}

	return &blobReader{ReadCloser: rc, blob: blob}, nil
}

type blobReader struct {
	io.ReadCloser
	blob blobstore.Blob
}

func (r *blobReader) Close() error {
	return errors.Join(r.ReadCloser.Close(), r.blob.Close())
}

// Load reads a signature file and, when idsName is not empty, its identifier
// file.
func Load(ctx context.Context, store blobstore.BlobStore, name, idsName string, opts ReadOptions) (*Dataset, error) {
	if idsName != "" {
		ids, err := LoadIDs(ctx, store, idsName)
		if err != nil {
			return nil, err
		}
		opts.IDs = ids
	}

	rc, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ds, err := Read(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", name, err)
	}
	return ds, nil
}

// LoadIDs reads an identifier blob.
func LoadIDs(ctx context.Context, store blobstore.BlobStore, name string) ([]string, error) {
	rc, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ids, err := ReadIDs(rc)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", name, err)
	}
	return ids, nil
}

// Save creates a blob, compresses by name suffix and passes a buffered writer
// to fn. The blob is committed only if fn and every flush succeed; otherwise
// it is aborted.
func Save(ctx context.Context, store blobstore.BlobStore, name string, fn func(w io.Writer) error) (err error) {
	wb, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = wb.Abort()
		}
	}()

	cw, err := NewCompressor(wb, CompressionFor(name))
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", name, err)
	}

	bw := bufio.NewWriterSize(cw, 1<<16)
	if err := fn(bw); err != nil {
		_ = cw.Close()
		return fmt.Errorf("dataset: write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		_ = cw.Close()
		return fmt.Errorf("dataset: write %s: %w", name, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("dataset: write %s: %w", name, err)
	}
	if err := wb.Close(); err != nil {
		return fmt.Errorf("dataset: commit %s: %w", name, err)
	}
	return nil
}
