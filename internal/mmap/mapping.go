package mmap

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// Mapping is a read-only memory-mapped file. ReadAt and Close may be called
// concurrently; Close waits for in-flight reads before unmapping.
type Mapping struct {
	path   string
	mu     sync.RWMutex
	data   []byte
	closed bool
	unmap  func([]byte) error
}

// Open maps the file at path and applies the access hint. Empty files yield
// an empty mapping without a kernel mapping behind it.
func Open(path string, pattern AccessPattern) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 || size > math.MaxInt {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	m := &Mapping{path: path}
	if size == 0 {
		return m, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap: map %s: %w", path, err)
	}
	m.data = data
	m.unmap = unmap

	if pattern != AccessDefault {
		if err := osAdvise(data, pattern); err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("mmap: advise %s: %w", path, err)
		}
	}

	return m, nil
}

// Path returns the mapped file path.
func (m *Mapping) Path() string { return m.path }

// Size returns the mapped length in bytes.
func (m *Mapping) Size() int64 { return int64(len(m.data)) }

// Bytes returns the mapped memory, or nil after Close. The slice must not be
// used after Close.
func (m *Mapping) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil
	}
	return m.data
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file. It is idempotent.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}
