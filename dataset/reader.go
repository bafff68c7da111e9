package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/kmsig/signature"
	"golang.org/x/time/rate"
)

// maxHeaderLen bounds the dimension line.
const maxHeaderLen = 32

// Dataset is a loaded signature file.
type Dataset struct {
	Dim        int
	Signatures []*signature.Signature
}

// Len returns the number of signatures.
func (d *Dataset) Len() int { return len(d.Signatures) }

// IDs returns the identifiers in dataset order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.Signatures))
	for i, s := range d.Signatures {
		ids[i] = s.ID()
	}
	return ids
}

// ReadOptions controls Read.
type ReadOptions struct {
	// MaxVectors stops after this many records. Values below 1 read all.
	MaxVectors int

	// IDs names the records in order. nil means decimal record indices.
	IDs []string

	// Logger receives throttled progress messages. nil disables them.
	Logger *slog.Logger

	// ProgressInterval is the minimum time between progress messages.
	// Default one second.
	ProgressInterval time.Duration
}

// ReadHeader reads the dimension line.
func ReadHeader(br *bufio.Reader) (int, error) {
	var sb strings.Builder
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("%w: missing newline", ErrInvalidHeader)
			}
			return 0, err
		}
		if c == '\n' {
			break
		}
		if sb.Len() >= maxHeaderLen {
			return 0, fmt.Errorf("%w: header longer than %d bytes", ErrInvalidHeader, maxHeaderLen)
		}
		sb.WriteByte(c)
	}

	line := strings.TrimSpace(sb.String())
	dim, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHeader, line)
	}
	if dim <= 0 || dim%8 != 0 {
		return 0, fmt.Errorf("%w: dimension %d is not a positive multiple of 8", ErrInvalidHeader, dim)
	}
	return dim, nil
}

// Read decodes a signature file from r.
func Read(r io.Reader, opts ReadOptions) (*Dataset, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	dim, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}

	limit := opts.MaxVectors
	if limit < 1 {
		limit = -1
	}

	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = time.Second
	}
	progress := rate.Sometimes{Interval: interval}

	recLen := signature.ByteLen(dim)
	buf := make([]byte, recLen)

	ds := &Dataset{Dim: dim}
	if limit > 0 {
		ds.Signatures = make([]*signature.Signature, 0, limit)
	}

	for limit < 0 || len(ds.Signatures) < limit {
		n, err := io.ReadFull(br, buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: record %d has %d of %d bytes", ErrTruncatedRecord, len(ds.Signatures), n, recLen)
		}
		if err != nil {
			return nil, err
		}

		i := len(ds.Signatures)
		var id string
		if opts.IDs != nil {
			if i >= len(opts.IDs) {
				return nil, fmt.Errorf("%w: more than %d records", ErrIdentifierCount, len(opts.IDs))
			}
			id = opts.IDs[i]
		} else {
			id = strconv.Itoa(i)
		}

		sig, err := signature.FromBytes(id, dim, buf)
		if err != nil {
			return nil, err
		}
		ds.Signatures = append(ds.Signatures, sig)

		if opts.Logger != nil {
			progress.Do(func() {
				opts.Logger.Info("loading signatures", "read", len(ds.Signatures), "dim", dim)
			})
		}
	}

	if opts.IDs != nil {
		if err := checkIDCount(len(opts.IDs), len(ds.Signatures), limit); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// WithIDs returns a copy of d whose signatures carry ids. maxVectors is the
// cap the dataset was read with: a capped read only needs identifiers for the
// records it kept.
func (d *Dataset) WithIDs(ids []string, maxVectors int) (*Dataset, error) {
	limit := maxVectors
	if limit < 1 {
		limit = -1
	}
	if len(ids) < len(d.Signatures) {
		return nil, fmt.Errorf("%w: %d identifiers for %d records", ErrIdentifierCount, len(ids), len(d.Signatures))
	}
	if err := checkIDCount(len(ids), len(d.Signatures), limit); err != nil {
		return nil, err
	}

	out := &Dataset{Dim: d.Dim, Signatures: make([]*signature.Signature, len(d.Signatures))}
	for i, s := range d.Signatures {
		out.Signatures[i] = s.WithID(ids[i])
	}
	return out, nil
}

// checkIDCount requires every identifier to be consumed unless the read
// stopped at its cap.
func checkIDCount(ids, records, limit int) error {
	if ids != records && records != limit {
		return fmt.Errorf("%w: %d identifiers for %d records", ErrIdentifierCount, ids, records)
	}
	return nil
}

// ReadIDs reads one identifier per line. A trailing carriage return is
// stripped.
func ReadIDs(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var ids []string
	for sc.Scan() {
		ids = append(ids, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read identifiers: %w", err)
	}
	return ids, nil
}
