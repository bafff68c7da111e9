package dataset

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/kmsig/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, dim int, sigs []*signature.Signature) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, dim, sigs))
	return buf.Bytes()
}

func TestRead(t *testing.T) {
	data := append([]byte("16\n"), 0x01, 0x80, 0xff, 0x00)

	ds, err := Read(bytes.NewReader(data), ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 16, ds.Dim)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"0", "1"}, ds.IDs())
	assert.Equal(t, "1000000000000001", ds.Signatures[0].String())
	assert.Equal(t, "1111111100000000", ds.Signatures[1].String())
}

func TestRead_HeaderErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "",
		"no newline":   "16",
		"not a number": "abc\n",
		"zero":         "0\n",
		"not byte":     "12\n",
		"negative":     "-8\n",
		"too long":     strings.Repeat("1", 40) + "\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(input), ReadOptions{})
			assert.ErrorIs(t, err, ErrInvalidHeader)
		})
	}
}

func TestRead_Truncated(t *testing.T) {
	data := append([]byte("16\n"), 0x01, 0x80, 0xff)

	_, err := Read(bytes.NewReader(data), ReadOptions{})
	assert.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestRead_HeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("64\n"), ReadOptions{})
	require.NoError(t, err)
	assert.Zero(t, ds.Len())
	assert.Equal(t, 64, ds.Dim)
}

func TestRead_MaxVectors(t *testing.T) {
	sigs := signature.Generate(rngFor(1), 10, 32, 0.5)
	data := encode(t, 32, sigs)

	ds, err := Read(bytes.NewReader(data), ReadOptions{MaxVectors: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())

	ds, err = Read(bytes.NewReader(data), ReadOptions{MaxVectors: -1})
	require.NoError(t, err)
	assert.Equal(t, 10, ds.Len())

	ds, err = Read(bytes.NewReader(data), ReadOptions{MaxVectors: 100})
	require.NoError(t, err)
	assert.Equal(t, 10, ds.Len())
}

func TestRead_IDs(t *testing.T) {
	sigs := signature.Generate(rngFor(2), 3, 8, 0.5)
	data := encode(t, 8, sigs)

	ds, err := Read(bytes.NewReader(data), ReadOptions{IDs: []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ds.IDs())

	_, err = Read(bytes.NewReader(data), ReadOptions{IDs: []string{"a", "b"}})
	assert.ErrorIs(t, err, ErrIdentifierCount)

	_, err = Read(bytes.NewReader(data), ReadOptions{IDs: []string{"a", "b", "c", "d"}})
	assert.ErrorIs(t, err, ErrIdentifierCount)

	// A capped read only needs identifiers for the records it keeps.
	ds, err = Read(bytes.NewReader(data), ReadOptions{IDs: []string{"a", "b", "c", "d"}, MaxVectors: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.IDs())
}

func TestRead_Progress(t *testing.T) {
	sigs := signature.Generate(rngFor(3), 50, 16, 0.5)
	data := encode(t, 16, sigs)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	_, err := Read(bytes.NewReader(data), ReadOptions{Logger: logger, ProgressInterval: time.Hour})
	require.NoError(t, err)

	// The first call always logs; the interval suppresses the rest.
	assert.Equal(t, 1, strings.Count(logs.String(), "loading signatures"))
}

func TestDataset_WithIDs(t *testing.T) {
	sigs := signature.Generate(rngFor(6), 3, 8, 0.5)
	ds := &Dataset{Dim: 8, Signatures: sigs}

	named, err := ds.WithIDs([]string{"a", "b", "c"}, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, named.IDs())
	assert.Equal(t, []string{"0", "1", "2"}, ds.IDs())
	assert.True(t, named.Signatures[1].Equal(sigs[1]))

	_, err = ds.WithIDs([]string{"a", "b"}, -1)
	assert.ErrorIs(t, err, ErrIdentifierCount)

	_, err = ds.WithIDs([]string{"a", "b", "c", "d"}, -1)
	assert.ErrorIs(t, err, ErrIdentifierCount)

	named, err = ds.WithIDs([]string{"a", "b", "c", "d"}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, named.Len())
}

func TestReadIDs(t *testing.T) {
	ids, err := ReadIDs(strings.NewReader("doc-1\r\ndoc-2\n\ndoc-4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1", "doc-2", "", "doc-4"}, ids)
}
