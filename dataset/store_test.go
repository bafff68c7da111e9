package dataset

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hupe1980/kmsig/blobstore"
	"github.com/hupe1980/kmsig/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionFor(t *testing.T) {
	assert.Equal(t, CompressionZSTD, CompressionFor("data.bin.zst"))
	assert.Equal(t, CompressionLZ4, CompressionFor("data.bin.lz4"))
	assert.Equal(t, CompressionNone, CompressionFor("data.bin"))
	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, "lz4", CompressionLZ4.String())
	assert.Equal(t, "none", CompressionNone.String())
}

func TestSaveLoad_Compression(t *testing.T) {
	ctx := context.Background()
	sigs := signature.Generate(rngFor(5), 40, 64, 0.5)
	ids := make([]string, len(sigs))
	for i := range ids {
		ids[i] = "doc-" + sigs[i].ID()
	}

	for _, suffix := range []string{"", ".zst", ".lz4"} {
		t.Run("suffix"+suffix, func(t *testing.T) {
			store := blobstore.NewMemoryStore()

			require.NoError(t, Save(ctx, store, "sigs.bin"+suffix, func(w io.Writer) error {
				return Write(w, 64, sigs)
			}))
			require.NoError(t, Save(ctx, store, "sigs.ids"+suffix, func(w io.Writer) error {
				return WriteIDs(w, ids)
			}))

			raw, ok := store.Get("sigs.bin" + suffix)
			require.True(t, ok)
			if suffix == "" {
				assert.Equal(t, "64\n", string(raw[:3]))
			} else {
				assert.NotEqual(t, "64\n", string(raw[:3]))
			}

			ds, err := Load(ctx, store, "sigs.bin"+suffix, "sigs.ids"+suffix, ReadOptions{})
			require.NoError(t, err)
			require.Equal(t, len(sigs), ds.Len())
			assert.Equal(t, ids, ds.IDs())
			for i := range sigs {
				assert.True(t, sigs[i].Equal(ds.Signatures[i]))
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := blobstore.NewMemoryStore()

	_, err := Load(context.Background(), store, "missing.bin", "", ReadOptions{})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	store.Put("sigs.bin", []byte("8\n\x01"))
	_, err = Load(context.Background(), store, "sigs.bin", "missing.ids", ReadOptions{})
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSave_AbortsOnError(t *testing.T) {
	store := blobstore.NewMemoryStore()
	boom := errors.New("boom")

	err := Save(context.Background(), store, "out.csv", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.Names())
}
