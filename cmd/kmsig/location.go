package main

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/kmsig/blobstore"
	miniostore "github.com/hupe1980/kmsig/blobstore/minio"
	s3store "github.com/hupe1980/kmsig/blobstore/s3"
)

// location is a parsed blob path. Local paths have an empty scheme.
//
//	docs.bin
//	s3://bucket/prefix/docs.bin
//	minio://host:9000/bucket/prefix/docs.bin
type location struct {
	scheme string
	host   string
	bucket string
	dir    string
	name   string
}

func parseLocation(raw string) (location, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		dir, name := filepath.Split(raw)
		if name == "" {
			return location{}, fmt.Errorf("invalid path %q: missing file name", raw)
		}
		return location{dir: filepath.Clean(dir), name: name}, nil
	}

	parts := strings.Split(rest, "/")
	switch scheme {
	case "s3":
		if len(parts) < 2 || parts[0] == "" || parts[len(parts)-1] == "" {
			return location{}, fmt.Errorf("invalid path %q: want s3://bucket/[prefix/]name", raw)
		}
		return location{
			scheme: scheme,
			bucket: parts[0],
			dir:    path.Join(parts[1 : len(parts)-1]...),
			name:   parts[len(parts)-1],
		}, nil
	case "minio":
		if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[len(parts)-1] == "" {
			return location{}, fmt.Errorf("invalid path %q: want minio://host/bucket/[prefix/]name", raw)
		}
		return location{
			scheme: scheme,
			host:   parts[0],
			bucket: parts[1],
			dir:    path.Join(parts[2 : len(parts)-1]...),
			name:   parts[len(parts)-1],
		}, nil
	default:
		return location{}, fmt.Errorf("invalid path %q: unsupported scheme %q", raw, scheme)
	}
}

// sameStore reports whether both locations resolve to one store.
func (l location) sameStore(o location) bool {
	return l.scheme == o.scheme && l.host == o.host && l.bucket == o.bucket && l.dir == o.dir
}

// storeConfig carries the flags that affect remote stores.
type storeConfig struct {
	region        string
	minioInsecure bool
}

func (c storeConfig) open(ctx context.Context, l location) (blobstore.BlobStore, error) {
	switch l.scheme {
	case "":
		return blobstore.NewLocalStore(l.dir), nil
	case "s3":
		opts := []s3store.Option{s3store.WithPrefix(l.dir)}
		if c.region != "" {
			opts = append(opts, s3store.WithRegion(c.region))
		}
		return s3store.New(ctx, l.bucket, opts...)
	case "minio":
		return miniostore.Connect(l.host, !c.minioInsecure, l.bucket, l.dir)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", l.scheme)
	}
}

// openPair resolves a primary blob and an optional companion that must live
// next to it. It returns the store and both names relative to it.
func (c storeConfig) openPair(ctx context.Context, primary, companion string) (blobstore.BlobStore, string, string, error) {
	pl, err := parseLocation(primary)
	if err != nil {
		return nil, "", "", err
	}

	var companionName string
	if companion != "" {
		cl, err := parseLocation(companion)
		if err != nil {
			return nil, "", "", err
		}
		if !pl.sameStore(cl) {
			return nil, "", "", fmt.Errorf("%s must be in the same location as %s", companion, primary)
		}
		companionName = cl.name
	}

	store, err := c.open(ctx, pl)
	if err != nil {
		return nil, "", "", err
	}
	return store, pl.name, companionName, nil
}
