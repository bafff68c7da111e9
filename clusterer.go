package kmsig

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/kmsig/blobstore"
	"github.com/hupe1980/kmsig/dataset"
	"github.com/hupe1980/kmsig/kmeans"
	"github.com/hupe1980/kmsig/signature"
	"golang.org/x/sync/errgroup"
)

// Clusterer loads a signature dataset, clusters it and writes the results.
// It owns a clustering engine; call Close to release its workers.
//
// A Clusterer is not safe for concurrent use.
type Clusterer struct {
	cfg     Config
	engine  *kmeans.KMeans[*signature.Signature]
	input   blobstore.BlobStore
	output  blobstore.BlobStore
	metrics MetricsCollector
	logger  *Logger
	closed  bool
}

// New validates cfg and starts the clustering engine.
func New(cfg Config, optFns ...Option) (*Clusterer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(optFns)

	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}

	engineOpts := []kmeans.Option{
		kmeans.WithLogger(o.logger.Logger),
		kmeans.WithMetricsObserver(engineObserver{mc: o.metricsCollector}),
	}
	if cfg.Seed != nil {
		engineOpts = append(engineOpts, kmeans.WithSeed(*cfg.Seed))
	}

	engine, err := kmeans.New[*signature.Signature](signature.HammingSpace{}, ec, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Clusterer{
		cfg:     cfg,
		engine:  engine,
		input:   o.input,
		output:  o.output,
		metrics: o.metricsCollector,
		logger:  o.logger.WithDataset(cfg.Signatures),
	}, nil
}

// Config returns the run configuration.
func (c *Clusterer) Config() Config { return c.cfg }

// Load reads the signature blob and, if configured, the identifier blob.
// Both are read concurrently.
func (c *Clusterer) Load(ctx context.Context) (*dataset.Dataset, error) {
	if c.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	ds, err := c.load(ctx)
	duration := time.Since(start)

	vectors, dim := 0, 0
	if ds != nil {
		vectors, dim = ds.Len(), ds.Dim
	}
	c.metrics.RecordLoad(vectors, duration, err)
	c.logger.LogLoad(ctx, vectors, dim, duration, err)

	return ds, err
}

func (c *Clusterer) load(ctx context.Context) (*dataset.Dataset, error) {
	var (
		ds  *dataset.Dataset
		ids []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ds, err = dataset.Load(gctx, c.input, c.cfg.Signatures, "", dataset.ReadOptions{
			MaxVectors: c.cfg.MaxVectors,
			Logger:     c.logger.Logger,
		})
		return err
	})
	if c.cfg.Identifiers != "" {
		g.Go(func() error {
			var err error
			ids, err = dataset.LoadIDs(gctx, c.input, c.cfg.Identifiers)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if ids != nil {
		return ds.WithIDs(ids, c.cfg.MaxVectors)
	}
	return ds, nil
}

// Cluster runs the engine on ds and verifies that the result partitions it.
func (c *Clusterer) Cluster(ctx context.Context, ds *dataset.Dataset) (*kmeans.Result[*signature.Signature], error) {
	if c.closed {
		return nil, ErrClosed
	}

	res, err := c.engine.Cluster(ctx, ds.Signatures)
	if err != nil {
		return nil, err
	}
	if err := res.CheckPartition(ds.Len()); err != nil {
		return nil, err
	}
	return res, nil
}

// Save writes the assignment and trace blobs concurrently. Either blob is
// aborted if its write fails.
func (c *Clusterer) Save(ctx context.Context, ds *dataset.Dataset, res *kmeans.Result[*signature.Signature]) error {
	if c.closed {
		return ErrClosed
	}

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dataset.Save(gctx, c.output, c.cfg.Assignments, func(w io.Writer) error {
			return dataset.WriteAssignments(w, ds.IDs(), res.Assignments)
		})
	})
	if c.cfg.Trace != "" {
		g.Go(func() error {
			return dataset.Save(gctx, c.output, c.cfg.Trace, func(w io.Writer) error {
				return dataset.WriteTrace(w, res.Trace)
			})
		})
	}
	err := g.Wait()

	duration := time.Since(start)
	c.metrics.RecordSave(duration, err)
	c.logger.LogSave(ctx, c.cfg.Assignments, c.cfg.Trace, duration, err)

	return err
}

// Run loads, clusters and saves, and reports the outcome. Failures are
// logged once and returned as *StageError.
func (c *Clusterer) Run(ctx context.Context) (*Report, error) {
	report, err := c.run(ctx)
	c.metrics.RecordRun(report.Total(), err)
	c.logger.LogRun(ctx, report, err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Clusterer) run(ctx context.Context) (*Report, error) {
	report := &Report{Requested: c.cfg.Clusters}

	start := time.Now()
	ds, err := c.Load(ctx)
	report.LoadDuration = time.Since(start)
	if err != nil {
		return report, stageError("load", err)
	}

	start = time.Now()
	res, err := c.Cluster(ctx, ds)
	report.ClusterDuration = time.Since(start)
	if err != nil {
		return report, stageError("cluster", err)
	}

	start = time.Now()
	err = c.Save(ctx, ds, res)
	report.SaveDuration = time.Since(start)
	if err != nil {
		return report, stageError("save", err)
	}

	report.fill(ds, res)
	return report, nil
}

// Close stops the engine. It is idempotent.
//
// Close must not run concurrently with Load, Cluster, Save, Run or another
// Close; a Clusterer has a single owner.
func (c *Clusterer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.engine.Close(); err != nil {
		return fmt.Errorf("kmsig: close engine: %w", err)
	}
	return nil
}
