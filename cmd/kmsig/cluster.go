package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hupe1980/kmsig"
	"github.com/hupe1980/kmsig/prommetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type clusterFlags struct {
	config      string
	in          string
	ids         bool
	out         string
	clusters    int
	threads     int
	maxIters    int
	eps         float64
	enforce     bool
	saStart     float64
	saIters     int
	seeding     string
	trials      int
	grain       int
	seed        uint64
	maxVectors  int
	metricsAddr string
}

func newClusterCmd(root *rootFlags) *cobra.Command {
	flags := &clusterFlags{}
	defaults := kmsig.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster a signature file",
		Long: `Cluster the signatures in IN.bin and write OUT.assign.csv and OUT.trace.csv.

With --ids, identifiers are read from IN.ids; otherwise the record index is
used. Flags override values from --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCluster(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "YAML configuration file")
	f.StringVar(&flags.in, "in", "", "input base path; reads IN.bin and, with --ids, IN.ids")
	f.BoolVar(&flags.ids, "ids", false, "read identifiers from IN.ids")
	f.StringVar(&flags.out, "out", "", "output base path (default IN)")
	f.IntVarP(&flags.clusters, "clusters", "k", defaults.Clusters, "number of clusters")
	f.IntVarP(&flags.threads, "threads", "t", defaults.Threads, "worker threads")
	f.IntVar(&flags.maxIters, "max-iters", defaults.MaxIters, "Lloyd rounds per phase, -1 for no limit")
	f.Float64Var(&flags.eps, "eps", defaults.Epsilon, "stop when the RMSE improves by less than this")
	f.BoolVar(&flags.enforce, "enforce", false, "refill empty clusters once at the end")
	f.Float64Var(&flags.saStart, "sa-start", defaults.SAStart, "initial annealing acceptance probability")
	f.IntVar(&flags.saIters, "sa-iters", defaults.SAIters, "annealing rounds")
	f.StringVar(&flags.seeding, "seeding", defaults.Seeding, "seeding strategy (random, dsquared)")
	f.IntVar(&flags.trials, "trials", defaults.LocalTrials, "candidates per D² seeding step")
	f.IntVar(&flags.grain, "grain", defaults.GrainSize, "vectors per assignment task")
	f.Uint64Var(&flags.seed, "seed", 0, "random seed (default: time based)")
	f.IntVar(&flags.maxVectors, "max-vectors", defaults.MaxVectors, "read at most this many vectors, -1 for all")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

// buildConfig merges the config file with the flags that were set.
func buildConfig(cmd *cobra.Command, flags *clusterFlags) (kmsig.Config, error) {
	cfg := kmsig.DefaultConfig()
	if flags.config != "" {
		var err error
		if cfg, err = kmsig.LoadConfig(flags.config); err != nil {
			return cfg, err
		}
	}

	set := cmd.Flags().Changed

	if flags.in != "" {
		cfg.Signatures = flags.in + ".bin"
		if flags.ids {
			cfg.Identifiers = flags.in + ".ids"
		}
	}
	out := flags.out
	if out == "" {
		out = flags.in
	}
	if out != "" {
		cfg.Assignments = out + ".assign.csv"
		cfg.Trace = out + ".trace.csv"
	}

	if set("clusters") {
		cfg.Clusters = flags.clusters
	}
	if set("threads") {
		cfg.Threads = flags.threads
	}
	if set("max-iters") {
		cfg.MaxIters = flags.maxIters
	}
	if set("eps") {
		cfg.Epsilon = flags.eps
	}
	if set("enforce") {
		cfg.EnforceNumClusters = flags.enforce
	}
	if set("sa-start") {
		cfg.SAStart = flags.saStart
	}
	if set("sa-iters") {
		cfg.SAIters = flags.saIters
	}
	if set("seeding") {
		cfg.Seeding = flags.seeding
	}
	if set("trials") {
		cfg.LocalTrials = flags.trials
	}
	if set("grain") {
		cfg.GrainSize = flags.grain
	}
	if set("seed") {
		seed := flags.seed
		cfg.Seed = &seed
	}
	if set("max-vectors") {
		cfg.MaxVectors = flags.maxVectors
	}

	return cfg, cfg.Validate()
}

func runCluster(cmd *cobra.Command, root *rootFlags, flags *clusterFlags) error {
	ctx := cmd.Context()

	cfg, err := buildConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger, err := root.logger()
	if err != nil {
		return err
	}

	in, sigName, idsName, err := root.stores.openPair(ctx, cfg.Signatures, cfg.Identifiers)
	if err != nil {
		return err
	}
	out, assignName, traceName, err := root.stores.openPair(ctx, cfg.Assignments, cfg.Trace)
	if err != nil {
		return err
	}
	cfg.Signatures, cfg.Identifiers = sigName, idsName
	cfg.Assignments, cfg.Trace = assignName, traceName

	opts := []kmsig.Option{
		kmsig.WithStore(in),
		kmsig.WithOutputStore(out),
		kmsig.WithLogger(logger),
	}

	if flags.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := prommetrics.NewCollector(reg)
		if err != nil {
			return err
		}
		opts = append(opts, kmsig.WithMetricsCollector(collector))

		srv := serveMetrics(flags.metricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	c, err := kmsig.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer c.Close()

	report, err := c.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "vectors=%d clusters=%d/%d rounds=%d rmse=%g repaired=%t duration=%s\n",
		report.Vectors, report.Clusters, report.Requested, report.Rounds, report.RMSE, report.Repaired,
		report.Total().Round(time.Millisecond))

	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *kmsig.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}
