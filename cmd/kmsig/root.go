package main

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/kmsig"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel string
	logJSON  bool
	stores   storeConfig
}

func (f *rootFlags) logger() (*kmsig.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", f.logLevel, err)
	}
	if f.logJSON {
		return kmsig.NewJSONLogger(level), nil
	}
	return kmsig.NewTextLogger(level), nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "kmsig",
		Short: "Cluster bit-vector signatures with parallel k-means",
		Long: `kmsig clusters binary signature files by Hamming distance.

Examples:
  kmsig gen --out sigs --numvecs 10000 --dim 256
  kmsig cluster --in sigs --clusters 64 --threads 8
  kmsig cluster --in s3://bucket/corpus/docs --ids --out s3://bucket/runs/docs`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&flags.logJSON, "log-json", false, "log as JSON")
	pf.StringVar(&flags.stores.region, "s3-region", "", "AWS region for s3:// paths")
	pf.BoolVar(&flags.stores.minioInsecure, "minio-insecure", false, "use plain HTTP for minio:// paths")

	cmd.AddCommand(newClusterCmd(flags))
	cmd.AddCommand(newGenCmd(flags))

	return cmd
}
