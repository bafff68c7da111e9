package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/hupe1980/kmsig/dataset"
	"github.com/hupe1980/kmsig/signature"
	"github.com/spf13/cobra"
)

type genFlags struct {
	dim     int
	numVecs int
	p       float64
	seed    uint64
	out     string
	ids     bool
}

func newGenCmd(root *rootFlags) *cobra.Command {
	flags := &genFlags{}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random signature file",
		Long: `Write OUT.bin with NUMVECS signatures of DIM bits, each bit set with
probability P. With --ids, OUT.ids lists the record indices.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGen(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.dim, "dim", 128, "bits per signature, a positive multiple of 8")
	f.IntVar(&flags.numVecs, "numvecs", 100, "number of signatures")
	f.Float64Var(&flags.p, "p", 0.5, "probability of a set bit")
	f.Uint64Var(&flags.seed, "seed", 12, "random seed")
	f.StringVar(&flags.out, "out", "", "output base path")
	f.BoolVar(&flags.ids, "ids", false, "also write OUT.ids")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runGen(cmd *cobra.Command, root *rootFlags, flags *genFlags) error {
	switch {
	case flags.dim <= 0 || flags.dim%8 != 0:
		return fmt.Errorf("--dim must be a positive multiple of 8, got %d", flags.dim)
	case flags.numVecs < 0:
		return fmt.Errorf("--numvecs must not be negative, got %d", flags.numVecs)
	case flags.p < 0 || flags.p > 1:
		return fmt.Errorf("--p must be in [0, 1], got %g", flags.p)
	}

	ctx := cmd.Context()

	idsPath := ""
	if flags.ids {
		idsPath = flags.out + ".ids"
	}
	store, name, idsName, err := root.stores.openPair(ctx, flags.out+".bin", idsPath)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(flags.seed, flags.seed))
	sigs := signature.Generate(rng, flags.numVecs, flags.dim, flags.p)

	err = dataset.Save(ctx, store, name, func(w io.Writer) error {
		return dataset.Write(w, flags.dim, sigs)
	})
	if err == nil && idsName != "" {
		ids := make([]string, len(sigs))
		for i, s := range sigs {
			ids[i] = s.ID()
		}
		err = dataset.Save(ctx, store, idsName, func(w io.Writer) error {
			return dataset.WriteIDs(w, ids)
		})
	}
	if err != nil {
		return fmt.Errorf("gen %s: %w", flags.out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d signatures of %d bits to %s.bin\n", flags.numVecs, flags.dim, flags.out)
	return nil
}
