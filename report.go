package kmsig

import (
	"slices"
	"time"

	"github.com/hupe1980/kmsig/dataset"
	"github.com/hupe1980/kmsig/kmeans"
	"github.com/hupe1980/kmsig/signature"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes a Run.
type Report struct {
	Vectors   int
	Dim       int
	Requested int
	Clusters  int
	Rounds    int
	RMSE      float64
	Repaired  bool

	// Cluster size statistics over the non-empty clusters.
	SizeMean   float64
	SizeStdDev float64
	MinSize    int
	MaxSize    int

	LoadDuration    time.Duration
	ClusterDuration time.Duration
	SaveDuration    time.Duration
}

// Total returns the sum of the stage durations. It is safe on a nil Report.
func (r *Report) Total() time.Duration {
	if r == nil {
		return 0
	}
	return r.LoadDuration + r.ClusterDuration + r.SaveDuration
}

// Sizes returns the member count of every cluster.
func Sizes[T any](res *kmeans.Result[T]) []int {
	sizes := make([]int, len(res.Clusters))
	for i, c := range res.Clusters {
		sizes[i] = c.Size()
	}
	return sizes
}

func (r *Report) fill(ds *dataset.Dataset, res *kmeans.Result[*signature.Signature]) {
	r.Vectors = ds.Len()
	r.Dim = ds.Dim
	r.Clusters = len(res.Clusters)
	r.Rounds = res.Rounds()
	r.RMSE = res.RMSE
	r.Repaired = res.Repaired

	sizes := Sizes(res)
	if len(sizes) == 0 {
		return
	}

	r.MinSize = slices.Min(sizes)
	r.MaxSize = slices.Max(sizes)

	x := make([]float64, len(sizes))
	for i, s := range sizes {
		x[i] = float64(s)
	}
	if len(x) == 1 {
		r.SizeMean = x[0]
		return
	}
	r.SizeMean, r.SizeStdDev = stat.MeanStdDev(x, nil)
}
