package kmeans

import "time"

// finalize collects the non-empty clusters. With EnforceNumClusters, empty
// clusters trigger exactly one block-split repair.
func (km *KMeans[T]) finalize(start time.Time) *Result[T] {
	final, empty := km.nonEmpty()

	repaired := false
	if empty > 0 && km.cfg.EnforceNumClusters {
		km.logger.Debug("kmeans repairing empty clusters", "empty", empty, "k", len(km.clusters))
		km.repair()
		repaired = true
		final, empty = km.nonEmpty()
	}

	res := km.result(final, repaired)

	km.metrics.OnFinalize(len(final), empty, repaired)
	km.logger.Info("kmeans finished",
		"vectors", len(km.data),
		"k", len(km.clusters),
		"clusters", len(final),
		"empty", empty,
		"rounds", len(res.Trace),
		"rmse", res.RMSE,
		"repaired", repaired,
		"duration", time.Since(start),
	)

	return res
}

func (km *KMeans[T]) nonEmpty() ([]*Cluster[T], int) {
	final := make([]*Cluster[T], 0, len(km.clusters))
	for _, c := range km.clusters {
		if c.Size() > 0 {
			final = append(final, c)
		}
	}
	return final, len(km.clusters) - len(final)
}

// repair shuffles the dataset and splits the permutation into k contiguous
// blocks of floor(n/k) or ceil(n/k) positions; a vector's cluster is the
// block holding its position. Every block is non-empty because k <= n.
func (km *KMeans[T]) repair() {
	roundStart := time.Now()

	n := len(km.data)
	k := len(km.clusters)
	for pos, i := range km.rng.Perm(n) {
		km.assignment[i] = pos * k / n
	}
	km.rebuild()
	km.updateCentroids()
	km.record(PhaseRepair, roundStart)
}

func (km *KMeans[T]) result(final []*Cluster[T], repaired bool) *Result[T] {
	pos := make([]int, len(km.clusters))
	for i := range pos {
		pos[i] = -1
	}
	for p, c := range final {
		pos[c.id] = p
	}

	assignments := make([]int, len(km.assignment))
	for i, a := range km.assignment {
		assignments[i] = pos[a]
	}

	return &Result[T]{
		Clusters:    final,
		Assignments: assignments,
		Trace:       km.traceCopy(),
		RMSE:        km.rmse(),
		Repaired:    repaired,
	}
}
