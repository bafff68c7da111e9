package kmeans

import (
	"context"
	"time"
)

// anneal runs SAIters perturbed rounds. In each round every vector keeps its
// nearest centroid except with the round's acceptance probability, in which
// case it moves to a uniformly random cluster. Each round is followed by a
// fresh Lloyd phase.
func (km *KMeans[T]) anneal(ctx context.Context) error {
	rounds := km.cfg.SAIters
	for r := range rounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		roundStart := time.Now()
		p := acceptance(km.cfg.SAStart, r, rounds)

		km.assignNearest()
		k := len(km.clusters)
		perturbed := 0
		for i := range km.assignment {
			if km.rng.Float64() < p {
				km.assignment[i] = km.rng.IntN(k)
				perturbed++
			}
		}
		km.rebuild()
		km.updateCentroids()
		km.record(PhaseAnneal, roundStart)

		km.logger.Debug("kmeans annealing round",
			"round", r+1,
			"of", rounds,
			"acceptance", p,
			"perturbed", perturbed,
		)

		if err := km.lloyd(ctx, 0); err != nil {
			return err
		}
	}
	return nil
}

// acceptance decreases linearly from start in round 0 to start/3 in the last round.
func acceptance(start float64, round, rounds int) float64 {
	if rounds <= 1 {
		return start
	}
	end := start / 3
	return start - (start-end)*float64(round)/float64(rounds-1)
}
