package cluster

import (
	"golang.org/x/sync/errgroup"

	"agora/domain/opinion"
)

// RecommendK sweeps candidate cluster counts in 2..min(n-1, maxK),
// clusters each, and returns the k with the highest mean silhouette
// together with the full score table. The recommendation is advisory:
// callers decide whether to apply it. Candidate evaluations are
// independent and fan out across goroutines with a join barrier.
//
// Returns 0 and an empty table when no candidate range exists (fewer
// than 3 points).
func RecommendK(points [][]float64, maxK int, cfg Config) (int, []opinion.SilhouetteScore) {
	n := len(points)
	upper := n - 1
	if maxK > 0 && maxK < upper {
		upper = maxK
	}
	if upper < 2 {
		return 0, nil
	}

	scores := make([]opinion.SilhouetteScore, upper-1)
	var g errgroup.Group
	for k := 2; k <= upper; k++ {
		k := k
		g.Go(func() error {
			result := KMeans(points, k, cfg)
			scores[k-2] = opinion.SilhouetteScore{
				K:     k,
				Score: Silhouette(points, result.Assignments, k),
			}
			return nil
		})
	}
	// Evaluations never fail; Wait is purely the join barrier.
	_ = g.Wait()

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.K, scores
}
