// Package cluster discovers opinion groups with Lloyd's k-means over the
// 2-D projection and recommends a cluster count by mean silhouette.
//
// Clustering is deterministically seeded for reproducibility: the same
// points and parameters always produce the same partition.
package cluster

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"agora/domain/opinion"
)

// DefaultSeed matches the fixed random state of the reference analysis
// runs, keeping partitions comparable across reruns.
const DefaultSeed = 42

// Config tunes the k-means run.
type Config struct {
	MaxIterations int   // default 100
	Seed          int64 // default DefaultSeed
}

func (c Config) normalized() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 100
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// Result is a raw k-means partition over arbitrary-dimension points.
type Result struct {
	Assignments []int
	Centroids   [][]float64
}

// KMeans partitions points into k clusters by iterative centroid
// relocation. Empty clusters are allowed: their centroids simply stop
// moving. k is clamped to at least 1.
func KMeans(points [][]float64, k int, cfg Config) Result {
	cfg = cfg.normalized()
	if k < 1 {
		k = 1
	}
	n := len(points)
	assignments := make([]int, n)
	if n == 0 {
		return Result{Assignments: assignments, Centroids: zeroCentroids(k, 0)}
	}
	dim := len(points[0])

	centroids := seedCentroids(points, k, cfg.Seed)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		moved := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				moved = true
			}
		}
		if iter > 0 && !moved {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			floats.Add(sums[assignments[i]], p)
			counts[assignments[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	return Result{Assignments: assignments, Centroids: centroids}
}

// seedCentroids picks k starting centroids from a seeded permutation of
// the points, preferring distinct coordinates so coincident participants
// cannot seed the same centroid twice. When k exceeds the number of
// distinct points the remainder start as duplicates and go empty after
// the first assignment.
func seedCentroids(points [][]float64, k int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(points))

	centroids := make([][]float64, 0, k)
	for _, idx := range perm {
		if len(centroids) == k {
			break
		}
		if hasPoint(centroids, points[idx]) {
			continue
		}
		centroids = append(centroids, clonePoint(points[idx]))
	}
	for i := 0; len(centroids) < k; i++ {
		centroids = append(centroids, clonePoint(points[perm[i%len(perm)]]))
	}
	return centroids
}

func hasPoint(set [][]float64, p []float64) bool {
	for _, q := range set {
		if floats.Equal(p, q) {
			return true
		}
	}
	return false
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func zeroCentroids(k, dim int) [][]float64 {
	out := make([][]float64, k)
	for c := range out {
		out[c] = make([]float64, dim)
	}
	return out
}

// Silhouette returns the mean silhouette coefficient (b-a)/max(a,b) over
// all points: a is the mean intra-cluster distance, b the mean distance
// to the nearest other cluster's points. Points without a comparable
// cluster score zero.
func Silhouette(points [][]float64, assignments []int, k int) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return 0
	}

	byCluster := make([][]int, k)
	for i, c := range assignments {
		byCluster[c] = append(byCluster[c], i)
	}

	scores := make([]float64, 0, n)
	for i, p := range points {
		own := assignments[i]

		a := 0.0
		if len(byCluster[own]) > 1 {
			sum := 0.0
			for _, j := range byCluster[own] {
				if j != i {
					sum += floats.Distance(p, points[j], 2)
				}
			}
			a = sum / float64(len(byCluster[own])-1)
		}

		b := math.Inf(1)
		for c, members := range byCluster {
			if c == own || len(members) == 0 {
				continue
			}
			sum := 0.0
			for _, j := range members {
				sum += floats.Distance(p, points[j], 2)
			}
			if mean := sum / float64(len(members)); mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			scores = append(scores, 0)
			continue
		}

		if denom := math.Max(a, b); denom > 0 {
			scores = append(scores, (b-a)/denom)
		} else {
			scores = append(scores, 0)
		}
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return 0
	}
	return mean
}

// ClusterParticipants partitions the projection into exactly k groups.
// Fewer than 2 participants degrades to a single trivial group; the
// returned groups always partition the participant index set.
func ClusterParticipants(projection opinion.Projection, k int, cfg Config) []opinion.Group {
	n := len(projection)
	if n < 2 {
		group := opinion.Group{ID: 0, Members: []int{}}
		if n == 1 {
			group.Centroid = projection[0]
			group.Members = []int{0}
		}
		return []opinion.Group{group}
	}
	if k < 1 {
		k = 1
	}

	result := KMeans(pointsOf(projection), k, cfg)
	groups := make([]opinion.Group, k)
	for c := range groups {
		groups[c] = opinion.Group{
			ID: c,
			Centroid: opinion.Point{
				X: result.Centroids[c][0],
				Y: result.Centroids[c][1],
			},
			Members: []int{},
		}
	}
	for i, c := range result.Assignments {
		groups[c].Members = append(groups[c].Members, i)
	}
	return groups
}

func pointsOf(projection opinion.Projection) [][]float64 {
	points := make([][]float64, len(projection))
	for i, p := range projection {
		points[i] = []float64{p.X, p.Y}
	}
	return points
}
