// Package app orchestrates the opinion analysis pipeline. Every run is a
// pure function of the vote matrix and the parameter set: each stage
// produces a new immutable snapshot consumed by the next, and any input
// change triggers a full recomputation rather than an in-place patch.
package app

import (
	"log"
	"sort"
	"time"

	"agora/domain/core"
	"agora/domain/opinion"
	"agora/domain/votes"
	"agora/internal/analysis/cluster"
	"agora/internal/analysis/comparative"
	"agora/internal/analysis/consensus"
	"agora/internal/analysis/pca"
	"agora/internal/analysis/repness"
)

// AnalysisService runs the full pipeline:
// votes → PCA → projection → groups → {consensus, comparative → repness}.
type AnalysisService struct {
	params opinion.AnalysisParams
}

// NewAnalysisService creates a service with the given parameter set.
// Zero-valued fields fall back to the documented defaults.
func NewAnalysisService(params opinion.AnalysisParams) *AnalysisService {
	return &AnalysisService{params: params.Normalized()}
}

// Analyze runs every stage over the matrix and returns a fresh result
// snapshot. Degenerate inputs produce trivial but structurally valid
// results; Analyze never fails.
func (s *AnalysisService) Analyze(m *votes.Matrix) *opinion.AnalysisResult {
	params := s.params
	started := time.Now()

	engine := pca.NewEngine(params.PowerIterations, params.PowerTolerance)
	pcaResult := engine.Project(m, params.NumComponents)
	projection := pca.ProjectParticipants(m, pcaResult)
	extremities := pca.StatementExtremities(m, pcaResult)

	clusterCfg := cluster.Config{}
	recommendedK, silhouettes := cluster.RecommendK(projectionPoints(projection), params.MaxK, clusterCfg)

	// The recommendation is advisory; an explicit K always wins.
	k := params.K
	if k <= 0 {
		k = recommendedK
	}
	if k <= 0 {
		k = 1
	}
	groups := cluster.ClusterParticipants(projection, k, clusterCfg)

	commentStats := comparative.ComputeGroupStats(m, groups)
	representatives := repness.SelectRepresentative(commentStats, params.MaxRepresentatives)

	overall := consensus.NewScorer(params.ConsensusThreshold, params.MinVotes)
	perGroupScorer := consensus.NewScorer(params.ConsensusThreshold, params.MinVotesPerGroup)
	groupConsensus := make(map[int][]opinion.ConsensusStatement, len(groups))
	for _, g := range groups {
		groupConsensus[g.ID] = perGroupScorer.Score(m, g.Members)
	}

	result := &opinion.AnalysisResult{
		RunID:        core.RunID(core.NewID()),
		Participants: m.Participants(),
		Statements:   m.Statements(),
		Params:       params,

		PCA:         pcaResult,
		Projection:  projection,
		Extremities: extremities,

		Groups:       groups,
		RecommendedK: recommendedK,
		Silhouettes:  silhouettes,

		CommentStats:    commentStats,
		Representatives: representatives,
		Consensus:       overall.Score(m, nil),
		GroupConsensus:  groupConsensus,

		ComputedAt: core.Now(),
	}

	log.Printf("[analysis] run %s: %d participants × %d statements, k=%d (recommended %d) in %.2fms",
		result.RunID, result.Participants, result.Statements, len(groups), recommendedK,
		float64(time.Since(started).Nanoseconds())/1e6)

	return result
}

// SweepResult compares silhouette quality of clustering the raw vote
// rows against clustering the 2-D PCA projection, per candidate k.
type SweepResult struct {
	MatrixScores []opinion.SilhouetteScore `json:"matrix_scores"`
	PCAScores    []opinion.SilhouetteScore `json:"pca_scores"`

	OptimalMatrixK int `json:"optimal_matrix_k"`
	OptimalPCAK    int `json:"optimal_pca_k"`

	MatrixClusterSizes []int `json:"matrix_cluster_sizes"` // descending
	PCAClusterSizes    []int `json:"pca_cluster_sizes"`    // descending
}

// SilhouetteSweep runs the candidate-k comparison over both spaces.
// Raw rows use NoVote-as-zero distances, which is acceptable for the
// diagnostic sweep only.
func (s *AnalysisService) SilhouetteSweep(m *votes.Matrix) *SweepResult {
	params := s.params
	clusterCfg := cluster.Config{}

	dense := m.DenseRows()
	engine := pca.NewEngine(params.PowerIterations, params.PowerTolerance)
	pcaResult := engine.Project(m, params.NumComponents)
	projection := projectionPoints(pca.ProjectParticipants(m, pcaResult))

	matrixK, matrixScores := cluster.RecommendK(dense, params.MaxK, clusterCfg)
	pcaK, pcaScores := cluster.RecommendK(projection, params.MaxK, clusterCfg)

	result := &SweepResult{
		MatrixScores:   matrixScores,
		PCAScores:      pcaScores,
		OptimalMatrixK: matrixK,
		OptimalPCAK:    pcaK,
	}
	if matrixK > 0 {
		result.MatrixClusterSizes = clusterSizes(cluster.KMeans(dense, matrixK, clusterCfg), matrixK)
	}
	if pcaK > 0 {
		result.PCAClusterSizes = clusterSizes(cluster.KMeans(projection, pcaK, clusterCfg), pcaK)
	}
	return result
}

func clusterSizes(result cluster.Result, k int) []int {
	sizes := make([]int, k)
	for _, c := range result.Assignments {
		sizes[c]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

func projectionPoints(projection opinion.Projection) [][]float64 {
	points := make([][]float64, len(projection))
	for i, p := range projection {
		points[i] = []float64{p.X, p.Y}
	}
	return points
}
