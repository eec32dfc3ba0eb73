package opinion

import (
	"agora/domain/core"
)

// ============================================================================
// GEOMETRY
// ============================================================================

// Point is a location in the 2-D opinion space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PCAResult holds the sparsity-aware principal components of a vote matrix.
// INVARIANTS:
// - Center[j] is the mean of *observed* votes for statement j only
// - Comps are pairwise orthogonal and unit-length within numerical tolerance
type PCAResult struct {
	Center []float64   `json:"center"`
	Comps  [][]float64 `json:"comps"`
}

// NumComponents returns how many components were retained.
func (r PCAResult) NumComponents() int {
	return len(r.Comps)
}

// Projection is the per-participant 2-D embedding of the vote matrix.
type Projection []Point

// StatementExtremity is a statement's distance from the origin when the
// statement itself is projected as a unit basis query row. Larger values
// mark statements that divide the opinion space more sharply.
type StatementExtremity struct {
	StatementID core.StatementID `json:"statement_id"`
	Extremity   float64          `json:"extremity"`
}

// ============================================================================
// GROUPS
// ============================================================================

// Group is one discovered opinion group.
// INVARIANT: across a clustering result the Members sets partition the
// participant index set exactly (every participant in exactly one group).
type Group struct {
	ID       int   `json:"id"`
	Centroid Point `json:"centroid"`
	Members  []int `json:"members"`
}

// Size returns the number of members.
func (g Group) Size() int {
	return len(g.Members)
}

// SilhouetteScore pairs a candidate cluster count with its mean silhouette.
type SilhouetteScore struct {
	K     int     `json:"k"`
	Score float64 `json:"score"`
}

// ============================================================================
// STATEMENT STATISTICS
// ============================================================================

// Polarity marks which reaction a representative statement stands for.
type Polarity string

const (
	PolarityAgree    Polarity = "agree"
	PolarityDisagree Polarity = "disagree"
)

// CommentStat holds the full per-(statement, group) statistical record.
// Probabilities are Bayesian-smoothed: pa = (na+1)/(ns+2). Comparative
// fields relate the group to the aggregate of all other groups;
// RepAgree > 1 means this group agrees more than the rest.
type CommentStat struct {
	StatementID core.StatementID `json:"statement_id"`
	GroupID     int              `json:"group_id"`

	Agrees    int `json:"agrees"`
	Disagrees int `json:"disagrees"`
	Passes    int `json:"passes"`
	Seen      int `json:"seen"`

	PAgree    float64 `json:"p_agree"`
	PDisagree float64 `json:"p_disagree"`
	ZAgree    float64 `json:"z_agree"`
	ZDisagree float64 `json:"z_disagree"`

	RepAgree     float64 `json:"rep_agree"`
	RepDisagree  float64 `json:"rep_disagree"`
	RepAgreeZ    float64 `json:"rep_agree_z"`
	RepDisagreeZ float64 `json:"rep_disagree_z"`
}

// RepresentativeStatement is one entry of a group's representative list.
// Success* fields are the counts/probability/z for the entry's polarity;
// Repness/RepnessZ compare the group against everyone else.
type RepresentativeStatement struct {
	StatementID  core.StatementID `json:"statement_id"`
	SuccessCount int              `json:"success_count"`
	TrialCount   int              `json:"trial_count"`
	SuccessProb  float64          `json:"success_prob"`
	SuccessZ     float64          `json:"success_z"`
	Repness      float64          `json:"repness"`
	RepnessZ     float64          `json:"repness_z"`
	Polarity     Polarity         `json:"polarity"`
	IsBestAgree  bool             `json:"is_best_agree,omitempty"`
}

// ConsensusStatement is the consensus scorer's per-statement record.
// Percentages are relative to total eligible participants; the consensus
// flag is decided on the share among actual voters (no-votes excluded).
type ConsensusStatement struct {
	StatementID core.StatementID `json:"statement_id"`
	Agrees      int              `json:"agrees"`
	Disagrees   int              `json:"disagrees"`
	Passes      int              `json:"passes"`
	Votes       int              `json:"votes"`
	Eligible    int              `json:"eligible"`
	PctAgree    float64          `json:"pct_agree"`
	PctDisagree float64          `json:"pct_disagree"`
	PctPass     float64          `json:"pct_pass"`
	PctNoVote   float64          `json:"pct_no_vote"`
	Polarity    Polarity         `json:"polarity"`
}

// ============================================================================
// PARAMETERS & RESULT SNAPSHOT
// ============================================================================

// AnalysisParams is the externally owned parameter set, passed by value
// into every stage. Zero values fall back to the documented defaults.
type AnalysisParams struct {
	NumComponents      int     `json:"num_components"`      // default 2
	K                  int     `json:"k"`                   // 0 = use silhouette recommendation
	MaxK               int     `json:"max_k"`               // default 9
	PowerIterations    int     `json:"power_iterations"`    // default 100
	PowerTolerance     float64 `json:"power_tolerance"`     // default 1e-10
	ConsensusThreshold float64 `json:"consensus_threshold"` // default 0.6
	MinVotes           int     `json:"min_votes"`           // default 4
	MinVotesPerGroup   int     `json:"min_votes_per_group"` // default 3
	MaxRepresentatives int     `json:"max_representatives"` // default 5
}

// DefaultParams returns the standard analysis parameter set.
func DefaultParams() AnalysisParams {
	return AnalysisParams{
		NumComponents:      2,
		K:                  0,
		MaxK:               9,
		PowerIterations:    100,
		PowerTolerance:     1e-10,
		ConsensusThreshold: 0.6,
		MinVotes:           4,
		MinVotesPerGroup:   3,
		MaxRepresentatives: 5,
	}
}

// Normalized fills zero-valued fields with their defaults.
func (p AnalysisParams) Normalized() AnalysisParams {
	d := DefaultParams()
	if p.NumComponents <= 0 {
		p.NumComponents = d.NumComponents
	}
	if p.MaxK <= 0 {
		p.MaxK = d.MaxK
	}
	if p.PowerIterations <= 0 {
		p.PowerIterations = d.PowerIterations
	}
	if p.PowerTolerance <= 0 {
		p.PowerTolerance = d.PowerTolerance
	}
	if p.ConsensusThreshold <= 0 {
		p.ConsensusThreshold = d.ConsensusThreshold
	}
	if p.MinVotes <= 0 {
		p.MinVotes = d.MinVotes
	}
	if p.MinVotesPerGroup <= 0 {
		p.MinVotesPerGroup = d.MinVotesPerGroup
	}
	if p.MaxRepresentatives <= 0 {
		p.MaxRepresentatives = d.MaxRepresentatives
	}
	return p
}

// AnalysisResult is the immutable snapshot produced by one pipeline run.
// Any change to the vote matrix or parameters replaces the whole snapshot;
// nothing is patched in place.
type AnalysisResult struct {
	RunID        core.RunID     `json:"run_id"`
	Participants int            `json:"participants"`
	Statements   int            `json:"statements"`
	Params       AnalysisParams `json:"params"`

	PCA         PCAResult            `json:"pca"`
	Projection  Projection           `json:"projection"`
	Extremities []StatementExtremity `json:"extremities"`

	Groups       []Group           `json:"groups"`
	RecommendedK int               `json:"recommended_k"`
	Silhouettes  []SilhouetteScore `json:"silhouettes"`

	CommentStats    map[int][]CommentStat             `json:"comment_stats"`
	Representatives map[int][]RepresentativeStatement `json:"representatives"`
	Consensus       []ConsensusStatement              `json:"consensus"`
	GroupConsensus  map[int][]ConsensusStatement      `json:"group_consensus"`

	ComputedAt core.Timestamp `json:"computed_at"`
}
