// Package pca implements the sparsity-aware principal component engine
// that embeds participants into the 2-D opinion space.
//
// Missing votes are never imputed: each statement is centered on the
// mean of its *observed* votes only, and unobserved cells contribute
// nothing to any dot product. Projections are rescaled by
// sqrt(statements/observed) so participants with few votes do not
// collapse toward the origin.
package pca

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"agora/domain/opinion"
	"agora/domain/votes"
)

// Engine extracts principal components by power iteration with
// Gram-Schmidt deflation between components.
type Engine struct {
	maxIterations int
	tolerance     float64
}

// NewEngine creates an engine with the given power iteration budget and
// eigenvalue-delta stopping tolerance. Non-positive arguments fall back
// to the defaults (100 iterations, 1e-10).
func NewEngine(maxIterations int, tolerance float64) *Engine {
	if maxIterations <= 0 {
		maxIterations = 100
	}
	if tolerance <= 0 {
		tolerance = 1e-10
	}
	return &Engine{maxIterations: maxIterations, tolerance: tolerance}
}

// Project computes the centered principal components of the vote matrix.
// Degenerate inputs (no participants, a single participant, a single
// statement) return well-defined trivial results rather than failing.
func (e *Engine) Project(m *votes.Matrix, numComponents int) opinion.PCAResult {
	if numComponents <= 0 {
		numComponents = 2
	}
	participants := m.Participants()
	statements := m.Statements()

	center := computeCenter(m)
	comps := make([][]float64, numComponents)
	for c := range comps {
		comps[c] = make([]float64, statements)
	}
	result := opinion.PCAResult{Center: center, Comps: comps}

	if statements == 0 || participants == 0 {
		return result
	}

	if participants == 1 {
		// The centered single row is identically zero, so the only
		// meaningful direction is the row itself.
		row := denseRow(m.Row(0))
		if n := floats.Norm(row, 2); n > 0 {
			floats.Scale(1/n, row)
			comps[0] = row
		}
		return result
	}

	if statements == 1 {
		comps[0][0] = 1
		return result
	}

	// Centered matrix with unobserved cells left at zero: excluded cells
	// then contribute nothing to any dot product below.
	centered := make([][]float64, participants)
	for i := 0; i < participants; i++ {
		row := make([]float64, statements)
		for j, v := range m.Row(i) {
			if v.Observed() {
				row[j] = v.Value() - center[j]
			}
		}
		centered[i] = row
	}

	var firstEigen float64
	for c := 0; c < numComponents && c < statements; c++ {
		comp, eigen, ok := e.dominantComponent(centered, comps[:c])
		if !ok {
			break
		}
		if c == 0 {
			firstEigen = eigen
		} else if eigen < rankTolerance*firstEigen {
			// Rank exhausted: what remains after deflation is rounding
			// noise, not a real direction. Later components stay zero.
			break
		}
		comps[c] = comp
		deflate(centered, comp)
	}

	return result
}

// rankTolerance is the eigenvalue floor, relative to the dominant
// eigenvalue, below which a deflated matrix counts as rank-exhausted.
const rankTolerance = 1e-9

// dominantComponent runs power iteration on the implicit covariance
// matrix XᵀX, re-orthogonalizing every iterate against the components
// already found so deflation rounding noise cannot steer it back onto
// a removed direction. If the iteration fails to converge within the
// budget the best iterate found so far is returned; an approximate
// answer is acceptable here. Returns the iterate's eigenvalue so the
// caller can detect rank exhaustion; ok=false when the matrix has no
// remaining direction at all.
func (e *Engine) dominantComponent(rows [][]float64, prev [][]float64) ([]float64, float64, bool) {
	statements := len(rows[0])

	// Deterministic seed: all-0.5, normalized.
	v := make([]float64, statements)
	for j := range v {
		v[j] = 0.5
	}
	floats.Scale(1/floats.Norm(v, 2), v)
	orthogonalize(v, prev)

	var eigen float64
	prevEigen := math.Inf(1)
	for iter := 0; iter < e.maxIterations; iter++ {
		w := mulCovVec(rows, v)
		orthogonalize(w, prev)
		eigen = floats.Norm(w, 2)
		if eigen == 0 || !isFiniteVec(w) {
			return nil, 0, false
		}
		floats.Scale(1/eigen, w)
		v = w
		if math.Abs(eigen-prevEigen) < e.tolerance {
			break
		}
		prevEigen = eigen
	}
	return v, eigen, true
}

// orthogonalize subtracts v's projection onto each previously found
// component, skipping components never assigned (still zero).
func orthogonalize(v []float64, prev [][]float64) {
	for _, p := range prev {
		if u := floats.Dot(v, p); u != 0 {
			floats.AddScaled(v, -u, p)
		}
	}
}

// mulCovVec computes XᵀX·v without materializing the covariance matrix.
func mulCovVec(rows [][]float64, v []float64) []float64 {
	out := make([]float64, len(v))
	for _, row := range rows {
		u := floats.Dot(row, v)
		if u != 0 {
			floats.AddScaled(out, u, row)
		}
	}
	return out
}

// deflate removes each row's projection onto comp so the next power
// iteration finds an orthogonal direction.
func deflate(rows [][]float64, comp []float64) {
	for _, row := range rows {
		u := floats.Dot(row, comp)
		if u != 0 {
			floats.AddScaled(row, -u, comp)
		}
	}
}

// computeCenter returns the per-statement mean over observed votes only.
// Statements nobody voted on center at zero.
func computeCenter(m *votes.Matrix) []float64 {
	statements := m.Statements()
	center := make([]float64, statements)
	counts := make([]int, statements)
	for i := 0; i < m.Participants(); i++ {
		for j, v := range m.Row(i) {
			if v.Observed() {
				center[j] += v.Value()
				counts[j]++
			}
		}
	}
	for j := range center {
		if counts[j] > 0 {
			center[j] /= float64(counts[j])
		}
	}
	return center
}

// SparsityAwareProject embeds one participant row into the component
// space, scaling by sqrt(statements/observed) to compensate for sparse
// voters. A row with no observed votes, or any non-finite result,
// returns the zero point.
func SparsityAwareProject(row []votes.Vote, result opinion.PCAResult) opinion.Point {
	statements := len(result.Center)
	observed := 0
	var x, y float64
	for j, v := range row {
		if j >= statements || !v.Observed() {
			continue
		}
		observed++
		c := v.Value() - result.Center[j]
		if len(result.Comps) > 0 {
			x += c * result.Comps[0][j]
		}
		if len(result.Comps) > 1 {
			y += c * result.Comps[1][j]
		}
	}
	if observed == 0 {
		return opinion.Point{}
	}
	scale := math.Sqrt(float64(statements) / float64(observed))
	p := opinion.Point{X: x * scale, Y: y * scale}
	if !isFinite(p.X) || !isFinite(p.Y) {
		return opinion.Point{}
	}
	return p
}

// ProjectParticipants embeds every participant row.
func ProjectParticipants(m *votes.Matrix, result opinion.PCAResult) opinion.Projection {
	proj := make(opinion.Projection, m.Participants())
	for i := range proj {
		proj[i] = SparsityAwareProject(m.Row(i), result)
	}
	return proj
}

// StatementExtremities projects each statement as a unit basis query row
// (a lone disagree at its own position) and reports the projected vector
// length. Extreme statements land far from the origin.
func StatementExtremities(m *votes.Matrix, result opinion.PCAResult) []opinion.StatementExtremity {
	statements := m.Statements()
	ids := m.StatementIDs()
	out := make([]opinion.StatementExtremity, statements)
	for j := 0; j < statements; j++ {
		query := make([]votes.Vote, statements)
		for k := range query {
			query[k] = votes.NoVote
		}
		query[j] = votes.Disagree
		p := SparsityAwareProject(query, result)
		out[j] = opinion.StatementExtremity{
			StatementID: ids[j],
			Extremity:   math.Hypot(p.X, p.Y),
		}
	}
	return out
}

func denseRow(row []votes.Vote) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if v.Observed() {
			out[j] = v.Value()
		}
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isFiniteVec(v []float64) bool {
	for _, f := range v {
		if !isFinite(f) {
			return false
		}
	}
	return true
}
