// Package comparative computes the per-(statement, group) statistical
// records that feed representative-statement selection: smoothed vote
// probabilities, their significance, and how distinctly a group reacts
// compared with everyone outside it.
package comparative

import (
	"golang.org/x/sync/errgroup"

	"agora/domain/core"
	"agora/domain/opinion"
	"agora/domain/votes"
	"agora/internal/analysis/proptest"
)

// ComputeGroupStats produces one CommentStat per statement for every
// group. Comparative fields aggregate counts across all other groups.
// Statements are independent, so the per-statement computation fans out
// across goroutines with a join barrier before returning.
func ComputeGroupStats(m *votes.Matrix, groups []opinion.Group) map[int][]opinion.CommentStat {
	statements := m.Statements()
	ids := m.StatementIDs()

	perGroup := make(map[int][]opinion.CommentStat, len(groups))
	for _, g := range groups {
		perGroup[g.ID] = make([]opinion.CommentStat, statements)
	}

	var eg errgroup.Group
	for j := 0; j < statements; j++ {
		j := j
		eg.Go(func() error {
			counts := make([]votes.Counts, len(groups))
			var total votes.Counts
			for gi, g := range groups {
				c := m.CountStatement(j, g.Members)
				counts[gi] = c
				total.Agrees += c.Agrees
				total.Disagrees += c.Disagrees
				total.Passes += c.Passes
				total.Seen += c.Seen
			}

			for gi, g := range groups {
				in := counts[gi]
				rest := votes.Counts{
					Agrees:    total.Agrees - in.Agrees,
					Disagrees: total.Disagrees - in.Disagrees,
					Passes:    total.Passes - in.Passes,
					Seen:      total.Seen - in.Seen,
				}
				perGroup[g.ID][j] = statFor(ids[j], g.ID, in, rest)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return perGroup
}

// statFor builds the record for one (statement, group) pair from the
// in-group counts and the aggregated complement counts.
func statFor(id core.StatementID, groupID int, in, rest votes.Counts) opinion.CommentStat {
	pa := smoothed(in.Agrees, in.Seen)
	pd := smoothed(in.Disagrees, in.Seen)

	// The complement baseline (1+x)/(2+n) is never zero, so the repness
	// ratios need no division guard.
	ra := pa / smoothed(rest.Agrees, rest.Seen)
	rd := pd / smoothed(rest.Disagrees, rest.Seen)

	return opinion.CommentStat{
		StatementID: id,
		GroupID:     groupID,

		Agrees:    in.Agrees,
		Disagrees: in.Disagrees,
		Passes:    in.Passes,
		Seen:      in.Seen,

		PAgree:    pa,
		PDisagree: pd,
		ZAgree:    proptest.PropTest(in.Agrees, in.Seen),
		ZDisagree: proptest.PropTest(in.Disagrees, in.Seen),

		RepAgree:     ra,
		RepDisagree:  rd,
		RepAgreeZ:    proptest.TwoPropTest(in.Agrees, rest.Agrees, in.Seen, rest.Seen),
		RepDisagreeZ: proptest.TwoPropTest(in.Disagrees, rest.Disagrees, in.Seen, rest.Seen),
	}
}

// smoothed is the Bayesian-smoothed probability (successes+1)/(seen+2).
func smoothed(successes, seen int) float64 {
	return float64(successes+1) / float64(seen+2)
}
