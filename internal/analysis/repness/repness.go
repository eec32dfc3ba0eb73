// Package repness selects the statements that best characterize each
// opinion group, with a guaranteed fallback and a guaranteed agreement
// highlight whenever one exists.
package repness

import (
	"math"
	"sort"

	"agora/domain/core"
	"agora/domain/opinion"
	"agora/internal/analysis/proptest"
)

// SelectRepresentative picks at most maxEntries representative statements
// per group, most representative first, with every agree-polarity entry
// ahead of every disagree-polarity entry.
//
// Per group the policy is:
//  1. A statement passes when its repness gap AND its in-group
//     probability are both significant, on either polarity.
//  2. The statement with the highest max(repAgreeZ, repDisagreeZ) is
//     tracked as a fallback even if nothing passes.
//  3. A best-agree candidate is tracked separately (see bestAgree) so an
//     agreement statement is always surfaced when one qualifies.
func SelectRepresentative(perGroup map[int][]opinion.CommentStat, maxEntries int) map[int][]opinion.RepresentativeStatement {
	if maxEntries <= 0 {
		maxEntries = 5
	}
	out := make(map[int][]opinion.RepresentativeStatement, len(perGroup))
	for groupID, stats := range perGroup {
		out[groupID] = selectForGroup(stats, maxEntries)
	}
	return out
}

func selectForGroup(stats []opinion.CommentStat, maxEntries int) []opinion.RepresentativeStatement {
	var (
		passing   []opinion.CommentStat
		best      *opinion.CommentStat
		bestScore float64
		agreeBest *opinion.CommentStat
	)

	for i := range stats {
		s := stats[i]

		if passes(s) {
			passing = append(passing, s)
		}

		// Fallback: highest repness significance seen so far, passing or not.
		if score := math.Max(s.RepAgreeZ, s.RepDisagreeZ); best == nil || score > bestScore {
			best = &stats[i]
			bestScore = score
		}

		agreeBest = betterAgree(agreeBest, &stats[i])
	}

	if len(passing) == 0 {
		if best == nil {
			return nil
		}
		return []opinion.RepresentativeStatement{toRepresentative(*best, strongerPolarity(*best), false)}
	}

	var result []opinion.RepresentativeStatement
	if agreeBest != nil {
		result = append(result, toRepresentative(*agreeBest, opinion.PolarityAgree, true))
		passing = without(passing, agreeBest.StatementID)
	}

	sort.SliceStable(passing, func(i, j int) bool {
		return compositeScore(passing[i]) > compositeScore(passing[j])
	})
	for _, s := range passing {
		result = append(result, toRepresentative(s, passingPolarity(s), false))
	}

	if len(result) > maxEntries {
		result = result[:maxEntries]
	}

	// Stable reorder: agrees first, relative order within each polarity
	// preserved from the score sort.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Polarity == opinion.PolarityAgree && result[j].Polarity == opinion.PolarityDisagree
	})
	return result
}

// passes applies the selection gate: a significant repness gap together
// with a significant in-group probability, on either polarity.
func passes(s opinion.CommentStat) bool {
	agree := proptest.IsSignificant90(s.RepAgreeZ) && proptest.IsSignificant90(s.ZAgree)
	disagree := proptest.IsSignificant90(s.RepDisagreeZ) && proptest.IsSignificant90(s.ZDisagree)
	return agree || disagree
}

// betterAgree decides whether candidate replaces the current best-agree
// statement. The priority ladder, in order:
//
//	(a) statements nobody agreed or disagreed with are never candidates
//	(b) against a current best with repAgree > 1, win on strictly
//	    greater repAgree·repAgreeZ·pAgree·zAgree
//	(c) against any other current best, win on strictly greater
//	    pAgree·zAgree
//	(d) with no current best, qualify only on significant zAgree, or
//	    repAgree > 1 with majority agreement
func betterAgree(current, candidate *opinion.CommentStat) *opinion.CommentStat {
	if candidate.Agrees == 0 && candidate.Disagrees == 0 {
		return current
	}
	if current != nil && current.RepAgree > 1.0 {
		if agreeProduct(*candidate) > agreeProduct(*current) {
			return candidate
		}
		return current
	}
	if current != nil {
		if candidate.PAgree*candidate.ZAgree > current.PAgree*current.ZAgree {
			return candidate
		}
		return current
	}
	if proptest.IsSignificant90(candidate.ZAgree) || (candidate.RepAgree > 1.0 && candidate.PAgree > 0.5) {
		return candidate
	}
	return nil
}

func agreeProduct(s opinion.CommentStat) float64 {
	return s.RepAgree * s.RepAgreeZ * s.PAgree * s.ZAgree
}

// compositeScore ranks passing statements by
// repness · repnessZ · successProb · successZ on their passing polarity.
func compositeScore(s opinion.CommentStat) float64 {
	if passingPolarity(s) == opinion.PolarityAgree {
		return s.RepAgree * s.RepAgreeZ * s.PAgree * s.ZAgree
	}
	return s.RepDisagree * s.RepDisagreeZ * s.PDisagree * s.ZDisagree
}

// passingPolarity picks the polarity a passing statement represents.
// When both polarities pass the gate, the stronger composite wins.
func passingPolarity(s opinion.CommentStat) opinion.Polarity {
	agree := proptest.IsSignificant90(s.RepAgreeZ) && proptest.IsSignificant90(s.ZAgree)
	disagree := proptest.IsSignificant90(s.RepDisagreeZ) && proptest.IsSignificant90(s.ZDisagree)
	switch {
	case agree && !disagree:
		return opinion.PolarityAgree
	case disagree && !agree:
		return opinion.PolarityDisagree
	default:
		return strongerPolarity(s)
	}
}

// strongerPolarity compares the two repness composites directly; ties go
// to agreement.
func strongerPolarity(s opinion.CommentStat) opinion.Polarity {
	agree := s.RepAgree * s.RepAgreeZ * s.PAgree * s.ZAgree
	disagree := s.RepDisagree * s.RepDisagreeZ * s.PDisagree * s.ZDisagree
	if disagree > agree {
		return opinion.PolarityDisagree
	}
	return opinion.PolarityAgree
}

func toRepresentative(s opinion.CommentStat, polarity opinion.Polarity, isBestAgree bool) opinion.RepresentativeStatement {
	rep := opinion.RepresentativeStatement{
		StatementID: s.StatementID,
		TrialCount:  s.Seen,
		Polarity:    polarity,
		IsBestAgree: isBestAgree,
	}
	if polarity == opinion.PolarityAgree {
		rep.SuccessCount = s.Agrees
		rep.SuccessProb = s.PAgree
		rep.SuccessZ = s.ZAgree
		rep.Repness = s.RepAgree
		rep.RepnessZ = s.RepAgreeZ
	} else {
		rep.SuccessCount = s.Disagrees
		rep.SuccessProb = s.PDisagree
		rep.SuccessZ = s.ZDisagree
		rep.Repness = s.RepDisagree
		rep.RepnessZ = s.RepDisagreeZ
	}
	return rep
}

func without(stats []opinion.CommentStat, id core.StatementID) []opinion.CommentStat {
	out := stats[:0]
	for _, s := range stats {
		if s.StatementID != id {
			out = append(out, s)
		}
	}
	return out
}
