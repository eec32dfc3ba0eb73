// Package consensus flags statements a supermajority of actual voters
// agrees (or disagrees) on, for top-N display.
package consensus

import (
	"sort"

	"agora/domain/opinion"
	"agora/domain/votes"
)

// Scorer holds the consensus qualification thresholds.
type Scorer struct {
	threshold float64
	minVotes  int
}

// NewScorer creates a scorer. Non-positive arguments fall back to the
// defaults (0.6 voter share, 4 votes minimum).
func NewScorer(threshold float64, minVotes int) *Scorer {
	if threshold <= 0 {
		threshold = 0.6
	}
	if minVotes <= 0 {
		minVotes = 4
	}
	return &Scorer{threshold: threshold, minVotes: minVotes}
}

// Score evaluates every statement over the given participants (nil means
// the whole conversation) and returns the statements in consensus,
// sorted by total vote count descending.
//
// Percentages are relative to all eligible participants, no-votes
// included; the consensus share is judged among actual voters only.
// Missing votes therefore widen PctNoVote without diluting the flag.
func (s *Scorer) Score(m *votes.Matrix, members []int) []opinion.ConsensusStatement {
	eligible := len(members)
	if members == nil {
		eligible = m.Participants()
	}
	ids := m.StatementIDs()

	var qualifying []opinion.ConsensusStatement
	for j := 0; j < m.Statements(); j++ {
		c := m.CountStatement(j, members)
		record := opinion.ConsensusStatement{
			StatementID: ids[j],
			Agrees:      c.Agrees,
			Disagrees:   c.Disagrees,
			Passes:      c.Passes,
			Votes:       c.Votes(),
			Eligible:    eligible,
			PctAgree:    pct(c.Agrees, eligible),
			PctDisagree: pct(c.Disagrees, eligible),
			PctPass:     pct(c.Passes, eligible),
			PctNoVote:   pct(eligible-c.Votes(), eligible),
		}

		polarity, ok := s.consensusPolarity(c)
		if !ok {
			continue
		}
		record.Polarity = polarity
		qualifying = append(qualifying, record)
	}

	sort.SliceStable(qualifying, func(i, k int) bool {
		return qualifying[i].Votes > qualifying[k].Votes
	})
	return qualifying
}

// consensusPolarity decides whether the voter share on either side
// clears the threshold with enough votes behind it.
func (s *Scorer) consensusPolarity(c votes.Counts) (opinion.Polarity, bool) {
	if c.Votes() < s.minVotes || c.Votes() == 0 {
		return "", false
	}
	agreeShare := float64(c.Agrees) / float64(c.Votes())
	disagreeShare := float64(c.Disagrees) / float64(c.Votes())
	switch {
	case agreeShare >= s.threshold:
		return opinion.PolarityAgree, true
	case disagreeShare >= s.threshold:
		return opinion.PolarityDisagree, true
	default:
		return "", false
	}
}

// pct guards the zero-participant case to 0 instead of NaN.
func pct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
