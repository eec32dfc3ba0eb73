package repness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agora/domain/core"
	"agora/domain/opinion"
)

func agreeStat(id string, repness, repnessZ, prob, probZ float64) opinion.CommentStat {
	return opinion.CommentStat{
		StatementID: core.StatementID(id),
		Agrees:      8, Disagrees: 1, Seen: 10,
		PAgree: prob, ZAgree: probZ,
		PDisagree: 0.15, ZDisagree: -2,
		RepAgree: repness, RepAgreeZ: repnessZ,
		RepDisagree: 0.3, RepDisagreeZ: -2,
	}
}

func disagreeStat(id string, repness, repnessZ, prob, probZ float64) opinion.CommentStat {
	return opinion.CommentStat{
		StatementID: core.StatementID(id),
		Agrees:      1, Disagrees: 9, Seen: 10,
		PAgree: 0.15, ZAgree: -2,
		PDisagree: prob, ZDisagree: probZ,
		RepAgree: 0.3, RepAgreeZ: -2,
		RepDisagree: repness, RepDisagreeZ: repnessZ,
	}
}

func TestSelectRepresentative_OrderingAndTruncation(t *testing.T) {
	stats := []opinion.CommentStat{
		agreeStat("s1", 2, 2, 0.8, 2),       // composite 6.4
		agreeStat("s2", 3, 3, 0.9, 3),       // composite 24.3, best agree
		agreeStat("s3", 1.5, 1.5, 0.7, 1.5), // composite 2.3625, drops off
		agreeStat("s4", 2.5, 2, 0.85, 2.5),  // composite 10.625
		disagreeStat("s5", 4, 3, 0.9, 3),    // composite 32.4, top raw score
		disagreeStat("s6", 2, 2, 0.75, 2),   // composite 6.0
	}

	result := SelectRepresentative(map[int][]opinion.CommentStat{0: stats}, 5)
	reps := result[0]

	require.Len(t, reps, 5)

	// The best-agree statement leads even though s5 outscores it.
	assert.Equal(t, core.StatementID("s2"), reps[0].StatementID)
	assert.True(t, reps[0].IsBestAgree)
	assert.Equal(t, opinion.PolarityAgree, reps[0].Polarity)

	// Agrees precede disagrees; within each polarity the score order holds.
	wantOrder := []string{"s2", "s4", "s1", "s5", "s6"}
	for i, want := range wantOrder {
		assert.Equal(t, core.StatementID(want), reps[i].StatementID, "position %d", i)
	}
	for i := 1; i < len(reps); i++ {
		if reps[i-1].Polarity == opinion.PolarityDisagree {
			assert.Equal(t, opinion.PolarityDisagree, reps[i].Polarity,
				"agree entry after a disagree entry at %d", i)
		}
	}
}

func TestSelectRepresentative_NeverExceedsLimit(t *testing.T) {
	var stats []opinion.CommentStat
	for i := 0; i < 20; i++ {
		stats = append(stats, agreeStat(string(rune('a'+i)), 2, 2, 0.8, 2))
	}
	reps := SelectRepresentative(map[int][]opinion.CommentStat{0: stats}, 5)[0]
	assert.LessOrEqual(t, len(reps), 5)
}

func TestSelectRepresentative_FallbackWhenNothingPasses(t *testing.T) {
	// Neither statement clears the significance gate; the one with the
	// larger repness z is still surfaced as a fallback.
	weak := agreeStat("weak", 1.1, 0.4, 0.55, 0.3)
	weaker := agreeStat("weaker", 1.05, 0.2, 0.52, 0.1)

	reps := SelectRepresentative(map[int][]opinion.CommentStat{0: {weaker, weak}}, 5)[0]

	require.Len(t, reps, 1)
	assert.Equal(t, core.StatementID("weak"), reps[0].StatementID)
	assert.False(t, reps[0].IsBestAgree)
}

func TestSelectRepresentative_EmptyGroup(t *testing.T) {
	reps := SelectRepresentative(map[int][]opinion.CommentStat{0: nil}, 5)[0]
	assert.Empty(t, reps)
}

func TestSelectRepresentative_ZeroVoteStatementExcludedFromBestAgree(t *testing.T) {
	// A statement nobody agreed or disagreed with: degenerate smoothed
	// probabilities, zero z-scores everywhere.
	degenerate := opinion.CommentStat{
		StatementID: core.StatementID("dead"),
		PAgree:      0.5, PDisagree: 0.5,
		RepAgree: 1, RepDisagree: 1,
	}
	passing := agreeStat("live", 2, 2, 0.8, 2)

	reps := SelectRepresentative(map[int][]opinion.CommentStat{0: {degenerate, passing}}, 5)[0]

	// The degenerate statement cannot be the best-agree highlight.
	require.NotEmpty(t, reps)
	assert.Equal(t, core.StatementID("live"), reps[0].StatementID)
	assert.True(t, reps[0].IsBestAgree)
	require.Len(t, reps, 1)
}

func TestSelectRepresentative_ZeroVoteStatementCanStillBeFallback(t *testing.T) {
	// Alone in the group, its degenerate z of 0 is still the best seen.
	degenerate := opinion.CommentStat{
		StatementID: core.StatementID("dead"),
		PAgree:      0.5, PDisagree: 0.5,
		RepAgree: 1, RepDisagree: 1,
	}
	reps := SelectRepresentative(map[int][]opinion.CommentStat{0: {degenerate}}, 5)[0]
	require.Len(t, reps, 1)
	assert.Equal(t, core.StatementID("dead"), reps[0].StatementID)
}

func TestSelectRepresentative_BestAgreeLadder(t *testing.T) {
	// Without a significant agree z, entry requires repAgree > 1 with a
	// majority agreeing (rule d).
	noEntry := agreeStat("no", 0.9, 2, 0.45, 0.5)
	noEntry.RepAgree = 0.9
	entry := agreeStat("yes", 1.2, 2, 0.6, 0.5)

	// Neither passes the gate (probZ below threshold), so with only
	// these two the fallback path is taken; make one of them pass to
	// exercise the ladder.
	strong := agreeStat("strong", 2, 2, 0.8, 2)

	reps := SelectRepresentative(map[int][]opinion.CommentStat{0: {noEntry, entry, strong}}, 5)[0]

	require.NotEmpty(t, reps)
	// strong both passes and wins the ladder on the (b) product rule.
	assert.Equal(t, core.StatementID("strong"), reps[0].StatementID)
	assert.True(t, reps[0].IsBestAgree)
}
