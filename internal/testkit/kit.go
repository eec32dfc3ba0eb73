// Package testkit generates synthetic vote matrices with known group
// structure for tests and demos.
package testkit

import (
	"math/rand"

	"agora/domain/votes"
)

// PolarizedConfig describes a synthetic conversation with planted
// opinion groups.
type PolarizedConfig struct {
	Groups          int
	MembersPerGroup int
	Statements      int
	Sparsity        float64 // probability a cell is NoVote
	NoiseRate       float64 // probability a vote flips against the bloc
	Seed            int64
}

// DefaultPolarizedConfig returns a two-bloc conversation with moderate
// sparsity, enough signal for clustering to recover the blocs.
func DefaultPolarizedConfig() PolarizedConfig {
	return PolarizedConfig{
		Groups:          2,
		MembersPerGroup: 12,
		Statements:      10,
		Sparsity:        0.2,
		NoiseRate:       0.05,
		Seed:            1,
	}
}

// PolarizedMatrix builds a vote matrix where each planted group follows
// its own agree/disagree signature per statement, degraded by noise and
// sparsity. Deterministic for a given config.
func PolarizedMatrix(cfg PolarizedConfig) *votes.Matrix {
	rng := rand.New(rand.NewSource(cfg.Seed))

	// Per-group statement signature: alternating allegiance so every
	// statement divides at least two groups.
	signatures := make([][]votes.Vote, cfg.Groups)
	for g := range signatures {
		sig := make([]votes.Vote, cfg.Statements)
		for j := range sig {
			if (j+g)%cfg.Groups == 0 {
				sig[j] = votes.Agree
			} else {
				sig[j] = votes.Disagree
			}
		}
		signatures[g] = sig
	}

	rows := make([][]votes.Vote, 0, cfg.Groups*cfg.MembersPerGroup)
	for g := 0; g < cfg.Groups; g++ {
		for p := 0; p < cfg.MembersPerGroup; p++ {
			row := make([]votes.Vote, cfg.Statements)
			for j := 0; j < cfg.Statements; j++ {
				switch {
				case rng.Float64() < cfg.Sparsity:
					row[j] = votes.NoVote
				case rng.Float64() < cfg.NoiseRate:
					row[j] = -signatures[g][j]
				default:
					row[j] = signatures[g][j]
				}
			}
			rows = append(rows, row)
		}
	}

	return votes.MustMatrix(rows, nil)
}

// GroupOf returns the planted group index of a participant row.
func (c PolarizedConfig) GroupOf(participant int) int {
	return participant / c.MembersPerGroup
}
