package votes

import (
	"fmt"

	"agora/domain/core"
)

// Vote is a single participant reaction to a statement.
type Vote int8

const (
	Agree    Vote = 1
	Disagree Vote = -1
	Pass     Vote = 0
	// NoVote marks a (participant, statement) cell with no recorded vote.
	// It is excluded from every mean, probability, and dot product; it is
	// never imputed as zero.
	NoVote Vote = 127
)

// Observed reports whether the vote carries an actual reaction.
func (v Vote) Observed() bool {
	return v != NoVote
}

// Value returns the numeric vote value. Only valid for observed votes.
func (v Vote) Value() float64 {
	return float64(v)
}

// Matrix is a rectangular participant × statement grid of votes.
// It is treated as immutable for the duration of an analysis run: every
// derived result is recomputed from scratch when the matrix changes.
type Matrix struct {
	rows         [][]Vote
	statementIDs []core.StatementID
}

// NewMatrix validates and wraps a participant × statement vote grid.
// statementIDs may be nil, in which case positional IDs are synthesized.
func NewMatrix(rows [][]Vote, statementIDs []core.StatementID) (*Matrix, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	} else {
		cols = len(statementIDs)
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d statements, expected %d", i, len(row), cols)
		}
		for j, v := range row {
			switch v {
			case Agree, Disagree, Pass, NoVote:
			default:
				return nil, fmt.Errorf("row %d statement %d: invalid vote value %d", i, j, v)
			}
		}
	}
	if statementIDs == nil {
		statementIDs = make([]core.StatementID, cols)
		for j := range statementIDs {
			statementIDs[j] = core.StatementID(fmt.Sprintf("s%d", j))
		}
	}
	if len(statementIDs) != cols {
		return nil, fmt.Errorf("got %d statement IDs for %d statements", len(statementIDs), cols)
	}
	return &Matrix{rows: rows, statementIDs: statementIDs}, nil
}

// MustMatrix wraps a vote grid and panics on invalid input.
// Use only in tests and fixtures.
func MustMatrix(rows [][]Vote, statementIDs []core.StatementID) *Matrix {
	m, err := NewMatrix(rows, statementIDs)
	if err != nil {
		panic(err)
	}
	return m
}

// Participants returns the number of participant rows.
func (m *Matrix) Participants() int {
	return len(m.rows)
}

// Statements returns the number of statement columns.
func (m *Matrix) Statements() int {
	if len(m.rows) == 0 {
		return len(m.statementIDs)
	}
	return len(m.rows[0])
}

// StatementIDs returns the ordered statement identifiers.
func (m *Matrix) StatementIDs() []core.StatementID {
	return m.statementIDs
}

// Vote returns the vote for a (participant, statement) cell.
func (m *Matrix) Vote(participant, statement int) Vote {
	return m.rows[participant][statement]
}

// Row returns one participant's votes.
func (m *Matrix) Row(participant int) []Vote {
	return m.rows[participant]
}

// Counts tallies observed reactions for one statement, optionally
// restricted to a subset of participants (nil means everyone).
type Counts struct {
	Agrees    int `json:"agrees"`
	Disagrees int `json:"disagrees"`
	Passes    int `json:"passes"`
	Seen      int `json:"seen"`
}

// Votes returns the number of observed votes (agree + disagree + pass).
func (c Counts) Votes() int {
	return c.Seen
}

// CountStatement tallies reactions to one statement across the given
// participants. A nil member set counts every participant.
func (m *Matrix) CountStatement(statement int, members []int) Counts {
	var c Counts
	tally := func(p int) {
		switch m.rows[p][statement] {
		case Agree:
			c.Agrees++
			c.Seen++
		case Disagree:
			c.Disagrees++
			c.Seen++
		case Pass:
			c.Passes++
			c.Seen++
		}
	}
	if members == nil {
		for p := range m.rows {
			tally(p)
		}
		return c
	}
	for _, p := range members {
		tally(p)
	}
	return c
}

// ObservedInRow returns how many statements the participant actually voted on.
func (m *Matrix) ObservedInRow(participant int) int {
	n := 0
	for _, v := range m.rows[participant] {
		if v.Observed() {
			n++
		}
	}
	return n
}

// DenseRows renders the matrix as float64 rows with NoVote mapped to zero.
// This is only appropriate for distance computations over raw votes (the
// matrix-based silhouette sweep); statistical stages must never use it.
func (m *Matrix) DenseRows() [][]float64 {
	out := make([][]float64, len(m.rows))
	for i, row := range m.rows {
		dense := make([]float64, len(row))
		for j, v := range row {
			if v.Observed() {
				dense[j] = v.Value()
			}
		}
		out[i] = dense
	}
	return out
}
