// Package ingest loads vote matrices from CSV and XLSX files.
//
// Expected layout: a header row of statement identifiers, then one row
// per participant. Cells hold 1 (agree), -1 (disagree), 0 (pass), or
// nothing (no vote).
package ingest

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"agora/domain/core"
	"agora/domain/votes"
	"agora/internal/errors"
)

// VoteReader reads a vote matrix file, dispatching on extension.
type VoteReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewVoteReader creates a reader for the given path. Anything that is
// not .csv is treated as an Excel workbook.
func NewVoteReader(filePath string) *VoteReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &VoteReader{filePath: filePath, fileType: fileType}
}

// Read loads and validates the vote matrix.
func (r *VoteReader) Read() (*votes.Matrix, error) {
	log.Printf("[ingest] reading %s vote matrix: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.IngestError(fmt.Sprintf("vote file not found: %s", r.filePath), nil)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readXLSX()
	}
	if err != nil {
		return nil, err
	}

	matrix, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	log.Printf("[ingest] loaded %d participants × %d statements",
		matrix.Participants(), matrix.Statements())
	return matrix, nil
}

func (r *VoteReader) readCSV() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IngestError("failed to open CSV file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // validated during parsing
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.IngestError("failed to read CSV file", err)
	}
	return rows, nil
}

func (r *VoteReader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IngestError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.IngestError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return rows, nil
}

// ParseRows converts a header row plus vote rows into a matrix. Short
// rows are padded with no-votes (Excel trims trailing empty cells).
func ParseRows(rows [][]string) (*votes.Matrix, error) {
	if len(rows) == 0 {
		return nil, errors.IngestError("vote file is empty", nil)
	}

	header := rows[0]
	statementIDs := make([]core.StatementID, len(header))
	for j, h := range header {
		id, err := core.ParseStatementID(strings.TrimSpace(h))
		if err != nil {
			return nil, errors.IngestError(fmt.Sprintf("header column %d: %v", j, err), nil)
		}
		statementIDs[j] = id
	}

	voteRows := make([][]votes.Vote, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, errors.IngestError(
				fmt.Sprintf("row %d has %d cells, header has %d", i+1, len(row), len(header)), nil)
		}
		voteRow := make([]votes.Vote, len(header))
		for j := range voteRow {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			v, err := parseVote(cell)
			if err != nil {
				return nil, errors.IngestError(fmt.Sprintf("row %d column %d: %v", i+1, j, err), nil)
			}
			voteRow[j] = v
		}
		voteRows = append(voteRows, voteRow)
	}

	matrix, err := votes.NewMatrix(voteRows, statementIDs)
	if err != nil {
		return nil, errors.IngestError("invalid vote matrix", err)
	}
	return matrix, nil
}

func parseVote(cell string) (votes.Vote, error) {
	switch strings.ToLower(cell) {
	case "1", "agree", "a":
		return votes.Agree, nil
	case "-1", "disagree", "d":
		return votes.Disagree, nil
	case "0", "pass", "p":
		return votes.Pass, nil
	case "", "na", "n/a":
		return votes.NoVote, nil
	default:
		return votes.NoVote, fmt.Errorf("unrecognized vote value %q", cell)
	}
}
