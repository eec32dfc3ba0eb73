package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agora/domain/core"
	"agora/domain/votes"
	"agora/internal/errors"
)

func TestParseRows(t *testing.T) {
	m, err := ParseRows([][]string{
		{"s-a", "s-b", "s-c"},
		{"1", "-1", "0"},
		{"agree", "", "pass"},
		{"d", "na", "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, m.Participants())
	assert.Equal(t, []core.StatementID{"s-a", "s-b", "s-c"}, m.StatementIDs())
	assert.Equal(t, votes.Agree, m.Vote(0, 0))
	assert.Equal(t, votes.Disagree, m.Vote(0, 1))
	assert.Equal(t, votes.Pass, m.Vote(0, 2))
	assert.Equal(t, votes.NoVote, m.Vote(1, 1))
	assert.Equal(t, votes.Disagree, m.Vote(2, 0))
}

func TestParseRows_PadsShortRows(t *testing.T) {
	m, err := ParseRows([][]string{
		{"a", "b", "c"},
		{"1"},
	})
	require.NoError(t, err)
	assert.Equal(t, votes.NoVote, m.Vote(0, 1))
	assert.Equal(t, votes.NoVote, m.Vote(0, 2))
}

func TestParseRows_RejectsBadValues(t *testing.T) {
	_, err := ParseRows([][]string{
		{"a"},
		{"maybe"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeIngestError, errors.GetCode(err))
}

func TestParseRows_RejectsOverlongRow(t *testing.T) {
	_, err := ParseRows([][]string{
		{"a"},
		{"1", "1"},
	})
	require.Error(t, err)
}

func TestVoteReader_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votes.csv")
	content := "q1,q2,q3\n1,1,-1\n1,1,-1\n-1,-1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := NewVoteReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, 3, m.Participants())
	assert.Equal(t, 3, m.Statements())
}

func TestVoteReader_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "votes.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"q1", "q2"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{1, -1}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{-1, 1}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	m, err := NewVoteReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, 2, m.Participants())
	assert.Equal(t, votes.Agree, m.Vote(0, 0))
	assert.Equal(t, votes.Disagree, m.Vote(1, 0))
}

func TestVoteReader_MissingFile(t *testing.T) {
	_, err := NewVoteReader("/nonexistent/votes.csv").Read()
	require.Error(t, err)
	assert.Equal(t, errors.CodeIngestError, errors.GetCode(err))
}
