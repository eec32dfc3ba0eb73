package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"agora/app"
	"agora/domain/core"
	"agora/domain/opinion"
	"agora/domain/votes"
	apperrors "agora/internal/errors"
)

// AnalyzeRequest carries a vote matrix and optional parameter overrides.
// Vote cells use 1 (agree), -1 (disagree), 0 (pass); null means the
// participant never saw the statement.
type AnalyzeRequest struct {
	Votes        [][]*int                `json:"votes"`
	StatementIDs []string                `json:"statement_ids,omitempty"`
	Params       *opinion.AnalysisParams `json:"params,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	matrix, params, err := a.decodeAnalyzeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	service := app.NewAnalysisService(params)
	result := service.Analyze(matrix)

	writeJSON(w, http.StatusOK, result)
}

func (a *App) handleRecommendK(w http.ResponseWriter, r *http.Request) {
	matrix, params, err := a.decodeAnalyzeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	service := app.NewAnalysisService(params)
	sweep := service.SilhouetteSweep(matrix)

	writeJSON(w, http.StatusOK, sweep)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	matrix, params, err := a.decodeAnalyzeRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	service := app.NewAnalysisService(params)
	result := service.Analyze(matrix)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(RenderHTML(BuildMarkdownReport(result))); err != nil {
		log.Printf("[UI] failed to write report: %v", err)
	}
}

// decodeAnalyzeRequest parses the shared request body used by all
// analysis endpoints and builds a validated vote matrix.
func (a *App) decodeAnalyzeRequest(r *http.Request) (*votes.Matrix, opinion.AnalysisParams, error) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, opinion.AnalysisParams{}, apperrors.InvalidInput("malformed request body: " + err.Error())
	}

	rows := make([][]votes.Vote, len(req.Votes))
	for i, raw := range req.Votes {
		row := make([]votes.Vote, len(raw))
		for j, cell := range raw {
			if cell == nil {
				row[j] = votes.NoVote
				continue
			}
			switch *cell {
			case 1:
				row[j] = votes.Agree
			case -1:
				row[j] = votes.Disagree
			case 0:
				row[j] = votes.Pass
			default:
				return nil, opinion.AnalysisParams{}, apperrors.InvalidInput("vote values must be 1, -1, 0 or null")
			}
		}
		rows[i] = row
	}

	// Omitted statement IDs get positional defaults from the matrix.
	var ids []core.StatementID
	if len(req.StatementIDs) > 0 {
		ids = make([]core.StatementID, len(req.StatementIDs))
	}
	for i, raw := range req.StatementIDs {
		id, err := core.ParseStatementID(raw)
		if err != nil {
			return nil, opinion.AnalysisParams{}, apperrors.InvalidInput(err.Error())
		}
		ids[i] = id
	}

	matrix, err := votes.NewMatrix(rows, ids)
	if err != nil {
		return nil, opinion.AnalysisParams{}, apperrors.InvalidInput(err.Error())
	}

	params := a.defaultParams
	if req.Params != nil {
		params = req.Params.Normalized()
	}
	return matrix, params, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[UI] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if apperrors.IsAppError(err) {
		switch apperrors.GetCode(err) {
		case apperrors.CodeInvalidInput, apperrors.CodeIngestError:
			status = http.StatusBadRequest
		}
	}
	writeJSON(w, status, errorResponse{Code: apperrors.GetCode(err), Message: err.Error()})
}
