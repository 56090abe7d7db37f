package handler

import (
	"net/http"
)

type gameResultRequest struct {
	Username string `json:"username,omitempty"`
	GameType string `json:"game_type"`
	Result   string `json:"result"`
	Bet      int64  `json:"bet"`
	Payout   int64  `json:"payout"`
}

func (s *Server) handleGameResult(w http.ResponseWriter, r *http.Request) {
	var req gameResultRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.settlement.Settle(r.Context(), playerID(r), req.Username, req.GameType, req.Result, req.Bet, req.Payout)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGameHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.settlement.GetHistory(r.Context(), playerID(r), limitParam(r, s.historyLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGameStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.settlement.GetStats(r.Context(), playerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
