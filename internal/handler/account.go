package handler

import (
	"net/http"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.account.GetProfile(r.Context(), playerID(r), r.URL.Query().Get("username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := s.account.GetLedgerHistory(r.Context(), playerID(r), limitParam(r, s.ledgerLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

type gamificationRequest struct {
	Username string `json:"username,omitempty"`
	Enabled  bool   `json:"enabled"`
}

func (s *Server) handleGamification(w http.ResponseWriter, r *http.Request) {
	var req gamificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.account.SetGamification(r.Context(), playerID(r), req.Username, req.Enabled); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.account.ResetProgress(r.Context(), playerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ranking.GetLeaderboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}
