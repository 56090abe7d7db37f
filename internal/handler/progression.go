package handler

import (
	"net/http"
)

type activityRequest struct {
	Username string `json:"username,omitempty"`
	Kind     string `json:"kind"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.progression.RecordActivity(r.Context(), playerID(r), req.Username, req.Kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type dailyClaimRequest struct {
	Username string `json:"username,omitempty"`
}

func (s *Server) handleDailyClaim(w http.ResponseWriter, r *http.Request) {
	var req dailyClaimRequest
	// The claim body is optional; an empty body means anonymous username.
	_ = decodeQuiet(r, &req)

	result, err := s.daily.Claim(r.Context(), playerID(r), req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !result.Claimed {
		writeJSON(w, http.StatusTooManyRequests, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
