package handler

import (
	"net/http"

	"taskquest-server/internal/catalog"
)

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"classes": s.purchase.ListClasses()})
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"trees": s.purchase.ListSkillTrees()})
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"achievements": catalog.Achievements})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	profile, err := s.account.GetProfile(r.Context(), playerID(r), "")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": profile.Achievements})
}

type classRequest struct {
	Username string `json:"username,omitempty"`
	Class    string `json:"class"`
}

func (s *Server) handleBuyClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.purchase.BuyClass(r.Context(), playerID(r), req.Username, req.Class)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEquipClass(w http.ResponseWriter, r *http.Request) {
	var req classRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.purchase.EquipClass(r.Context(), playerID(r), req.Username, req.Class)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type skillRequest struct {
	Username string `json:"username,omitempty"`
	SkillID  string `json:"skill_id"`
}

func (s *Server) handleUnlockSkill(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.purchase.UnlockSkill(r.Context(), playerID(r), req.Username, req.SkillID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
