package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

type PlayerHandler struct {
	playerRepo  *repository.PlayerRepo
	subjectRepo *repository.SubjectRepo
}

func NewPlayerHandler(playerRepo *repository.PlayerRepo, subjectRepo *repository.SubjectRepo) *PlayerHandler {
	return &PlayerHandler{playerRepo: playerRepo, subjectRepo: subjectRepo}
}

// Create sets up the 1:1 player for the authenticated user, with a fresh
// profile.
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	}
	if req.Title == "" {
		req.Title = "Noobie"
	}

	if _, err := h.playerRepo.GetByUserID(r.Context(), userID); err == nil {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Player already exists for this user", r))
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create player", r))
		return
	}

	player := &models.Player{
		UserID:     userID,
		Title:      req.Title,
		Level:      1,
		Experience: 0,
	}

	if err := h.playerRepo.Create(r.Context(), player); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create player", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"player": player})
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid player ID", r))
		return
	}

	player, err := h.playerRepo.GetByID(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Player not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load player", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"player": player})
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list players", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"players": players})
}

func (h *PlayerHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid player ID", r))
		return
	}

	if _, err := h.playerRepo.GetByID(r.Context(), playerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Player not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load player", r))
		return
	}

	subjects, err := h.subjectRepo.ListByPlayer(r.Context(), playerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list subjects", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
}

func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid player ID", r))
		return
	}

	profile, err := h.playerRepo.GetProfile(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Profile not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load profile", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func (h *PlayerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid player ID", r))
		return
	}

	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	profile, err := h.playerRepo.GetProfile(r.Context(), playerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Profile not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load profile", r))
		return
	}

	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Mood != nil {
		if !req.Mood.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid mood", r))
			return
		}
		profile.Mood = *req.Mood
	}

	if err := h.playerRepo.UpdateProfile(r.Context(), profile); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"profile": profile})
}
