package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

type QuestHandler struct {
	questRepo   *repository.QuestRepo
	subjectRepo *repository.SubjectRepo
}

func NewQuestHandler(questRepo *repository.QuestRepo, subjectRepo *repository.SubjectRepo) *QuestHandler {
	return &QuestHandler{questRepo: questRepo, subjectRepo: subjectRepo}
}

func (h *QuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.QuestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if req.Description == "" {
		fields["description"] = "Description is required"
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		fields["difficulty"] = "Difficulty must be between 1 and 5"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	if _, err := h.subjectRepo.GetByID(r.Context(), req.SubjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create quest", r))
		return
	}

	exists, err := h.questRepo.ExistsWithDescription(r.Context(), req.SubjectID, req.Description)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create quest", r))
		return
	}
	if exists {
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Quest already exists for this subject", r))
		return
	}

	quest := &models.Quest{
		SubjectID:   req.SubjectID,
		Description: req.Description,
		Difficulty:  req.Difficulty,
	}

	if err := h.questRepo.Create(r.Context(), quest); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create quest", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"quest": quest})
}

func (h *QuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	questID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quest ID", r))
		return
	}

	quest, err := h.questRepo.GetByID(r.Context(), questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quest not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quest", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quest": quest})
}

func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	quests, err := h.questRepo.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list quests", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quests": quests})
}

func (h *QuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	questID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quest ID", r))
		return
	}

	var req models.QuestUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	quest, err := h.questRepo.GetByID(r.Context(), questID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quest not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load quest", r))
		return
	}

	if req.Description != nil {
		quest.Description = *req.Description
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > 5 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Difficulty must be between 1 and 5", r))
			return
		}
		quest.Difficulty = *req.Difficulty
	}
	if req.Status != nil {
		if *req.Status != models.QuestInProgress && *req.Status != models.QuestCompleted {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quest status", r))
			return
		}
		quest.Status = *req.Status
	}

	if err := h.questRepo.Update(r.Context(), quest); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update quest", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quest": quest})
}

func (h *QuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	questID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quest ID", r))
		return
	}

	if _, err := h.questRepo.GetByID(r.Context(), questID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quest not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete quest", r))
		return
	}

	if err := h.questRepo.Delete(r.Context(), questID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete quest", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quest deleted"})
}
