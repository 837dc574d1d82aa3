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

type SubjectHandler struct {
	subjectRepo *repository.SubjectRepo
	playerRepo  *repository.PlayerRepo
	questRepo   *repository.QuestRepo
}

func NewSubjectHandler(subjectRepo *repository.SubjectRepo, playerRepo *repository.PlayerRepo, questRepo *repository.QuestRepo) *SubjectHandler {
	return &SubjectHandler{subjectRepo: subjectRepo, playerRepo: playerRepo, questRepo: questRepo}
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SubjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if req.CodeName == "" {
		fields["code_name"] = "Code name is required"
	}
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

	if _, err := h.playerRepo.GetByID(r.Context(), req.PlayerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Player not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create subject", r))
		return
	}

	subject := &models.Subject{
		PlayerID:    req.PlayerID,
		CodeName:    req.CodeName,
		Description: req.Description,
		Difficulty:  req.Difficulty,
	}

	if err := h.subjectRepo.Create(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create subject", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"subject": subject})
}

func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	subject, err := h.subjectRepo.GetByID(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load subject", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subject": subject})
}

func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	var req models.SubjectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	subject, err := h.subjectRepo.GetByID(r.Context(), subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load subject", r))
		return
	}

	if req.CodeName != nil {
		subject.CodeName = *req.CodeName
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}
	if req.Difficulty != nil {
		if *req.Difficulty < 1 || *req.Difficulty > 5 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Difficulty must be between 1 and 5", r))
			return
		}
		subject.Difficulty = *req.Difficulty
	}

	if err := h.subjectRepo.Update(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update subject", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subject": subject})
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	if _, err := h.subjectRepo.GetByID(r.Context(), subjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete subject", r))
		return
	}

	if err := h.subjectRepo.Delete(r.Context(), subjectID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete subject", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}

func (h *SubjectHandler) ListQuests(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	quests, err := h.questRepo.ListBySubject(r.Context(), subjectID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list quests", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quests": quests})
}

// Materials

func (h *SubjectHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	materials, err := h.subjectRepo.ListMaterials(r.Context(), subjectID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list materials", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"materials": materials})
}

func (h *SubjectHandler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	var req models.MaterialCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := make(map[string]string)
	if req.Title == "" {
		fields["title"] = "Title is required"
	}
	if req.Link == "" {
		fields["link"] = "Link is required"
	}
	if !req.Type.Valid() {
		fields["type"] = "Invalid material type"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	if _, err := h.subjectRepo.GetByID(r.Context(), subjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create material", r))
		return
	}

	material := &models.Material{
		SubjectID: subjectID,
		Title:     req.Title,
		Type:      req.Type,
		Link:      req.Link,
	}

	if err := h.subjectRepo.CreateMaterial(r.Context(), material); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create material", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"material": material})
}

func (h *SubjectHandler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, err := uuid.Parse(chi.URLParam(r, "materialID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid material ID", r))
		return
	}

	if err := h.subjectRepo.DeleteMaterial(r.Context(), materialID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete material", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Material deleted"})
}
