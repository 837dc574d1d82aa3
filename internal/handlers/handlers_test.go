package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"studyquest-backend/internal/models"
)

// ─── Study Session Handler Tests ───

func TestCreateSessionRequest_Parsing(t *testing.T) {
	playerID := uuid.New()
	subjectID := uuid.New()
	questID := uuid.New()

	body := map[string]interface{}{
		"player_id":     playerID.String(),
		"subject_id":    subjectID.String(),
		"quest_id":      questID.String(),
		"duration_mins": 30,
		"tasks":         []string{"read ch.1", "do exercises"},
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/study-sessions", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed models.StudySessionCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}

	if parsed.PlayerID != playerID {
		t.Errorf("Expected player_id %s, got %s", playerID, parsed.PlayerID)
	}
	if parsed.DurationMins != 30 {
		t.Errorf("Expected duration_mins 30, got %d", parsed.DurationMins)
	}
	if len(parsed.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(parsed.Tasks))
	}
	if parsed.Tasks[0] != "read ch.1" || parsed.Tasks[1] != "do exercises" {
		t.Errorf("Task descriptions out of order: %v", parsed.Tasks)
	}
	if parsed.QuestID == nil || *parsed.QuestID != questID {
		t.Errorf("Expected quest_id %s, got %v", questID, parsed.QuestID)
	}
}

func TestCreateSessionRequest_OptionalQuest(t *testing.T) {
	body := map[string]interface{}{
		"player_id":     uuid.New().String(),
		"subject_id":    uuid.New().String(),
		"duration_mins": 25,
		"tasks":         []string{"review notes"},
	}
	jsonBody, _ := json.Marshal(body)

	var parsed models.StudySessionCreateRequest
	if err := json.NewDecoder(bytes.NewReader(jsonBody)).Decode(&parsed); err != nil {
		t.Fatalf("Failed to parse request body: %v", err)
	}

	if parsed.QuestID != nil {
		t.Errorf("Expected nil quest_id, got %v", parsed.QuestID)
	}
}

func TestStudySession_JSONRoundTrip(t *testing.T) {
	questID := uuid.New()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := start.Add(28 * time.Minute)
	taskDone := start.Add(12 * time.Minute)

	session := models.StudySession{
		ID:                 uuid.New(),
		PlayerID:           uuid.New(),
		SubjectID:          uuid.New(),
		QuestID:            &questID,
		StartTime:          start,
		EndTime:            start.Add(30 * time.Minute),
		ActualCompleteTime: &completed,
		Status:             models.SessionCompleted,
		XPEarned:           140,
		Tasks: []models.Task{
			{ID: uuid.New(), Description: "read ch.1", StartTime: &start, EndTime: &taskDone},
			{ID: uuid.New(), Description: "do exercises", StartTime: &taskDone, EndTime: &completed},
		},
		CreatedAt: start,
	}

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("Failed to marshal session: %v", err)
	}

	var decoded models.StudySession
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal session: %v", err)
	}

	if decoded.ID != session.ID || decoded.Status != session.Status || decoded.XPEarned != session.XPEarned {
		t.Errorf("Session fields not preserved: %+v", decoded)
	}
	if decoded.QuestID == nil || *decoded.QuestID != questID {
		t.Errorf("Quest ID not preserved: %v", decoded.QuestID)
	}
	if len(decoded.Tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(decoded.Tasks))
	}
	// Child task ordering survives the round trip
	if decoded.Tasks[0].Description != "read ch.1" || decoded.Tasks[1].Description != "do exercises" {
		t.Errorf("Task order not preserved: %v", decoded.Tasks)
	}
	if !decoded.Tasks[0].Accomplished() {
		t.Error("Accomplished task lost its end time")
	}
}

// ─── JSON Response Tests ───

func TestJSONResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]interface{}{
		"message": "Success",
	})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result["message"] != "Success" {
		t.Errorf("Expected message 'Success', got %v", result["message"])
	}
}

func TestErrorResponse_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/study-sessions", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Study session not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request_id 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestErrorResponse_WithFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/study-sessions", nil)

	resp := errorRespWithFields("VALIDATION_ERROR", "Validation failed", map[string]string{
		"tasks": "No tasks selected for the study session",
	}, req)

	if resp.Error.Fields["tasks"] == "" {
		t.Error("Expected field error for 'tasks'")
	}

	data, _ := json.Marshal(resp)
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if _, ok := decoded["error"]; !ok {
		t.Error("Expected top-level 'error' key in envelope")
	}
}
