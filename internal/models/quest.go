package models

import (
	"time"

	"github.com/google/uuid"
)

type QuestStatus string

const (
	QuestInProgress QuestStatus = "in_progress"
	QuestCompleted  QuestStatus = "completed"
)

type Quest struct {
	ID          uuid.UUID   `json:"id"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	Description string      `json:"description"`
	Difficulty  int         `json:"difficulty"`
	Status      QuestStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

type QuestCreateRequest struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	Description string    `json:"description"`
	Difficulty  int       `json:"difficulty"`
}

type QuestUpdateRequest struct {
	Description *string      `json:"description"`
	Difficulty  *int         `json:"difficulty"`
	Status      *QuestStatus `json:"status"`
}
