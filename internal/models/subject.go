package models

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID          uuid.UUID `json:"id"`
	PlayerID    uuid.UUID `json:"player_id"`
	CodeName    string    `json:"code_name"`
	Description string    `json:"description"`
	Difficulty  int       `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubjectCreateRequest struct {
	PlayerID    uuid.UUID `json:"player_id"`
	CodeName    string    `json:"code_name"`
	Description string    `json:"description"`
	Difficulty  int       `json:"difficulty"`
}

type SubjectUpdateRequest struct {
	CodeName    *string `json:"code_name"`
	Description *string `json:"description"`
	Difficulty  *int    `json:"difficulty"`
}

type MaterialType string

const (
	MaterialBook    MaterialType = "book"
	MaterialVideo   MaterialType = "video"
	MaterialArticle MaterialType = "article"
	MaterialCourse  MaterialType = "course"
	MaterialOther   MaterialType = "other"
)

func (t MaterialType) Valid() bool {
	switch t {
	case MaterialBook, MaterialVideo, MaterialArticle, MaterialCourse, MaterialOther:
		return true
	}
	return false
}

type Material struct {
	ID        uuid.UUID    `json:"id"`
	SubjectID uuid.UUID    `json:"subject_id"`
	Title     string       `json:"title"`
	Type      MaterialType `json:"type"`
	Link      string       `json:"link"`
	CreatedAt time.Time    `json:"created_at"`
}

type MaterialCreateRequest struct {
	Title string       `json:"title"`
	Type  MaterialType `json:"type"`
	Link  string       `json:"link"`
}
