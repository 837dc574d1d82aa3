package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is a closed set. Sessions start active and move to exactly one
// terminal state through EndOutcome; pending_confirmation and canceled are
// declared but no transition currently produces them.
type SessionStatus string

const (
	SessionActive              SessionStatus = "active"
	SessionPendingConfirmation SessionStatus = "pending_confirmation"
	SessionCompleted           SessionStatus = "completed"
	SessionDefeat              SessionStatus = "defeat"
	SessionCanceled            SessionStatus = "canceled"
)

// Terminal reports whether the status can never change again.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionCompleted, SessionDefeat, SessionCanceled:
		return true
	}
	return false
}

// CanTransitionTo rejects every move not allowed by the lifecycle.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s != SessionActive {
		return false
	}
	return next == SessionCompleted || next == SessionDefeat
}

// EndOutcome maps a task completion rate to the terminal status of an ending
// session. Anything short of full completion is a defeat.
func EndOutcome(completionRate float64) SessionStatus {
	if completionRate >= 1.0 {
		return SessionCompleted
	}
	return SessionDefeat
}

type StudySession struct {
	ID                 uuid.UUID     `json:"id"`
	PlayerID           uuid.UUID     `json:"player_id"`
	SubjectID          uuid.UUID     `json:"subject_id"`
	QuestID            *uuid.UUID    `json:"quest_id"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	ActualCompleteTime *time.Time    `json:"actual_complete_time"`
	Status             SessionStatus `json:"status"`
	XPEarned           int           `json:"xp_earned"`
	Tasks              []Task        `json:"tasks"`
	CreatedAt          time.Time     `json:"created_at"`
}

// Task belongs to exactly one study session. It counts as accomplished once
// its end time is set.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	StudySessionID uuid.UUID  `json:"study_session_id"`
	Description    string     `json:"description"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
}

func (t Task) Accomplished() bool {
	return t.EndTime != nil
}

type StudySessionCreateRequest struct {
	PlayerID     uuid.UUID  `json:"player_id"`
	SubjectID    uuid.UUID  `json:"subject_id"`
	QuestID      *uuid.UUID `json:"quest_id"`
	DurationMins int        `json:"duration_mins"`
	Tasks        []string   `json:"tasks"`
}
