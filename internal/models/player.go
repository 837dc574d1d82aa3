package models

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
}

// Mood is the self-reported state shown on a player's profile.
type Mood string

const (
	MoodHappy     Mood = "Happy"
	MoodMotivated Mood = "Motivated"
	MoodNeutral   Mood = "Neutral"
	MoodStressed  Mood = "Stressed"
	MoodExhausted Mood = "Exhausted"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodMotivated, MoodNeutral, MoodStressed, MoodExhausted:
		return true
	}
	return false
}

type Profile struct {
	ID        uuid.UUID `json:"id"`
	PlayerID  uuid.UUID `json:"player_id"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Mood      Mood      `json:"mood"`
}

type ProfileUpdateRequest struct {
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
	Mood      *Mood   `json:"mood"`
}
