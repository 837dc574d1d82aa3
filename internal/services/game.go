package services

import (
	"math"
	"time"

	"studyquest-backend/internal/models"
)

// Reward engine constants.
const (
	BaseXP          = 100 // Minimum XP needed for level-up
	Increment       = 50  // Small bonus per level
	Multiplier      = 20  // Controls exponential growth
	CompletionBonus = 30  // Extra XP for finishing under the expected duration
	DefeatPenalty   = 0.5 // Fraction of base XP kept on defeat
	MinutesPerTask  = 5   // Budgeted minutes per task
)

// CalculateXP computes the XP a session earns at its end transition. It is
// deterministic given the evaluation instant: elapsed time runs from the
// session start to evaluatedAt, and the expected duration is five minutes per
// task. Defeats keep half the base XP with no efficiency bonus; a canceled
// session earns nothing.
func CalculateXP(questDifficulty int, start, evaluatedAt time.Time, totalTasks int, outcome models.SessionStatus) int {
	baseXP := BaseXP + questDifficulty*5

	durationMinutes := evaluatedAt.Sub(start).Minutes()
	expectedDurationMinutes := float64(totalTasks * MinutesPerTask)

	efficiencyBonus := 0
	if durationMinutes < expectedDurationMinutes {
		efficiencyBonus = CompletionBonus
	}

	var xp int
	switch outcome {
	case models.SessionCompleted:
		xp = baseXP + efficiencyBonus
	case models.SessionDefeat:
		xp = int(math.Floor(float64(baseXP) * DefeatPenalty))
	default:
		xp = 0
	}

	if xp < 0 {
		xp = 0
	}
	return xp
}

// NextLevelXP is the XP threshold to advance past the given level.
func NextLevelXP(level int) int {
	return int(float64(BaseXP) + float64(level)*Increment + math.Pow(float64(level), 1.5)*Multiplier)
}

// ApplyExperience credits gained XP to a player, carrying overflow across
// consecutive level-ups.
func ApplyExperience(level, experience, gained int) (newLevel, newExperience int, leveledUp bool) {
	newLevel = level
	newExperience = experience + gained
	for newExperience >= NextLevelXP(newLevel) {
		newExperience -= NextLevelXP(newLevel)
		newLevel++
		leveledUp = true
	}
	return newLevel, newExperience, leveledUp
}
