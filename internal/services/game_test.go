package services

import (
	"testing"
	"time"

	"studyquest-backend/internal/models"
)

func TestCalculateXP_Completed(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		questDifficulty int
		elapsed         time.Duration
		totalTasks      int
		expected        int
	}{
		// base 100 + 2*5 = 110, finished under 2*5 = 10 expected minutes
		{"under expected duration earns bonus", 2, 8 * time.Minute, 2, 140},
		// 30 elapsed minutes is over the 10 minute budget
		{"over expected duration no bonus", 2, 30 * time.Minute, 2, 110},
		// exactly on budget is not "under"
		{"exactly expected duration no bonus", 2, 10 * time.Minute, 2, 110},
		{"difficulty five under budget", 5, 1 * time.Minute, 3, 155},
		{"difficulty one over budget", 1, 60 * time.Minute, 4, 105},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateXP(tc.questDifficulty, start, start.Add(tc.elapsed), tc.totalTasks, models.SessionCompleted)
			if got != tc.expected {
				t.Errorf("Expected %d XP, got %d", tc.expected, got)
			}
		})
	}
}

func TestCalculateXP_Defeat(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		questDifficulty int
		elapsed         time.Duration
		totalTasks      int
		expected        int
	}{
		// floor(0.5 * (100 + 2*5)) = 55
		{"half of base", 2, 30 * time.Minute, 2, 55},
		// floor(0.5 * 115) = 57, fractional half rounds down
		{"floors fractional half", 3, 30 * time.Minute, 2, 57},
		// defeat never gets the efficiency bonus, even under budget
		{"no bonus under budget", 2, 1 * time.Minute, 2, 55},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateXP(tc.questDifficulty, start, start.Add(tc.elapsed), tc.totalTasks, models.SessionDefeat)
			if got != tc.expected {
				t.Errorf("Expected %d XP, got %d", tc.expected, got)
			}
		})
	}
}

func TestCalculateXP_Canceled(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	got := CalculateXP(3, start, start.Add(5*time.Minute), 2, models.SessionCanceled)
	if got != 0 {
		t.Errorf("Expected 0 XP for a canceled session, got %d", got)
	}
}

func TestCalculateXP_NeverNegative(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	outcomes := []models.SessionStatus{models.SessionCompleted, models.SessionDefeat, models.SessionCanceled}

	for _, outcome := range outcomes {
		for difficulty := 1; difficulty <= 5; difficulty++ {
			for tasks := 1; tasks <= 10; tasks++ {
				got := CalculateXP(difficulty, start, start.Add(90*time.Minute), tasks, outcome)
				if got < 0 {
					t.Errorf("Negative XP %d for outcome=%s difficulty=%d tasks=%d", got, outcome, difficulty, tasks)
				}
			}
		}
	}
}

func TestNextLevelXP(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		// 100 + level*50 + level^1.5*20
		{1, 170},
		{2, 256},
		{4, 460},
		{9, 1090},
	}

	for _, tc := range tests {
		got := NextLevelXP(tc.level)
		if got != tc.expected {
			t.Errorf("NextLevelXP(%d): expected %d, got %d", tc.level, tc.expected, got)
		}
	}
}

func TestApplyExperience(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		experience int
		gained     int
		wantLevel  int
		wantXP     int
		wantLevelUp bool
	}{
		{"no level up", 1, 0, 100, 1, 100, false},
		// threshold for level 1 is 170; overflow carries
		{"single level up", 1, 100, 100, 2, 30, true},
		// 170 (level 1) + 256 (level 2) = 426 consumed
		{"double level up", 1, 0, 450, 3, 24, true},
		{"exactly at threshold levels up", 1, 0, 170, 2, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level, xp, leveledUp := ApplyExperience(tc.level, tc.experience, tc.gained)
			if level != tc.wantLevel || xp != tc.wantXP || leveledUp != tc.wantLevelUp {
				t.Errorf("Expected (%d, %d, %v), got (%d, %d, %v)",
					tc.wantLevel, tc.wantXP, tc.wantLevelUp, level, xp, leveledUp)
			}
		})
	}
}
