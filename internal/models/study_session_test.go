package models

import (
	"testing"
	"time"
)

func TestSessionStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   SessionStatus
		terminal bool
	}{
		{SessionActive, false},
		{SessionPendingConfirmation, false},
		{SessionCompleted, true},
		{SessionDefeat, true},
		{SessionCanceled, true},
	}

	for _, tc := range tests {
		if got := tc.status.Terminal(); got != tc.terminal {
			t.Errorf("%s.Terminal(): expected %v, got %v", tc.status, tc.terminal, got)
		}
	}
}

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    SessionStatus
		to      SessionStatus
		allowed bool
	}{
		{"active to completed", SessionActive, SessionCompleted, true},
		{"active to defeat", SessionActive, SessionDefeat, true},
		{"active to canceled is not produced", SessionActive, SessionCanceled, false},
		{"active to active", SessionActive, SessionActive, false},
		{"completed is frozen", SessionCompleted, SessionDefeat, false},
		{"defeat is frozen", SessionDefeat, SessionCompleted, false},
		{"canceled is frozen", SessionCanceled, SessionCompleted, false},
		{"pending cannot end", SessionPendingConfirmation, SessionCompleted, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
				t.Errorf("Expected %v, got %v", tc.allowed, got)
			}
		})
	}
}

func TestEndOutcome(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		expected SessionStatus
	}{
		{"full completion", 1.0, SessionCompleted},
		{"partial completion", 0.5, SessionDefeat},
		{"nothing done", 0.0, SessionDefeat},
		{"almost complete", 0.99, SessionDefeat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EndOutcome(tc.rate); got != tc.expected {
				t.Errorf("EndOutcome(%v): expected %s, got %s", tc.rate, tc.expected, got)
			}
		})
	}
}

func TestTask_Accomplished(t *testing.T) {
	task := Task{Description: "read ch.1"}
	if task.Accomplished() {
		t.Error("Task without end time should not be accomplished")
	}

	now := time.Now()
	task.EndTime = &now
	if !task.Accomplished() {
		t.Error("Task with end time should be accomplished")
	}

	// A started-but-unfinished task is still not accomplished
	started := Task{Description: "do exercises", StartTime: &now}
	if started.Accomplished() {
		t.Error("Started task without end time should not be accomplished")
	}
}
