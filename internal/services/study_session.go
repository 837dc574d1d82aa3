package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

// Storage seams for the session lifecycle; the pgx-backed repos satisfy them.
type sessionStore interface {
	CreateChecks(ctx context.Context, playerID, subjectID uuid.UUID, questID *uuid.UUID) (*repository.SessionCreateChecks, error)
	CreateWithTasks(ctx context.Context, s *models.StudySession, descriptions []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error)
	List(ctx context.Context) ([]*models.StudySession, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, models.SessionStatus, error)
	StartTask(ctx context.Context, taskID uuid.UUID, at time.Time) error
	CompleteTask(ctx context.Context, taskID uuid.UUID, at time.Time) error
	FinishSession(ctx context.Context, p repository.FinishSessionParams) error
}

type playerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

type questStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quest, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// StudySessionService owns the session lifecycle: validation before creation,
// the active → completed/defeat transition, and task start/completion writes.
type StudySessionService struct {
	sessionRepo sessionStore
	playerRepo  playerStore
	questRepo   questStore
	redis       eventPublisher
}

func NewStudySessionService(
	sessionRepo *repository.StudySessionRepo,
	playerRepo *repository.PlayerRepo,
	questRepo *repository.QuestRepo,
	redisClient *redis.Client,
) *StudySessionService {
	return &StudySessionService{
		sessionRepo: sessionRepo,
		playerRepo:  playerRepo,
		questRepo:   questRepo,
		redis:       redisClient,
	}
}

// Create validates every precondition, then persists the session and its
// tasks atomically. Check order is fixed: task list, player, subject,
// ownership, quest-under-subject, active-session conflict.
func (s *StudySessionService) Create(ctx context.Context, req models.StudySessionCreateRequest) (*models.StudySession, error) {
	if len(req.Tasks) == 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"tasks": "No tasks selected for the study session",
		}}
	}
	if req.DurationMins <= 0 {
		return nil, &ValidationError{Fields: map[string]string{
			"duration_mins": "Duration must be a positive number of minutes",
		}}
	}

	checks, err := s.sessionRepo.CreateChecks(ctx, req.PlayerID, req.SubjectID, req.QuestID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate study session: %w", err)
	}

	if !checks.PlayerExists {
		return nil, &NotFoundError{Message: fmt.Sprintf("Player %s not found", req.PlayerID)}
	}
	if !checks.SubjectExists {
		return nil, &NotFoundError{Message: fmt.Sprintf("Subject %s not found", req.SubjectID)}
	}
	if checks.SubjectOwnerID == nil || *checks.SubjectOwnerID != req.PlayerID {
		return nil, &ValidationError{Fields: map[string]string{
			"subject_id": fmt.Sprintf("Subject %s does not belong to player %s", req.SubjectID, req.PlayerID),
		}}
	}
	if !checks.QuestOnSubject {
		return nil, &NotFoundError{Message: fmt.Sprintf("Quest %s not found under subject %s", req.QuestID, req.SubjectID)}
	}
	if checks.HasActiveSession {
		return nil, &ConflictError{Message: fmt.Sprintf("Player %s already has an active study session", req.PlayerID)}
	}

	startTime := time.Now().UTC()
	session := &models.StudySession{
		PlayerID:  req.PlayerID,
		SubjectID: req.SubjectID,
		QuestID:   req.QuestID,
		StartTime: startTime,
		EndTime:   startTime.Add(time.Duration(req.DurationMins) * time.Minute),
		Status:    models.SessionActive,
	}

	if err := s.sessionRepo.CreateWithTasks(ctx, session, req.Tasks); err != nil {
		// Lost the race against a concurrent create; same conflict as the
		// validator would have reported.
		if errors.Is(err, repository.ErrActiveSessionExists) {
			return nil, &ConflictError{Message: fmt.Sprintf("Player %s already has an active study session", req.PlayerID)}
		}
		return nil, fmt.Errorf("failed to create study session: %w", err)
	}

	return session, nil
}

func (s *StudySessionService) Get(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Study session %s not found", id)}
		}
		return nil, err
	}
	return session, nil
}

func (s *StudySessionService) List(ctx context.Context) ([]*models.StudySession, error) {
	return s.sessionRepo.List(ctx)
}

// End concludes an active session. The completion rate over persisted task
// state picks the terminal status, the reward engine prices it, and session,
// quest and player rows change in one transaction.
func (s *StudySessionService) End(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Study session %s not found", id)}
		}
		return nil, err
	}

	totalTasks := len(session.Tasks)
	accomplished := 0
	for _, t := range session.Tasks {
		if t.Accomplished() {
			accomplished++
		}
	}

	completionRate := float64(accomplished) / float64(totalTasks)
	outcome := models.EndOutcome(completionRate)

	if !session.Status.CanTransitionTo(outcome) {
		return nil, &ConflictError{Message: fmt.Sprintf("Study session %s already completed", id)}
	}
	if session.QuestID == nil {
		return nil, &ValidationError{Fields: map[string]string{
			"quest_id": "Study session has no assigned quest",
		}}
	}

	quest, err := s.questRepo.GetByID(ctx, *session.QuestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Quest %s not found", *session.QuestID)}
		}
		return nil, err
	}

	player, err := s.playerRepo.GetByID(ctx, session.PlayerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Player %s not found", session.PlayerID)}
		}
		return nil, err
	}

	now := time.Now().UTC()
	xp := CalculateXP(quest.Difficulty, session.StartTime, now, totalTasks, outcome)
	newLevel, newExperience, leveledUp := ApplyExperience(player.Level, player.Experience, xp)

	params := repository.FinishSessionParams{
		SessionID:        session.ID,
		Status:           outcome,
		CompletedAt:      now,
		XPEarned:         xp,
		PlayerID:         player.ID,
		PlayerLevel:      newLevel,
		PlayerExperience: newExperience,
	}
	if outcome == models.SessionCompleted {
		params.CompleteQuestID = session.QuestID
	}

	if err := s.sessionRepo.FinishSession(ctx, params); err != nil {
		if errors.Is(err, repository.ErrSessionNotActive) {
			return nil, &ConflictError{Message: fmt.Sprintf("Study session %s already completed", id)}
		}
		return nil, fmt.Errorf("failed to end study session: %w", err)
	}

	session, err = s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publishResult(ctx, player.UserID, models.SessionResultEvent{
		Type:      "session_result",
		SessionID: session.ID,
		Status:    session.Status,
		XPEarned:  session.XPEarned,
		Level:     newLevel,
		LeveledUp: leveledUp,
	})

	return session, nil
}

// StartTask stamps a task's start time. Tasks of concluded sessions are
// frozen.
func (s *StudySessionService) StartTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	_, status, err := s.sessionRepo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Task %s not found", taskID)}
		}
		return nil, err
	}
	if status.Terminal() {
		return nil, &ConflictError{Message: "Study session already concluded"}
	}

	if err := s.sessionRepo.StartTask(ctx, taskID, time.Now().UTC()); err != nil {
		return nil, err
	}

	task, _, err := s.sessionRepo.GetTask(ctx, taskID)
	return task, err
}

// CompleteTask marks a task accomplished. It must happen before the owning
// session's end transition; the completion rate is computed from task state
// already on disk.
func (s *StudySessionService) CompleteTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	_, status, err := s.sessionRepo.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Task %s not found", taskID)}
		}
		return nil, err
	}
	if status.Terminal() {
		return nil, &ConflictError{Message: "Study session already concluded"}
	}

	if err := s.sessionRepo.CompleteTask(ctx, taskID, time.Now().UTC()); err != nil {
		return nil, err
	}

	task, _, err := s.sessionRepo.GetTask(ctx, taskID)
	return task, err
}

func (s *StudySessionService) publishResult(ctx context.Context, userID uuid.UUID, event models.SessionResultEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, "player_events:"+userID.String(), payload).Err(); err != nil {
		log.Printf("Failed to publish session result for user %s: %v", userID, err)
	}
}
