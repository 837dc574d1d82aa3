package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"studyquest-backend/internal/models"
	"studyquest-backend/internal/repository"
)

type fakeSessionStore struct {
	checks      *repository.SessionCreateChecks
	sessions    map[uuid.UUID]*models.StudySession
	createErr   error
	finishErr   error
	finishCalls int
	lastFinish  repository.FinishSessionParams
}

func (f *fakeSessionStore) CreateChecks(ctx context.Context, playerID, subjectID uuid.UUID, questID *uuid.UUID) (*repository.SessionCreateChecks, error) {
	return f.checks, nil
}

func (f *fakeSessionStore) CreateWithTasks(ctx context.Context, s *models.StudySession, descriptions []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = uuid.New()
	for _, desc := range descriptions {
		s.Tasks = append(s.Tasks, models.Task{
			ID:             uuid.New(),
			StudySessionID: s.ID,
			Description:    desc,
		})
	}
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeSessionStore) List(ctx context.Context) ([]*models.StudySession, error) {
	return nil, nil
}

func (f *fakeSessionStore) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, models.SessionStatus, error) {
	return nil, "", pgx.ErrNoRows
}

func (f *fakeSessionStore) StartTask(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeSessionStore) CompleteTask(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	return nil
}

func (f *fakeSessionStore) FinishSession(ctx context.Context, p repository.FinishSessionParams) error {
	f.finishCalls++
	f.lastFinish = p
	if f.finishErr != nil {
		return f.finishErr
	}
	s := f.sessions[p.SessionID]
	s.Status = p.Status
	s.ActualCompleteTime = &p.CompletedAt
	s.XPEarned = p.XPEarned
	return nil
}

type fakePlayerStore struct {
	player *models.Player
}

func (f *fakePlayerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if f.player == nil {
		return nil, pgx.ErrNoRows
	}
	return f.player, nil
}

type fakeQuestStore struct {
	quest *models.Quest
}

func (f *fakeQuestStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Quest, error) {
	if f.quest == nil {
		return nil, pgx.ErrNoRows
	}
	return f.quest, nil
}

type fakePublisher struct {
	channels []string
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channels = append(f.channels, channel)
	return redis.NewIntCmd(ctx)
}

func passingChecks(playerID uuid.UUID) *repository.SessionCreateChecks {
	owner := playerID
	return &repository.SessionCreateChecks{
		PlayerExists:   true,
		SubjectExists:  true,
		SubjectOwnerID: &owner,
		QuestOnSubject: true,
	}
}

func newSessionService(store *fakeSessionStore, players *fakePlayerStore, quests *fakeQuestStore, pub *fakePublisher) *StudySessionService {
	return &StudySessionService{
		sessionRepo: store,
		playerRepo:  players,
		questRepo:   quests,
		redis:       pub,
	}
}

func TestCreateSession_TasksStartUnset(t *testing.T) {
	playerID := uuid.New()
	store := &fakeSessionStore{checks: passingChecks(playerID)}
	svc := newSessionService(store, &fakePlayerStore{}, &fakeQuestStore{}, &fakePublisher{})

	session, err := svc.Create(context.Background(), models.StudySessionCreateRequest{
		PlayerID:     playerID,
		SubjectID:    uuid.New(),
		DurationMins: 30,
		Tasks:        []string{"read ch.1", "do exercises", "review notes"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if session.Status != models.SessionActive {
		t.Errorf("Expected active status, got %s", session.Status)
	}
	if len(session.Tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(session.Tasks))
	}
	for i, task := range session.Tasks {
		if task.StartTime != nil || task.EndTime != nil {
			t.Errorf("Task %d should start with unset times", i)
		}
	}
	if got := session.EndTime.Sub(session.StartTime); got != 30*time.Minute {
		t.Errorf("Expected 30m planned duration, got %s", got)
	}
}

func TestCreateSession_ActiveSessionConflict(t *testing.T) {
	playerID := uuid.New()
	checks := passingChecks(playerID)
	checks.HasActiveSession = true
	store := &fakeSessionStore{checks: checks}
	svc := newSessionService(store, &fakePlayerStore{}, &fakeQuestStore{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), models.StudySessionCreateRequest{
		PlayerID:     playerID,
		SubjectID:    uuid.New(),
		DurationMins: 25,
		Tasks:        []string{"read ch.1"},
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
}

func TestCreateSession_LosesCreationRace(t *testing.T) {
	playerID := uuid.New()
	store := &fakeSessionStore{
		checks:    passingChecks(playerID),
		createErr: repository.ErrActiveSessionExists,
	}
	svc := newSessionService(store, &fakePlayerStore{}, &fakeQuestStore{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), models.StudySessionCreateRequest{
		PlayerID:     playerID,
		SubjectID:    uuid.New(),
		DurationMins: 25,
		Tasks:        []string{"read ch.1"},
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError when the insert loses the race, got %v", err)
	}
}

func TestCreateSession_SubjectOwnership(t *testing.T) {
	playerID := uuid.New()
	otherPlayer := uuid.New()
	checks := passingChecks(otherPlayer)
	store := &fakeSessionStore{checks: checks}
	svc := newSessionService(store, &fakePlayerStore{}, &fakeQuestStore{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), models.StudySessionCreateRequest{
		PlayerID:     playerID,
		SubjectID:    uuid.New(),
		DurationMins: 25,
		Tasks:        []string{"read ch.1"},
	})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError for foreign subject, got %v", err)
	}
	if validation.Fields["subject_id"] == "" {
		t.Error("Expected field error on subject_id")
	}
}

func endFixture(status models.SessionStatus, accomplished int) (*fakeSessionStore, *fakePlayerStore, *fakeQuestStore, uuid.UUID) {
	questID := uuid.New()
	player := &models.Player{ID: uuid.New(), UserID: uuid.New(), Level: 1, Experience: 0}
	start := time.Now().UTC().Add(-5 * time.Minute)
	done := start.Add(3 * time.Minute)

	tasks := []models.Task{
		{ID: uuid.New(), Description: "read ch.1"},
		{ID: uuid.New(), Description: "do exercises"},
	}
	for i := 0; i < accomplished && i < len(tasks); i++ {
		tasks[i].EndTime = &done
	}

	session := &models.StudySession{
		ID:        uuid.New(),
		PlayerID:  player.ID,
		SubjectID: uuid.New(),
		QuestID:   &questID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    status,
		Tasks:     tasks,
	}

	store := &fakeSessionStore{sessions: map[uuid.UUID]*models.StudySession{session.ID: session}}
	quests := &fakeQuestStore{quest: &models.Quest{ID: questID, Difficulty: 2, Status: models.QuestInProgress}}
	return store, &fakePlayerStore{player: player}, quests, session.ID
}

func TestEndSession_CompletedAwardsXPAndPublishes(t *testing.T) {
	store, players, quests, sessionID := endFixture(models.SessionActive, 2)
	pub := &fakePublisher{}
	svc := newSessionService(store, players, quests, pub)

	session, err := svc.End(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if session.Status != models.SessionCompleted {
		t.Errorf("Expected completed, got %s", session.Status)
	}
	// base 110 + 30 efficiency bonus: 5 elapsed minutes beats the 10 budgeted
	if session.XPEarned != 140 {
		t.Errorf("Expected 140 XP, got %d", session.XPEarned)
	}
	if store.lastFinish.CompleteQuestID == nil {
		t.Error("Full completion should mark the linked quest completed")
	}
	if len(pub.channels) != 1 || pub.channels[0] != "player_events:"+players.player.UserID.String() {
		t.Errorf("Expected one event on the player's channel, got %v", pub.channels)
	}
}

func TestEndSession_PartialCompletionIsDefeat(t *testing.T) {
	store, players, quests, sessionID := endFixture(models.SessionActive, 1)
	svc := newSessionService(store, players, quests, &fakePublisher{})

	session, err := svc.End(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if session.Status != models.SessionDefeat {
		t.Errorf("Expected defeat, got %s", session.Status)
	}
	// floor(0.5 * 110)
	if session.XPEarned != 55 {
		t.Errorf("Expected 55 XP, got %d", session.XPEarned)
	}
	if store.lastFinish.CompleteQuestID != nil {
		t.Error("A defeat must not complete the linked quest")
	}
}

func TestEndSession_AlreadyCompleted(t *testing.T) {
	store, players, quests, sessionID := endFixture(models.SessionCompleted, 2)
	pub := &fakePublisher{}
	svc := newSessionService(store, players, quests, pub)

	_, err := svc.End(context.Background(), sessionID)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError for a terminal session, got %v", err)
	}
	if store.finishCalls != 0 {
		t.Errorf("Re-ending must not write; FinishSession called %d times", store.finishCalls)
	}
	if len(pub.channels) != 0 {
		t.Error("Re-ending must not publish events")
	}
}

func TestEndSession_ConcurrentEndLosesCleanly(t *testing.T) {
	store, players, quests, sessionID := endFixture(models.SessionActive, 2)
	store.finishErr = repository.ErrSessionNotActive
	svc := newSessionService(store, players, quests, &fakePublisher{})

	_, err := svc.End(context.Background(), sessionID)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError when the guarded update loses, got %v", err)
	}
}

func TestEndSession_NotFound(t *testing.T) {
	store := &fakeSessionStore{sessions: map[uuid.UUID]*models.StudySession{}}
	svc := newSessionService(store, &fakePlayerStore{}, &fakeQuestStore{}, &fakePublisher{})

	_, err := svc.End(context.Background(), uuid.New())

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got %v", err)
	}
}
