package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyquest-backend/internal/models"
)

// Sentinel errors surfaced by the transactional session operations.
var (
	ErrActiveSessionExists = errors.New("player already has an active study session")
	ErrSessionNotActive    = errors.New("study session is not active")
)

const activeSessionIndex = "idx_one_active_session_per_player"

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

// SessionCreateChecks is the result of the batched existence query run before
// a session is created.
type SessionCreateChecks struct {
	PlayerExists     bool
	SubjectExists    bool
	SubjectOwnerID   *uuid.UUID
	QuestOnSubject   bool
	HasActiveSession bool
}

// CreateChecks evaluates every creation precondition in a single round trip.
// QuestOnSubject is true when questID is nil.
func (r *StudySessionRepo) CreateChecks(ctx context.Context, playerID, subjectID uuid.UUID, questID *uuid.UUID) (*SessionCreateChecks, error) {
	c := &SessionCreateChecks{}
	query := `
		SELECT
			EXISTS(SELECT 1 FROM players WHERE id = $1),
			EXISTS(SELECT 1 FROM subjects WHERE id = $2),
			(SELECT player_id FROM subjects WHERE id = $2),
			($3::uuid IS NULL OR EXISTS(SELECT 1 FROM quests WHERE id = $3 AND subject_id = $2)),
			EXISTS(SELECT 1 FROM study_sessions WHERE player_id = $1 AND status = 'active')`

	err := r.pool.QueryRow(ctx, query, playerID, subjectID, questID).Scan(
		&c.PlayerExists,
		&c.SubjectExists,
		&c.SubjectOwnerID,
		&c.QuestOnSubject,
		&c.HasActiveSession,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateWithTasks persists the session and all of its tasks in one
// transaction. A concurrent create for the same player trips the partial
// unique index and comes back as ErrActiveSessionExists.
func (r *StudySessionRepo) CreateWithTasks(ctx context.Context, s *models.StudySession, descriptions []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	s.ID = uuid.New()

	err = tx.QueryRow(ctx, `
		INSERT INTO study_sessions (id, player_id, subject_id, quest_id, start_time, end_time, status, xp_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		RETURNING created_at`,
		s.ID, s.PlayerID, s.SubjectID, s.QuestID, s.StartTime, s.EndTime, s.Status,
	).Scan(&s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == activeSessionIndex {
			return ErrActiveSessionExists
		}
		return err
	}

	s.Tasks = make([]models.Task, 0, len(descriptions))
	for i, desc := range descriptions {
		task := models.Task{
			ID:             uuid.New(),
			StudySessionID: s.ID,
			Description:    desc,
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO tasks (id, study_session_id, description, position)
			VALUES ($1, $2, $3, $4)`,
			task.ID, task.StudySessionID, task.Description, i,
		)
		if err != nil {
			return err
		}
		s.Tasks = append(s.Tasks, task)
	}

	return tx.Commit(ctx)
}

func (r *StudySessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	query := `SELECT id, player_id, subject_id, quest_id, start_time, end_time, actual_complete_time, status, xp_earned, created_at
		FROM study_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.PlayerID, &s.SubjectID, &s.QuestID, &s.StartTime, &s.EndTime,
		&s.ActualCompleteTime, &s.Status, &s.XPEarned, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.Tasks, err = r.loadTasks(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudySessionRepo) List(ctx context.Context) ([]*models.StudySession, error) {
	query := `SELECT id, player_id, subject_id, quest_id, start_time, end_time, actual_complete_time, status, xp_earned, created_at
		FROM study_sessions ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.StudySession
	for rows.Next() {
		s := &models.StudySession{}
		err := rows.Scan(
			&s.ID, &s.PlayerID, &s.SubjectID, &s.QuestID, &s.StartTime, &s.EndTime,
			&s.ActualCompleteTime, &s.Status, &s.XPEarned, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range sessions {
		if s.Tasks, err = r.loadTasks(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// loadTasks returns the session's tasks in creation order.
func (r *StudySessionRepo) loadTasks(ctx context.Context, sessionID uuid.UUID) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, study_session_id, description, start_time, end_time
		FROM tasks WHERE study_session_id = $1 ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t := models.Task{}
		if err := rows.Scan(&t.ID, &t.StudySessionID, &t.Description, &t.StartTime, &t.EndTime); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns a task together with the status of its owning session.
func (r *StudySessionRepo) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, models.SessionStatus, error) {
	t := &models.Task{}
	var status models.SessionStatus
	query := `SELECT t.id, t.study_session_id, t.description, t.start_time, t.end_time, s.status
		FROM tasks t
		JOIN study_sessions s ON s.id = t.study_session_id
		WHERE t.id = $1`

	err := r.pool.QueryRow(ctx, query, taskID).Scan(
		&t.ID, &t.StudySessionID, &t.Description, &t.StartTime, &t.EndTime, &status,
	)
	if err != nil {
		return nil, "", err
	}
	return t, status, nil
}

// StartTask stamps the task's start time once; repeat calls keep the first stamp.
func (r *StudySessionRepo) StartTask(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks SET start_time = $2
		WHERE id = $1 AND start_time IS NULL`,
		taskID, at,
	)
	return err
}

// CompleteTask stamps the task's end time once, marking it accomplished.
func (r *StudySessionRepo) CompleteTask(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks SET end_time = $2
		WHERE id = $1 AND end_time IS NULL`,
		taskID, at,
	)
	return err
}

// FinishSessionParams carries everything the end transition writes.
type FinishSessionParams struct {
	SessionID        uuid.UUID
	Status           models.SessionStatus
	CompletedAt      time.Time
	XPEarned         int
	CompleteQuestID  *uuid.UUID
	PlayerID         uuid.UUID
	PlayerLevel      int
	PlayerExperience int
}

// FinishSession applies the end transition atomically: session status, actual
// completion time and XP, the linked quest's status on full completion, and
// the player's credited experience. The status guard makes concurrent end
// calls lose cleanly with ErrSessionNotActive.
func (r *StudySessionRepo) FinishSession(ctx context.Context, p FinishSessionParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE study_sessions
		SET status = $2, actual_complete_time = $3, xp_earned = $4
		WHERE id = $1 AND status = 'active'`,
		p.SessionID, p.Status, p.CompletedAt, p.XPEarned,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotActive
	}

	if p.CompleteQuestID != nil {
		_, err = tx.Exec(ctx,
			"UPDATE quests SET status = $2 WHERE id = $1",
			*p.CompleteQuestID, models.QuestCompleted,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		"UPDATE players SET level = $2, experience = $3 WHERE id = $1",
		p.PlayerID, p.PlayerLevel, p.PlayerExperience,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
