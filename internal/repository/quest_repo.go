package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyquest-backend/internal/models"
)

type QuestRepo struct {
	pool *pgxpool.Pool
}

func NewQuestRepo(pool *pgxpool.Pool) *QuestRepo {
	return &QuestRepo{pool: pool}
}

func (r *QuestRepo) Create(ctx context.Context, q *models.Quest) error {
	q.ID = uuid.New()
	q.Status = models.QuestInProgress
	query := `
		INSERT INTO quests (id, subject_id, description, difficulty, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.SubjectID, q.Description, q.Difficulty, q.Status,
	).Scan(&q.CreatedAt)
}

func (r *QuestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Quest, error) {
	q := &models.Quest{}
	query := `SELECT id, subject_id, description, difficulty, status, created_at
		FROM quests WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.SubjectID, &q.Description, &q.Difficulty, &q.Status, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestRepo) List(ctx context.Context) ([]*models.Quest, error) {
	query := `SELECT id, subject_id, description, difficulty, status, created_at
		FROM quests ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []*models.Quest
	for rows.Next() {
		q := &models.Quest{}
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.Description, &q.Difficulty, &q.Status, &q.CreatedAt); err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

func (r *QuestRepo) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]*models.Quest, error) {
	query := `SELECT id, subject_id, description, difficulty, status, created_at
		FROM quests WHERE subject_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []*models.Quest
	for rows.Next() {
		q := &models.Quest{}
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.Description, &q.Difficulty, &q.Status, &q.CreatedAt); err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}
	return quests, rows.Err()
}

// ExistsWithDescription reports whether the subject already has a quest with
// the same description.
func (r *QuestRepo) ExistsWithDescription(ctx context.Context, subjectID uuid.UUID, description string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM quests WHERE subject_id = $1 AND description = $2)",
		subjectID, description,
	).Scan(&exists)
	return exists, err
}

func (r *QuestRepo) Update(ctx context.Context, q *models.Quest) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE quests SET description = $1, difficulty = $2, status = $3
		WHERE id = $4`,
		q.Description, q.Difficulty, q.Status, q.ID,
	)
	return err
}

func (r *QuestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM quests WHERE id = $1", id)
	return err
}
