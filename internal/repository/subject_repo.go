package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyquest-backend/internal/models"
)

type SubjectRepo struct {
	pool *pgxpool.Pool
}

func NewSubjectRepo(pool *pgxpool.Pool) *SubjectRepo {
	return &SubjectRepo{pool: pool}
}

func (r *SubjectRepo) Create(ctx context.Context, s *models.Subject) error {
	s.ID = uuid.New()
	query := `
		INSERT INTO subjects (id, player_id, code_name, description, difficulty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.PlayerID, s.CodeName, s.Description, s.Difficulty,
	).Scan(&s.CreatedAt)
}

func (r *SubjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	s := &models.Subject{}
	query := `SELECT id, player_id, code_name, description, difficulty, created_at
		FROM subjects WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.PlayerID, &s.CodeName, &s.Description, &s.Difficulty, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubjectRepo) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]*models.Subject, error) {
	query := `SELECT id, player_id, code_name, description, difficulty, created_at
		FROM subjects WHERE player_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s := &models.Subject{}
		if err := rows.Scan(&s.ID, &s.PlayerID, &s.CodeName, &s.Description, &s.Difficulty, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepo) Update(ctx context.Context, s *models.Subject) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subjects SET code_name = $1, description = $2, difficulty = $3
		WHERE id = $4`,
		s.CodeName, s.Description, s.Difficulty, s.ID,
	)
	return err
}

func (r *SubjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM subjects WHERE id = $1", id)
	return err
}

// Materials

func (r *SubjectRepo) CreateMaterial(ctx context.Context, m *models.Material) error {
	m.ID = uuid.New()
	query := `
		INSERT INTO materials (id, subject_id, title, type, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		m.ID, m.SubjectID, m.Title, m.Type, m.Link,
	).Scan(&m.CreatedAt)
}

func (r *SubjectRepo) ListMaterials(ctx context.Context, subjectID uuid.UUID) ([]*models.Material, error) {
	query := `SELECT id, subject_id, title, type, link, created_at
		FROM materials WHERE subject_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []*models.Material
	for rows.Next() {
		m := &models.Material{}
		if err := rows.Scan(&m.ID, &m.SubjectID, &m.Title, &m.Type, &m.Link, &m.CreatedAt); err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *SubjectRepo) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM materials WHERE id = $1", id)
	return err
}
