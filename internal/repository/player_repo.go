package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyquest-backend/internal/models"
)

type PlayerRepo struct {
	pool *pgxpool.Pool
}

func NewPlayerRepo(pool *pgxpool.Pool) *PlayerRepo {
	return &PlayerRepo{pool: pool}
}

// Create inserts the player and its default profile together.
func (r *PlayerRepo) Create(ctx context.Context, player *models.Player) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	player.ID = uuid.New()

	err = tx.QueryRow(ctx, `
		INSERT INTO players (id, user_id, title, level, experience)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		player.ID, player.UserID, player.Title, player.Level, player.Experience,
	).Scan(&player.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (id, player_id, mood)
		VALUES ($1, $2, $3)`,
		uuid.New(), player.ID, models.MoodNeutral,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p := &models.Player{}
	query := `SELECT id, user_id, title, level, experience, created_at
		FROM players WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Level, &p.Experience, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlayerRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Player, error) {
	p := &models.Player{}
	query := `SELECT id, user_id, title, level, experience, created_at
		FROM players WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Level, &p.Experience, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlayerRepo) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT id, user_id, title, level, experience, created_at
		FROM players ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		p := &models.Player{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Level, &p.Experience, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *PlayerRepo) GetProfile(ctx context.Context, playerID uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	query := `SELECT id, player_id, avatar_url, bio, mood
		FROM profiles WHERE player_id = $1`

	err := r.pool.QueryRow(ctx, query, playerID).Scan(
		&p.ID, &p.PlayerID, &p.AvatarURL, &p.Bio, &p.Mood,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlayerRepo) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE profiles SET avatar_url = $1, bio = $2, mood = $3
		WHERE player_id = $4`,
		profile.AvatarURL, profile.Bio, profile.Mood, profile.PlayerID,
	)
	return err
}
