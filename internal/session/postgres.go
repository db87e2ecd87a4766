package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triagedesk/backend/internal/models"
)

type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, sess models.Session) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO analyst_sessions (id, analyst_email, started_at, total_reviewed)
		VALUES ($1,$2,$3,$4)
	`, sess.ID, sess.Analyst, sess.StartedAt, sess.TotalReviewed)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.Session, error) {
	var sess models.Session
	err := s.Pool.QueryRow(ctx, `
		SELECT id, analyst_email, started_at, ended_at, total_reviewed
		FROM analyst_sessions WHERE id = $1
	`, id).Scan(&sess.ID, &sess.Analyst, &sess.StartedAt, &sess.EndedAt, &sess.TotalReviewed)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func (s *PostgresStore) Update(ctx context.Context, sess models.Session) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE analyst_sessions
		SET ended_at = $2, total_reviewed = $3
		WHERE id = $1
	`, sess.ID, sess.EndedAt, sess.TotalReviewed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
