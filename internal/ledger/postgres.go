package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triagedesk/backend/internal/models"
)

// PostgresStore persists review events in the candidate_reviews table. The
// seq bigserial column breaks timestamp ties deterministically.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, event models.ReviewEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.ReviewedAt.IsZero() {
		event.ReviewedAt = time.Now().UTC()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO candidate_reviews (id, candidate_registration_number, analyst_email, status, session_id, review_duration_seconds, reviewed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, event.ID, event.RegistrationNumber, event.Analyst, event.Status, event.SessionID, event.DurationSeconds, event.ReviewedAt)
	return err
}

func (s *PostgresStore) SessionMetrics(ctx context.Context, sessionID string) (models.SessionMetrics, error) {
	var m models.SessionMetrics
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(review_duration_seconds) FILTER (WHERE review_duration_seconds > 0), 0),
			COUNT(*) FILTER (WHERE status = 'Classificado'),
			COUNT(*) FILTER (WHERE status = 'Desclassificado'),
			COUNT(*) FILTER (WHERE status = 'Revisar')
		FROM candidate_reviews
		WHERE session_id = $1
	`, sessionID).Scan(&m.TotalReviewed, &m.AverageDurationSeconds, &m.Classified, &m.Disqualified, &m.Review)
	if err != nil {
		return models.SessionMetrics{}, err
	}
	return m, nil
}

func (s *PostgresStore) LastReviewFor(ctx context.Context, registrationNumber string) (models.ReviewEvent, bool, error) {
	events, err := s.query(ctx, `
		SELECT seq, id, candidate_registration_number, analyst_email, status, session_id, review_duration_seconds, reviewed_at
		FROM candidate_reviews
		WHERE candidate_registration_number = $1
		ORDER BY reviewed_at DESC, seq DESC
		LIMIT 1
	`, registrationNumber)
	if err != nil || len(events) == 0 {
		return models.ReviewEvent{}, false, err
	}
	return events[0], true, nil
}

func (s *PostgresStore) ListBySession(ctx context.Context, sessionID string) ([]models.ReviewEvent, error) {
	return s.query(ctx, `
		SELECT seq, id, candidate_registration_number, analyst_email, status, session_id, review_duration_seconds, reviewed_at
		FROM candidate_reviews
		WHERE session_id = $1
		ORDER BY seq ASC
	`, sessionID)
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, registrationNumber string) ([]models.ReviewEvent, error) {
	return s.query(ctx, `
		SELECT seq, id, candidate_registration_number, analyst_email, status, session_id, review_duration_seconds, reviewed_at
		FROM candidate_reviews
		WHERE candidate_registration_number = $1
		ORDER BY seq ASC
	`, registrationNumber)
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]models.ReviewEvent, error) {
	rows, err := s.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewEvent
	for rows.Next() {
		var e models.ReviewEvent
		if err := rows.Scan(&e.Seq, &e.ID, &e.RegistrationNumber, &e.Analyst, &e.Status, &e.SessionID, &e.DurationSeconds, &e.ReviewedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
