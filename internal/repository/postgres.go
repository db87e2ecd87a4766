package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/triagedesk/backend/internal/models"
)

// PostgresRepository stores candidates in a relational table keyed by
// registration number. List order follows insertion order (created_at).
type PostgresRepository struct {
	Pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgres(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{Pool: pool, now: time.Now}
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.Pool.Ping(ctx)
}

const candidateColumns = `registration_number, submission_date, name, phone, area,
	cargo_administrativo, cargo_assistencial,
	adm_curriculo, adm_diploma, adm_documentos, adm_cursos,
	assist_curriculo, assist_diploma, assist_carteira, assist_cursos, assist_documentos,
	status_triagem, data_hora_triagem, analista_triagem`

func (r *PostgresRepository) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at ASC, registration_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		var c models.Candidate
		var admCur, admDip, admDocs, admCursos string
		var assistCur, assistDip, assistCart, assistCursos, assistDocs string
		if err := rows.Scan(
			&c.RegistrationNumber, &c.SubmissionDate, &c.Name, &c.Phone, &c.Area,
			&c.CargoAdministrativo, &c.CargoAssistencial,
			&admCur, &admDip, &admDocs, &admCursos,
			&assistCur, &assistDip, &assistCart, &assistCursos, &assistDocs,
			&c.Status, &c.TriagedAt, &c.Analyst,
		); err != nil {
			return nil, err
		}
		if c.Area == models.AreaAssistencial {
			c.Documents = collectDocuments(c.Area, []string{assistCur, assistDip, assistCart, assistCursos, assistDocs})
		} else {
			c.Documents = collectDocuments(c.Area, []string{admCur, admDip, admDocs, admCursos})
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, registrationNumber string, status models.Status, analyst string) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE candidates
		SET status_triagem = $2, analista_triagem = $3, data_hora_triagem = $4, updated_at = NOW()
		WHERE registration_number = $1
		  AND (status_triagem <> $2 OR analista_triagem <> $3)
	`, registrationNumber, status, analyst, triageTimestamp(r.now()))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// No row touched: either the candidate is missing or the identical
	// update was already applied (idempotent success).
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM candidates WHERE registration_number = $1)`, registrationNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return exists, nil
}

// Upsert inserts or refreshes a candidate's intake fields. Triage columns of
// an existing row are left alone: status moves only through UpdateStatus.
func (r *PostgresRepository) Upsert(ctx context.Context, c models.Candidate) error {
	admCells, assistCells := documentCells(c)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO candidates (`+candidateColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (registration_number) DO UPDATE SET
			submission_date = EXCLUDED.submission_date,
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			area = EXCLUDED.area,
			cargo_administrativo = EXCLUDED.cargo_administrativo,
			cargo_assistencial = EXCLUDED.cargo_assistencial,
			adm_curriculo = EXCLUDED.adm_curriculo,
			adm_diploma = EXCLUDED.adm_diploma,
			adm_documentos = EXCLUDED.adm_documentos,
			adm_cursos = EXCLUDED.adm_cursos,
			assist_curriculo = EXCLUDED.assist_curriculo,
			assist_diploma = EXCLUDED.assist_diploma,
			assist_carteira = EXCLUDED.assist_carteira,
			assist_cursos = EXCLUDED.assist_cursos,
			assist_documentos = EXCLUDED.assist_documentos,
			updated_at = NOW()
	`, c.RegistrationNumber, c.SubmissionDate, c.Name, c.Phone, c.Area,
		c.CargoAdministrativo, c.CargoAssistencial,
		admCells[0], admCells[1], admCells[2], admCells[3],
		assistCells[0], assistCells[1], assistCells[2], assistCells[3], assistCells[4],
		c.Status, c.TriagedAt, c.Analyst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// documentCells flattens the document map back into the per-area column
// layout. Only the candidate's own area produces non-empty cells.
func documentCells(c models.Candidate) (adm [4]string, assist [5]string) {
	kinds := docKindsFor(c.Area)
	if c.Area == models.AreaAssistencial {
		for i, kind := range kinds {
			assist[i] = joinDocumentCell(c.Documents[kind])
		}
	} else {
		for i, kind := range kinds {
			adm[i] = joinDocumentCell(c.Documents[kind])
		}
	}
	return adm, assist
}
