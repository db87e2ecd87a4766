package models

import "time"

type Area string

const (
	AreaAdministrativa Area = "Administrativa"
	AreaAssistencial   Area = "Assistencial"
)

type Status string

const (
	// StatusPending is the zero value: the candidate has not been triaged yet.
	StatusPending         Status = ""
	StatusClassificado    Status = "Classificado"
	StatusDesclassificado Status = "Desclassificado"
	StatusRevisar         Status = "Revisar"
)

func (s Status) Valid() bool {
	switch s {
	case StatusClassificado, StatusDesclassificado, StatusRevisar:
		return true
	}
	return false
}

type DocumentKind string

const (
	DocCurriculo  DocumentKind = "curriculo"
	DocDiploma    DocumentKind = "diploma"
	DocCarteira   DocumentKind = "carteira"
	DocDocumentos DocumentKind = "documentos"
	DocCursos     DocumentKind = "cursos"
)

// Candidate is one applicant row from the backing store. Cargo and document
// fields are populated only for the candidate's own area; the other area's
// fields stay empty.
type Candidate struct {
	RegistrationNumber  string                    `json:"registration_number"`
	SubmissionDate      string                    `json:"submission_date"`
	Name                string                    `json:"name"`
	Phone               string                    `json:"phone"`
	Area                Area                      `json:"area"`
	CargoAdministrativo string                    `json:"cargo_administrativo"`
	CargoAssistencial   string                    `json:"cargo_assistencial"`
	Documents           map[DocumentKind][]string `json:"documents"`
	Status              Status                    `json:"status_triagem"`
	TriagedAt           string                    `json:"data_hora_triagem"`
	Analyst             string                    `json:"analista_triagem"`
}

// Cargo returns the role matching the candidate's area.
func (c Candidate) Cargo() string {
	if c.Area == AreaAssistencial {
		return c.CargoAssistencial
	}
	return c.CargoAdministrativo
}

func (c Candidate) Pending() bool {
	return c.Status == StatusPending
}

// ReviewEvent is one immutable entry in the review ledger. Seq is assigned by
// the ledger store and orders events that share a timestamp.
type ReviewEvent struct {
	ID                 string    `json:"id"`
	Seq                int64     `json:"-"`
	RegistrationNumber string    `json:"candidate_registration_number"`
	Analyst            string    `json:"analyst_email"`
	Status             Status    `json:"status"`
	SessionID          string    `json:"session_id"`
	DurationSeconds    int       `json:"review_duration_seconds"`
	ReviewedAt         time.Time `json:"reviewed_at"`
}

type Session struct {
	ID            string     `json:"id"`
	Analyst       string     `json:"analyst_email"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	TotalReviewed int        `json:"total_reviewed"`
}

func (s Session) Ended() bool {
	return s.EndedAt != nil
}

// SessionMetrics aggregates the ledger events of one session.
type SessionMetrics struct {
	TotalReviewed          int     `json:"total_reviewed"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
	Classified             int     `json:"classified"`
	Disqualified           int     `json:"disqualified"`
	Review                 int     `json:"review"`
}

// AnalystStats counts candidates by their current status field, scoped to one
// analyst. Unlike SessionMetrics it reflects current state, not event history:
// a re-reviewed candidate is counted once, under its latest status.
type AnalystStats struct {
	Total         int `json:"total"`
	TotalReviewed int `json:"total_reviewed"`
	Classified    int `json:"classified"`
	Disqualified  int `json:"disqualified"`
	Review        int `json:"review"`
	Pending       int `json:"pending"`
}

const (
	FilterAll     = "all"
	FilterPending = "pending"
)

// Filter is the dashboard's view state. Zero value means "all pending".
type Filter struct {
	Area   string `json:"area"`
	Cargo  string `json:"cargo"`
	Status string `json:"status"`
}

func DefaultFilter() Filter {
	return Filter{Area: FilterAll, Cargo: FilterAll, Status: FilterPending}
}
