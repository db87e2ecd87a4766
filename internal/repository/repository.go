package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/triagedesk/backend/internal/models"
)

var (
	// ErrConfiguration means the store coordinates (spreadsheet id, DSN, ...)
	// are absent or malformed. Fatal to every operation until fixed.
	ErrConfiguration = errors.New("candidate store not configured")

	// ErrTransport wraps network or backend failures on the read path.
	// Recoverable: the caller should retry.
	ErrTransport = errors.New("candidate store unreachable")
)

// CandidateRepository is the single capability behind the spreadsheet,
// key-value and relational backends. Application code never branches on
// which one is active.
type CandidateRepository interface {
	// List fetches the complete current candidate set. Ordering follows the
	// backing store's insertion order and is stable within one fetch.
	List(ctx context.Context) ([]models.Candidate, error)

	// UpdateStatus mutates one candidate's status, triage timestamp and
	// analyst. Returns false without error when the candidate cannot be
	// located or the write credential is absent. Idempotent: repeating an
	// identical update leaves the stored state unchanged.
	UpdateStatus(ctx context.Context, registrationNumber string, status models.Status, analyst string) (bool, error)
}

// Upserter is implemented by backends that accept intake submissions.
type Upserter interface {
	Upsert(ctx context.Context, c models.Candidate) error
}

// Pinger is implemented by backends with a cheap health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

var docSeparators = strings.NewReplacer("<br>", "\n", ",", "\n")

// splitDocumentCell breaks a raw document cell into individual URLs. Cells
// may pack several links separated by "<br>", commas or newlines.
func splitDocumentCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(docSeparators.Replace(cell), "\n") {
		part = strings.TrimSpace(part)
		if part == "" || part == "undefined" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func joinDocumentCell(urls []string) string {
	return strings.Join(urls, ", ")
}

var admDocKinds = []models.DocumentKind{models.DocCurriculo, models.DocDiploma, models.DocDocumentos, models.DocCursos}

var assistDocKinds = []models.DocumentKind{models.DocCurriculo, models.DocDiploma, models.DocCarteira, models.DocCursos, models.DocDocumentos}

func docKindsFor(area models.Area) []models.DocumentKind {
	if area == models.AreaAssistencial {
		return assistDocKinds
	}
	return admDocKinds
}

// collectDocuments zips raw cells with the document kinds of the candidate's
// area. Cells beyond the area's kind list are ignored.
func collectDocuments(area models.Area, cells []string) map[models.DocumentKind][]string {
	kinds := docKindsFor(area)
	docs := make(map[models.DocumentKind][]string, len(kinds))
	for i, kind := range kinds {
		if i >= len(cells) {
			break
		}
		if urls := splitDocumentCell(cells[i]); len(urls) > 0 {
			docs[kind] = urls
		}
	}
	return docs
}

// triageTimestamp renders a triage time the way the dashboard displays it,
// in the recruiting team's timezone.
func triageTimestamp(t time.Time) string {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006 15:04")
}
