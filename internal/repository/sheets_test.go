package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/triagedesk/backend/internal/models"
)

type fakeSheet struct {
	rows [][]string
	puts []*http.Request
	body []byte
}

func (f *fakeSheet) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"values": f.rows})
		case http.MethodPut:
			f.puts = append(f.puts, r)
			f.body, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte("{}"))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func sheetFixture() *fakeSheet {
	header := make([]string, sheetWidth)
	copy(header, sheetHeader[:])
	return &fakeSheet{rows: [][]string{
		header,
		{"01/02/2024", "Maria Souza", "11 98888-0001", "Administrativa", "Auxiliar Administrativo", "",
			"https://docs/cur-1", "https://docs/dip-1", "https://docs/doc-1<br>https://docs/doc-2", "",
			"", "", "", "", "",
			"1001", "Classificado", "01/02/2024 09:00", "ana@org.br"},
		{"02/02/2024", "João Lima", "11 98888-0002", "Assistencial", "", "Enfermeiro",
			"", "", "", "",
			"https://docs/cur-2", "https://docs/dip-2", "https://docs/coren-2", "", "",
			"1002", "", "", ""},
		{"03/02/2024", "", "11 98888-0003", "Administrativa"},
		{"04/02/2024", "Ana Dias"},
	}}
}

func newTestSheets(t *testing.T, f *fakeSheet, token string) *SheetsRepository {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	r := NewSheets("sheet-1", "key-1", token, zerolog.Nop())
	r.BaseURL = srv.URL
	return r
}

func TestSheetsListParsesRows(t *testing.T) {
	r := newTestSheets(t, sheetFixture(), "")

	out, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 candidates (nameless row dropped), got %d", len(out))
	}

	maria := out[0]
	if maria.RegistrationNumber != "1001" || maria.Area != models.AreaAdministrativa {
		t.Fatalf("unexpected first candidate: %+v", maria)
	}
	if got := maria.Documents[models.DocDocumentos]; len(got) != 2 {
		t.Fatalf("expected 2 documentos urls, got %v", got)
	}
	if maria.Status != models.StatusClassificado || maria.Analyst != "ana@org.br" {
		t.Fatalf("triage fields not parsed: %+v", maria)
	}

	joao := out[1]
	if joao.Cargo() != "Enfermeiro" {
		t.Fatalf("expected assistencial cargo, got %q", joao.Cargo())
	}
	if len(joao.Documents[models.DocCarteira]) != 1 {
		t.Fatalf("expected carteira document, got %v", joao.Documents)
	}

	// Short row: padded with empty cells, fallback registration number.
	ana := out[2]
	if ana.RegistrationNumber != "temp-5" {
		t.Fatalf("expected temp-5 fallback registration, got %q", ana.RegistrationNumber)
	}
	if !ana.Pending() {
		t.Fatalf("expected pending status, got %q", ana.Status)
	}
}

func TestSheetsUpdateStatusWritesTriageRange(t *testing.T) {
	f := sheetFixture()
	r := newTestSheets(t, f, "tok-1")

	ok, err := r.UpdateStatus(context.Background(), "1002", models.StatusDesclassificado, "ana@org.br")
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if len(f.puts) != 1 {
		t.Fatalf("expected 1 write, got %d", len(f.puts))
	}
	req := f.puts[0]
	if !strings.Contains(req.URL.Path, "/values/Q3:S3") {
		t.Fatalf("expected write to Q3:S3, got %s", req.URL.Path)
	}
	if req.Header.Get("Authorization") != "Bearer tok-1" {
		t.Fatalf("expected bearer token, got %q", req.Header.Get("Authorization"))
	}
	var vr valueRange
	if err := json.Unmarshal(f.body, &vr); err != nil {
		t.Fatalf("decode write body: %v", err)
	}
	if len(vr.Values) != 1 || len(vr.Values[0]) != 3 {
		t.Fatalf("unexpected write payload: %+v", vr.Values)
	}
	if vr.Values[0][0] != "Desclassificado" || vr.Values[0][2] != "ana@org.br" {
		t.Fatalf("unexpected write payload: %+v", vr.Values[0])
	}
}

func TestSheetsUpdateStatusIdempotentSkipsWrite(t *testing.T) {
	f := sheetFixture()
	r := newTestSheets(t, f, "tok-1")

	ok, err := r.UpdateStatus(context.Background(), "1001", models.StatusClassificado, "ana@org.br")
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if len(f.puts) != 0 {
		t.Fatalf("expected identical update to skip the write, got %d writes", len(f.puts))
	}
}

func TestSheetsUpdateStatusWithoutToken(t *testing.T) {
	f := sheetFixture()
	r := newTestSheets(t, f, "")

	ok, err := r.UpdateStatus(context.Background(), "1002", models.StatusRevisar, "ana@org.br")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected read-only degradation to report false")
	}
	if len(f.puts) != 0 {
		t.Fatalf("expected no writes, got %d", len(f.puts))
	}
}

func TestSheetsUpdateStatusNotFound(t *testing.T) {
	r := newTestSheets(t, sheetFixture(), "tok-1")
	ok, err := r.UpdateStatus(context.Background(), "9999", models.StatusRevisar, "ana@org.br")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatal("expected missing candidate to report false")
	}
}

func TestSheetsMissingConfiguration(t *testing.T) {
	r := NewSheets("", "", "", zerolog.Nop())
	if _, err := r.List(context.Background()); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestSheetsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewSheets("sheet-1", "key-1", "", zerolog.Nop())
	r.BaseURL = srv.URL
	if _, err := r.List(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
