package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/triagedesk/backend/internal/models"
)

// Fixed column layout of the intake spreadsheet (columns A through S).
const (
	colSubmission   = 0
	colName         = 1
	colPhone        = 2
	colArea         = 3
	colCargoAdm     = 4
	colCargoAssist  = 5
	colAdmDocs      = 6  // 6..9: curriculo, diploma, documentos, cursos
	colAssistDocs   = 10 // 10..14: curriculo, diploma, carteira, cursos, documentos
	colRegistration = 15
	colStatus       = 16
	colTriagedAt    = 17
	colAnalyst      = 18
	sheetWidth      = 19
)

// sheetHeader is the expected header row, used only to detect schema drift.
// A mismatch is logged, never fatal: the column positions stay authoritative.
var sheetHeader = [sheetWidth]string{
	"Data de Envio", "Nome", "Telefone", "Área",
	"Cargo Administrativo", "Cargo Assistencial",
	"Adm Currículo", "Adm Diploma", "Adm Documentos", "Adm Cursos",
	"Assist Currículo", "Assist Diploma", "Assist Carteira", "Assist Cursos", "Assist Documentos",
	"Número de Inscrição", "Status Triagem", "Data/Hora Triagem", "Analista Triagem",
}

const defaultSheetsBaseURL = "https://sheets.googleapis.com"

// SheetsRepository reads candidates from a Google Sheet through the values
// API. Reads use an API key; writes need an OAuth access token and degrade
// to read-only when none is configured.
type SheetsRepository struct {
	SpreadsheetID string
	APIKey        string
	AccessToken   string
	BaseURL       string
	Client        *http.Client
	Logger        zerolog.Logger

	headerOnce sync.Once
	now        func() time.Time
}

func NewSheets(spreadsheetID, apiKey, accessToken string, logger zerolog.Logger) *SheetsRepository {
	return &SheetsRepository{
		SpreadsheetID: spreadsheetID,
		APIKey:        apiKey,
		AccessToken:   accessToken,
		BaseURL:       defaultSheetsBaseURL,
		Client:        &http.Client{Timeout: 15 * time.Second},
		Logger:        logger,
		now:           time.Now,
	}
}

type valueRange struct {
	Values [][]string `json:"values"`
}

func (r *SheetsRepository) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	r.headerOnce.Do(func() { r.checkHeader(rows[0]) })

	candidates := make([]models.Candidate, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		c, ok := r.parseRow(rows[i], i+1)
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (r *SheetsRepository) UpdateStatus(ctx context.Context, registrationNumber string, status models.Status, analyst string) (bool, error) {
	rows, err := r.fetchRows(ctx)
	if err != nil {
		return false, err
	}

	rowNum := 0
	var row []string
	for i := 1; i < len(rows); i++ {
		if cell(rows[i], colRegistration) == registrationNumber {
			rowNum = i + 1 // sheet rows are 1-based, row 1 is the header
			row = rows[i]
			break
		}
	}
	if rowNum == 0 {
		return false, nil
	}
	if models.Status(cell(row, colStatus)) == status && cell(row, colAnalyst) == analyst {
		// Identical update already applied; keep the stored timestamp.
		return true, nil
	}
	if r.AccessToken == "" {
		r.Logger.Warn().Str("registration", registrationNumber).Msg("no access token, sheet is read-only")
		return false, nil
	}

	values := [][]string{{string(status), triageTimestamp(r.now()), analyst}}
	if err := r.writeRange(ctx, fmt.Sprintf("Q%d:S%d", rowNum, rowNum), values); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SheetsRepository) parseRow(raw []string, rowNum int) (models.Candidate, bool) {
	name := strings.TrimSpace(cell(raw, colName))
	if name == "" {
		if !rowEmpty(raw) {
			r.Logger.Debug().Int("row", rowNum).Msg("dropping row without candidate name")
		}
		return models.Candidate{}, false
	}

	reg := cell(raw, colRegistration)
	if reg == "" {
		reg = fmt.Sprintf("temp-%d", rowNum)
	}

	area := models.Area(cell(raw, colArea))
	docStart := colAdmDocs
	if area == models.AreaAssistencial {
		docStart = colAssistDocs
	}
	docCells := make([]string, len(docKindsFor(area)))
	for i := range docCells {
		docCells[i] = cell(raw, docStart+i)
	}

	return models.Candidate{
		RegistrationNumber:  reg,
		SubmissionDate:      cell(raw, colSubmission),
		Name:                name,
		Phone:               cell(raw, colPhone),
		Area:                area,
		CargoAdministrativo: cell(raw, colCargoAdm),
		CargoAssistencial:   cell(raw, colCargoAssist),
		Documents:           collectDocuments(area, docCells),
		Status:              models.Status(cell(raw, colStatus)),
		TriagedAt:           cell(raw, colTriagedAt),
		Analyst:             cell(raw, colAnalyst),
	}, true
}

func (r *SheetsRepository) checkHeader(header []string) {
	for i, want := range sheetHeader {
		if i >= len(header) {
			r.Logger.Warn().Int("columns", len(header)).Msg("sheet header shorter than expected layout")
			return
		}
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			r.Logger.Warn().
				Int("column", i).
				Str("expected", want).
				Str("found", header[i]).
				Msg("sheet header mismatch, relying on column positions")
		}
	}
}

func (r *SheetsRepository) fetchRows(ctx context.Context) ([][]string, error) {
	if r.SpreadsheetID == "" || r.APIKey == "" {
		return nil, fmt.Errorf("%w: spreadsheet id or api key missing", ErrConfiguration)
	}

	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/A:S?key=%s",
		r.baseURL(), url.PathEscape(r.SpreadsheetID), url.QueryEscape(r.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: sheets read returned %d", ErrTransport, resp.StatusCode)
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return vr.Values, nil
}

func (r *SheetsRepository) writeRange(ctx context.Context, rng string, values [][]string) error {
	u := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=USER_ENTERED",
		r.baseURL(), url.PathEscape(r.SpreadsheetID), rng)
	body, _ := json.Marshal(valueRange{Values: values})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sheets write returned %d", ErrTransport, resp.StatusCode)
	}
	return nil
}

func (r *SheetsRepository) baseURL() string {
	if r.BaseURL != "" {
		return r.BaseURL
	}
	return defaultSheetsBaseURL
}

func (r *SheetsRepository) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
