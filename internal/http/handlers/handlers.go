package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/triagedesk/backend/internal/ledger"
	"github.com/triagedesk/backend/internal/models"
	"github.com/triagedesk/backend/internal/repository"
	"github.com/triagedesk/backend/internal/service"
	"github.com/triagedesk/backend/internal/session"
)

type Handler struct {
	Repo       repository.CandidateRepository
	Ledger     ledger.Store
	Sessions   *session.Tracker
	Workspaces *service.Workspaces
	Aggregator *service.Aggregator
	Triage     *service.Triage
	Validator  *validator.Validate
	Logger     zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if p, ok := h.Repo.(repository.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Candidate store unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type startSessionRequest struct {
	AnalystEmail string `json:"analyst_email" binding:"required,email"`
}

// @Summary Start an analyst session
// @Description Opens a session for an already-authenticated analyst and loads their triage queue
// @Tags sessions
// @Accept json
// @Produce json
// @Router /api/sessions [post]
func (h *Handler) SessionStart(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "analyst_email required", err.Error())
		return
	}

	sess, err := h.Sessions.Start(c.Request.Context(), req.AnalystEmail)
	if err != nil {
		if errors.Is(err, session.ErrAuthRequired) {
			writeError(c, http.StatusUnauthorized, "AUTH_REQUIRED", "No analyst identity supplied", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to start session", err.Error())
		return
	}

	candidates, err := h.Repo.List(c.Request.Context())
	if err != nil {
		// The session exists but the queue could not load; the client can
		// retry via the refresh endpoint without logging in again.
		h.Logger.Error().Err(err).Str("session", sess.ID).Msg("initial candidate load failed")
		h.Workspaces.Create(sess.ID, nil)
		c.JSON(http.StatusCreated, gin.H{"session": sess, "queue_loaded": false})
		return
	}
	h.Workspaces.Create(sess.ID, candidates)
	c.JSON(http.StatusCreated, gin.H{"session": sess, "queue_loaded": true})
}

func (h *Handler) SessionEnd(c *gin.Context) {
	id := c.Param("id")
	if err := h.Sessions.End(c.Request.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to end session", err.Error())
		return
	}
	h.Workspaces.Drop(id)
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

func (h *Handler) SessionMetrics(c *gin.Context) {
	metrics, err := h.Aggregator.SessionView(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to compute session metrics", err.Error())
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) AnalystStats(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "email query parameter required", nil)
		return
	}
	stats, err := h.Aggregator.AnalystView(c.Request.Context(), email)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary List candidates
// @Description Filtered candidate listing; also returns the cargo options for the area filter
// @Tags candidates
// @Produce json
// @Router /api/candidates [get]
func (h *Handler) CandidatesList(c *gin.Context) {
	filter := models.Filter{
		Area:   c.DefaultQuery("area", models.FilterAll),
		Cargo:  c.DefaultQuery("cargo", models.FilterAll),
		Status: c.DefaultQuery("status", models.FilterAll),
	}

	candidates, err := h.Repo.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}

	visible := service.Visible(candidates, filter)
	c.JSON(http.StatusOK, gin.H{
		"candidates":    visible,
		"total":         len(candidates),
		"cargo_options": service.CargoOptions(candidates, filter.Area),
	})
}

func (h *Handler) CandidateReviews(c *gin.Context) {
	reg := c.Param("reg")
	events, err := h.Ledger.ListByCandidate(c.Request.Context(), reg)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "LEDGER_ERROR", "Failed to read review history", err.Error())
		return
	}
	last, found, err := h.Ledger.LastReviewFor(c.Request.Context(), reg)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "LEDGER_ERROR", "Failed to read review history", err.Error())
		return
	}
	resp := gin.H{"reviews": events}
	if found {
		resp["last_review"] = last
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Queue(c *gin.Context) {
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, queueState(q))
}

type filterRequest struct {
	Area   string `json:"area"`
	Cargo  string `json:"cargo"`
	Status string `json:"status"`
}

func (h *Handler) QueueFilters(c *gin.Context) {
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed filter payload", err.Error())
		return
	}
	q.SetFilter(models.Filter{Area: req.Area, Cargo: req.Cargo, Status: req.Status})
	c.JSON(http.StatusOK, queueState(q))
}

type selectRequest struct {
	RegistrationNumber string `json:"registration_number" binding:"required"`
}

func (h *Handler) QueueSelect(c *gin.Context) {
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "registration_number required", err.Error())
		return
	}
	if err := q.Select(req.RegistrationNumber); err != nil {
		writeError(c, http.StatusNotFound, "NOT_IN_QUEUE", "Candidate is not in the visible queue", nil)
		return
	}
	c.JSON(http.StatusOK, queueState(q))
}

func (h *Handler) QueueNext(c *gin.Context) {
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	q.Next()
	c.JSON(http.StatusOK, queueState(q))
}

func (h *Handler) QueuePrevious(c *gin.Context) {
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	q.Previous()
	c.JSON(http.StatusOK, queueState(q))
}

func (h *Handler) QueueRefresh(c *gin.Context) {
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	candidates, err := h.Repo.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	q.SetCandidates(candidates)
	c.JSON(http.StatusOK, queueState(q))
}

type classifyRequest struct {
	Status string `json:"status" binding:"required,oneof=Classificado Desclassificado Revisar"`
}

// @Summary Classify the current candidate
// @Description Persists the decision, appends a ledger event, bumps the session counter and advances the queue
// @Tags triage
// @Accept json
// @Produce json
// @Router /api/sessions/{id}/queue/classify [post]
func (h *Handler) Classify(c *gin.Context) {
	sessionID := c.Param("id")
	q, ok := h.queueFor(c)
	if !ok {
		return
	}
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "status must be one of Classificado, Desclassificado, Revisar", err.Error())
		return
	}

	sess, err := h.Sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found", nil)
		return
	}

	result, err := h.Triage.Classify(c.Request.Context(), q, models.Status(req.Status), sess.Analyst, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSelection):
			writeError(c, http.StatusConflict, "NO_SELECTION", "No candidate is currently selected", nil)
		case errors.Is(err, service.ErrBusy):
			writeError(c, http.StatusConflict, "CLASSIFY_IN_FLIGHT", "A classification is already in progress", nil)
		case errors.Is(err, service.ErrUpdateRejected):
			writeError(c, http.StatusConflict, "UPDATE_REJECTED", "The candidate store refused the update; retry without losing your place", nil)
		case errors.Is(err, repository.ErrConfiguration):
			writeError(c, http.StatusInternalServerError, "STORE_NOT_CONFIGURED", "Candidate store is not configured", err.Error())
		case errors.Is(err, repository.ErrTransport):
			writeError(c, http.StatusBadGateway, "STORE_UNAVAILABLE", "Candidate store unreachable; retry", err.Error())
		default:
			writeError(c, http.StatusInternalServerError, "CLASSIFY_ERROR", "Classification failed", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"queue":  queueState(q),
	})
}

// @Summary Export the triage report
// @Produce plain
// @Router /api/report [get]
func (h *Handler) Report(c *gin.Context) {
	candidates, err := h.Repo.List(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	text := service.Report(candidates, c.Query("analyst"), time.Now())
	c.Header("Content-Disposition", `attachment; filename="relatorio-triagem-`+time.Now().Format("2006-01-02")+`.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

type intakeRequest struct {
	RegistrationNumber string              `json:"registration_number" validate:"required"`
	SubmissionDate     string              `json:"submission_date"`
	Name               string              `json:"name" validate:"required"`
	Phone              string              `json:"phone"`
	Area               string              `json:"area" validate:"required,oneof=Administrativa Assistencial"`
	Cargo              string              `json:"cargo"`
	Documents          map[string][]string `json:"documents"`
}

// @Summary Intake webhook
// @Description Upserts a candidate from an external form submission
// @Tags intake
// @Accept json
// @Produce json
// @Router /api/intake [post]
func (h *Handler) Intake(c *gin.Context) {
	up, ok := h.Repo.(repository.Upserter)
	if !ok {
		writeError(c, http.StatusNotImplemented, "INTAKE_UNSUPPORTED", "The configured backend does not accept intake submissions", nil)
		return
	}

	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed intake payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Intake payload failed validation", err.Error())
		return
	}

	candidate := models.Candidate{
		RegistrationNumber: req.RegistrationNumber,
		SubmissionDate:     req.SubmissionDate,
		Name:               req.Name,
		Phone:              req.Phone,
		Area:               models.Area(req.Area),
		Documents:          make(map[models.DocumentKind][]string),
	}
	// Only the submission's own area gets a cargo and documents; the other
	// area's fields stay empty.
	if candidate.Area == models.AreaAssistencial {
		candidate.CargoAssistencial = req.Cargo
	} else {
		candidate.CargoAdministrativo = req.Cargo
	}
	for kind, urls := range req.Documents {
		if len(urls) > 0 {
			candidate.Documents[models.DocumentKind(kind)] = urls
		}
	}

	if err := up.Upsert(c.Request.Context(), candidate); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "registration_number": req.RegistrationNumber})
}

func (h *Handler) queueFor(c *gin.Context) (*service.Queue, bool) {
	q, ok := h.Workspaces.Get(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "No workspace for this session", nil)
		return nil, false
	}
	return q, true
}

func (h *Handler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrConfiguration):
		writeError(c, http.StatusInternalServerError, "STORE_NOT_CONFIGURED", "Candidate store is not configured", err.Error())
	case errors.Is(err, repository.ErrTransport):
		writeError(c, http.StatusBadGateway, "STORE_UNAVAILABLE", "Candidate store unreachable; retry", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", "Candidate store operation failed", err.Error())
	}
}

func queueState(q *service.Queue) gin.H {
	index, total := q.Position()
	state := gin.H{
		"filter":  q.Filter(),
		"visible": q.Visible(),
		"index":   index,
		"total":   total,
	}
	if current, ok := q.Current(); ok {
		state["current"] = current
	}
	return state
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
