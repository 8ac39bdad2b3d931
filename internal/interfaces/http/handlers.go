package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/cmcs/claimflow/internal/application/port"
	"github.com/cmcs/claimflow/internal/application/service"
	"github.com/cmcs/claimflow/internal/domain/claim"
	"github.com/cmcs/claimflow/internal/domain/workflow"
	"github.com/cmcs/claimflow/internal/export"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	claimService  service.ClaimService
	reviewService service.ReviewService
	hrService     service.HRService
	documentStore port.DocumentStore
	exporter      *export.InvoiceExporter
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	claimService service.ClaimService,
	reviewService service.ReviewService,
	hrService service.HRService,
	documentStore port.DocumentStore,
	exporter *export.InvoiceExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		claimService:  claimService,
		reviewService: reviewService,
		hrService:     hrService,
		documentStore: documentStore,
		exporter:      exporter,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// SubmitClaim handles POST /api/claims. Accepts a multipart form with an
// optional supporting document, or a plain JSON body.
func (h *Handlers) SubmitClaim(c *gin.Context) {
	actor := actorFrom(c)

	var input service.SubmitClaimInput
	var err error

	if ct := c.ContentType(); ct == "multipart/form-data" {
		input, err = h.parseMultipartSubmission(c)
	} else {
		input, err = parseJSONSubmission(c)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.claimService.Submit(c.Request.Context(), actor, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: created})
}

type jsonSubmission struct {
	HoursWorked string `json:"hours_worked" binding:"required"`
	HourlyRate  string `json:"hourly_rate"`
	Notes       string `json:"notes"`
}

func parseJSONSubmission(c *gin.Context) (service.SubmitClaimInput, error) {
	var req jsonSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.SubmitClaimInput{}, fmt.Errorf("%w: %v", claim.ErrMissingRequiredField, err)
	}
	return buildSubmission(req.HoursWorked, req.HourlyRate, req.Notes, nil)
}

func (h *Handlers) parseMultipartSubmission(c *gin.Context) (service.SubmitClaimInput, error) {
	hours := c.PostForm("hours_worked")
	rate := c.PostForm("hourly_rate")
	notes := c.PostForm("notes")

	var document *claim.Document
	file, err := c.FormFile("document")
	if err == nil && file != nil {
		f, err := file.Open()
		if err != nil {
			return service.SubmitClaimInput{}, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return service.SubmitClaimInput{}, fmt.Errorf("failed to read upload: %w", err)
		}

		document, err = h.documentStore.Save(c.Request.Context(), file.Filename, content)
		if err != nil {
			return service.SubmitClaimInput{}, err
		}
	}

	return buildSubmission(hours, rate, notes, document)
}

func buildSubmission(hours, rate, notes string, document *claim.Document) (service.SubmitClaimInput, error) {
	if hours == "" {
		return service.SubmitClaimInput{}, fmt.Errorf("%w: hours_worked is required", claim.ErrMissingRequiredField)
	}
	h, err := decimal.NewFromString(hours)
	if err != nil {
		return service.SubmitClaimInput{}, fmt.Errorf("%w: invalid hours_worked %q", claim.ErrValidationFailed, hours)
	}

	r := decimal.Zero
	if rate != "" {
		if r, err = decimal.NewFromString(rate); err != nil {
			return service.SubmitClaimInput{}, fmt.Errorf("%w: invalid hourly_rate %q", claim.ErrValidationFailed, rate)
		}
	}

	return service.SubmitClaimInput{
		HoursWorked: h,
		HourlyRate:  r,
		Notes:       notes,
		Document:    document,
	}, nil
}

// ListClaims handles GET /api/claims. Lecturers get their own claims;
// reviewers filter by ?status=.
func (h *Handlers) ListClaims(c *gin.Context) {
	actor := actorFrom(c)
	ctx := c.Request.Context()

	if status := c.Query("status"); status != "" {
		claims, err := h.reviewService.ListByStatus(ctx, actor, workflow.State(status))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: claims})
		return
	}

	claims, err := h.claimService.ListOwn(ctx, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	found, err := h.claimService.GetClaim(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: found})
}

// GetClaimHistory handles GET /api/claims/:id/history
func (h *Handlers) GetClaimHistory(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	entries, err := h.claimService.History(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: entries})
}

// GetValidationReport handles GET /api/claims/:id/report
func (h *Handlers) GetValidationReport(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	report, err := h.reviewService.ValidationReport(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

type reviewRequest struct {
	Comment string `json:"comment"`
	Reason  string `json:"reason"`
}

// ApproveClaim handles POST /api/claims/:id/approve
func (h *Handlers) ApproveClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	updated, err := h.reviewService.Approve(c.Request.Context(), actorFrom(c), id, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: updated})
}

// RejectClaim handles POST /api/claims/:id/reject
func (h *Handlers) RejectClaim(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	updated, err := h.reviewService.Reject(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: updated})
}

// ProcessInvoice handles POST /api/claims/:id/invoice
func (h *Handlers) ProcessInvoice(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	processed, invoice, err := h.hrService.ProcessInvoice(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"claim":   processed,
		"invoice": invoice,
	}})
}

// GetInvoice handles GET /api/claims/:id/invoice
func (h *Handlers) GetInvoice(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	invoice, err := h.hrService.GetInvoice(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoice})
}

// ExportInvoice handles GET /api/claims/:id/invoice/export
func (h *Handlers) ExportInvoice(c *gin.Context) {
	id, ok := claimID(c)
	if !ok {
		return
	}
	actor := actorFrom(c)
	ctx := c.Request.Context()

	invoice, err := h.hrService.GetInvoice(ctx, actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	cl, err := h.claimService.GetClaim(ctx, actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", invoice.InvoiceNumber))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.exporter.Write(c.Writer, invoice, cl); err != nil {
		h.logger.Error("Invoice export failed", "claim_id", id, "error", err)
	}
}

// BulkProcessInvoices handles POST /api/invoices/bulk
func (h *Handlers) BulkProcessInvoices(c *gin.Context) {
	result, err := h.hrService.BulkProcessInvoices(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// ListAwaitingProcessing handles GET /api/hr/awaiting
func (h *Handlers) ListAwaitingProcessing(c *gin.Context) {
	claims, err := h.hrService.ListAwaitingProcessing(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// ListProcessed handles GET /api/hr/processed
func (h *Handlers) ListProcessed(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	claims, err := h.hrService.ListProcessed(c.Request.Context(), actorFrom(c), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: claims})
}

// Summary handles GET /api/hr/summary
func (h *Handlers) Summary(c *gin.Context) {
	summary, err := h.hrService.Report(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

func claimID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid claim id"})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, claim.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, claim.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, claim.ErrOutOfOrderTransition), errors.Is(err, claim.ErrAlreadyProcessed):
		status = http.StatusConflict
	case errors.Is(err, claim.ErrValidationFailed),
		errors.Is(err, claim.ErrMissingRequiredField),
		errors.Is(err, claim.ErrStorageRejected),
		errors.Is(err, workflow.ErrInvalidState):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}
