package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quoteguard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteguard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteguard/internal/domain"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// QuoteHandler exposes quote operations over HTTP. The acting agent always
// comes from the authenticated claims, never from the body.
type QuoteHandler struct {
	service ports.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes mounts the quote endpoints under rg.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")

	quotes.POST("", h.CreateQuote)
	quotes.GET("/:id", h.GetQuote)
	quotes.PATCH("/:id", h.UpdateQuote)
	quotes.DELETE("/:id", h.DeleteQuote)
	quotes.GET("/:id/version", h.GetQuoteVersion)
	quotes.GET("/:id/legality", h.CheckOperation)
}

// CreateQuote handles POST /api/v1/quotes.
//
// @Summary Create a draft quote
// @Tags quotes
// @Accept json
// @Produce json
// @Success 201 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		abortBadRequest(c, err)
		return
	}

	q, err := h.service.CreateQuote(c.Request.Context(), middleware.AgentID(c), req.ClientID, req.ToPatch())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", c.FullPath()+"/"+q.ID)
	writeQuote(c, http.StatusCreated, q)
}

// GetQuote handles GET /api/v1/quotes/:id.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	q, err := h.service.GetQuote(c.Request.Context(), c.Param("id"), middleware.AgentID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	writeQuote(c, http.StatusOK, q)
}

// UpdateQuote handles PATCH /api/v1/quotes/:id. The expected version comes
// from the body's expectedVersion or an If-Match header; one is required and
// they must agree when both are present.
//
// @Summary Update a quote under optimistic locking
// @Tags quotes
// @Accept json
// @Produce json
// @Param If-Match header string false "Expected version as an entity tag"
// @Success 200 {object} dto.QuoteResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 428 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [patch]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	var req dto.UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		abortBadRequest(c, err)
		return
	}

	expected, ok := expectedVersion(c, req.ExpectedVersion)
	if !ok {
		return
	}

	q, err := h.service.UpdateQuote(c.Request.Context(), c.Param("id"), expected, middleware.AgentID(c), req.ToPatch())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	writeQuote(c, http.StatusOK, q)
}

// DeleteQuote handles DELETE /api/v1/quotes/:id.
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.service.DeleteQuote(c.Request.Context(), c.Param("id"), middleware.AgentID(c)); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetQuoteVersion handles GET /api/v1/quotes/:id/version.
func (h *QuoteHandler) GetQuoteVersion(c *gin.Context) {
	id := c.Param("id")

	v, err := h.service.GetQuoteVersion(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("ETag", etag(v))
	c.JSON(http.StatusOK, dto.VersionResponse{QuoteID: id, Version: v})
}

// CheckOperation handles GET /api/v1/quotes/:id/legality?operation=UPDATE.
// A forbidden operation is a normal answer, not a failed request.
func (h *QuoteHandler) CheckOperation(c *gin.Context) {
	id := c.Param("id")

	op := domain.OperationKind(strings.ToUpper(c.Query("operation")))
	if op != domain.OpUpdate && op != domain.OpDelete {
		dto.Abort(c, http.StatusBadRequest, dto.CodeBadRequest, "operation must be UPDATE or DELETE")
		return
	}

	resp := dto.LegalityResponse{QuoteID: id, Operation: string(op), Allowed: true}

	err := h.service.CheckOperation(c.Request.Context(), id, op, middleware.AgentID(c))
	if err != nil {
		qe, ok := domain.AsQuoteError(err)
		if !ok || !errors.Is(err, domain.ErrForbidden) {
			dto.HandleError(c, err)
			return
		}

		resp.Allowed = false
		resp.Reason = dto.FromQuoteError(qe)
	}

	c.JSON(http.StatusOK, resp)
}

func writeQuote(c *gin.Context, status int, q *domain.Quote) {
	c.Header("ETag", etag(q.Version))
	c.JSON(status, dto.FromQuote(q))
}

func etag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// expectedVersion resolves the version precondition, aborting on failure.
func expectedVersion(c *gin.Context, fromBody *int64) (int64, bool) {
	header := c.GetHeader("If-Match")

	if header == "" {
		if fromBody == nil {
			dto.Abort(c, http.StatusPreconditionRequired, dto.CodePreconditionRequired,
				"expectedVersion or If-Match is required")
			return 0, false
		}

		return *fromBody, true
	}

	v, err := parseETag(header)
	if err != nil {
		dto.Abort(c, http.StatusBadRequest, dto.CodeBadRequest, "If-Match must carry a quote version")
		return 0, false
	}

	if fromBody != nil && *fromBody != v {
		dto.AbortWith(c, http.StatusBadRequest,
			dto.NewErrorResponse(dto.CodeBadRequest, "If-Match and expectedVersion disagree").
				WithDetails(map[string]any{"ifMatch": v, "expectedVersion": *fromBody}))
		return 0, false
	}

	return v, true
}

// parseETag accepts 3, "3" and W/"3".
func parseETag(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "W/")
	s = strings.Trim(s, `"`)

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}

	if v < 1 {
		return 0, strconv.ErrRange
	}

	return v, nil
}

func abortBadRequest(c *gin.Context, err error) {
	msg := "request body is not valid JSON for this operation"
	if errors.Is(err, dto.ErrValidation) {
		msg = "request validation failed"
	}

	dto.AbortWith(c, http.StatusBadRequest,
		dto.NewErrorResponse(dto.CodeBadRequest, msg).WithDetails(dto.ValidationErrors(err)))
}
