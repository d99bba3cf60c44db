package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/shared/server/respond"
)

// Handler wires analysis HTTP routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cases/:id/analyses", h.create)
	rg.GET("/cases/:id/analyses", h.listByCase)
	rg.GET("/analyses/:id", h.get)
	rg.POST("/analyze/document", h.analyzeText)
}

type analysisResponse struct {
	ID               string    `json:"id"`
	CaseID           string    `json:"caseId,omitempty"`
	DocumentID       string    `json:"documentId,omitempty"`
	AnalysisType     string    `json:"analysisType"`
	Result           string    `json:"result"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	TotalTokens      int       `json:"totalTokens"`
	CostEstimate     float64   `json:"costEstimate"`
	ProcessingMs     int64     `json:"processingMs"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toResponse(a Analysis) analysisResponse {
	return analysisResponse{
		ID:               a.ID,
		CaseID:           a.CaseID,
		DocumentID:       a.DocumentID,
		AnalysisType:     a.AnalysisType,
		Result:           a.Result,
		Model:            a.Model,
		PromptTokens:     a.PromptTokens,
		CompletionTokens: a.CompletionTokens,
		TotalTokens:      a.TotalTokens,
		CostEstimate:     a.CostEstimate,
		ProcessingMs:     a.ProcessingMs,
		CreatedAt:        a.CreatedAt,
	}
}

type createRequest struct {
	DocumentID   string            `json:"documentId"`
	AnalysisType string            `json:"analysisType"`
	Context      map[string]string `json:"context"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DocumentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "documentId is required", nil)
		return
	}

	analysis, err := h.Svc.AnalyzeDocument(c.Request.Context(), userID, c.Param("id"), req.DocumentID, req.AnalysisType, req.Context)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.FromError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(analysis))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	analysis, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		return
	}

	respond.OK(c, toResponse(analysis))
}

func (h *Handler) listByCase(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.Svc.ListByCase(c.Request.Context(), userID, c.Param("id"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	out := make([]analysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	respond.OK(c, out)
}

type analyzeTextRequest struct {
	Text         string            `json:"text"`
	AnalysisType string            `json:"analysisType"`
	Context      map[string]string `json:"context"`
}

// analyzeText runs an analysis over caller-supplied text; nothing persists.
func (h *Handler) analyzeText(c *gin.Context) {
	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, analysisType, err := h.Svc.AnalyzeText(c.Request.Context(), req.Text, req.AnalysisType, req.Context)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.FromError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"analysisType": analysisType,
		"result":       result.Result,
		"model":        result.Model,
		"usage":        result.Usage,
		"processingMs": result.ProcessingMs,
	})
}
