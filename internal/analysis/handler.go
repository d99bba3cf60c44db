package analysis

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/audit"
	"legal-backend/internal/kanoon"
	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/shared/server/respond"
)

// Handler wires the CNR pipeline and Kanoon proxy routes.
type Handler struct {
	Pipeline *Pipeline
}

func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{Pipeline: pipeline}
}

// RegisterRoutes attaches research routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze/cnr", h.analyzeCNR)
	rg.POST("/search/cnr", h.searchCNR)
	rg.POST("/search/kanoon", h.searchKanoon)
	rg.GET("/kanoon/documents/:id", h.kanoonDocument)
}

type analyzeCNRRequest struct {
	CNR             string `json:"cnrNumber"`
	IncludeAnalysis *bool  `json:"includeAnalysis"`
	AnalysisType    string `json:"analysisType"`
	CaseContext     string `json:"caseContext"`
}

func (h *Handler) analyzeCNR(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req analyzeCNRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	// Analysis defaults on; callers opt out explicitly.
	includeAnalysis := req.IncludeAnalysis == nil || *req.IncludeAnalysis

	result, err := h.Pipeline.AnalyzeCNR(c.Request.Context(), userID, Request{
		CNR:             req.CNR,
		IncludeAnalysis: includeAnalysis,
		AnalysisType:    req.AnalysisType,
		CaseContext:     req.CaseContext,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}

	respond.OK(c, result)
}

type searchCNRRequest struct {
	CNR        string `json:"cnrNumber"`
	MaxResults int    `json:"maxResults"`
}

func (h *Handler) searchCNR(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req searchCNRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Pipeline.SearchCNR(c.Request.Context(), userID, req.CNR, req.MaxResults)
	if err != nil {
		respond.FromError(c, err)
		return
	}

	respond.OK(c, result)
}

type kanoonSearchRequest struct {
	Query    string   `json:"query"`
	DocTypes []string `json:"docTypes"`
	FromDate string   `json:"fromDate"`
	ToDate   string   `json:"toDate"`
	Title    string   `json:"title"`
	Cite     string   `json:"cite"`
	Author   string   `json:"author"`
	Bench    string   `json:"bench"`
	PageNum  int      `json:"pageNum"`
}

func (h *Handler) searchKanoon(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req kanoonSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "query is required", nil)
		return
	}

	result, err := h.Pipeline.Kanoon.Search(c.Request.Context(), kanoon.SearchParams{
		Query:    req.Query,
		DocTypes: req.DocTypes,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
		Title:    req.Title,
		Cite:     req.Cite,
		Author:   req.Author,
		Bench:    req.Bench,
		PageNum:  req.PageNum,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}

	h.Pipeline.recordSearch(c.Request.Context(), userID, req.Query, audit.KindKanoon)
	respond.OK(c, result)
}

func (h *Handler) kanoonDocument(c *gin.Context) {
	doc, err := h.Pipeline.Kanoon.Document(c.Request.Context(), c.Param("id"), 0, 0)
	if err != nil {
		respond.FromError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"tid":      doc.TID,
		"title":    doc.Title,
		"citation": doc.Citation,
		"court":    doc.Court,
		"date":     doc.Date,
		"text":     doc.PlainText(),
	})
}
