package cases

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/shared/server/respond"
)

// Handler wires case HTTP routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches case routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cases", h.create)
	rg.GET("/cases", h.list)
	rg.GET("/cases/:id", h.get)
	rg.PUT("/cases/:id", h.update)
}

type caseRequest struct {
	Title        string     `json:"title"`
	TeamID       string     `json:"teamId"`
	CaseNumber   string     `json:"caseNumber"`
	CourtName    string     `json:"courtName"`
	Jurisdiction string     `json:"jurisdiction"`
	Plaintiff    string     `json:"plaintiff"`
	Defendant    string     `json:"defendant"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	Tags         []string   `json:"tags"`
	FilingDate   *time.Time `json:"filingDate"`
	HearingDate  *time.Time `json:"hearingDate"`
}

func (r caseRequest) toInput() Input {
	return Input{
		Title:        r.Title,
		TeamID:       r.TeamID,
		CaseNumber:   r.CaseNumber,
		CourtName:    r.CourtName,
		Jurisdiction: r.Jurisdiction,
		Plaintiff:    r.Plaintiff,
		Defendant:    r.Defendant,
		Status:       r.Status,
		Description:  r.Description,
		Tags:         r.Tags,
		FilingDate:   r.FilingDate,
		HearingDate:  r.HearingDate,
	}
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cs, err := h.Svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create case", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(cs))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	cs, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch case", nil)
		return
	}

	respond.OK(c, toResponse(cs))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.Svc.List(c.Request.Context(), userID, c.Query("status"), limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list cases", nil)
		return
	}

	out := make([]CaseResponse, 0, len(list))
	for _, cs := range list {
		out = append(out, toResponse(cs))
	}
	respond.OK(c, out)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req caseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cs, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update case", nil)
		}
		return
	}

	respond.OK(c, toResponse(cs))
}
