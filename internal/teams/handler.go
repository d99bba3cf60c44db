package teams

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/shared/server/respond"
)

// Handler wires team HTTP routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches team routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/teams", h.create)
	rg.GET("/teams", h.list)
	rg.POST("/teams/:id/members", h.addMember)
	rg.GET("/teams/:id/members", h.listMembers)
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type teamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	team, err := h.Svc.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	respond.JSON(c, http.StatusCreated, teamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	teams, err := h.Svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list teams", nil)
		return
	}

	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt})
	}
	respond.OK(c, out)
}

type addMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (h *Handler) addMember(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}

	member, err := h.Svc.AddMember(c.Request.Context(), c.Param("id"), callerID, req.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "team not found", nil)
		case errors.Is(err, ErrAlreadyMember):
			respond.Error(c, http.StatusConflict, "already_member", err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"id":       member.ID,
		"teamId":   member.TeamID,
		"userId":   member.UserID,
		"role":     member.Role,
		"joinedAt": member.JoinedAt,
	})
}

func (h *Handler) listMembers(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)

	members, err := h.Svc.Members(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "team not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list members", nil)
		return
	}

	out := make([]gin.H, 0, len(members))
	for _, m := range members {
		out = append(out, gin.H{"userId": m.UserID, "role": m.Role, "joinedAt": m.JoinedAt})
	}
	respond.OK(c, out)
}
