package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"legal-backend/internal/shared/server/middleware"
	"legal-backend/internal/shared/server/respond"
)

// Handler wires auth HTTP routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.GET("/auth/me", h.me)
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(user User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.Register(c.Request.Context(), req.Email, req.FullName, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "email_taken", err.Error(), nil)
		default:
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "login failed", nil)
		return
	}

	respond.OK(c, gin.H{
		"accessToken": token,
		"tokenType":   "bearer",
		"user":        toResponse(user),
	})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}

	respond.OK(c, toResponse(user))
}
