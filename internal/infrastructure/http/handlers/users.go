package handlers

import (
	"context"
	"net/http"
	"time"

	userapp "github.com/alchemorsel/foodgram/internal/application/user"
	"github.com/alchemorsel/foodgram/internal/domain/user"
	"github.com/alchemorsel/foodgram/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/foodgram/internal/ports/inbound"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService is the user surface the handlers need
type UserService interface {
	Register(ctx context.Context, cmd userapp.RegisterCommand) (*inbound.UserView, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID, viewer *uuid.UUID) (*inbound.UserView, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (string, time.Time, error)
}

// UserHandlers serves accounts, login and subscriptions
type UserHandlers struct {
	users     UserService
	relations inbound.RelationService
	tokens    TokenIssuer
	logger    *zap.Logger
}

// NewUserHandlers creates user handlers
func NewUserHandlers(users UserService, relations inbound.RelationService, tokens TokenIssuer, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		users:     users,
		relations: relations,
		tokens:    tokens,
		logger:    logger.Named("user-handlers"),
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents an issued token
type TokenResponse struct {
	AuthToken string    `json:"auth_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register handles POST /api/users
func (h *UserHandlers) Register(c *gin.Context) {
	var cmd userapp.RegisterCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		fail(c, bindError(err))
		return
	}
	view, err := h.users.Register(c.Request.Context(), cmd)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Login handles POST /api/auth/token/login
func (h *UserHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(u.ID(), u.Email())
	if err != nil {
		h.logger.Error("Failed to issue token", zap.Error(err))
		fail(c, err)
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", u.ID().String()))
	c.JSON(http.StatusOK, TokenResponse{AuthToken: token, ExpiresAt: expiresAt})
}

// Me handles GET /api/users/me
func (h *UserHandlers) Me(c *gin.Context) {
	id := viewer(c)
	view, err := h.users.GetProfile(c.Request.Context(), id, &id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Profile handles GET /api/users/:id
func (h *UserHandlers) Profile(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	view, err := h.users.GetProfile(c.Request.Context(), id, middleware.ViewerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Subscribe handles POST /api/users/:id/subscribe
func (h *UserHandlers) Subscribe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		fail(c, err)
		return
	}

	view, err := h.relations.Subscribe(c.Request.Context(), viewer(c), id, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Unsubscribe handles DELETE /api/users/:id/subscribe
func (h *UserHandlers) Unsubscribe(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.relations.Unsubscribe(c.Request.Context(), viewer(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions
func (h *UserHandlers) Subscriptions(c *gin.Context) {
	limit, err := recipesLimit(c)
	if err != nil {
		fail(c, err)
		return
	}
	views, err := h.relations.ListSubscriptions(c.Request.Context(), viewer(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	if views == nil {
		views = []inbound.SubscriptionView{}
	}
	c.JSON(http.StatusOK, views)
}
