package httpapi

import (
	"net/http"
	"time"

	"github.com/MrEthical07/stackguard"
	"github.com/MrEthical07/stackguard/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type tokenResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type meResponse struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Role    string   `json:"role"`
	TeamIDs []string `json:"teamIds"`
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	engine *stackguard.Engine
	log    *zap.Logger
}

func NewAuthHandler(engine *stackguard.Engine, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{engine: engine, log: log.With(zap.String("component", "httpapi"))}
}

// Register mounts the auth routes on g.
func (h *AuthHandler) Register(g gin.IRouter) {
	auth := g.Group("/auth")
	auth.POST("/login", middleware.ClientIP(), h.Login)
	auth.POST("/refresh", middleware.ClientIP(), h.Refresh)
	auth.POST("/logout", middleware.ClientIP(), h.Logout)
	auth.GET("/me", middleware.Authenticate(h.engine), h.Me)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, err := h.engine.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTokenResponse(pair))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, err := h.engine.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTokenResponse(pair))
}

// Logout always answers 204. A missing or invalid bearer has nothing to
// revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := middleware.BearerToken(c.GetHeader("Authorization")); ok {
		h.engine.Logout(c.Request.Context(), token, nil)
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id := session.Identity
	teams := id.TeamIDs
	if teams == nil {
		teams = []string{}
	}
	c.JSON(http.StatusOK, meResponse{
		ID:      id.ID,
		Email:   id.Email,
		Role:    string(id.Role),
		TeamIDs: teams,
	})
}

func (h *AuthHandler) writeError(c *gin.Context, err error) {
	status, msg := middleware.Status(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("auth request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

func toTokenResponse(p *stackguard.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		ExpiresAt:        p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}
