package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stream-queue-system/pkg/database"
	"github.com/stream-queue-system/pkg/jwt"
	"github.com/stream-queue-system/pkg/models"
	"github.com/stream-queue-system/pkg/redis"
)

const sessionLifetime = 24 * time.Hour

type Handler struct {
	db       *database.MySQLDB
	sessions *redis.SessionStore
}

func NewHandler(db *database.MySQLDB, sessions *redis.SessionStore) *Handler {
	return &Handler{
		db:       db,
		sessions: sessions,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		// Public routes
		auth.POST("/login", h.login)

		// Protected routes (require authentication)
		protected := auth.Group("", AuthMiddleware(h.sessions))
		protected.POST("/logout", h.logout)
		protected.GET("/me", h.me)
	}
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// login resolves the verified email to a user, creating the user on first
// authenticated request, then issues a session token.
func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			ID:        uuid.New(),
			Email:     req.Email,
			Name:      req.Name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if createErr := h.db.CreateUser(user); createErr != nil {
			// A concurrent first login may have won the unique-email
			// race; re-read before giving up.
			user, err = h.db.GetUserByEmail(req.Email)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := jwt.GenerateToken(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	session := &redis.Session{
		Email:     user.Email,
		ExpiresAt: time.Now().Add(sessionLifetime).UTC(),
	}
	if err := h.sessions.StoreSession(c.Request.Context(), user.ID.String(), session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) logout(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.sessions.DeleteSession(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.db.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
