package stream

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the queue endpoints. The creator-scoped listing is
// public (matches the shareable "now queued" view); everything mutating,
// plus the caller's own view, requires a session.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/streams", h.listStreams)

	protected.POST("/streams", h.createStream)
	protected.POST("/streams/upvotes", h.upvote)
	protected.POST("/streams/downvotes", h.downvote)
	protected.POST("/streams/played", h.markPlayed)
	protected.GET("/streams/next", h.nextStream)
}

// RegisterMyStreams is registered separately so the route can carry its own
// auth status codes (401/404 instead of the default 403).
func (h *Handler) RegisterMyStreams(group *gin.RouterGroup) {
	group.GET("/streams/my", h.myStreams)
}

type CreateStreamRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) createStream(c *gin.Context) {
	var req CreateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id") // Set by auth middleware
	stream, err := h.service.Create(c.Request.Context(), userID, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Added stream",
		"id":      stream.ID,
	})
}

func (h *Handler) listStreams(c *gin.Context) {
	creatorID := c.Query("creatorId")

	// Anonymous readers get the queue without personal vote flags.
	requesterID := c.GetString("user_id")

	entries, err := h.service.Queue(c.Request.Context(), creatorID, requesterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streams": entries})
}

func (h *Handler) myStreams(c *gin.Context) {
	userID := c.GetString("user_id")

	if _, err := h.service.GetUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.service.Queue(c.Request.Context(), userID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streams": entries})
}

type VoteRequest struct {
	StreamID string `json:"streamId" binding:"required"`
}

func (h *Handler) upvote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if err := h.service.Upvote(c.Request.Context(), req.StreamID, userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upvote registered"})
}

func (h *Handler) downvote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if err := h.service.Downvote(c.Request.Context(), req.StreamID, userID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upvote removed"})
}

func (h *Handler) markPlayed(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if err := h.service.MarkPlayed(c.Request.Context(), req.StreamID, userID); err != nil {
		switch {
		case errors.Is(err, ErrStreamNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotStreamOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stream marked as played"})
}

func (h *Handler) nextStream(c *gin.Context) {
	userID := c.GetString("user_id")

	entry, err := h.service.Next(c.Request.Context(), userID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no streams in queue"})
		return
	}

	c.JSON(http.StatusOK, entry)
}
