// Package engine provides REST API handlers for the reputation and
// lifecycle engine: vote casting, credit attachment, badge checks, and the
// leaderboard.
package engine

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/badges"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/credits"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/leaderboard"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/votes"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// VoteService interface for vote operations.
type VoteService interface {
	CastVote(ctx context.Context, locationID, userID uint, voteType models.VoteType) (*votes.Result, error)
}

// BadgeService interface for badge operations.
type BadgeService interface {
	CheckAndAward(ctx context.Context, userID uint) ([]models.Badge, error)
	UserBadges(ctx context.Context, userID uint) ([]models.Badge, error)
	Catalog() []models.Badge
}

// CreditsService interface for credit attachment.
type CreditsService interface {
	Attach(ctx context.Context, locationID, userID uint, amount int) (*models.Location, error)
}

// LeaderboardService interface for leaderboard reads.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

// Handler handles engine API requests.
type Handler struct {
	voteService        VoteService
	badgeService       BadgeService
	creditsService     CreditsService
	leaderboardService LeaderboardService
	log                *logger.Logger
}

// NewHandler creates a new engine API handler.
func NewHandler(
	voteService *votes.Service,
	badgeService *badges.Service,
	creditsService *credits.Service,
	leaderboardService *leaderboard.Service,
	log *logger.Logger,
) *Handler {
	return &Handler{
		voteService:        voteService,
		badgeService:       badgeService,
		creditsService:     creditsService,
		leaderboardService: leaderboardService,
		log:                log,
	}
}

// NewHandlerWithInterfaces creates a new handler with interface dependencies
// (useful for testing).
func NewHandlerWithInterfaces(
	voteService VoteService,
	badgeService BadgeService,
	creditsService CreditsService,
	leaderboardService LeaderboardService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		voteService:        voteService,
		badgeService:       badgeService,
		creditsService:     creditsService,
		leaderboardService: leaderboardService,
		log:                log,
	}
}

// RegisterRoutes attaches the engine endpoints to the router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.POST("/locations/:id/vote", h.CastVote)
	v1.POST("/locations/:id/credits", h.AttachCredits)
	v1.POST("/users/:id/badges/check", h.CheckBadges)
	v1.GET("/users/:id/badges", h.GetUserBadges)
	v1.GET("/badges", h.GetBadgeCatalog)
	v1.GET("/leaderboard", h.GetLeaderboard)
}

type castVoteRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	VoteType string `json:"vote_type" binding:"required"`
}

// CastVote records a vote on a location.
// POST /api/v1/locations/:id/vote.
func (h *Handler) CastVote(c *gin.Context) {
	locationID, err := h.parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "user_id and vote_type are required")
		return
	}

	result, err := h.voteService.CastVote(c.Request.Context(), locationID, req.UserID, models.VoteType(req.VoteType))
	if err != nil {
		h.serviceError(c, err, "Failed to cast vote")
		return
	}

	c.JSON(http.StatusOK, result)
}

type attachCreditsRequest struct {
	UserID uint `json:"user_id" binding:"required"`
	Amount int  `json:"amount" binding:"required"`
}

// AttachCredits attaches credits to a location.
// POST /api/v1/locations/:id/credits.
func (h *Handler) AttachCredits(c *gin.Context) {
	locationID, err := h.parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req attachCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "user_id and amount are required")
		return
	}

	loc, err := h.creditsService.Attach(c.Request.Context(), locationID, req.UserID, req.Amount)
	if err != nil {
		h.serviceError(c, err, "Failed to attach credits")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location_id": loc.ID,
		"credits":     loc.Credits,
	})
}

// CheckBadges evaluates badge eligibility for a user and returns badges
// newly earned by this call.
// POST /api/v1/users/:id/badges/check.
func (h *Handler) CheckBadges(c *gin.Context) {
	userID, err := h.parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	earned, err := h.badgeService.CheckAndAward(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to check badges")
		return
	}
	if earned == nil {
		earned = []models.Badge{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"newly_earned": earned,
	})
}

// GetUserBadges returns the badges a user has earned.
// GET /api/v1/users/:id/badges.
func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, err := h.parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	earned, err := h.badgeService.UserBadges(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to get user badges")
		return
	}
	if earned == nil {
		earned = []models.Badge{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"badges":  earned,
	})
}

// GetBadgeCatalog returns all available badges.
// GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"badges": h.badgeService.Catalog()})
}

// GetLeaderboard returns the top users by points.
// GET /api/v1/leaderboard?limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			h.errorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		h.serviceError(c, err, "Failed to get leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"total_entries": len(entries),
	})
}

func (h *Handler) parseID(c *gin.Context, param string) (uint, error) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id parameter")
	}
	return uint(id), nil
}

// serviceError maps domain errors to HTTP statuses; anything else is a
// persistence failure and reports 500 (safe for the caller to retry).
func (h *Handler) serviceError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrLocationNotFound), errors.Is(err, models.ErrUserNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrAlreadyVoted),
		errors.Is(err, models.ErrInvalidVoteType),
		errors.Is(err, models.ErrInsufficientCredits),
		errors.Is(err, models.ErrInvalidCreditAmount):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotCreator):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	default:
		h.log.Error().Err(err).Msg(logMsg)
		h.errorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
