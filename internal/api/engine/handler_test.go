package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/badges"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/leaderboard"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/votes"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

type mockVoteService struct {
	result *votes.Result
	err    error

	locationID uint
	userID     uint
	voteType   models.VoteType
}

func (m *mockVoteService) CastVote(_ context.Context, locationID, userID uint, voteType models.VoteType) (*votes.Result, error) {
	m.locationID = locationID
	m.userID = userID
	m.voteType = voteType
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockBadgeService struct {
	earned []models.Badge
	err    error
}

func (m *mockBadgeService) CheckAndAward(_ context.Context, _ uint) ([]models.Badge, error) {
	return m.earned, m.err
}

func (m *mockBadgeService) UserBadges(_ context.Context, _ uint) ([]models.Badge, error) {
	return m.earned, m.err
}

func (m *mockBadgeService) Catalog() []models.Badge {
	return badges.DefaultCatalog()
}

type mockCreditsService struct {
	loc *models.Location
	err error
}

func (m *mockCreditsService) Attach(_ context.Context, _, _ uint, _ int) (*models.Location, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.loc, nil
}

type mockLeaderboardService struct {
	entries []leaderboard.Entry
	err     error
	limit   int
}

func (m *mockLeaderboardService) GetLeaderboard(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	m.limit = limit
	return m.entries, m.err
}

type handlerMocks struct {
	votes       *mockVoteService
	badges      *mockBadgeService
	credits     *mockCreditsService
	leaderboard *mockLeaderboardService
}

func setupTestRouter() (*gin.Engine, *handlerMocks) {
	gin.SetMode(gin.TestMode)

	mocks := &handlerMocks{
		votes:       &mockVoteService{},
		badges:      &mockBadgeService{},
		credits:     &mockCreditsService{},
		leaderboard: &mockLeaderboardService{},
	}
	handler := NewHandlerWithInterfaces(
		mocks.votes, mocks.badges, mocks.credits, mocks.leaderboard, logger.NewNop(),
	)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, mocks
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCastVoteEndpoint(t *testing.T) {
	router, mocks := setupTestRouter()
	mocks.votes.result = &votes.Result{
		Upvotes:            10,
		Downvotes:          0,
		VerificationStatus: models.StatusVerified,
	}

	w := doJSON(router, http.MethodPost, "/api/v1/locations/7/vote", gin.H{
		"user_id":   3,
		"vote_type": "upvote",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), mocks.votes.locationID)
	assert.Equal(t, uint(3), mocks.votes.userID)
	assert.Equal(t, models.VoteUp, mocks.votes.voteType)

	var resp votes.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Upvotes)
	assert.Equal(t, models.StatusVerified, resp.VerificationStatus)
}

func TestCastVoteEndpointValidation(t *testing.T) {
	router, mocks := setupTestRouter()
	mocks.votes.result = &votes.Result{}

	tests := []struct {
		name string
		path string
		body interface{}
		want int
	}{
		{"bad location id", "/api/v1/locations/abc/vote", gin.H{"user_id": 1, "vote_type": "upvote"}, http.StatusBadRequest},
		{"zero location id", "/api/v1/locations/0/vote", gin.H{"user_id": 1, "vote_type": "upvote"}, http.StatusBadRequest},
		{"missing body", "/api/v1/locations/1/vote", nil, http.StatusBadRequest},
		{"missing vote type", "/api/v1/locations/1/vote", gin.H{"user_id": 1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCastVoteEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"location not found", models.ErrLocationNotFound, http.StatusNotFound},
		{"user not found", models.ErrUserNotFound, http.StatusNotFound},
		{"already voted", models.ErrAlreadyVoted, http.StatusBadRequest},
		{"invalid vote type", models.ErrInvalidVoteType, http.StatusBadRequest},
		{"storage failure", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := setupTestRouter()
			mocks.votes.err = tt.err

			w := doJSON(router, http.MethodPost, "/api/v1/locations/1/vote", gin.H{
				"user_id":   1,
				"vote_type": "upvote",
			})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAttachCreditsEndpoint(t *testing.T) {
	router, mocks := setupTestRouter()
	mocks.credits.loc = &models.Location{ID: 4, Credits: 25}

	w := doJSON(router, http.MethodPost, "/api/v1/locations/4/credits", gin.H{
		"user_id": 2,
		"amount":  25,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(25), resp["credits"])
}

func TestAttachCreditsEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not creator", models.ErrNotCreator, http.StatusForbidden},
		{"insufficient credits", models.ErrInsufficientCredits, http.StatusBadRequest},
		{"invalid amount", models.ErrInvalidCreditAmount, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mocks := setupTestRouter()
			mocks.credits.err = tt.err

			w := doJSON(router, http.MethodPost, "/api/v1/locations/1/credits", gin.H{
				"user_id": 2,
				"amount":  10,
			})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCheckBadgesEndpoint(t *testing.T) {
	router, mocks := setupTestRouter()
	mocks.badges.earned = []models.Badge{badges.DefaultCatalog()[0]}

	w := doJSON(router, http.MethodPost, "/api/v1/users/5/badges/check", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		UserID      uint           `json:"user_id"`
		NewlyEarned []models.Badge `json:"newly_earned"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(5), resp.UserID)
	require.Len(t, resp.NewlyEarned, 1)
	assert.Equal(t, "first_contribution", resp.NewlyEarned[0].ID)
}

func TestCheckBadgesEndpointEmptyResult(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/users/5/badges/check", nil)

	require.Equal(t, http.StatusOK, w.Code)
	// A user with nothing new still gets an array, not null.
	assert.Contains(t, w.Body.String(), `"newly_earned":[]`)
}

func TestGetUserBadgesEndpoint(t *testing.T) {
	router, mocks := setupTestRouter()
	mocks.badges.err = models.ErrUserNotFound

	w := doJSON(router, http.MethodGet, "/api/v1/users/5/badges", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBadgeCatalogEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, http.MethodGet, "/api/v1/badges", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Badges []models.Badge `json:"badges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Badges, 5)
}

func TestGetLeaderboardEndpoint(t *testing.T) {
	router, mocks := setupTestRouter()
	mocks.leaderboard.entries = []leaderboard.Entry{
		{UserID: 1, Username: "alice", Points: 120, Rank: 1},
		{UserID: 2, Username: "bob", Points: 80, Rank: 2},
	}

	w := doJSON(router, http.MethodGet, "/api/v1/leaderboard?limit=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, mocks.leaderboard.limit)
	var resp struct {
		Leaderboard  []leaderboard.Entry `json:"leaderboard"`
		TotalEntries int                 `json:"total_entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalEntries)
	assert.Equal(t, "alice", resp.Leaderboard[0].Username)
}

func TestGetLeaderboardEndpointLimitValidation(t *testing.T) {
	router, _ := setupTestRouter()

	for _, limit := range []string{"0", "-1", "101", "abc"} {
		w := doJSON(router, http.MethodGet, "/api/v1/leaderboard?limit="+limit, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}
