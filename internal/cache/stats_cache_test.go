package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Apixa25/XHere-Web-sub000/internal/models"
)

func setupTestCache(t *testing.T) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStatsCache(client, 5*time.Minute), mr
}

func TestStatsCacheRoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	stats := &models.UserStats{
		TotalLocations:       7,
		VerifiedLocations:    2,
		TotalVotesGiven:      14,
		TotalUpvotesReceived: 55,
		UniqueAreas:          4,
	}
	if err := c.Set(ctx, 42, stats); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected cache hit")
	}
	if *got != *stats {
		t.Errorf("Snapshot mismatch: got %+v, want %+v", got, stats)
	}
}

func TestStatsCacheMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	got, err := c.Get(context.Background(), 404)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil on miss, got %+v", got)
	}
}

func TestStatsCacheInvalidate(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, 1, &models.UserStats{TotalLocations: 1}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	got, err := c.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected miss after invalidation, got %+v", got)
	}
}

func TestStatsCacheTTL(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, 1, &models.UserStats{TotalLocations: 1}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	got, err := c.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected entry to expire, got %+v", got)
	}
}
