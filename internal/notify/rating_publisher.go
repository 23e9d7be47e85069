// Package notify publishes recipe rating changes to Redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rating event kinds.
const (
	ScoreCreated = "score_created"
	ScoreUpdated = "score_updated"
	ScoreDeleted = "score_deleted"
)

// RatingEvent is the payload published after a committed aggregate change.
type RatingEvent struct {
	Kind         string    `json:"kind"`
	RecipeID     int64     `json:"recipe_id"`
	UserID       string    `json:"user_id"`
	VoterTurnout *int      `json:"voter_turnout"`
	FullScore    *int      `json:"full_score"`
	Rating       *float64  `json:"rating"`
	At           time.Time `json:"at"`
}

type RatingPublisher struct {
	client  *redis.Client
	channel string
}

// NewRatingPublisher connects to redisURL and verifies the connection.
func NewRatingPublisher(redisURL, password, channel string) (*RatingPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRatingPublisherWithClient(rdb, channel), nil
}

// NewRatingPublisherWithClient wraps an existing client.
func NewRatingPublisherWithClient(client *redis.Client, channel string) *RatingPublisher {
	return &RatingPublisher{client: client, channel: channel}
}

// Publish sends ev on the configured channel. A nil publisher is a no-op.
func (p *RatingPublisher) Publish(ctx context.Context, ev RatingEvent) error {
	if p == nil || p.client == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode rating event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish rating event: %w", err)
	}
	return nil
}

func (p *RatingPublisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
