package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"safenest/internal/model"
)

// ClinicHistoryCache keeps clinic-chat transcripts in Redis with a TTL, so a
// restarted server can still serve recent histories. Sessions themselves are
// ephemeral; the TTL is the only durability on offer.
type ClinicHistoryCache struct {
	client     *redisv9.Client
	historyTTL time.Duration
}

func NewClinicHistoryCache(client *redisv9.Client, historyTTL time.Duration) *ClinicHistoryCache {
	if historyTTL <= 0 {
		historyTTL = time.Hour
	}
	return &ClinicHistoryCache{
		client:     client,
		historyTTL: historyTTL,
	}
}

func (c *ClinicHistoryCache) GetHistory(ctx context.Context, sessionID string) ([]model.ClinicMessage, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(sessionID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get clinic history failed: %w", err)
	}

	var messages []model.ClinicMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached clinic history failed: %w", err)
	}
	return messages, true, nil
}

func (c *ClinicHistoryCache) SetHistory(ctx context.Context, sessionID string, messages []model.ClinicMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal clinic history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(sessionID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set clinic history failed: %w", err)
	}
	return nil
}

func (c *ClinicHistoryCache) DeleteHistory(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, c.historyKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete clinic history failed: %w", err)
	}
	return nil
}

func (c *ClinicHistoryCache) historyKey(sessionID string) string {
	return fmt.Sprintf("clinic:history:%s", sessionID)
}
