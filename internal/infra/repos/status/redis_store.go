package status

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

const statusKey = "coach:processing_status"

// statusTTL is a safety net: the pipeline clears the key itself after the
// display-grace period, but an abandoned run must not leave a stale record behind.
const statusTTL = time.Hour

// RedisStore keeps the status record in Redis so several API instances can serve
// the same poll traffic.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(st *domain.ProcessingStatus) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(context.Background(), statusKey, payload, statusTTL).Err()
}

func (s *RedisStore) Get() (*domain.ProcessingStatus, error) {
	payload, err := s.client.Get(context.Background(), statusKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var st domain.ProcessingStatus
	if err := json.Unmarshal(payload, &st); err != nil {
		// Malformed record: drop it rather than surfacing a parse error forever.
		_ = s.Clear()
		return nil, nil
	}
	return &st, nil
}

func (s *RedisStore) Clear() error {
	return s.client.Del(context.Background(), statusKey).Err()
}
