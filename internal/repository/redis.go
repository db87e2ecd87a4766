package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/triagedesk/backend/internal/models"
)

const (
	redisCandidateKeyPrefix = "candidate:"
	redisIndexKey           = "candidates:index"
)

// RedisRepository stores one JSON blob per candidate plus an insertion-order
// index list, so List preserves intake order like the other backends.
type RedisRepository struct {
	Client *redis.Client
	now    func() time.Time
}

func NewRedis(redisURL string) (*RedisRepository, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("%w: REDIS_URL missing", ErrConfiguration)
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return &RedisRepository{Client: redis.NewClient(opts), now: time.Now}, nil
}

func (r *RedisRepository) Close() error {
	return r.Client.Close()
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

func (r *RedisRepository) List(ctx context.Context) ([]models.Candidate, error) {
	regs, err := r.Client.LRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if len(regs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(regs))
	for i, reg := range regs {
		keys[i] = redisCandidateKeyPrefix + reg
	}
	blobs, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	out := make([]models.Candidate, 0, len(blobs))
	for _, blob := range blobs {
		s, ok := blob.(string)
		if !ok {
			continue // index entry without a record, skip
		}
		var c models.Candidate
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *RedisRepository) UpdateStatus(ctx context.Context, registrationNumber string, status models.Status, analyst string) (bool, error) {
	c, ok, err := r.get(ctx, registrationNumber)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if c.Status == status && c.Analyst == analyst {
		return true, nil
	}
	c.Status = status
	c.Analyst = analyst
	c.TriagedAt = triageTimestamp(r.now())
	if err := r.set(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisRepository) Upsert(ctx context.Context, c models.Candidate) error {
	prev, ok, err := r.get(ctx, c.RegistrationNumber)
	if err != nil {
		return err
	}
	if ok {
		c.Status = prev.Status
		c.TriagedAt = prev.TriagedAt
		c.Analyst = prev.Analyst
	} else {
		if err := r.Client.RPush(ctx, redisIndexKey, c.RegistrationNumber).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return r.set(ctx, c)
}

func (r *RedisRepository) get(ctx context.Context, reg string) (models.Candidate, bool, error) {
	blob, err := r.Client.Get(ctx, redisCandidateKeyPrefix+reg).Result()
	if errors.Is(err, redis.Nil) {
		return models.Candidate{}, false, nil
	}
	if err != nil {
		return models.Candidate{}, false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	var c models.Candidate
	if err := json.Unmarshal([]byte(blob), &c); err != nil {
		return models.Candidate{}, false, err
	}
	return c, true, nil
}

func (r *RedisRepository) set(ctx context.Context, c models.Candidate) error {
	blob, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, redisCandidateKeyPrefix+c.RegistrationNumber, blob, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}
