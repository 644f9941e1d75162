package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "diderot:report:"

// RedisStore keeps one key per date. Reports do not expire on the
// Redis side; staleness is the Cache's concern, and regeneration
// overwrites in place.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, date string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+date).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading report key: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, date string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+date, data, 0).Err(); err != nil {
		return fmt.Errorf("writing report key: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, date string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+date).Err(); err != nil {
		return fmt.Errorf("deleting report key: %w", err)
	}
	return nil
}

func (s *RedisStore) Dates(ctx context.Context) ([]string, error) {
	var dates []string

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		date := strings.TrimPrefix(iter.Val(), redisKeyPrefix)
		if ValidateDate(date) != nil {
			continue
		}
		dates = append(dates, date)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning report keys: %w", err)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
