// Package redisstorage backs the token store with Redis, for deployments
// where the session layer runs server-side (a BFF) and several instances must
// observe the same credentials.
package redisstorage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/joequah1/erp-client/tokenstore"
)

var _ tokenstore.Storage = (*Storage)(nil)

const opTimeout = 3 * time.Second

type Storage struct {
	client *redis.Client
	prefix string
}

// New connects to Redis and verifies the connection. prefix namespaces the
// session keys, typically per user or per BFF session id.
func New(addr, password, prefix string) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "[redisstorage.New] redis ping")
	}

	return &Storage{client: client, prefix: prefix}, nil
}

func (s *Storage) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "[redisstorage.Get] redis get")
	}
	return value, nil
}

func (s *Storage) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "[redisstorage.Set] redis set")
	}
	return nil
}

func (s *Storage) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Wrap(err, "[redisstorage.Delete] redis del")
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *Storage) Close() error {
	return s.client.Close()
}
