// Package cache holds resolved channel metadata in Redis so repeat runs skip
// the lookup unit.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/domain"
	"github.com/kirillov6/chanscope/pkg/errors"
)

type Service struct {
	client *redis.Client
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewStoreError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis cache connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &Service{client: client, logger: logger}, nil
}

func (s *Service) GetChannel(ctx context.Context, key string) (*domain.ChannelSummary, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var channel domain.ChannelSummary
	if err := json.Unmarshal([]byte(value), &channel); err != nil {
		s.logger.Warn("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return &channel, true
}

func (s *Service) SetChannel(ctx context.Context, key string, channel *domain.ChannelSummary, ttl time.Duration) {
	data, err := json.Marshal(channel)
	if err != nil {
		s.logger.Warn("Cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) Close() error {
	return s.client.Close()
}
