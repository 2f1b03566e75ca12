package service

import (
	"context"
	"fmt"
	"time"

	"car-rental-admin/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// TokenService is the redis allow-list of issued JWTs. A token that is not in the list is revoked.
type TokenService interface {
	Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error
	IsValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error
	// Consume removes the token and reports whether it was still listed. Of concurrent
	// callers for one token only one gets true.
	Consume(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error)
}

type tokenService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewTokenService(redisClient *redis.Client, log *logrus.Logger) TokenService {
	return &tokenService{
		redisClient: redisClient,
		log:         log,
	}
}

func tokenKey(userID uuid.UUID, tokenID string, tokenType jwt.TokenType) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func (s *tokenService) Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	if err := s.redisClient.Set(ctx, tokenKey(userID, tokenID, tokenType), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store %s token in Redis: %+v", tokenType, err)
		return err
	}
	return nil
}

func (s *tokenService) IsValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, tokenKey(userID, tokenID, tokenType)).Result()
	if err != nil {
		s.log.Warnf("Failed to check token validity: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *tokenService) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error {
	if err := s.redisClient.Del(ctx, tokenKey(userID, tokenID, tokenType)).Err(); err != nil {
		s.log.Warnf("Failed to delete %s token: %+v", tokenType, err)
		return err
	}
	return nil
}

func (s *tokenService) Consume(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	deleted, err := s.redisClient.Del(ctx, tokenKey(userID, tokenID, tokenType)).Result()
	if err != nil {
		s.log.Warnf("Failed to consume %s token: %+v", tokenType, err)
		return false, err
	}
	return deleted > 0, nil
}
