package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/config"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/pkg/logger"
	"github.com/supermart/supermart-backend/pkg/redis"
	"github.com/supermart/supermart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrTokenInvalid = errors.New("refresh token is invalid")
	ErrTokenExpired = errors.New("refresh token has expired")
	// ErrTokenReused marks a refresh token presented after it was already
	// rotated. All of the user's sessions are revoked when this fires.
	ErrTokenReused = errors.New("refresh token has already been used")
)

type TokenService interface {
	// Issue creates an access/refresh pair and records the refresh token.
	Issue(user *model.User) (*util.TokenPair, error)
	// Refresh rotates a refresh token: the presented token is retired and a
	// new pair is issued. Presenting a retired token is treated as theft.
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, *model.User, error)
	// Revoke retires a refresh token. Revoking an already-revoked or unknown
	// token is not an error.
	Revoke(ctx context.Context, refreshToken string) error
	RevokeAll(userID uuid.UUID) error
	// VerifyAccess checks an access token and returns its claims. Pure; no
	// storage round trip.
	VerifyAccess(accessToken string) (*util.Claims, error)
}

type tokenService struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
	cfg       config.JWTConfig
}

func NewTokenService(tokenRepo repository.TokenRepository, userRepo repository.UserRepository, cfg config.JWTConfig) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		cfg:       cfg,
	}
}

func (s *tokenService) Issue(user *model.User) (*util.TokenPair, error) {
	pair, err := util.GenerateTokenPair(
		user.ID, user.Email, string(user.Role),
		s.cfg.Secret, s.cfg.AccessTokenExpiry, s.cfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	record := &model.RefreshToken{
		JTI:       pair.RefreshJTI,
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, err
	}

	return pair, nil
}

func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, *model.User, error) {
	claims, err := util.ValidateToken(refreshToken, s.cfg.Secret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, nil, ErrTokenExpired
		}
		return nil, nil, ErrTokenInvalid
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return nil, nil, ErrTokenInvalid
	}
	jti := claims.RegisteredClaims.ID
	if jti == "" || claims.ExpiresAt == nil {
		return nil, nil, ErrTokenInvalid
	}

	// Fast-path deny from the cache; the database remains the source of
	// truth when the cache is cold or disabled.
	if blacklisted, err := redis.IsJTIBlacklisted(ctx, jti); err == nil && blacklisted {
		logger.Warn("Blacklisted refresh token presented", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, nil, s.handleReuse(ctx, claims.UserID, jti)
	}

	// Exactly one caller revokes the row; everyone else discovers a token
	// that is already retired.
	affected, err := s.tokenRepo.MarkRevoked(jti)
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		existing, findErr := s.tokenRepo.FindByJTI(jti)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, nil, ErrTokenInvalid
			}
			return nil, nil, findErr
		}
		if existing.Revoked() {
			return nil, nil, s.handleReuse(ctx, claims.UserID, jti)
		}
		return nil, nil, ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTokenInvalid
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	s.blacklist(ctx, jti, claims.ExpiresAt.Time)

	pair, err := s.Issue(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Refresh token rotated", map[string]interface{}{
		"user_id": user.ID,
	})
	return pair, user, nil
}

// handleReuse revokes every live session for the user. A rotated token
// showing up again means either the client or an attacker holds a stale
// copy; the safe response is the same either way.
func (s *tokenService) handleReuse(ctx context.Context, userID uuid.UUID, jti string) error {
	logger.Warn("Refresh token reuse detected, revoking all sessions", map[string]interface{}{
		"user_id": userID,
	})
	if _, err := s.tokenRepo.RevokeAllForUser(userID); err != nil {
		logger.Error("Failed to revoke user sessions after reuse", err, map[string]interface{}{
			"user_id": userID,
		})
	}
	return ErrTokenReused
}

func (s *tokenService) Revoke(ctx context.Context, refreshToken string) error {
	// An expired token is still acceptable input here: logout should never
	// fail because the session already timed out.
	claims, err := util.ValidateTokenAllowExpired(refreshToken, s.cfg.Secret)
	if err != nil {
		return ErrTokenInvalid
	}
	if claims.TokenType != util.TokenTypeRefresh || claims.RegisteredClaims.ID == "" || claims.ExpiresAt == nil {
		return ErrTokenInvalid
	}

	jti := claims.RegisteredClaims.ID
	if _, err := s.tokenRepo.MarkRevoked(jti); err != nil {
		return err
	}
	s.blacklist(ctx, jti, claims.ExpiresAt.Time)

	logger.Info("Refresh token revoked", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *tokenService) RevokeAll(userID uuid.UUID) error {
	count, err := s.tokenRepo.RevokeAllForUser(userID)
	if err != nil {
		return err
	}
	logger.Info("All refresh tokens revoked for user", map[string]interface{}{
		"user_id": userID,
		"count":   count,
	})
	return nil
}

func (s *tokenService) VerifyAccess(accessToken string) (*util.Claims, error) {
	claims, err := util.ValidateToken(accessToken, s.cfg.Secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != util.TokenTypeAccess {
		return nil, util.ErrWrongTokenUse
	}
	return claims, nil
}

func (s *tokenService) blacklist(ctx context.Context, jti string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if err := redis.BlacklistJTI(ctx, jti, ttl); err != nil {
		// Cache failures never block the flow; the revoked_at column
		// already holds the truth.
		logger.Warn("Failed to blacklist JTI in cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
