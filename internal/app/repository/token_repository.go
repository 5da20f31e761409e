package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/supermart/supermart-backend/internal/app/model"
	"github.com/supermart/supermart-backend/pkg/logger"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(token *model.RefreshToken) error
	FindByJTI(jti string) (*model.RefreshToken, error)
	// MarkRevoked revokes a token only if it is not already revoked and
	// reports how many rows changed. Exactly one caller wins when several
	// race on the same JTI.
	MarkRevoked(jti string) (int64, error)
	RevokeAllForUser(userID uuid.UUID) (int64, error)
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.RefreshToken) error {
	if err := r.db.Create(token).Error; err != nil {
		logger.Error("Failed to store refresh token", err, map[string]interface{}{
			"user_id": token.UserID,
		})
		return err
	}
	return nil
}

func (r *tokenRepository) FindByJTI(jti string) (*model.RefreshToken, error) {
	var token model.RefreshToken
	err := r.db.Where("jti = ?", jti).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) MarkRevoked(jti string) (int64, error) {
	now := time.Now()
	result := r.db.Model(&model.RefreshToken{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", now)
	if result.Error != nil {
		logger.Error("Failed to revoke refresh token", result.Error, map[string]interface{}{
			"jti": jti,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *tokenRepository) RevokeAllForUser(userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.Model(&model.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now)
	if result.Error != nil {
		logger.Error("Failed to revoke user tokens", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *tokenRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", cutoff).Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.Error("Failed to purge expired refresh tokens", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
