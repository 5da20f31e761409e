package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the server-side record of an issued refresh token.
// Access tokens are stateless and never tracked; refresh tokens are, so they
// can be rotated and revoked.
type RefreshToken struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	JTI       string     `gorm:"column:jti;uniqueIndex;not null" json:"jti"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Revoked reports whether the token has been rotated or explicitly revoked
func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Expired reports whether the token's TTL has elapsed
func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
