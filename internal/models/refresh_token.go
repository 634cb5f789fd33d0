package models

import "time"

// RefreshToken stores issued refresh tokens so they can be revoked on logout.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index;not null" json:"userId"`
	Token     string    `gorm:"size:512;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`
}
