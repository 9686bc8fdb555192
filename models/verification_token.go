// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationToken is a single-use, time-limited opaque string bound to the
// email it was issued for. Old tokens are not revoked when a new one is
// issued; stale records are removed by the purge maintenance pass.
type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	Token     string `gorm:"size:255;not null;uniqueIndex"`
	Email     string `gorm:"size:255;not null;index"`
	IsUsed    bool   `gorm:"not null;default:false"`
	UsedAt    *time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func init() {
	AllModels = append(AllModels, &VerificationToken{})
}
