// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Donation is a published listing. Listings are immutable once created;
// there is no edit or delete path.
type Donation struct {
	ID          uint   `gorm:"primaryKey"`
	DonationID  string `gorm:"size:64;not null;uniqueIndex"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:500"`
	// Photos holds up to two base64-encoded JPEGs embedded directly in the
	// record, as the mobile client submits them.
	Photos    datatypes.JSON `gorm:"default:null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	UserID    uint
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &Donation{})
}
