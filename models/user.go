// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"gorm.io/gorm"
)

var AllModels []any

type User struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID string `gorm:"size:64;not null;uniqueIndex"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Password  string `gorm:"not null"`
	// CPF is stored digits-only. The unique index closes the
	// check-then-create race between concurrent signups.
	CPF               string `gorm:"size:11;not null;uniqueIndex"`
	CEP               string `gorm:"size:8;not null"`
	City              string `gorm:"size:255;not null"`
	Street            string `gorm:"size:255;not null"`
	Neighborhood      string `gorm:"size:255;not null"`
	AddressComplement string `gorm:"size:255"`
	BirthDate         time.Time
	IsEmailVerified   bool `gorm:"not null;default:false"`
	VerifiedAt        *time.Time
	ProfileComplete   bool `gorm:"not null;default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func init() {
	AllModels = append(AllModels, &User{})
}
