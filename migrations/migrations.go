// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"fmt"
	"strings"

	"alimenta-server/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// Early builds stored the CPF as typed, punctuation included.
			ID: "001_normalize_cpf_digits",
			Migrate: func(tx *gorm.DB) error {
				var users []models.User
				if err := tx.Select("id", "cpf").Find(&users).Error; err != nil {
					return fmt.Errorf("failed to fetch users: %w", err)
				}

				for i := range users {
					digits := strings.Map(func(r rune) rune {
						if r >= '0' && r <= '9' {
							return r
						}
						return -1
					}, users[i].CPF)

					if digits != users[i].CPF {
						if err := tx.Model(&users[i]).Update("cpf", digits).Error; err != nil {
							return fmt.Errorf("update user %d: %w", users[i].ID, err)
						}
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
		{
			ID: "002_backfill_profile_complete",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.Model(&models.User{}).
					Where("city <> '' AND street <> '' AND neighborhood <> '' AND cep <> ''").
					Update("profile_complete", true).Error; err != nil {
					return fmt.Errorf("failed to backfill profile_complete: %w", err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Model(&models.User{}).
					Where("profile_complete = ?", true).
					Update("profile_complete", false).Error
			},
		},
	}
}
