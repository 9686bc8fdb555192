// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"errors"
	"time"

	"alimenta-server/commons"
	"alimenta-server/crypto"
	"alimenta-server/models"
	"alimenta-server/notifications"

	"gorm.io/gorm"
)

var (
	ErrTokenNotFound   = errors.New("verification token not found")
	ErrEmailMismatch   = errors.New("verification token was issued for a different email")
	ErrTokenUsed       = errors.New("verification token already used")
	ErrTokenExpired    = errors.New("verification token expired")
	ErrUserNotFound    = errors.New("no account registered for this email")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrResendCooldown  = errors.New("a verification email was sent moments ago")
)

const (
	tokenPrefix = "evt_"
	tokenBytes  = 32
	tokenTTL    = 24 * time.Hour

	// Minimum gap between resends for the same email.
	resendCooldown = 60 * time.Second
)

// Service issues and redeems email verification tokens.
type Service struct {
	DB         *gorm.DB
	Dispatcher *notifications.Dispatcher
}

func NewService(db *gorm.DB, dispatcher *notifications.Dispatcher) *Service {
	return &Service{DB: db, Dispatcher: dispatcher}
}

// Generate issues a fresh token for the email. Previously issued tokens stay
// valid until they expire or get used.
func (s *Service) Generate(email string) (*models.VerificationToken, error) {
	token, err := crypto.GenerateRandomString(tokenPrefix, tokenBytes, "hex")
	if err != nil {
		commons.Logger.Errorf("Failed to generate verification token: %v", err)
		return nil, err
	}

	record := &models.VerificationToken{
		Token:     token,
		Email:     email,
		ExpiresAt: time.Now().Add(tokenTTL),
	}
	if err := s.DB.Create(record).Error; err != nil {
		commons.Logger.Errorf("Failed to persist verification token: %v", err)
		return nil, err
	}

	commons.Logger.Infof("Verification token issued:\n- email=%s\n- expires_at=%s", email, record.ExpiresAt.Format(time.RFC3339))
	return record, nil
}

// Verify redeems a token for the given email and marks the user verified.
// Checks run in order: existence, email binding, reuse, expiry. The mark-used
// update is conditional on is_used=false so two concurrent redemptions cannot
// both succeed.
func (s *Service) Verify(email, token string) error {
	var record models.VerificationToken
	if err := s.DB.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return err
	}

	if record.Email != email {
		return ErrEmailMismatch
	}
	if record.IsUsed {
		return ErrTokenUsed
	}
	if time.Now().After(record.ExpiresAt) {
		return ErrTokenExpired
	}

	var user models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.VerificationToken{}).
			Where("id = ? AND is_used = ?", record.ID, false).
			Updates(map[string]any{"is_used": true, "used_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTokenUsed
		}

		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		return tx.Model(&user).
			Updates(map[string]any{"is_email_verified": true, "verified_at": now}).Error
	})
	if err != nil {
		return err
	}

	commons.Logger.Infof("Email verified:\n- email=%s", email)

	go func() {
		data := notifications.NotificationData{
			To:       user.Email,
			ToName:   &user.Name,
			Subject:  "Bem-vindo ao Alimenta+!",
			Template: notifications.WelcomeTemplate,
			Variables: map[string]any{
				"userName": user.Name,
			},
		}
		if err := s.Dispatcher.Dispatch(data); err != nil {
			commons.Logger.Warnf("Failed to dispatch welcome notification: %v", err)
		}
	}()

	return nil
}

// Resend issues a new token for an unverified account, at most once per
// cooldown window, and dispatches the verification email.
func (s *Service) Resend(email string) error {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	var latest models.VerificationToken
	err := s.DB.Where("email = ?", email).Order("created_at DESC").First(&latest).Error
	if err == nil && time.Since(latest.CreatedAt) < resendCooldown {
		return ErrResendCooldown
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record, err := s.Generate(email)
	if err != nil {
		return err
	}

	go s.dispatchVerification(&user, record.Token)
	return nil
}

// SendVerification dispatches the verification email for a freshly issued
// token. Delivery is best effort; failures never bubble to the caller.
func (s *Service) SendVerification(user *models.User, token string) {
	go s.dispatchVerification(user, token)
}

func (s *Service) dispatchVerification(user *models.User, token string) {
	data := notifications.NotificationData{
		To:       user.Email,
		ToName:   &user.Name,
		Subject:  "Confirme seu e-mail no Alimenta+",
		Template: notifications.VerificationTemplate,
		Variables: map[string]any{
			"userName": user.Name,
			"token":    token,
		},
	}
	if err := s.Dispatcher.Dispatch(data); err != nil {
		commons.Logger.Warnf("Failed to dispatch verification notification: %v", err)
	}
}

// PurgeStale removes used and expired tokens created before the cutoff.
// Keeps the table from growing without bound.
func (s *Service) PurgeStale(before time.Time) (int64, error) {
	result := s.DB.Unscoped().
		Where("created_at < ? AND (is_used = ? OR expires_at < ?)", before, true, time.Now()).
		Delete(&models.VerificationToken{})
	if result.Error != nil {
		commons.Logger.Errorf("Failed to purge stale verification tokens: %v", result.Error)
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		commons.Logger.Infof("Purged %d stale verification tokens", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
