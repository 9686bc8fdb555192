// SPDX-License-Identifier: GPL-3.0-only

package verification

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"alimenta-server/models"
	"alimenta-server/notifications"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	// A named in-memory database with a shared cache, so every pooled
	// connection sees the same tables and tests stay isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.VerificationToken{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	dispatcher := &notifications.Dispatcher{Channels: []notifications.Channel{&notifications.MockChannel{}}}
	return NewService(conn, dispatcher)
}

func createUser(t *testing.T, s *Service, email string, verified bool) *models.User {
	t.Helper()
	user := &models.User{
		AccountID:       "acct_" + email,
		Name:            "Maria Silva",
		Email:           email,
		Password:        "hash",
		CPF:             "52998224725",
		CEP:             "01310100",
		City:            "São Paulo",
		Street:          "Avenida Paulista",
		Neighborhood:    "Bela Vista",
		BirthDate:       time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		IsEmailVerified: verified,
	}
	if err := s.DB.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestGenerate(t *testing.T) {
	s := newTestService(t)

	record, err := s.Generate("maria@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(record.Token, "evt_") {
		t.Errorf("Expected evt_ prefix, got %s", record.Token)
	}
	if record.IsUsed {
		t.Error("New token should not be marked used")
	}
	ttl := time.Until(record.ExpiresAt)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("Expected roughly 24h expiry, got %s", ttl)
	}
}

func TestGenerateDoesNotRevokeOlderTokens(t *testing.T) {
	s := newTestService(t)

	first, err := s.Generate("maria@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := s.Generate("maria@example.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var record models.VerificationToken
	if err := s.DB.Where("token = ?", first.Token).First(&record).Error; err != nil {
		t.Fatalf("First token disappeared: %v", err)
	}
	if record.IsUsed {
		t.Error("Issuing a second token must not invalidate the first")
	}
}

func TestVerify(t *testing.T) {
	s := newTestService(t)
	user := createUser(t, s, "maria@example.com", false)

	record, err := s.Generate(user.Email)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := s.Verify(user.Email, record.Token); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	var got models.User
	if err := s.DB.First(&got, user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if !got.IsEmailVerified {
		t.Error("Expected user to be marked verified")
	}
	if got.VerifiedAt == nil {
		t.Error("Expected verified_at to be set")
	}

	var tok models.VerificationToken
	if err := s.DB.First(&tok, record.ID).Error; err != nil {
		t.Fatalf("Failed to reload token: %v", err)
	}
	if !tok.IsUsed || tok.UsedAt == nil {
		t.Errorf("Expected token marked used, got is_used=%v used_at=%v", tok.IsUsed, tok.UsedAt)
	}
}

func TestVerifyErrors(t *testing.T) {
	s := newTestService(t)
	user := createUser(t, s, "maria@example.com", false)

	record, err := s.Generate(user.Email)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if err := s.Verify(user.Email, "evt_unknown"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound, got %v", err)
	}
	if err := s.Verify("other@example.com", record.Token); !errors.Is(err, ErrEmailMismatch) {
		t.Errorf("Expected ErrEmailMismatch, got %v", err)
	}

	if err := s.Verify(user.Email, record.Token); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if err := s.Verify(user.Email, record.Token); !errors.Is(err, ErrTokenUsed) {
		t.Errorf("Expected ErrTokenUsed on second redemption, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	s := newTestService(t)
	user := createUser(t, s, "maria@example.com", false)

	record, err := s.Generate(user.Email)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if err := s.DB.Model(record).Update("expires_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("Failed to expire token: %v", err)
	}

	if err := s.Verify(user.Email, record.Token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestResend(t *testing.T) {
	s := newTestService(t)

	if err := s.Resend("ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	verified := createUser(t, s, "done@example.com", true)
	if err := s.Resend(verified.Email); !errors.Is(err, ErrAlreadyVerified) {
		t.Errorf("Expected ErrAlreadyVerified, got %v", err)
	}

	user := createUser(t, s, "maria@example.com", false)
	if err := s.Resend(user.Email); err != nil {
		t.Fatalf("Resend failed: %v", err)
	}

	// Immediately again: inside the cooldown window.
	if err := s.Resend(user.Email); !errors.Is(err, ErrResendCooldown) {
		t.Errorf("Expected ErrResendCooldown, got %v", err)
	}

	// Age the latest token past the window and resend again.
	if err := s.DB.Model(&models.VerificationToken{}).
		Where("email = ?", user.Email).
		Update("created_at", time.Now().Add(-2*time.Minute)).Error; err != nil {
		t.Fatalf("Failed to age token: %v", err)
	}
	if err := s.Resend(user.Email); err != nil {
		t.Fatalf("Resend after cooldown failed: %v", err)
	}
}

func TestPurgeStale(t *testing.T) {
	s := newTestService(t)
	now := time.Now()

	used := models.VerificationToken{Token: "evt_used", Email: "a@example.com", IsUsed: true, ExpiresAt: now.Add(time.Hour)}
	expired := models.VerificationToken{Token: "evt_expired", Email: "b@example.com", ExpiresAt: now.Add(-time.Hour)}
	live := models.VerificationToken{Token: "evt_live", Email: "c@example.com", ExpiresAt: now.Add(time.Hour)}
	for _, tok := range []*models.VerificationToken{&used, &expired, &live} {
		if err := s.DB.Create(tok).Error; err != nil {
			t.Fatalf("Failed to seed token: %v", err)
		}
	}
	if err := s.DB.Model(&models.VerificationToken{}).
		Where("token IN ?", []string{"evt_used", "evt_expired"}).
		Update("created_at", now.Add(-48*time.Hour)).Error; err != nil {
		t.Fatalf("Failed to age tokens: %v", err)
	}

	purged, err := s.PurgeStale(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PurgeStale failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("Expected 2 purged tokens, got %d", purged)
	}

	var remaining int64
	if err := s.DB.Model(&models.VerificationToken{}).Count(&remaining).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if remaining != 1 {
		t.Errorf("Expected 1 remaining token, got %d", remaining)
	}
}
