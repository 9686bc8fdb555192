// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	maxDescriptionLength = 500
	maxDonationPhotos    = 2

	// Upper bound on a single decoded photo. The mobile client compresses
	// captures well below this before submitting.
	maxPhotoBytes = 2 * 1024 * 1024
)

// validateName requires at least two characters, letters and spaces only.
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < 2 {
		return fmt.Errorf("name must have at least 2 characters")
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return fmt.Errorf("name must contain only letters")
		}
	}
	return nil
}

// validateBirthDate parses YYYY-MM-DD and requires the person to be at
// least 18.
func validateBirthDate(value string) (time.Time, error) {
	birthDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("birth_date must be in YYYY-MM-DD format")
	}

	if age(birthDate, time.Now()) < 18 {
		return time.Time{}, fmt.Errorf("you must be at least 18 years old to register")
	}
	return birthDate, nil
}

func age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

func validateAddressField(field, value string, required bool) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return fmt.Errorf("%s field is required", field)
		}
		return nil
	}
	if len(trimmed) > 255 {
		return fmt.Errorf("%s must be at most 255 characters", field)
	}
	return nil
}

// validatePhotos checks count, decodability, and decoded size. Data-URL
// prefixes from the mobile client are tolerated and stripped.
func validatePhotos(photos []string) ([]string, error) {
	if len(photos) > maxDonationPhotos {
		return nil, fmt.Errorf("at most %d photos are allowed", maxDonationPhotos)
	}

	cleaned := make([]string, 0, len(photos))
	for i, photo := range photos {
		encoded := photo
		if idx := strings.Index(encoded, ";base64,"); idx >= 0 {
			encoded = encoded[idx+len(";base64,"):]
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("photo %d is not valid base64", i+1)
		}
		if len(decoded) == 0 {
			return nil, fmt.Errorf("photo %d is empty", i+1)
		}
		if len(decoded) > maxPhotoBytes {
			return nil, fmt.Errorf("photo %d exceeds the maximum size", i+1)
		}
		cleaned = append(cleaned, encoded)
	}
	return cleaned, nil
}
