// SPDX-License-Identifier: GPL-3.0-only

// Package cep validates Brazilian postal codes (CEP, 8 digits) and resolves
// them to address fields through the public ViaCEP lookup service.
package cep

import "strings"

// Digits strips every non-digit character.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Format inserts the hyphen after the fifth digit. Partial input is
// returned as bare digits.
func Format(s string) string {
	numbers := Digits(s)
	if len(numbers) < 8 {
		return numbers
	}
	return numbers[:5] + "-" + numbers[5:8]
}

// ValidateFormat reports whether s contains exactly 8 digits once
// punctuation is stripped.
func ValidateFormat(s string) bool {
	return len(Digits(s)) == 8
}
