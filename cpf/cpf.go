// SPDX-License-Identifier: GPL-3.0-only

// Package cpf validates Brazilian individual taxpayer registry numbers
// (CPF): an 11-digit identifier whose last two digits are weighted-sum
// check digits.
package cpf

import (
	"fmt"
	"strings"
)

// Digits strips every non-digit character.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Format re-inserts the 3-3-3-2 punctuation. It is tolerant of partial
// input and idempotent on already-formatted values; digits beyond the
// eleventh are dropped.
func Format(s string) string {
	numbers := Digits(s)
	switch {
	case len(numbers) <= 3:
		return numbers
	case len(numbers) <= 6:
		return numbers[:3] + "." + numbers[3:]
	case len(numbers) <= 9:
		return numbers[:3] + "." + numbers[3:6] + "." + numbers[6:]
	default:
		if len(numbers) > 11 {
			numbers = numbers[:11]
		}
		return numbers[:3] + "." + numbers[3:6] + "." + numbers[6:9] + "-" + numbers[9:]
	}
}

// Validate reports whether s is a valid CPF. Punctuation is ignored. An
// all-identical digit string is rejected outright: such values pass the
// checksum but are never issued.
func Validate(s string) bool {
	numbers := Digits(s)

	if len(numbers) != 11 {
		return false
	}

	identical := true
	for i := 1; i < 11; i++ {
		if numbers[i] != numbers[0] {
			identical = false
			break
		}
	}
	if identical {
		return false
	}

	return checkDigit(numbers, 9) && checkDigit(numbers, 10)
}

// checkDigit verifies the check digit at position pos (9 or 10) using
// weights descending from pos+1 down to 2 over the preceding digits, with
// the (sum*10)%11 remainder mapping (10 and 11 collapse to 0).
func checkDigit(numbers string, pos int) bool {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(numbers[i]-'0') * (pos + 1 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	return remainder == int(numbers[pos]-'0')
}

// Feedback is the realtime validation status shown while the user types.
type Feedback struct {
	Valid    bool
	Complete bool
	Message  string
}

// Check classifies partial input for live feedback. It has no side effects.
func Check(s string) Feedback {
	numbers := Digits(s)

	if len(numbers) == 0 {
		return Feedback{Message: "Enter your CPF"}
	}

	if len(numbers) < 11 {
		return Feedback{Message: fmt.Sprintf("%d/11 digits", len(numbers))}
	}

	if len(numbers) > 11 {
		return Feedback{Message: "CPF is too long"}
	}

	if Validate(numbers) {
		return Feedback{Valid: true, Complete: true, Message: "CPF is valid"}
	}
	return Feedback{Complete: true, Message: "CPF is invalid"}
}
