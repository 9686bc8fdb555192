// SPDX-License-Identifier: GPL-3.0-only

package passwordcheck

import (
	"context"
	"testing"
)

func TestValidatePasswordPolicy(t *testing.T) {
	t.Setenv("PWNED_PASSWORDS_ENABLED", "false")

	if err := ValidatePassword(context.Background(), "MySecretPassword@123"); err != nil {
		t.Errorf("Expected strong password to pass, got %v", err)
	}

	rejected := map[string]string{
		"Sh0rt!":               "too short",
		"lowercase@123":        "no uppercase",
		"UPPERCASE@123":        "no lowercase",
		"NoDigitsHere!":        "no digit",
		"MissingSpecial123ABC": "no special character",
	}
	for password, reason := range rejected {
		if err := ValidatePassword(context.Background(), password); err == nil {
			t.Errorf("Expected %q to be rejected (%s)", password, reason)
		}
	}
}
