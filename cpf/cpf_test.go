// SPDX-License-Identifier: GPL-3.0-only

package cpf

import (
	"strings"
	"testing"
)

func TestValidateKnownCPFs(t *testing.T) {
	valid := []string{
		"529.982.247-25",
		"52998224725",
		"111.444.777-35",
		"853.513.468-93",
		"390.533.447-05",
		"168.995.350-09",
	}
	for _, v := range valid {
		if !Validate(v) {
			t.Errorf("Expected %q to be valid", v)
		}
	}

	invalid := []string{
		"529.982.247-26",
		"111.444.777-34",
		"853.513.468-92",
		"390.533.447-15",
		"123.456.789-00",
	}
	for _, v := range invalid {
		if Validate(v) {
			t.Errorf("Expected %q to be invalid", v)
		}
	}
}

func TestValidateRejectsIdenticalDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		s := strings.Repeat(string(d), 11)
		if Validate(s) {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

func TestValidateRejectsWrongLength(t *testing.T) {
	cases := []string{"", "5299822472", "529982247251", "abc"}
	for _, c := range cases {
		if Validate(c) {
			t.Errorf("Expected %q to be invalid", c)
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format("12345678901"); got != "123.456.789-01" {
		t.Errorf("Expected 123.456.789-01, got %s", got)
	}

	// Idempotent on already-formatted input.
	if got := Format("123.456.789-01"); got != "123.456.789-01" {
		t.Errorf("Expected 123.456.789-01, got %s", got)
	}

	partials := map[string]string{
		"123":          "123",
		"1234":         "123.4",
		"123456":       "123.456",
		"1234567":      "123.456.7",
		"123456789":    "123.456.789",
		"123456789012": "123.456.789-01",
	}
	for in, want := range partials {
		if got := Format(in); got != want {
			t.Errorf("Format(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("529.982.247-25"); got != "52998224725" {
		t.Errorf("Expected 52998224725, got %s", got)
	}
	if got := Digits("abc"); got != "" {
		t.Errorf("Expected empty string, got %s", got)
	}
}

func TestCheck(t *testing.T) {
	if fb := Check(""); fb.Valid || fb.Complete || fb.Message != "Enter your CPF" {
		t.Errorf("Unexpected feedback for empty input: %+v", fb)
	}

	if fb := Check("529.982"); fb.Valid || fb.Complete || fb.Message != "6/11 digits" {
		t.Errorf("Unexpected feedback for partial input: %+v", fb)
	}

	if fb := Check("529.982.247-25"); !fb.Valid || !fb.Complete || fb.Message != "CPF is valid" {
		t.Errorf("Unexpected feedback for valid input: %+v", fb)
	}

	if fb := Check("529.982.247-26"); fb.Valid || !fb.Complete || fb.Message != "CPF is invalid" {
		t.Errorf("Unexpected feedback for invalid input: %+v", fb)
	}

	if fb := Check("529982247251"); fb.Valid || fb.Complete || fb.Message != "CPF is too long" {
		t.Errorf("Unexpected feedback for overlong input: %+v", fb)
	}
}
