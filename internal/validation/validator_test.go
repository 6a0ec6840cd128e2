// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	type settings struct {
		Rank      int    `validate:"gt=0"`
		MaxMemory string `validate:"required,bytesize"`
		Level     string `validate:"oneof=debug info warn error"`
	}

	s := settings{Rank: 10, MaxMemory: "2GB", Level: "warn"}
	if verr := ValidateStruct(&s); verr != nil {
		t.Errorf("ValidateStruct() = %v, want nil", verr)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	type settings struct {
		Rank      int    `validate:"gt=0"`
		MaxMemory string `validate:"required,bytesize"`
	}

	s := settings{Rank: 0, MaxMemory: "lots"}
	verr := ValidateStruct(&s)
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	if len(verr.Errors()) != 2 {
		t.Errorf("Errors() count = %d, want 2", len(verr.Errors()))
	}

	msg := verr.Error()
	if !strings.Contains(msg, "Rank must be greater than 0") {
		t.Errorf("expected Rank message in %q", msg)
	}
	if !strings.Contains(msg, "MaxMemory must be a memory size") {
		t.Errorf("expected MaxMemory message in %q", msg)
	}
}

func TestValidateStruct_SliceBounds(t *testing.T) {
	type grid struct {
		Ranks []int `validate:"min=1,dive,gt=0"`
	}

	tests := []struct {
		name    string
		ranks   []int
		wantErr bool
	}{
		{"valid grid", []int{8, 12, 16}, false},
		{"empty grid", []int{}, true},
		{"zero element", []int{8, 0}, true},
		{"negative element", []int{-1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&grid{Ranks: tt.ranks})
			if (verr != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", verr, tt.wantErr)
			}
		})
	}
}

func TestBytesizeValidator(t *testing.T) {
	type mem struct {
		Limit string `validate:"bytesize"`
	}

	tests := []struct {
		input string
		valid bool
	}{
		{"2GB", true},
		{"512MB", true},
		{"1.5GiB", true},
		{"2 GB", true},
		{"1024", true},
		{"100kb", true},
		{"", false},
		{"lots", false},
		{"GB2", false},
		{"-1GB", false},
		{"2PB", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			verr := ValidateStruct(&mem{Limit: tt.input})
			if got := verr == nil; got != tt.valid {
				t.Errorf("bytesize(%q) valid = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestValidationError_Accessors(t *testing.T) {
	type bounded struct {
		Fraction float64 `validate:"gt=0,lt=1"`
	}

	verr := ValidateStruct(&bounded{Fraction: 1.5})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}

	errs := verr.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors() count = %d, want 1", len(errs))
	}

	fe := errs[0]
	if fe.Field() != "Fraction" {
		t.Errorf("Field() = %q, want %q", fe.Field(), "Fraction")
	}
	if fe.Tag() != "lt" {
		t.Errorf("Tag() = %q, want %q", fe.Tag(), "lt")
	}
	if fe.Param() != "1" {
		t.Errorf("Param() = %q, want %q", fe.Param(), "1")
	}
	if fe.Value() != 1.5 {
		t.Errorf("Value() = %v, want 1.5", fe.Value())
	}
}
