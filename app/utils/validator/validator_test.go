package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContact struct {
	Name  string `json:"name" validate:"required,min=3,max=255"`
	Phone string `json:"phone" validate:"required,id_phone"`
	Email string `json:"email" validate:"required,email"`
}

type testPatch struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=3"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,id_phone"`
}

type testQuery struct {
	Limit int `query:"limit" validate:"min=1,max=100"`
}

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.validator)
}

func TestValidator_Validate(t *testing.T) {
	v := New()
	shortName := "Al"
	goodPhone := "081234567890"

	tests := []struct {
		name       string
		input      any
		wantFields []string
	}{
		{
			name:  "valid contact",
			input: testContact{Name: "Budi Santoso", Phone: "081234567890", Email: "budi@example.com"},
		},
		{
			name:       "missing required fields",
			input:      testContact{},
			wantFields: []string{"name", "phone", "email"},
		},
		{
			name:       "short name and bad phone",
			input:      testContact{Name: "Al", Phone: "12345", Email: "al@example.com"},
			wantFields: []string{"name", "phone"},
		},
		{
			name:       "invalid email",
			input:      testContact{Name: "Budi", Phone: "+6281234567890", Email: "not-an-email"},
			wantFields: []string{"email"},
		},
		{
			name:  "empty patch is valid",
			input: &testPatch{},
		},
		{
			name:  "patch with valid phone",
			input: &testPatch{Phone: &goodPhone},
		},
		{
			name:       "patch with short name",
			input:      &testPatch{Name: &shortName},
			wantFields: []string{"name"},
		},
		{
			name:       "query limit above max",
			input:      testQuery{Limit: 101},
			wantFields: []string{"limit"},
		},
		{
			name:       "query limit zero",
			input:      testQuery{Limit: 0},
			wantFields: []string{"limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok)
			for _, field := range tt.wantFields {
				assert.Contains(t, validationErr.Errors, field)
			}
			assert.Len(t, validationErr.Errors, len(tt.wantFields))
		})
	}
}

func TestValidationError_Messages(t *testing.T) {
	v := New()

	err := v.Validate(testContact{Name: "Al", Phone: "0000", Email: "x@y.co"})
	require.Error(t, err)
	validationErr := err.(*ValidationError)

	assert.Equal(t, "name must be at least 3 characters long", validationErr.Errors["name"])
	assert.Equal(t, "Format should be a valid Indonesian phone number (081234567890)", validationErr.Errors["phone"])
	assert.Equal(t,
		"validation failed: name must be at least 3 characters long, Format should be a valid Indonesian phone number (081234567890)",
		validationErr.Error())

	err = v.Validate(testQuery{Limit: 500})
	require.Error(t, err)
	assert.Equal(t, "limit must not be greater than 100", err.(*ValidationError).Errors["limit"])
}

func TestValidationError_Prefixed(t *testing.T) {
	base := ValidationError{Errors: map[string]string{"email": "email is required"}}

	prefixed := base.Prefixed("[2]")

	assert.Equal(t, map[string]string{"[2].email": "[2]: email is required"}, prefixed.Errors)
}

func TestIsValidIndonesianPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"local mobile", "081234567890", true},
		{"short local mobile", "0812345678", true},
		{"country code", "6281234567890", true},
		{"plus country code", "+6281234567890", true},
		{"landline", "0215551234", false},
		{"foreign number", "+14155552671", false},
		{"letters", "08123abc890", false},
		{"too short", "08123", false},
		{"too long", "08123456789012345", false},
		{"operator digit zero", "080234567890", false},
		{"spaces", "0812 3456 7890", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidIndonesianPhone(tt.phone))
		})
	}
}
