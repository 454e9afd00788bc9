package validation

import (
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Password123!", false},
		{"too short", "Pas1!", true},
		{"no uppercase", "password123!", true},
		{"no lowercase", "PASSWORD123!", true},
		{"no digit", "Password!!!!", true},
		{"no special", "Password1234", true},
		{"too long", "Aa1!" + strings.Repeat("x", 130), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateUsername("author_42"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("_leading"))
	assert.Error(t, ValidateUsername("trailing-"))
	assert.Error(t, ValidateUsername("has spaces"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("writer@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateGender(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateGender(models.GenderMale))
	assert.NoError(t, ValidateGender(models.GenderFemale))
	assert.NoError(t, ValidateGender(models.GenderOther))
	assert.Error(t, ValidateGender(models.Gender("unknown")))
}

func TestValidateExcerpt(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateExcerpt(strings.Repeat("x", 250)))
	assert.Error(t, ValidateExcerpt(strings.Repeat("x", 251)))
}
