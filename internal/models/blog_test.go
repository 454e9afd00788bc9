package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadingTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "single word", content: "word", want: 1},
		{name: "400 words", content: strings.TrimSpace(strings.Repeat("word ", 400)), want: 2},
		{name: "exactly 200 words", content: strings.TrimSpace(strings.Repeat("word ", 200)), want: 1},
		{name: "201 words rounds up", content: strings.TrimSpace(strings.Repeat("word ", 201)), want: 2},
		{name: "empty content floors at one minute", content: "", want: 1},
		{name: "whitespace only", content: "   \n\t ", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ReadingTime(tt.content))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := assert.AnError
	err := NewInternalError(inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "Internal server error")
}

func TestNotFoundErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewNotFoundError("Blog", 42)
	assert.Equal(t, "Blog with ID 42 not found", err.Message)
	assert.Equal(t, CodeNotFound, err.Code)
}
