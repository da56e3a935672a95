package ai

import (
	"testing"

	"recipe-search-platform/internal/apperr"
	"recipe-search-platform/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateConversation(t *testing.T) {
	cases := []struct {
		name     string
		messages []models.ChatMessage
		wantErr  bool
	}{
		{"empty conversation", nil, true},
		{"missing role", []models.ChatMessage{{Role: "", Content: "hi"}}, true},
		{"missing content", []models.ChatMessage{{Role: "user", Content: "  "}}, true},
		{"valid single turn", []models.ChatMessage{{Role: "user", Content: "hi"}}, false},
		{"valid multi turn", []models.ChatMessage{
			{Role: "user", Content: "suggest a soup"},
			{Role: "assistant", Content: "tomato soup"},
			{Role: "user", Content: "something heartier"},
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConversation(tc.messages)
			if tc.wantErr {
				assert.True(t, apperr.Is(err, apperr.InvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
