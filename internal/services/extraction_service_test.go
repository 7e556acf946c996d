package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	intent, err := parseIntent(`{
		"role": "client",
		"data": {"location": "Austin", "budget": "around $450k", "type": "condo"},
		"reply": "Got it!"
	}`)
	assert.NoError(t, err)
	assert.Equal(t, models.IntentRoleClient, intent.Role)
	assert.Equal(t, "Austin", intent.Data.Location)
	assert.Equal(t, "around $450k", intent.Data.Budget)
	assert.Equal(t, "Got it!", intent.Reply)
}

func TestParseIntentStripsMarkdownFences(t *testing.T) {
	intent, err := parseIntent("```json\n{\"role\": \"owner\", \"data\": {\"decline\": \"yes\"}}\n```")
	assert.NoError(t, err)
	assert.Equal(t, models.IntentRoleOwner, intent.Role)
	assert.True(t, bool(intent.Data.Decline))
}

func TestParseIntentInvalidJSON(t *testing.T) {
	_, err := parseIntent("Sorry, I cannot help with that.")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("I want a condo in Austin", "waiting_for_time")

	assert.Contains(t, prompt, "I want a condo in Austin")
	assert.Contains(t, prompt, `"waiting_for_time"`)
	assert.Contains(t, prompt, `"confirmation_time"`)
	assert.Contains(t, prompt, "Return ONLY JSON.")
}

func TestExtractAgainstStubAPI(t *testing.T) {
	var gotAuth string
	var gotRequest chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "```json\n{\"role\": \"client\", \"data\": {\"location\": \"Austin\"}, \"reply\": \"Thanks!\"}\n```"}},
			},
		})
	}))
	defer server.Close()

	service := &ExtractionService{
		apiKey:     "test-key",
		model:      "gpt-4o",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}

	intent, err := service.Extract("Looking for a place in Austin", "new")
	assert.NoError(t, err)
	assert.Equal(t, models.IntentRoleClient, intent.Role)
	assert.Equal(t, "Austin", intent.Data.Location)
	assert.Equal(t, "Thanks!", intent.Reply)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o", gotRequest.Model)
	assert.Len(t, gotRequest.Messages, 1)
	assert.Contains(t, gotRequest.Messages[0].Content, "Looking for a place in Austin")
}

func TestExtractNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	service := &ExtractionService{
		apiKey:     "test-key",
		model:      "gpt-4o",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}

	_, err := service.Extract("hello", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestExtractNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	service := &ExtractionService{
		apiKey:     "test-key",
		model:      "gpt-4o",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: time.Second},
	}

	_, err := service.Extract("hello", "")
	assert.Error(t, err)
}
