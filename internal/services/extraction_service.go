package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oguzk/propmatch/internal/models"
	"github.com/oguzk/propmatch/pkg/config"
)

// ExtractionService asks an OpenAI-compatible chat completions API to
// classify a conversation and extract structured intent fields. Any
// failure, including unparseable model output, comes back as an error
// the caller treats as "no actionable intent".
type ExtractionService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewExtractionService creates a new ExtractionService from app config
func NewExtractionService() *ExtractionService {
	return &ExtractionService{
		apiKey:  config.AppConfig.OpenAI.APIKey,
		model:   config.AppConfig.OpenAI.Model,
		baseURL: config.AppConfig.OpenAI.BaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Extract classifies one conversation and returns the structured intent
func (s *ExtractionService) Extract(conversation, statusHint string) (*models.Intent, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(conversation, statusHint)}},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("extraction API returned no choices")
	}

	return parseIntent(completion.Choices[0].Message.Content)
}

// buildPrompt renders the extraction contract: the conversation, the
// sender's current status as context, and the JSON shape to return
func buildPrompt(conversation, statusHint string) string {
	return fmt.Sprintf(`You are a real estate assistant analyzing the following conversation:
%s

The sender's current status in our records is: %q.

Based on this message, extract JSON with the following fields:
{
  "role": "client" or "owner",
  "data": {
    "location": "...",
    "budget": "...",
    "type": "...",
    "price": "...",
    "description": "...",
    "viewing_time": "...",
    "confirmation_time": "...",
    "decline": true or false
  },
  "reply": "short polite English response"
}

- If the owner confirms a viewing time, put that time in "confirmation_time".
- If the owner declines the viewing, set "decline" to true.
- Otherwise, keep these fields empty or false.
Return ONLY JSON.
`, conversation, statusHint)
}

// parseIntent strips markdown fences the model sometimes wraps its
// output in, then decodes the intent JSON
func parseIntent(content string) (*models.Intent, error) {
	content = strings.Replace(content, "```json", "", 1)
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	intent := &models.Intent{}
	if err := json.Unmarshal([]byte(content), intent); err != nil {
		return nil, fmt.Errorf("failed to parse intent JSON: %w", err)
	}

	return intent, nil
}
