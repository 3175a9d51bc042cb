// Package ai talks to the hosted generative model that produces new deck
// questions when the database runs short.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds connection details for the generative text API.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client issues schema-constrained generateContent calls.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Request asks for count questions aimed at one gender bucket.
type Request struct {
	Gender      string
	Count       int
	MinLevel    int
	MaxLevel    int
	Allow18Plus bool
	CategoryID  string
}

// Generated is one model-produced question before persistence.
type Generated struct {
	Content   string `json:"content"`
	Level     int    `json:"level"`
	ForGender string `json:"forGender"`
	Is18Plus  bool   `json:"is18Plus"`
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		logger:     logger.With().Str("component", "ai_generator").Logger(),
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	return c != nil && c.config.APIKey != ""
}

// GenerateQuestions requests a JSON array of questions for one bucket. Every
// failure mode returns an error; callers treat errors as "zero items".
func (c *Client) GenerateQuestions(ctx context.Context, req Request) ([]Generated, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("generator credentials not configured")
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: buildPrompt(req)}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   questionArraySchema(),
		},
	}

	text, err := c.generateContent(ctx, payload)
	if err != nil {
		return nil, err
	}

	var items []Generated
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &items); err != nil {
		return nil, fmt.Errorf("parse generator payload: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("generator returned empty question set")
	}
	return items, nil
}

// GenerateText is a raw prompt passthrough returning cleaned plain text.
func (c *Client) GenerateText(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("generator credentials not configured")
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	text, err := c.generateContent(ctx, payload)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ReplaceAll(text, `"`, "")), nil
}

func (c *Client) generateContent(ctx context.Context, payload geminiRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.config.BaseURL, c.config.Model, c.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decode generator response: %w", err)
	}

	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generator response has no candidates")
	}
	text := gResp.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("generator response text is empty")
	}
	return text, nil
}

// stripCodeFences removes markdown fence markers the model sometimes wraps
// around JSON output.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func questionArraySchema() map[string]any {
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"content":  map[string]any{"type": "STRING"},
				"level":    map[string]any{"type": "INTEGER"},
				"forGender": map[string]any{
					"type": "STRING",
					"enum": []string{"MALE", "FEMALE", "BOTH"},
				},
				"is18Plus": map[string]any{"type": "BOOLEAN"},
			},
			"required": []string{"content", "level", "forGender", "is18Plus"},
		},
	}
}
