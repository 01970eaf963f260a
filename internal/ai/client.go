package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Intent is the structured form of a free-text message: what the user wants
// done to their event list, plus a reply to show them.
type Intent struct {
	Action      string            `json:"action"`
	Parameters  map[string]string `json:"parameters"`
	Confidence  float64           `json:"confidence"`
	Message     string            `json:"message"`
	RawResponse string            `json:"-"`
}

const systemPromptTemplate = `You are the assistant behind upnext, a bot that tracks upcoming events. Parse the user's message into a structured intent.

Current date: %s

Available actions:
- create_event: add an event
- list_events: show upcoming events (optional "category" parameter)
- delete_event: delete an event by its list number
- unknown: anything else (casual chat, unparseable input)

Parameters by action:
- title: event title (create_event)
- date: start date, format YYYY-MM-DD (create_event)
- end_date: optional last day, format YYYY-MM-DD (create_event)
- category: category name (create_event, list_events)
- repeat: one of never, daily, weekly, monthly, yearly (create_event; default never)
- repeat_until: optional last repeat date, format YYYY-MM-DD (create_event)
- number: 1-based list position (delete_event)

Rules:
1. Resolve relative dates ("next Friday", "in two weeks") against the current date and output YYYY-MM-DD. Events are whole days; ignore times of day.
2. If the message names a recurring pattern ("every year", "monthly"), set repeat accordingly.
3. Only choose create_event when both a title and a date can be determined; otherwise use unknown and ask for what is missing in "message".
4. "message" is a short friendly reply to show the user alongside the result.`

func getSystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02 (Monday)"))
}

// JSON Schema for structured output
var intentSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"action": {
			"type": "string",
			"enum": ["create_event", "list_events", "delete_event", "unknown"],
			"description": "The action to perform"
		},
		"parameters": {
			"type": "object",
			"additionalProperties": {
				"type": "string"
			},
			"description": "Parameters for the action"
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1,
			"description": "Confidence score between 0 and 1"
		},
		"message": {
			"type": "string",
			"description": "Short friendly reply to show the user"
		}
	},
	"required": ["action", "confidence"],
	"additionalProperties": false
}`)

func (c *Client) ParseIntent(ctx context.Context, userMessage string) (*Intent, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: getSystemPrompt(time.Now()),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userMessage,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "intent",
				Schema: intentSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	content := resp.Choices[0].Message.Content
	intent := &Intent{RawResponse: content}

	if err := json.Unmarshal([]byte(content), intent); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return intent, nil
}
