package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const moderationPrompt = `You are a content moderation AI for a franchise review platform. Analyze the following review and provide:
1. A moderation category: "clean" (appropriate), "needs_review" (questionable), or "rejected" (violates guidelines)
2. Sentiment: "positive", "negative", or "neutral"
3. A sentiment score from -1.0 (very negative) to 1.0 (very positive)
4. Any flags (e.g., "profanity", "spam", "defamatory", "personal_attack", "fake_review")
5. A brief summary of the review

Guidelines for rejection:
- Profanity or hate speech
- Personal attacks on individuals
- Clearly defamatory statements without evidence
- Spam or promotional content
- Off-topic content

Respond in JSON format:
{"category": "clean|needs_review|rejected", "sentiment": "positive|negative|neutral", "sentimentScore": 0.0, "flags": [], "summary": ""}`

const keywordPrompt = `Extract key words and phrases from this franchise review. For each, identify if the context is positive, negative, or neutral. Return as JSON:
{"keywords": [{"word": "string", "sentiment": "positive|negative|neutral"}]}

Focus on franchise-relevant terms like: support, training, profit, culture, communication, fees, marketing, territory, etc.`

// OpenAIClassifier classifies reviews through the OpenAI chat API.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier creates a classifier backed by the given API key and model.
func NewOpenAIClassifier(apiKey, model string) *OpenAIClassifier {
	return &OpenAIClassifier{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Classify analyzes a review's title and content.
func (c *OpenAIClassifier) Classify(ctx context.Context, title, content string) (*Result, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: moderationPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\nContent: %s", title, content)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai moderation request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai moderation request: empty response")
	}

	var result Result
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("parse moderation response: %w", err)
	}

	if result.Category == "" {
		result.Category = Fallback().Category
	}
	if result.Sentiment == "" {
		result.Sentiment = Fallback().Sentiment
	}
	if result.Flags == nil {
		result.Flags = []string{}
	}

	return &result, nil
}

// ExtractTerms extracts sentiment-tagged keywords from review content.
func (c *OpenAIClassifier) ExtractTerms(ctx context.Context, content string) ([]Term, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: keywordPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai keyword request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai keyword request: empty response")
	}

	var parsed struct {
		Keywords []Term `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parse keyword response: %w", err)
	}

	return parsed.Keywords, nil
}
