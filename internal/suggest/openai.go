package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const scoringSystemPrompt = `You are a medical symptom classifier. Given a symptom description and a list of candidate conditions, score how well each condition matches the symptoms. Scores are independent probabilities between 0 and 1 and do not need to sum to 1. Respond with JSON only, in the form {"scores": [{"condition": "...", "confidence": 0.0}]}. Include only conditions from the candidate list. Omit conditions with negligible confidence.`

// OpenAIClient scores candidate conditions with a chat-completion call.
// API credentials and the model name are loaded from environment variables.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient constructs an OpenAI-backed suggester. It reads the API
// key and model name from the environment and falls back to a small default
// model.
func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	c := openai.NewClient(apiKey)

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIClient{client: c, model: model}
}

type scoreResponse struct {
	Scores []Suggestion `json:"scores"`
}

// Suggest implements Suggester. The model is asked for JSON scores over the
// candidate labels; anything outside the candidate set or the [0,1] range is
// discarded rather than surfaced as an error.
func (c *OpenAIClient) Suggest(ctx context.Context, text string, candidateLabels []string, topK int) ([]Suggestion, error) {
	if c.client == nil {
		return nil, errors.New("openai client not initialized")
	}
	if len(candidateLabels) == 0 {
		candidateLabels = DefaultCandidateLabels()
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	prompt := fmt.Sprintf("Symptoms: %s\n\nCandidate conditions: %s", text, strings.Join(candidateLabels, ", "))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoringSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("condition scoring failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse scoring response: %w", err)
	}

	allowed := make(map[string]struct{}, len(candidateLabels))
	for _, label := range candidateLabels {
		allowed[strings.ToLower(strings.TrimSpace(label))] = struct{}{}
	}

	var suggestions []Suggestion
	for _, s := range parsed.Scores {
		label := strings.ToLower(strings.TrimSpace(s.Condition))
		if _, ok := allowed[label]; !ok {
			continue
		}
		if s.Confidence <= 0 {
			continue
		}
		if s.Confidence > 1 {
			s.Confidence = 1
		}
		suggestions = append(suggestions, Suggestion{Condition: label, Confidence: s.Confidence})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > topK {
		suggestions = suggestions[:topK]
	}
	return suggestions, nil
}
