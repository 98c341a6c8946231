package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// openaiCompletionService implements completionService against the OpenAI
// chat completions API with a strict JSON schema response format.
type openaiCompletionService struct {
	client openai.Client
	model  shared.ChatModel
}

func newOpenAICompletionService(apiKey string) *openaiCompletionService {
	return &openaiCompletionService{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  shared.ChatModelGPT4o,
	}
}

func (s *openaiCompletionService) Complete(ctx context.Context, req completionRequest) (string, error) {
	schemaParam := shared.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "workout_day",
		Description: openai.String("A structured workout plan for one day"),
		Schema:      payloadJSONSchema{},
		Strict:      openai.Bool(true),
	}

	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Model:       s.model,
		Temperature: openai.Float(req.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// unavailableCompletionService always fails, so generation falls through to
// the synthetic workout. Used when no API key is configured.
type unavailableCompletionService struct{}

func (unavailableCompletionService) Complete(context.Context, completionRequest) (string, error) {
	return "", errors.New("completion service not configured")
}
