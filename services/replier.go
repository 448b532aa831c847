package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Instrução mínima do canal externo, bem mais curta que a do aplicativo
const webhookSystemPrompt = "Você é o Caramelo, companheiro de bem-estar emocional; " +
	"responda em português com acolhimento, em no máximo três frases."

// WebhookReplier gera a resposta do canal de mensagens externo
type WebhookReplier interface {
	Reply(ctx context.Context, message, summary string) (string, error)
}

// ReplierClient cliente leve sobre endpoint compatível com OpenAI
type ReplierClient struct {
	model llms.Model
}

// NewReplierClient cria o cliente do respondedor do webhook
func NewReplierClient(apiKey, endpoint, modelName string) (*ReplierClient, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(endpoint),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente do respondedor: %w", err)
	}

	return &ReplierClient{model: llm}, nil
}

// Reply responde uma mensagem recebida pelo webhook
func (c *ReplierClient) Reply(ctx context.Context, message, summary string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(webhookSystemPrompt)},
		},
	}

	if summary != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf("Última resposta dada ao usuário no aplicativo:\n%s", summary))},
		})
	}

	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(message)},
	})

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(300),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("respondedor não retornou conteúdo")
	}
	return resp.Choices[0].Content, nil
}
