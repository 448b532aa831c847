package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
)

const transcribePrompt = "Transcreva o áudio a seguir em português do Brasil. " +
	"Responda apenas com o texto transcrito, sem comentários."

// GeminiClient implementação do ConversationProvider sobre a API Gemini
type GeminiClient struct {
	client    *genai.Client
	chatModel string
	ttsModel  string
	voice     string
}

// NewGeminiClient cria o cliente da API Gemini
func NewGeminiClient(ctx context.Context, apiKey, chatModel, ttsModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY não configurada")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente Gemini: %w", err)
	}

	return &GeminiClient{
		client:    client,
		chatModel: chatModel,
		ttsModel:  ttsModel,
		voice:     "Zephyr",
	}, nil
}

// SendTurn envia um turno com histórico e instrução de sistema; a pesquisa
// do Google fica habilitada para respostas com citações
func (c *GeminiClient) SendTurn(ctx context.Context, system string, history []ProviderTurn, turn ProviderTurn) (*TurnResult, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, h := range history {
		var role genai.Role = genai.RoleUser
		if h.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(h.Text, role))
	}

	parts := make([]*genai.Part, 0, 2)
	if turn.Text != "" {
		parts = append(parts, genai.NewPartFromText(turn.Text))
	}
	if len(turn.ImageData) > 0 {
		parts = append(parts, genai.NewPartFromBytes(turn.ImageData, turn.ImageMIME))
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("falha na geração de conteúdo: %w", err)
	}

	result := &TurnResult{Text: resp.Text()}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil {
				result.Sources = append(result.Sources, models.GroundingSource{
					Title: chunk.Web.Title,
					URI:   chunk.Web.URI,
				})
			}
		}
	}
	return result, nil
}

// Transcribe converte o áudio gravado em texto
func (c *GeminiClient) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(transcribePrompt),
		genai.NewPartFromBytes(audio, mime),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("falha na transcrição: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Synthesize gera a fala da resposta em PCM 16 bits 24kHz mono
func (c *GeminiClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.ttsModel, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("falha na síntese de voz: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("síntese de voz não retornou áudio")
}
