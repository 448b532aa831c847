package services

import (
	"context"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
)

// ProviderTurn um turno do histórico enviado ao provedor de conversa
type ProviderTurn struct {
	Role      string
	Text      string
	ImageData []byte
	ImageMIME string
}

// TurnResult resposta do provedor: texto e citações de pesquisa
type TurnResult struct {
	Text    string
	Sources []models.GroundingSource
}

// ConversationProvider abstrai o provedor de IA hospedado (conversa,
// transcrição e síntese de voz)
type ConversationProvider interface {
	SendTurn(ctx context.Context, system string, history []ProviderTurn, turn ProviderTurn) (*TurnResult, error)
	Transcribe(ctx context.Context, audio []byte, mime string) (string, error)
	// Synthesize retorna PCM 16 bits little-endian, 24kHz, mono
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
