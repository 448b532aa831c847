package models

// MessageGroup mensagens agrupadas por rótulo de data relativa
type MessageGroup struct {
	Label    string        `json:"label"`
	Messages []ChatMessage `json:"messages"`
}

// TurnResponse resultado de um turno: mensagem do usuário + resposta do modelo
type TurnResponse struct {
	UserMessage  ChatMessage `json:"userMessage"`
	ModelMessage ChatMessage `json:"modelMessage"`
	// Áudio WAV em base64 quando a sessão está em modo de voz
	Audio    string    `json:"audio,omitempty"`
	Waveform []float32 `json:"waveform,omitempty"`
}

// ChatInitResponse estado inicial da tela de conversa
type ChatInitResponse struct {
	Groups    []MessageGroup `json:"groups"`
	VoiceMode bool           `json:"voiceMode"`
}

// ChatStateResponse estado corrente da sessão de conversa
type ChatStateResponse struct {
	CheckInPending bool   `json:"checkInPending"`
	VoiceMode      bool   `json:"voiceMode"`
	PlayingMessage string `json:"playingMessage,omitempty"`
}

// SpeakResponse resultado do pedido de fala de uma mensagem
type SpeakResponse struct {
	MessageID string    `json:"messageId"`
	Stopped   bool      `json:"stopped"`
	Audio     string    `json:"audio,omitempty"` // WAV em base64
	Waveform  []float32 `json:"waveform,omitempty"`
}
