package models

// RegisterRequest cadastro de novo usuário
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf" binding:"required"`
	Age      int    `json:"age"`
	Company  string `json:"company"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest autenticação por email e senha
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest edição de perfil
type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Age          int    `json:"age"`
	Company      string `json:"company"`
	AvatarConfig string `json:"avatarConfig"`
}

// ThemeRequest preferência de tema
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=dark light"`
}

// AnamnesisRequest respostas do questionário
type AnamnesisRequest struct {
	Mood          string `json:"mood" binding:"required"`
	MainComplaint string `json:"mainComplaint" binding:"required"`
	SleepQuality  int    `json:"sleepQuality" binding:"required,min=1,max=5"`
	AnxietyLevel  int    `json:"anxietyLevel" binding:"required,min=1,max=5"`
	Routine       string `json:"routine"`
	History       string `json:"history"`
}

// MoodEntryRequest novo registro de humor
type MoodEntryRequest struct {
	Mood string `json:"mood" binding:"required"`
	Note string `json:"note"`
}

// GratitudeEntryRequest novo registro de gratidão
type GratitudeEntryRequest struct {
	Text string `json:"text" binding:"required"`
}

// WinEntryRequest novo exercício de ressignificação
type WinEntryRequest struct {
	Thought string `json:"thought" binding:"required"`
	Reframe string `json:"reframe" binding:"required"`
}

// IntentionEntryRequest intenção do dia
type IntentionEntryRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendTurnRequest envio de um turno de conversa
type SendTurnRequest struct {
	Message   string `json:"message"`
	ImageData string `json:"imageData"` // base64
	ImageMIME string `json:"imageMime"`
}

// VoiceModeRequest liga ou desliga o modo de voz da sessão
type VoiceModeRequest struct {
	Enabled bool `json:"enabled"`
}

// TranscribeRequest áudio gravado para transcrição
type TranscribeRequest struct {
	Audio string `json:"audio" binding:"required"` // base64
	MIME  string `json:"mime" binding:"required"`
}

// WebhookRequest mensagem recebida pelo canal externo
type WebhookRequest struct {
	Message string `json:"message"`
	From    string `json:"from"` // telefone do remetente
}
