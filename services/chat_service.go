package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// Limite de mensagens carregadas na abertura da tela de conversa
const historyLimit = 50

// Atraso entre a abertura da tela e o convite de intenção diária
const defaultCheckInDelay = 2 * time.Second

const summaryTTL = 24 * time.Hour

var (
	// ErrNoSession a tela de conversa ainda não foi inicializada
	ErrNoSession = errors.New("sessão de conversa não inicializada")
	// ErrEmptyTurn mensagem vazia e sem anexo
	ErrEmptyTurn = errors.New("mensagem vazia")
	// ErrTurnInFlight já existe um turno pendente nesta sessão
	ErrTurnInFlight = errors.New("aguarde a resposta anterior antes de enviar outra mensagem")
)

// ChatSession estado de uma tela de conversa: criada na inicialização,
// descartada no logout. Substitui o antigo singleton global do provedor.
type ChatSession struct {
	mu             sync.Mutex
	userID         string
	system         string
	history        []ProviderTurn
	inFlight       bool
	voiceMode      bool
	playingMessage string
	checkInPending bool
}

func (s *ChatSession) setCheckInPending(v bool) {
	s.mu.Lock()
	s.checkInPending = v
	s.mu.Unlock()
}

// ChatService gerencia o ciclo de vida das sessões de conversa
type ChatService struct {
	provider ConversationProvider
	audio    *AudioService

	mu       sync.Mutex
	sessions map[string]*ChatSession

	// Ajustável nos testes
	checkInDelay time.Duration
}

func NewChatService(provider ConversationProvider, audio *AudioService) *ChatService {
	return &ChatService{
		provider:     provider,
		audio:        audio,
		sessions:     make(map[string]*ChatSession),
		checkInDelay: defaultCheckInDelay,
	}
}

func (s *ChatService) session(userID string) *ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

func (s *ChatService) resetSession(userID string) *ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &ChatSession{userID: userID}
	s.sessions[userID] = sess
	return sess
}

// EndSession descarta a sessão no logout
func (s *ChatService) EndSession(userID string) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// InitSession carrega o histórico, semeia a saudação em conversas novas e
// reconstrói o contexto do provedor para que a continuidade sobreviva a
// recargas do aplicativo
func (s *ChatService) InitSession(ctx context.Context, user *models.User, anamnesis *models.Anamnesis) (*models.ChatInitResponse, error) {
	var recent []models.ChatMessage
	if err := config.DB.Where("user_id = ? AND channel = ?", user.ID, models.ChannelApp).
		Order("created_at desc").Limit(historyLimit).
		Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("falha ao carregar histórico: %w", err)
	}

	// O banco devolve em ordem decrescente; a tela quer ascendente
	messages := make([]models.ChatMessage, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		m.Synced = true
		messages = append(messages, m)
	}

	if len(messages) == 0 {
		greeting := models.ChatMessage{
			ID:        utils.GenerateID(),
			UserID:    user.ID,
			Role:      models.RoleModel,
			Text:      GreetingFor(user),
			Channel:   models.ChannelApp,
			CreatedAt: time.Now(),
		}
		if err := config.DB.Create(&greeting).Error; err != nil {
			return nil, fmt.Errorf("falha ao gravar saudação: %w", err)
		}
		greeting.Synced = true
		messages = append(messages, greeting)
	}

	sess := s.resetSession(user.ID)
	sess.system = BuildSystemInstruction(user, anamnesis)
	for _, m := range messages {
		sess.history = append(sess.history, ProviderTurn{Role: m.Role, Text: m.Text})
	}

	// Sem intenção registrada hoje, o convite aparece pouco depois da carga
	today := time.Now().Format("2006-01-02")
	var count int64
	if err := config.DB.Model(&models.IntentionEntry{}).
		Where("user_id = ? AND date = ?", user.ID, today).
		Count(&count).Error; err != nil {
		config.Logger.Errorw("falha ao verificar intenção diária", "error", err, "uid", user.ID)
	} else if count == 0 {
		time.AfterFunc(s.checkInDelay, func() { sess.setCheckInPending(true) })
	}

	return &models.ChatInitResponse{
		Groups:    GroupMessages(messages, time.Now()),
		VoiceMode: sess.voiceMode,
	}, nil
}

// SendTurn envia um turno do usuário e aguarda a resposta do modelo.
// Vale o voo único: um segundo envio com turno pendente é rejeitado sem
// chamar o provedor. A gravação de cada mensagem é reportada no campo
// synced em vez de falhar silenciosamente.
func (s *ChatService) SendTurn(ctx context.Context, userID, text string, image []byte, imageMIME string) (*models.TurnResponse, error) {
	sess := s.session(userID)
	if sess == nil {
		return nil, ErrNoSession
	}

	text = strings.TrimSpace(text)
	if text == "" && len(image) == 0 {
		return nil, ErrEmptyTurn
	}

	sess.mu.Lock()
	if sess.inFlight {
		sess.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	sess.inFlight = true
	voice := sess.voiceMode
	system := sess.system
	history := append([]ProviderTurn(nil), sess.history...)
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.inFlight = false
		sess.mu.Unlock()
	}()

	userMsg := models.ChatMessage{
		ID:        utils.GenerateID(),
		UserID:    userID,
		Role:      models.RoleUser,
		Text:      text,
		ImageData: image,
		ImageMIME: imageMIME,
		Channel:   models.ChannelApp,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&userMsg).Error; err != nil {
		config.Logger.Errorw("falha ao gravar mensagem do usuário", "error", err, "uid", userID)
	} else {
		userMsg.Synced = true
	}

	reply, err := s.provider.SendTurn(ctx, system, history, ProviderTurn{
		Role:      models.RoleUser,
		Text:      text,
		ImageData: image,
		ImageMIME: imageMIME,
	})
	if err != nil {
		// Sem retry e sem mensagem de erro no histórico; o usuário reenvia
		config.Logger.Errorw("falha no provedor de conversa", "error", err, "uid", userID)
		return nil, fmt.Errorf("provedor de conversa: %w", err)
	}

	modelMsg := models.ChatMessage{
		ID:        utils.GenerateID(),
		UserID:    userID,
		Role:      models.RoleModel,
		Text:      reply.Text,
		Channel:   models.ChannelApp,
		CreatedAt: time.Now(),
	}
	modelMsg.SetSources(reply.Sources)
	if err := config.DB.Create(&modelMsg).Error; err != nil {
		config.Logger.Errorw("falha ao gravar resposta do modelo", "error", err, "uid", userID)
	} else {
		modelMsg.Synced = true
	}

	sess.mu.Lock()
	sess.history = append(sess.history,
		ProviderTurn{Role: models.RoleUser, Text: text},
		ProviderTurn{Role: models.RoleModel, Text: reply.Text},
	)
	sess.mu.Unlock()

	s.cacheSummary(ctx, userID, reply.Text)

	resp := &models.TurnResponse{UserMessage: userMsg, ModelMessage: modelMsg}

	// Em modo de voz a resposta já volta falada
	if voice {
		wav, preview, synthErr := s.audio.SynthesizeWAV(ctx, reply.Text)
		if synthErr != nil {
			config.Logger.Errorw("falha ao falar resposta", "error", synthErr, "uid", userID)
		} else {
			resp.Audio = base64.StdEncoding.EncodeToString(wav)
			resp.Waveform = preview
			sess.mu.Lock()
			sess.playingMessage = modelMsg.ID
			sess.mu.Unlock()
		}
	}

	return resp, nil
}

// Speak fala uma mensagem do histórico. Repetir a mensagem que já está
// tocando apenas interrompe a reprodução, sem nova síntese; pedir outra
// derruba o contexto anterior antes de criar o novo.
func (s *ChatService) Speak(ctx context.Context, userID, messageID string) (*models.SpeakResponse, error) {
	sess := s.session(userID)
	if sess == nil {
		return nil, ErrNoSession
	}

	sess.mu.Lock()
	if sess.playingMessage == messageID {
		sess.playingMessage = ""
		sess.mu.Unlock()
		return &models.SpeakResponse{MessageID: messageID, Stopped: true}, nil
	}
	if sess.playingMessage != "" {
		config.Logger.Debugw("substituindo reprodução ativa", "uid", userID, "previous", sess.playingMessage)
		sess.playingMessage = ""
	}
	sess.mu.Unlock()

	var msg models.ChatMessage
	if err := config.DB.Where("id = ? AND user_id = ?", messageID, userID).First(&msg).Error; err != nil {
		return nil, fmt.Errorf("mensagem não encontrada: %w", err)
	}

	wav, preview, err := s.audio.SynthesizeWAV(ctx, msg.Text)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.playingMessage = messageID
	sess.mu.Unlock()

	return &models.SpeakResponse{
		MessageID: messageID,
		Audio:     base64.StdEncoding.EncodeToString(wav),
		Waveform:  preview,
	}, nil
}

// StopPlayback o cliente avisa que a reprodução terminou
func (s *ChatService) StopPlayback(userID string) {
	if sess := s.session(userID); sess != nil {
		sess.mu.Lock()
		sess.playingMessage = ""
		sess.mu.Unlock()
	}
}

// SetVoiceMode alterna o modo de voz da sessão
func (s *ChatService) SetVoiceMode(userID string, enabled bool) error {
	sess := s.session(userID)
	if sess == nil {
		return ErrNoSession
	}
	sess.mu.Lock()
	sess.voiceMode = enabled
	sess.mu.Unlock()
	return nil
}

// State estado corrente exposto à tela de conversa
func (s *ChatService) State(userID string) (*models.ChatStateResponse, error) {
	sess := s.session(userID)
	if sess == nil {
		return nil, ErrNoSession
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &models.ChatStateResponse{
		CheckInPending: sess.checkInPending,
		VoiceMode:      sess.voiceMode,
		PlayingMessage: sess.playingMessage,
	}, nil
}

// ClearCheckIn chamado quando a intenção do dia é registrada
func (s *ChatService) ClearCheckIn(userID string) {
	if sess := s.session(userID); sess != nil {
		sess.setCheckInPending(false)
	}
}

// cacheSummary guarda a última resposta no Redis para dar continuidade ao
// canal externo; melhor esforço, erros só geram log
func (s *ChatService) cacheSummary(ctx context.Context, userID, reply string) {
	if config.RedisClient == nil {
		return
	}
	key := fmt.Sprintf("chat:summary:%s", userID)
	if err := config.RedisClient.Set(ctx, key, reply, summaryTTL).Err(); err != nil {
		config.Logger.Errorw("falha ao gravar resumo no cache", "error", err, "uid", userID)
	}
}

// LastSummary recupera o resumo em cache; vazio quando indisponível
func LastSummary(ctx context.Context, userID string) string {
	if config.RedisClient == nil {
		return ""
	}
	summary, err := config.RedisClient.Get(ctx, fmt.Sprintf("chat:summary:%s", userID)).Result()
	if err != nil {
		return ""
	}
	return summary
}

// GroupMessages agrupa mensagens por rótulo de data relativa, mantendo a
// ordem cronológica ascendente dentro de cada grupo
func GroupMessages(messages []models.ChatMessage, now time.Time) []models.MessageGroup {
	var groups []models.MessageGroup
	for _, m := range messages {
		label := utils.DateLabel(m.CreatedAt, now)
		if len(groups) == 0 || groups[len(groups)-1].Label != label {
			groups = append(groups, models.MessageGroup{Label: label})
		}
		groups[len(groups)-1].Messages = append(groups[len(groups)-1].Messages, m)
	}
	return groups
}
