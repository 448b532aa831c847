package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// fakeProvider substitui a API hospedada nos testes
type fakeProvider struct {
	mu          sync.Mutex
	calls       int
	synthCalls  int
	transcripts int
	lastSystem  string
	reply       TurnResult
	err         error
	block       chan struct{}
}

func (f *fakeProvider) SendTurn(ctx context.Context, system string, history []ProviderTurn, turn ProviderTurn) (*TurnResult, error) {
	f.mu.Lock()
	f.calls++
	f.lastSystem = system
	block := f.block
	err := f.err
	reply := f.reply
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	r := reply
	return &r, nil
}

func (f *fakeProvider) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	f.mu.Lock()
	f.transcripts++
	f.mu.Unlock()
	return "olá", nil
}

func (f *fakeProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	f.synthCalls++
	f.mu.Unlock()
	return []byte{0x00, 0x40, 0x00, 0xc0}, nil
}

func (f *fakeProvider) sendCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) synthesizeCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.synthCalls
}

func setupTestDB(t *testing.T) {
	t.Helper()
	config.InitTestLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.GenerateID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Anamnesis{},
		&models.MoodEntry{},
		&models.GratitudeEntry{},
		&models.WinEntry{},
		&models.IntentionEntry{},
		&models.ChatMessage{},
	))
	config.DB = db
}

func setupChatTest(t *testing.T) (*ChatService, *fakeProvider, *models.User, *models.Anamnesis) {
	t.Helper()
	setupTestDB(t)

	provider := &fakeProvider{reply: TurnResult{Text: "Entendo você."}}
	service := NewChatService(provider, NewAudioService(provider))
	service.checkInDelay = time.Millisecond

	user := &models.User{
		ID:        utils.GenerateID(),
		Name:      "Ana Souza",
		Email:     "ana@example.com",
		CreatedAt: time.Now(),
	}
	require.NoError(t, config.DB.Create(user).Error)

	anamnesis := &models.Anamnesis{
		UserID:        user.ID,
		Mood:          "Ansioso",
		MainComplaint: "trabalho",
		SleepQuality:  3,
		AnxietyLevel:  4,
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, config.DB.Create(anamnesis).Error)

	return service, provider, user, anamnesis
}

// Conversa nova: exatamente uma saudação, com o primeiro nome, persistida
func TestInitSessionSeedsGreeting(t *testing.T) {
	service, _, user, anamnesis := setupChatTest(t)

	resp, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	require.Len(t, resp.Groups, 1)
	require.Len(t, resp.Groups[0].Messages, 1)
	greeting := resp.Groups[0].Messages[0]
	assert.Equal(t, models.RoleModel, greeting.Role)
	assert.Contains(t, greeting.Text, "Ana")
	assert.True(t, greeting.Synced)

	var count int64
	config.DB.Model(&models.ChatMessage{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// Conversa existente: nada é semeado e o histórico volta em ordem ascendente
func TestInitSessionLoadsExistingHistory(t *testing.T) {
	service, _, user, anamnesis := setupChatTest(t)

	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"oi", "olá, como vai?", "tudo bem"} {
		role := models.RoleUser
		if i == 1 {
			role = models.RoleModel
		}
		require.NoError(t, config.DB.Create(&models.ChatMessage{
			ID:        utils.GenerateID(),
			UserID:    user.ID,
			Role:      role,
			Text:      text,
			Channel:   models.ChannelApp,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	resp, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	var texts []string
	for _, g := range resp.Groups {
		for _, m := range g.Messages {
			texts = append(texts, m.Text)
		}
	}
	assert.Equal(t, []string{"oi", "olá, como vai?", "tudo bem"}, texts)

	var count int64
	config.DB.Model(&models.ChatMessage{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(3), count)
}

// A instrução de sistema carrega a queixa principal sem alteração
func TestSystemInstructionEmbedsComplaint(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	_, err = service.SendTurn(context.Background(), user.ID, "estou cansado", nil, "")
	require.NoError(t, err)

	assert.Contains(t, provider.lastSystem, "trabalho")
	assert.Contains(t, provider.lastSystem, "Ansioso")
}

// Turno vazio é rejeitado sem tocar no provedor
func TestSendTurnRejectsEmpty(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	_, err = service.SendTurn(context.Background(), user.ID, "   ", nil, "")
	assert.ErrorIs(t, err, ErrEmptyTurn)
	assert.Equal(t, 0, provider.sendCalls())
}

// Voo único: com turno pendente, o segundo envio é rejeitado sem nova
// chamada ao provedor
func TestSendTurnSingleFlight(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	provider.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := service.SendTurn(context.Background(), user.ID, "primeira", nil, "")
		done <- err
	}()

	// Espera o primeiro turno chegar ao provedor
	require.Eventually(t, func() bool { return provider.sendCalls() == 1 }, time.Second, time.Millisecond)

	_, err = service.SendTurn(context.Background(), user.ID, "segunda", nil, "")
	assert.ErrorIs(t, err, ErrTurnInFlight)
	assert.Equal(t, 1, provider.sendCalls())

	close(provider.block)
	require.NoError(t, <-done)

	// Liberado, o próximo envio passa
	provider.block = nil
	_, err = service.SendTurn(context.Background(), user.ID, "terceira", nil, "")
	assert.NoError(t, err)
}

// Falha do provedor: sem retry, sem mensagem de erro no histórico e a
// sessão liberada para reenvio manual
func TestSendTurnProviderFailure(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	provider.err = fmt.Errorf("timeout")
	_, err = service.SendTurn(context.Background(), user.ID, "oi", nil, "")
	require.Error(t, err)
	assert.Equal(t, 1, provider.sendCalls())

	var count int64
	config.DB.Model(&models.ChatMessage{}).
		Where("user_id = ? AND role = ?", user.ID, models.RoleModel).Count(&count)
	assert.Equal(t, int64(1), count) // só a saudação

	provider.err = nil
	_, err = service.SendTurn(context.Background(), user.ID, "oi de novo", nil, "")
	assert.NoError(t, err)
}

// Citações da resposta são persistidas junto com a mensagem do modelo
func TestSendTurnPersistsSources(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	provider.reply = TurnResult{
		Text: "Veja este material.",
		Sources: []models.GroundingSource{
			{Title: "CVV", URI: "https://cvv.org.br"},
		},
	}

	resp, err := service.SendTurn(context.Background(), user.ID, "onde busco ajuda?", nil, "")
	require.NoError(t, err)
	assert.True(t, resp.UserMessage.Synced)
	assert.True(t, resp.ModelMessage.Synced)

	var stored models.ChatMessage
	require.NoError(t, config.DB.Where("id = ?", resp.ModelMessage.ID).First(&stored).Error)
	sources := stored.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "CVV", sources[0].Title)
	assert.Equal(t, "https://cvv.org.br", sources[0].URI)
}

// Em modo de voz a resposta já volta com áudio e vira a reprodução ativa
func TestSendTurnVoiceMode(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)
	require.NoError(t, service.SetVoiceMode(user.ID, true))

	resp, err := service.SendTurn(context.Background(), user.ID, "oi", nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Audio)
	assert.NotEmpty(t, resp.Waveform)
	assert.Equal(t, 1, provider.synthesizeCalls())

	state, err := service.State(user.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ModelMessage.ID, state.PlayingMessage)
}

// Repetir a mensagem em reprodução interrompe sem nova síntese; outra
// mensagem substitui a reprodução ativa
func TestSpeakToggleAndReplace(t *testing.T) {
	service, provider, user, anamnesis := setupChatTest(t)

	resp, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)
	greetingID := resp.Groups[0].Messages[0].ID

	speak, err := service.Speak(context.Background(), user.ID, greetingID)
	require.NoError(t, err)
	assert.False(t, speak.Stopped)
	assert.NotEmpty(t, speak.Audio)
	assert.Equal(t, 1, provider.synthesizeCalls())

	// Mesmo id: apenas para, sem sintetizar de novo
	speak, err = service.Speak(context.Background(), user.ID, greetingID)
	require.NoError(t, err)
	assert.True(t, speak.Stopped)
	assert.Equal(t, 1, provider.synthesizeCalls())

	state, err := service.State(user.ID)
	require.NoError(t, err)
	assert.Empty(t, state.PlayingMessage)

	// Outra mensagem: nova síntese substitui a anterior
	turn, err := service.SendTurn(context.Background(), user.ID, "oi", nil, "")
	require.NoError(t, err)

	_, err = service.Speak(context.Background(), user.ID, greetingID)
	require.NoError(t, err)
	speak, err = service.Speak(context.Background(), user.ID, turn.ModelMessage.ID)
	require.NoError(t, err)
	assert.False(t, speak.Stopped)

	state, _ = service.State(user.ID)
	assert.Equal(t, turn.ModelMessage.ID, state.PlayingMessage)
}

// Sem intenção registrada hoje, o convite aparece após o atraso fixo
func TestDailyCheckIn(t *testing.T) {
	service, _, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		state, err := service.State(user.ID)
		return err == nil && state.CheckInPending
	}, time.Second, time.Millisecond)

	service.ClearCheckIn(user.ID)
	state, err := service.State(user.ID)
	require.NoError(t, err)
	assert.False(t, state.CheckInPending)
}

// Com a intenção do dia já registrada, nenhum convite é agendado
func TestDailyCheckInAlreadyLogged(t *testing.T) {
	service, _, user, anamnesis := setupChatTest(t)

	require.NoError(t, config.DB.Create(&models.IntentionEntry{
		ID:        utils.GenerateID(),
		UserID:    user.ID,
		Text:      "descansar",
		Date:      time.Now().Format("2006-01-02"),
		CreatedAt: time.Now(),
	}).Error)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	state, err := service.State(user.ID)
	require.NoError(t, err)
	assert.False(t, state.CheckInPending)
}

// Enviar sem inicializar a tela é um erro de sequência
func TestSendTurnWithoutSession(t *testing.T) {
	setupTestDB(t)
	provider := &fakeProvider{}
	service := NewChatService(provider, NewAudioService(provider))

	_, err := service.SendTurn(context.Background(), "alguem", "oi", nil, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

// Logout descarta o estado da sessão
func TestEndSession(t *testing.T) {
	service, _, user, anamnesis := setupChatTest(t)

	_, err := service.InitSession(context.Background(), user, anamnesis)
	require.NoError(t, err)

	service.EndSession(user.ID)
	_, err = service.State(user.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

// Agrupamento por data relativa, mantendo a ordem dentro de cada grupo
func TestGroupMessages(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	messages := []models.ChatMessage{
		{Text: "antiga", CreatedAt: now.AddDate(0, 0, -8)},
		{Text: "semana", CreatedAt: now.AddDate(0, 0, -3)},
		{Text: "ontem", CreatedAt: now.AddDate(0, 0, -1)},
		{Text: "hoje 1", CreatedAt: now.Add(-2 * time.Hour)},
		{Text: "hoje 2", CreatedAt: now.Add(-time.Hour)},
	}

	groups := GroupMessages(messages, now)
	require.Len(t, groups, 4)
	assert.Equal(t, "07/03", groups[0].Label)
	assert.Equal(t, now.AddDate(0, 0, -3).Weekday().String(), groups[1].Label)
	assert.Equal(t, "Yesterday", groups[2].Label)
	assert.Equal(t, "Today", groups[3].Label)
	require.Len(t, groups[3].Messages, 2)
	assert.Equal(t, "hoje 1", groups[3].Messages[0].Text)

	assert.Empty(t, GroupMessages(nil, now))
}

// A saudação menciona o primeiro nome mesmo em nomes compostos
func TestGreetingFor(t *testing.T) {
	user := &models.User{Name: "João Pedro Alves"}
	assert.True(t, strings.Contains(GreetingFor(user), "João"))
	assert.False(t, strings.Contains(GreetingFor(user), "Pedro"))
}
