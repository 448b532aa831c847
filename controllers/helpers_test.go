package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// stubProvider provedor de conversa fixo para os testes de controller
type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) SendTurn(ctx context.Context, system string, history []services.ProviderTurn, turn services.ProviderTurn) (*services.TurnResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &services.TurnResult{Text: p.reply}, nil
}

func (p *stubProvider) Transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "texto transcrito", nil
}

func (p *stubProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte{0x00, 0x40, 0x00, 0xc0}, nil
}

// stubReplier respondedor do webhook controlável
type stubReplier struct {
	reply       string
	err         error
	calls       int
	lastSummary string
}

func (r *stubReplier) Reply(ctx context.Context, message, summary string) (string, error) {
	r.calls++
	r.lastSummary = summary
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func setupTestEnv(t *testing.T) *services.ChatService {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitTestLogger()
	utils.InitJWT("segredo-de-teste")

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

	provider := &stubProvider{reply: "Entendo você."}
	return services.NewChatService(provider, services.NewAudioService(provider))
}

// authAs substitui o middleware de autenticação nos testes
func authAs(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("uid", uid)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
