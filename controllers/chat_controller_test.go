package controllers

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
)

func chatRouter(t *testing.T, uid string) (*gin.Engine, *services.ChatService) {
	t.Helper()
	chatService := setupTestEnv(t)
	cc := NewChatController(chatService)
	auc := NewAudioController(services.NewAudioService(&stubProvider{}))

	r := gin.New()
	private := r.Group("/", authAs(uid))
	private.POST("/chat/session", cc.InitChat)
	private.GET("/chat/history", cc.GetHistory)
	private.GET("/chat/state", cc.GetState)
	private.POST("/chat/message", cc.SendMessage)
	private.PUT("/chat/voice", cc.SetVoiceMode)
	private.POST("/chat/speak/:id", cc.Speak)
	private.POST("/chat/playback/stop", cc.StopPlayback)
	private.POST("/audio/transcribe", auc.Transcribe)
	return r, chatService
}

func createChatUser(t *testing.T, uid string) *models.User {
	t.Helper()
	user := &models.User{ID: uid, Name: "Ana Souza", Email: "ana@example.com", CreatedAt: time.Now()}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

// Abertura da tela: saudação para conversa nova e estado inicial
func TestInitChatAndSend(t *testing.T) {
	r, _ := chatRouter(t, "user-1")
	createChatUser(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/chat/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana")

	w = doJSON(t, r, http.MethodPost, "/chat/message", gin.H{"message": "estou cansado"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Entendo você.")

	w = doJSON(t, r, http.MethodGet, "/chat/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "estou cansado")
	assert.Contains(t, w.Body.String(), "Today")
}

// Enviar antes de abrir a tela é erro de sequência, não de servidor
func TestSendMessageWithoutSession(t *testing.T) {
	r, _ := chatRouter(t, "user-1")
	createChatUser(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/chat/message", gin.H{"message": "oi"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSendMessageEmpty(t *testing.T) {
	r, _ := chatRouter(t, "user-1")
	createChatUser(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/chat/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/chat/message", gin.H{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageInvalidImage(t *testing.T) {
	r, _ := chatRouter(t, "user-1")
	createChatUser(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/chat/message", gin.H{
		"message":   "veja",
		"imageData": "isto-não-é-base64!!",
		"imageMime": "image/png",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoiceModeToggle(t *testing.T) {
	r, _ := chatRouter(t, "user-1")
	createChatUser(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/chat/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/chat/voice", gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/chat/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"voiceMode":true`)
}

// Falar uma mensagem e interromper tocando nela de novo
func TestSpeakEndpoint(t *testing.T) {
	r, chatService := chatRouter(t, "user-1")
	user := createChatUser(t, "user-1")

	resp, err := chatService.InitSession(context.Background(), user, nil)
	require.NoError(t, err)
	greetingID := resp.Groups[0].Messages[0].ID

	w := doJSON(t, r, http.MethodPost, "/chat/speak/"+greetingID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["audio"])

	w = doJSON(t, r, http.MethodPost, "/chat/speak/"+greetingID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["stopped"])

	w = doJSON(t, r, http.MethodPost, "/chat/playback/stop", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// Clipe curto volta 200 com a marca de descarte, sem virar erro na tela
func TestTranscribeShortClip(t *testing.T) {
	r, _ := chatRouter(t, "user-1")

	short := base64.StdEncoding.EncodeToString(make([]byte, 100))
	w := doJSON(t, r, http.MethodPost, "/audio/transcribe", gin.H{"audio": short, "mime": "audio/webm"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["discarded"])
	assert.Equal(t, "", body["text"])
}

func TestTranscribe(t *testing.T) {
	r, _ := chatRouter(t, "user-1")

	clip := base64.StdEncoding.EncodeToString(make([]byte, services.MinClipBytes))
	w := doJSON(t, r, http.MethodPost, "/audio/transcribe", gin.H{"audio": clip, "mime": "audio/webm"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "texto transcrito", decodeBody(t, w)["text"])
}
