package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

func webhookRouter(t *testing.T, replier *stubReplier) *gin.Engine {
	t.Helper()
	setupTestEnv(t)
	r := gin.New()
	var wc *WebhookController
	if replier != nil {
		wc = NewWebhookController(replier)
	} else {
		wc = NewWebhookController(nil)
	}
	r.Any("/webhook", wc.HandleWebhook)
	return r
}

func createWebhookUser(t *testing.T, phone string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        utils.GenerateID(),
		Name:      "Bruno Lima",
		Email:     fmt.Sprintf("%s@example.com", utils.GenerateID()),
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

// Só POST é aceito no webhook
func TestWebhookMethodNotAllowed(t *testing.T) {
	r := webhookRouter(t, &stubReplier{reply: "oi"})

	w := doJSON(t, r, http.MethodGet, "/webhook", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// message e from são obrigatórios
func TestWebhookMissingFields(t *testing.T) {
	r := webhookRouter(t, &stubReplier{reply: "oi"})

	w := doJSON(t, r, http.MethodPost, "/webhook", gin.H{"message": "olá"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/webhook", gin.H{"from": "5511999990000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Remetente sem cadastro recebe o convite fixo, sem chamar a IA
func TestWebhookUnknownSender(t *testing.T) {
	replier := &stubReplier{reply: "oi"}
	r := webhookRouter(t, replier)

	w := doJSON(t, r, http.MethodPost, "/webhook", gin.H{
		"message": "olá",
		"from":    "5511988887777",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["reply"], "baixe o aplicativo")
	assert.Equal(t, 0, replier.calls)
}

// Remetente cadastrado: resposta da IA e os dois lados registrados no canal
func TestWebhookKnownSender(t *testing.T) {
	replier := &stubReplier{reply: "Que bom falar com você!"}
	r := webhookRouter(t, replier)
	user := createWebhookUser(t, "5511999990000")

	// Telefone com máscara casa com o cadastro normalizado
	w := doJSON(t, r, http.MethodPost, "/webhook", gin.H{
		"message": "oi caramelo",
		"from":    "+55 (11) 99999-0000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Que bom falar com você!", body["reply"])
	assert.Equal(t, 1, replier.calls)

	var entries []models.ChatMessage
	require.NoError(t, config.DB.Where("user_id = ? AND channel = ?", user.ID, models.ChannelWhatsApp).
		Order("created_at asc").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, models.RoleUser, entries[0].Role)
	assert.Equal(t, "oi caramelo", entries[0].Text)
	assert.Equal(t, models.RoleModel, entries[1].Role)
	assert.Equal(t, "Que bom falar com você!", entries[1].Text)
}

// Falha da IA vira 500 genérico, sem vazar o erro original
func TestWebhookReplierFailure(t *testing.T) {
	replier := &stubReplier{err: fmt.Errorf("limite de quota excedido")}
	r := webhookRouter(t, replier)
	createWebhookUser(t, "5511999990001")

	w := doJSON(t, r, http.MethodPost, "/webhook", gin.H{
		"message": "oi",
		"from":    "5511999990001",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "erro interno", body["error"])
	assert.NotContains(t, w.Body.String(), "quota")
}

// Sem respondedor configurado, remetente cadastrado recebe 500
func TestWebhookNoReplier(t *testing.T) {
	r := webhookRouter(t, nil)
	createWebhookUser(t, "5511999990002")

	w := doJSON(t, r, http.MethodPost, "/webhook", gin.H{
		"message": "oi",
		"from":    "5511999990002",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
