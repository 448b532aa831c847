package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// Resposta fixa para remetentes sem cadastro
const onboardingReply = "Olá! Eu sou o Caramelo. Para conversarmos por aqui, " +
	"baixe o aplicativo e complete seu cadastro primeiro. Até já!"

// WebhookController canal externo de mensagens (WhatsApp)
type WebhookController struct {
	replier services.WebhookReplier
}

func NewWebhookController(replier services.WebhookReplier) *WebhookController {
	return &WebhookController{replier: replier}
}

// digitsOnly normaliza telefones para comparação
func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HandleWebhook recebe uma mensagem externa e responde via IA. Remetente
// desconhecido recebe o convite de cadastro; erros internos viram um 500
// genérico, sem vazar detalhes.
func (wc *WebhookController) HandleWebhook(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "método não permitido"})
		return
	}

	var req models.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.From) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message e from são obrigatórios"})
		return
	}

	phone := digitsOnly(req.From)
	var user models.User
	if err := config.DB.Where("phone = ? OR phone = ?", phone, req.From).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"reply": onboardingReply})
		return
	}

	if wc.replier == nil {
		config.Logger.Errorw("respondedor do webhook não configurado")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
		return
	}

	inbound := models.ChatMessage{
		ID:        utils.GenerateID(),
		UserID:    user.ID,
		Role:      models.RoleUser,
		Text:      req.Message,
		Channel:   models.ChannelWhatsApp,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&inbound).Error; err != nil {
		config.Logger.Errorw("falha ao registrar mensagem recebida", "error", err, "uid", user.ID)
	}

	reply, err := wc.replier.Reply(c.Request.Context(), req.Message, services.LastSummary(c.Request.Context(), user.ID))
	if err != nil {
		config.Logger.Errorw("falha no respondedor do webhook", "error", err, "uid", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
		return
	}

	outbound := models.ChatMessage{
		ID:        utils.GenerateID(),
		UserID:    user.ID,
		Role:      models.RoleModel,
		Text:      reply,
		Channel:   models.ChannelWhatsApp,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&outbound).Error; err != nil {
		config.Logger.Errorw("falha ao registrar resposta enviada", "error", err, "uid", user.ID)
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
