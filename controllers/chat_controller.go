package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
)

// ChatController tela de conversa
type ChatController struct {
	chatService *services.ChatService
}

func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// InitChat monta a sessão de conversa: histórico, saudação em conversa nova
// e contexto do provedor reconstruído
func (cc *ChatController) InitChat(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}

	var anamnesis models.Anamnesis
	var anamnesisPtr *models.Anamnesis
	if err := config.DB.Where("user_id = ?", uid).First(&anamnesis).Error; err == nil {
		anamnesisPtr = &anamnesis
	}

	resp, err := cc.chatService.InitSession(c.Request.Context(), &user, anamnesisPtr)
	if err != nil {
		config.Logger.Errorw("falha ao inicializar conversa", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao carregar a conversa"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendMessage envia um turno; envios sobrepostos são rejeitados até a
// resposta pendente chegar
func (cc *ChatController) SendMessage(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.SendTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var image []byte
	if req.ImageData != "" {
		var err error
		image, err = base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "anexo de imagem inválido"})
			return
		}
	}

	resp, err := cc.chatService.SendTurn(c.Request.Context(), uid, req.Message, image, req.ImageMIME)
	switch {
	case errors.Is(err, services.ErrEmptyTurn):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTurnInFlight):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNoSession):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "não foi possível obter resposta, tente novamente"})
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// GetHistory histórico agrupado por rótulo de data relativa
func (cc *ChatController) GetHistory(c *gin.Context) {
	uid := c.GetString("uid")

	var recent []models.ChatMessage
	if err := config.DB.Where("user_id = ? AND channel = ?", uid, models.ChannelApp).
		Order("created_at desc").Limit(50).
		Find(&recent).Error; err != nil {
		config.Logger.Errorw("falha ao carregar histórico", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao carregar histórico"})
		return
	}

	messages := make([]models.ChatMessage, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		m.Synced = true
		messages = append(messages, m)
	}

	c.JSON(http.StatusOK, gin.H{"groups": services.GroupMessages(messages, time.Now())})
}

// GetState convite de intenção pendente, modo de voz e reprodução ativa
func (cc *ChatController) GetState(c *gin.Context) {
	uid := c.GetString("uid")

	state, err := cc.chatService.State(uid)
	if errors.Is(err, services.ErrNoSession) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetVoiceMode alterna o modo de voz
func (cc *ChatController) SetVoiceMode(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.VoiceModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := cc.chatService.SetVoiceMode(uid, req.Enabled); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voiceMode": req.Enabled})
}

// Speak fala uma mensagem; repetir a que está tocando interrompe a reprodução
func (cc *ChatController) Speak(c *gin.Context) {
	uid := c.GetString("uid")
	messageID := c.Param("id")

	resp, err := cc.chatService.Speak(c.Request.Context(), uid, messageID)
	switch {
	case errors.Is(err, services.ErrNoSession):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		config.Logger.Errorw("falha ao falar mensagem", "error", err, "uid", uid, "messageID", messageID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "não foi possível reproduzir a mensagem"})
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// StopPlayback o cliente informa que o áudio terminou
func (cc *ChatController) StopPlayback(c *gin.Context) {
	uid := c.GetString("uid")
	cc.chatService.StopPlayback(uid)
	c.JSON(http.StatusOK, gin.H{"message": "reprodução encerrada"})
}
