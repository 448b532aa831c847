package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// AnamnesisController questionário de entrada e ferramentas de autocuidado.
// Cada registro de autocuidado é apenas inserção em sua própria tabela, o que
// elimina a corrida de sobrescrita do documento único.
type AnamnesisController struct {
	chatService *services.ChatService
}

func NewAnamnesisController(chatService *services.ChatService) *AnamnesisController {
	return &AnamnesisController{chatService: chatService}
}

// SaveAnamnesis grava o questionário. A transição para a conversa só
// acontece depois da gravação confirmada; falha aqui mantém o usuário no
// questionário em vez de seguir com dados não salvos.
func (ac *AnamnesisController) SaveAnamnesis(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.AnamnesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	anamnesis := models.Anamnesis{
		UserID:        uid,
		Mood:          req.Mood,
		MainComplaint: req.MainComplaint,
		SleepQuality:  req.SleepQuality,
		AnxietyLevel:  req.AnxietyLevel,
		Routine:       req.Routine,
		History:       req.History,
		UpdatedAt:     time.Now(),
	}

	if err := config.DB.Save(&anamnesis).Error; err != nil {
		config.Logger.Errorw("falha ao salvar anamnese", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "não foi possível salvar suas respostas, tente novamente"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"next": "conversation", "anamnesis": anamnesis})
}

func (ac *AnamnesisController) GetAnamnesis(c *gin.Context) {
	uid := c.GetString("uid")

	var anamnesis models.Anamnesis
	if err := config.DB.Where("user_id = ?", uid).First(&anamnesis).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "questionário ainda não respondido"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"anamnesis": anamnesis})
}

// ListMoodEntries registros de humor em ordem cronológica
func (ac *AnamnesisController) ListMoodEntries(c *gin.Context) {
	uid := c.GetString("uid")
	var entries []models.MoodEntry
	if err := config.DB.Where("user_id = ?", uid).Order("created_at asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao carregar registros"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// AppendMoodEntry acrescenta um registro de humor
func (ac *AnamnesisController) AppendMoodEntry(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.MoodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.MoodEntry{
		ID:        utils.GenerateID(),
		UserID:    uid,
		Mood:      req.Mood,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("falha ao gravar registro de humor", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar registro"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ListGratitudeEntries diário de gratidão
func (ac *AnamnesisController) ListGratitudeEntries(c *gin.Context) {
	uid := c.GetString("uid")
	var entries []models.GratitudeEntry
	if err := config.DB.Where("user_id = ?", uid).Order("created_at asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao carregar registros"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// AppendGratitudeEntry acrescenta um registro de gratidão
func (ac *AnamnesisController) AppendGratitudeEntry(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.GratitudeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.GratitudeEntry{
		ID:        utils.GenerateID(),
		UserID:    uid,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("falha ao gravar gratidão", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar registro"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ListWinEntries exercícios de ressignificação
func (ac *AnamnesisController) ListWinEntries(c *gin.Context) {
	uid := c.GetString("uid")
	var entries []models.WinEntry
	if err := config.DB.Where("user_id = ?", uid).Order("created_at asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao carregar registros"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// AppendWinEntry acrescenta um exercício de ressignificação
func (ac *AnamnesisController) AppendWinEntry(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.WinEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.WinEntry{
		ID:        utils.GenerateID(),
		UserID:    uid,
		Thought:   req.Thought,
		Reframe:   req.Reframe,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("falha ao gravar ressignificação", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar registro"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ListIntentionEntries intenções diárias
func (ac *AnamnesisController) ListIntentionEntries(c *gin.Context) {
	uid := c.GetString("uid")
	var entries []models.IntentionEntry
	if err := config.DB.Where("user_id = ?", uid).Order("created_at asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao carregar registros"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// AppendIntentionEntry registra a intenção do dia e limpa o convite pendente
// na sessão de conversa
func (ac *AnamnesisController) AppendIntentionEntry(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.IntentionEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	entry := models.IntentionEntry{
		ID:        utils.GenerateID(),
		UserID:    uid,
		Text:      req.Text,
		Date:      now.Format("2006-01-02"),
		CreatedAt: now,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("falha ao gravar intenção", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar registro"})
		return
	}

	ac.chatService.ClearCheckIn(uid)
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}
