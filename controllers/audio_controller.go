package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
)

// AudioController transcrição das gravações de microfone
type AudioController struct {
	audioService *services.AudioService
}

func NewAudioController(audioService *services.AudioService) *AudioController {
	return &AudioController{audioService: audioService}
}

// Transcribe recebe o clipe em base64 e devolve o texto transcrito.
// Gravações abaixo do limite mínimo voltam descartadas, sem chamada ao
// provedor.
func (ac *AudioController) Transcribe(c *gin.Context) {
	var req models.TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "áudio inválido"})
		return
	}

	text, err := ac.audioService.Transcribe(c.Request.Context(), audio, req.MIME)
	switch {
	case errors.Is(err, services.ErrClipTooShort):
		c.JSON(http.StatusOK, gin.H{"text": "", "discarded": true})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "não foi possível transcrever, tente novamente"})
	default:
		c.JSON(http.StatusOK, gin.H{"text": text, "discarded": false})
	}
}
