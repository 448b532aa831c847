package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
)

// UserController perfil e preferências
type UserController struct{}

func (uc *UserController) GetUser(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		config.Logger.Errorw("usuário não encontrado", "error", err, "uid", uid)
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile edita os campos mutáveis do perfil
func (uc *UserController) UpdateProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Age > 0 {
		updates["age"] = req.Age
	}
	if req.Company != "" {
		updates["company"] = req.Company
	}
	if req.AvatarConfig != "" {
		updates["avatar_config"] = req.AvatarConfig
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nada para atualizar"})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		config.Logger.Errorw("falha ao atualizar perfil", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao atualizar perfil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "perfil atualizado"})
}

// GetTheme preferência de tema do usuário
func (uc *UserController) GetTheme(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Select("theme").Where("id = ?", uid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado"})
		return
	}
	theme := user.Theme
	if theme == "" {
		theme = "light"
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// UpdateTheme persiste a preferência dark/light
func (uc *UserController) UpdateTheme(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tema deve ser dark ou light"})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", uid).
		Update("theme", req.Theme).Error; err != nil {
		config.Logger.Errorw("falha ao salvar tema", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao salvar tema"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}
