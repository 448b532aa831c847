package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

// AuthController cadastro, login, confirmação de email e sessão
type AuthController struct {
	chatService *services.ChatService
}

func NewAuthController(chatService *services.ChatService) *AuthController {
	return &AuthController{chatService: chatService}
}

// Register cria a conta e o perfil; validações acontecem antes de qualquer
// gravação (documento malformado e senha fraca nunca chegam ao banco)
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateCPF(req.CPF); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "cpf"})
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": "password"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email já cadastrado"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.Logger.Errorw("falha ao gerar hash de senha", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha no cadastro"})
		return
	}

	user := models.User{
		ID:           utils.GenerateID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		CPF:          utils.FormatCPF(req.CPF),
		Age:          req.Age,
		Company:      req.Company,
		PasswordHash: string(hash),
		Theme:        "light",
		CreatedAt:    time.Now(),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("falha ao criar usuário", "error", err, "email", email)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha no cadastro"})
		return
	}

	// O token de confirmação segue por email; aqui só registramos a emissão
	confirmToken, err := utils.GenerateConfirmToken(user.ID)
	if err != nil {
		config.Logger.Errorw("falha ao gerar token de confirmação", "error", err, "uid", user.ID)
	} else {
		config.Logger.Infow("token de confirmação emitido", "uid", user.ID, "token", confirmToken)
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gerar token"})
		return
	}

	config.Logger.Infow("usuário cadastrado", "uid", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// Login autentica por email e senha
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha incorretos"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha incorretos"})
		return
	}

	if !user.EmailConfirmed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Confirme seu email antes de entrar"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&user).Update("last_login", now).Error; err != nil {
		config.Logger.Errorw("falha ao registrar último acesso", "error", err, "uid", user.ID)
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gerar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"theme": user.Theme,
		},
	})
}

// ConfirmEmail valida o token enviado por email
func (ac *AuthController) ConfirmEmail(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token não informado"})
		return
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil || claims.Purpose != utils.PurposeConfirm {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token de confirmação inválido"})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update("email_confirmed", true).Error; err != nil {
		config.Logger.Errorw("falha ao confirmar email", "error", err, "uid", claims.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao confirmar email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email confirmado"})
}

// GetSession restaura a sessão a partir do token. Perfil sumido do banco
// com token válido é reconstruído uma vez a partir das claims; sem dados
// suficientes, resta orientar o contato com o suporte.
func (ac *AuthController) GetSession(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	err := config.DB.Where("id = ?", uid).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		claims, ok := c.Get("claims")
		authClaims, _ := claims.(*utils.Claims)
		if !ok || authClaims == nil || authClaims.Email == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Perfil não encontrado. Entre em contato com o suporte."})
			return
		}

		user = models.User{
			ID:        uid,
			Name:      authClaims.Name,
			Email:     authClaims.Email,
			Theme:     "light",
			CreatedAt: time.Now(),
		}
		if err := config.DB.Create(&user).Error; err != nil {
			config.Logger.Errorw("falha ao reconstruir perfil", "error", err, "uid", uid)
			c.JSON(http.StatusNotFound, gin.H{"error": "Perfil não encontrado. Entre em contato com o suporte."})
			return
		}
		config.Logger.Warnw("perfil reconstruído a partir do token", "uid", uid)
	} else if err != nil {
		config.Logger.Errorw("falha ao carregar perfil", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao restaurar sessão"})
		return
	}

	var anamnesis models.Anamnesis
	onboardingRequired := false
	if err := config.DB.Where("user_id = ?", uid).First(&anamnesis).Error; err != nil {
		onboardingRequired = true
	}

	resp := gin.H{
		"user":               user,
		"onboardingRequired": onboardingRequired,
	}
	if !onboardingRequired {
		resp["anamnesis"] = anamnesis
	}
	c.JSON(http.StatusOK, resp)
}

// SignOut encerra a sessão de conversa e invalida o estado em memória
func (ac *AuthController) SignOut(c *gin.Context) {
	uid := c.GetString("uid")
	ac.chatService.EndSession(uid)
	config.Logger.Infow("logout", "uid", uid)
	c.JSON(http.StatusOK, gin.H{"message": "sessão encerrada"})
}
