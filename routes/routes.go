package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/controllers"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/middleware"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
)

// RegisterRoutes registra todas as rotas do serviço
func RegisterRoutes(r *gin.Engine, chatService *services.ChatService, audioService *services.AudioService, replier services.WebhookReplier) {
	authController := controllers.NewAuthController(chatService)
	userController := controllers.UserController{}
	anamnesisController := controllers.NewAnamnesisController(chatService)
	chatController := controllers.NewChatController(chatService)
	audioController := controllers.NewAudioController(audioService)
	webhookController := controllers.NewWebhookController(replier)

	// Rotas públicas
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.GET("/auth/confirm", authController.ConfirmEmail)
	}

	// Canal externo; qualquer método chega ao handler para o 405 correto
	r.Any("/webhook", webhookController.HandleWebhook)

	// Rotas autenticadas
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware())
	{
		private.GET("/auth/session", authController.GetSession)
		private.POST("/auth/signout", authController.SignOut)

		private.GET("/user", userController.GetUser)
		private.PUT("/user", userController.UpdateProfile)
		private.GET("/user/theme", userController.GetTheme)
		private.PUT("/user/theme", userController.UpdateTheme)

		private.POST("/anamnesis", anamnesisController.SaveAnamnesis)
		private.GET("/anamnesis", anamnesisController.GetAnamnesis)

		private.GET("/tools/moods", anamnesisController.ListMoodEntries)
		private.POST("/tools/moods", anamnesisController.AppendMoodEntry)
		private.GET("/tools/gratitudes", anamnesisController.ListGratitudeEntries)
		private.POST("/tools/gratitudes", anamnesisController.AppendGratitudeEntry)
		private.GET("/tools/wins", anamnesisController.ListWinEntries)
		private.POST("/tools/wins", anamnesisController.AppendWinEntry)
		private.GET("/tools/intentions", anamnesisController.ListIntentionEntries)
		private.POST("/tools/intentions", anamnesisController.AppendIntentionEntry)

		private.POST("/chat/session", chatController.InitChat)
		private.GET("/chat/history", chatController.GetHistory)
		private.GET("/chat/state", chatController.GetState)
		private.POST("/chat/message", chatController.SendMessage)
		private.PUT("/chat/voice", chatController.SetVoiceMode)
		private.POST("/chat/speak/:id", chatController.Speak)
		private.POST("/chat/playback/stop", chatController.StopPlayback)

		private.POST("/audio/transcribe", audioController.Transcribe)
	}

	// Verificação de saúde
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
