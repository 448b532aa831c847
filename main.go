package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/config"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/middleware"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/models"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/routes"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/services"
	"github.com/gabrielmoreno13/CARAMELO-MORENO-V1-sub000/utils"
)

func main() {
	// Logger
	if err := config.InitLogger(); err != nil {
		log.Fatalf("não foi possível inicializar o logger: %v", err)
	}
	defer config.Logger.Sync()

	// Configuração
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("não foi possível carregar a configuração: %v", err)
	}
	utils.InitJWT(conf.JWTSecret)

	// Banco de dados
	if err := config.InitDB(conf); err != nil {
		log.Fatalf("não foi possível conectar ao banco: %v", err)
	}
	if err := config.MigrateDB(
		&models.User{},
		&models.Anamnesis{},
		&models.MoodEntry{},
		&models.GratitudeEntry{},
		&models.WinEntry{},
		&models.IntentionEntry{},
		&models.ChatMessage{},
	); err != nil {
		log.Fatalf("%v", err)
	}

	// Redis (opcional)
	if err := config.InitRedis(conf); err != nil {
		log.Fatalf("não foi possível conectar ao Redis: %v", err)
	}

	// Provedor de conversa
	gemini, err := services.NewGeminiClient(context.Background(), conf.GeminiAPIKey, conf.GeminiChatModel, conf.GeminiTTSModel)
	if err != nil {
		log.Fatalf("não foi possível criar o cliente Gemini: %v", err)
	}

	// Respondedor do webhook (opcional)
	var replier services.WebhookReplier
	if conf.ReplierAPIKey != "" {
		r, err := services.NewReplierClient(conf.ReplierAPIKey, conf.ReplierEndpoint, conf.ReplierModel)
		if err != nil {
			log.Fatalf("não foi possível criar o respondedor do webhook: %v", err)
		}
		replier = r
	} else {
		config.Logger.Warnw("respondedor do webhook não configurado")
	}

	audioService := services.NewAudioService(gemini)
	chatService := services.NewChatService(gemini, audioService)

	// Gin
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	middleware.SetupMiddleware(r)
	routes.RegisterRoutes(r, chatService, audioService, replier)

	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	go func() {
		config.Logger.Infow("servidor iniciado", "port", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("falha ao iniciar o servidor: %v", err)
		}
	}()

	// Encerramento gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Infow("encerrando o servidor")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("falha ao encerrar o servidor: %v", err)
	}

	config.Logger.Infow("servidor encerrado")
}
