package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config armazena todas as configurações do serviço
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// Banco de dados
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	// Redis (opcional; o cache de resumo é ignorado quando ausente)
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// API Gemini (chat, transcrição e voz)
	GeminiAPIKey    string `mapstructure:"GEMINI_API_KEY"`
	GeminiChatModel string `mapstructure:"GEMINI_CHAT_MODEL"`
	GeminiTTSModel  string `mapstructure:"GEMINI_TTS_MODEL"`

	// Respondedor do webhook (endpoint compatível com OpenAI)
	ReplierAPIKey   string `mapstructure:"REPLIER_API_KEY"`
	ReplierEndpoint string `mapstructure:"REPLIER_API_ENDPOINT"`
	ReplierModel    string `mapstructure:"REPLIER_MODEL"`

	// JWT
	JWTSecret string `mapstructure:"JWT_SECRET"`
}

// LoadConfig carrega configurações do arquivo .env ou das variáveis de ambiente
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// O arquivo é opcional; as variáveis de ambiente bastam
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}
	if config.GeminiChatModel == "" {
		config.GeminiChatModel = "gemini-2.5-flash"
	}
	if config.GeminiTTSModel == "" {
		config.GeminiTTSModel = "gemini-2.5-flash-preview-tts"
	}
	return
}

// GetDBConnString retorna a string de conexão do banco
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString retorna o endereço do Redis
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
