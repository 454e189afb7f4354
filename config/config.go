package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Session store: "memory" or "redis".
	SessionStore      string `mapstructure:"SESSION_STORE"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`

	// Completion provider: "gemini" or "openai".
	AIProvider       string `mapstructure:"AI_PROVIDER"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string `mapstructure:"GEMINI_MODEL"`
	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel      string `mapstructure:"OPENAI_MODEL"`

	// Business profile: "automotive" or "trades".
	BusinessProfile string `mapstructure:"BUSINESS_PROFILE"`

	// Numbers used by the voice flow and notifications.
	OwnerMobile    string `mapstructure:"OWNER_MOBILE"`
	MechanicMobile string `mapstructure:"MECHANIC_MOBILE"`
	SMSFrom        string `mapstructure:"SMS_FROM"`

	// Outbound delivery gateways (SMS and email webhooks).
	SMSGatewayURL   string `mapstructure:"SMS_GATEWAY_URL"`
	EmailGatewayURL string `mapstructure:"EMAIL_GATEWAY_URL"`
	EmailTo         string `mapstructure:"EMAIL_TO"`
	EmailFrom       string `mapstructure:"EMAIL_FROM"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("SESSION_STORE", "memory")
	viper.SetDefault("SESSION_TTL_MINUTES", 30)
	viper.SetDefault("AI_PROVIDER", "openai")
	viper.SetDefault("AI_TIMEOUT_SECONDS", 30)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o")
	viper.SetDefault("BUSINESS_PROFILE", "automotive")
	viper.SetDefault("OWNER_MOBILE", "")
	viper.SetDefault("MECHANIC_MOBILE", "")
	viper.SetDefault("SMS_FROM", "")
	viper.SetDefault("SMS_GATEWAY_URL", "")
	viper.SetDefault("EMAIL_GATEWAY_URL", "")
	viper.SetDefault("EMAIL_TO", "")
	viper.SetDefault("EMAIL_FROM", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
