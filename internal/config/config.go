package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	AI       AIConfig       `mapstructure:"ai"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type CheckoutConfig struct {
	// имитационная задержка «обработки платежа» перед созданием заказа
	Delay time.Duration `mapstructure:"delay"`
}

type AIConfig struct {
	// пустой ключ выключает фичи ИИ, это не ошибка конфигурации
	APIKey string `mapstructure:"api_key"`
}

// LoadConfig читает config.yaml (опционально) и переменные окружения.
// Ключ Gemini берётся из GEMINI_API_KEY.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.twyst/")
	v.AddConfigPath("/etc/twyst/")

	v.SetDefault("server.addr", ":9091")
	v.SetDefault("checkout.delay", 1500*time.Millisecond)

	v.SetEnvPrefix("TWYST")
	v.AutomaticEnv()
	_ = v.BindEnv("ai.api_key", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		// the config file is optional, everything has a default
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
