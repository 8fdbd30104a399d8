package utils

import (
	"log"
	"os"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	Prefix string
	Output *os.File
}

// InitLogger инициализирует и возвращает логгер
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "[LearnHub] "
	}

	return log.New(cfg.Output, cfg.Prefix, log.LstdFlags|log.LUTC)
}
