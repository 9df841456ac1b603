package app

import (
	"github.com/yungbote/botbridge-backend/internal/platform/envutil"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	MetricsAddr string
	RedisAddr   string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.Str("PORT", "8080"),
		MetricsAddr: envutil.Str("METRICS_ADDR", ":9091"),
		RedisAddr:   envutil.Str("REDIS_ADDR", ""),
		Environment: envutil.Str("ENVIRONMENT", "development"),
		Version:     envutil.Str("SERVICE_VERSION", "dev"),
	}
	if log != nil {
		log.Info("Config loaded", "port", cfg.Port, "environment", cfg.Environment)
	}
	return cfg
}
