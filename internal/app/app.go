package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/botbridge-backend/internal/data/db"
	"github.com/yungbote/botbridge-backend/internal/observability"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	metrics := observability.Init(log)

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet)
	handlerset := wireHandlers(theDB, log, serviceset)
	router := wireRouter(log, metrics, handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Metrics:  metrics,
	}, nil
}

// Start launches the background collectors and the metrics endpoint. It is
// separate from Run so the export CLI can boot an App without either.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartPostgresCollector(ctx, a.Log, a.DB)
		a.Metrics.StartSentenceStatsCollector(ctx, a.Log, a.DB)
		if a.Cfg.RedisAddr != "" {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
