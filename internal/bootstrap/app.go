package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"safenest/internal/config"
	"safenest/internal/model"
	mysqlClient "safenest/internal/platform/mysql"
	rabbitmqClient "safenest/internal/platform/rabbitmq"
	redisClient "safenest/internal/platform/redis"
	"safenest/internal/repository"
	"safenest/internal/worker"
)

// App wires the optional infrastructure together. The RAG core is stateless
// and needs none of it; MySQL, Redis and RabbitMQ connect only when enabled
// and the rest of the server degrades to in-memory fallbacks without them.
type App struct {
	Config       *config.Config
	MySQL        *gorm.DB         // nil unless mysql.enabled
	Redis        *redis.Client    // nil unless redis.enabled
	MQConn       *amqp.Connection // nil unless rabbitmq.enabled
	ClinicWorker *worker.ClinicPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		StartedAt: time.Now(),
	}

	if cfg.MySQL.Enabled {
		mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		if err := mysqlDB.AutoMigrate(&model.Comment{}, &model.ClinicMessage{}); err != nil {
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		app.MySQL = mysqlDB
	}

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn
	}

	// Transcript persistence needs both the queue and somewhere to drain it.
	if app.MQConn != nil && app.MySQL != nil {
		clinicRepo := repository.NewClinicMessageRepository(app.MySQL)
		clinicWorker := worker.NewClinicPersistWorker(app.MQConn, clinicRepo, cfg.Clinic.PersistQueue)
		if err := clinicWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start clinic persist worker failed: %w", err)
		}
		app.ClinicWorker = clinicWorker
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ClinicWorker != nil {
		a.ClinicWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
