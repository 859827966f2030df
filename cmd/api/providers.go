package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	applending "github.com/xiebiao/library/internal/application/lending"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/librarian"
	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Server *http.Server
}

func provideApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{
		Server: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
}

func provideLibrarianService(repo librarian.Repository) librarian.Service {
	return librarian.NewService(repo, librarian.DefaultBcryptCost)
}

// 借阅仓储同时回答"图书/读者是否有未归还借阅"
func provideBookLoanChecker(repo lending.Repository) book.LoanChecker     { return repo }
func provideReaderLoanChecker(repo lending.Repository) reader.LoanChecker { return repo }

// 借阅服务只需要锁定图书和查找读者
func provideBookLocker(repo book.Repository) lending.BookLocker       { return repo }
func provideReaderFinder(repo reader.Repository) lending.ReaderFinder { return repo }

// provideEventPublisher 启用消息队列时连接RabbitMQ,否则丢弃事件
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (applending.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return applending.NoopPublisher{}, func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, err
	}
	breaker := circuitbreaker.New("mq-publisher", circuitbreaker.Config{
		Interval:    time.Minute,
		Timeout:     cfg.MQ.BreakerTimeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(cfg.MQ.BreakerFailures),
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
	return applending.NewBreakerPublisher(p, breaker), func() {
		if err := p.Close(); err != nil {
			log.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}, nil
}

func provideHealthHandler(db *gorm.DB, client *goredis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"redis": handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}),
	})
}
