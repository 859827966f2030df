//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/application"
	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/application/dashboard"
	applending "github.com/xiebiao/library/internal/application/lending"
	applibrarian "github.com/xiebiao/library/internal/application/librarian"
	appreader "github.com/xiebiao/library/internal/application/reader"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/reader"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/clock"
	"github.com/xiebiao/library/pkg/validator"
)

// infrastructureSet 数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	rdb.NewDB,
	redis.NewClient,
	wire.Bind(new(goredis.UniversalClient), new(*goredis.Client)),
	provideEventPublisher,
	clock.System,
	validator.New,
	wire.Bind(new(application.Validator), new(*validator.Validator)),
)

// repositorySet 仓储和事务管理器
var repositorySet = wire.NewSet(
	rdb.NewBookRepository,
	rdb.NewReaderRepository,
	rdb.NewLendingRepository,
	rdb.NewLibrarianRepository,
	rdb.NewTxManager,
	wire.Bind(new(application.TxManager), new(*rdb.TxManager)),
	provideBookLoanChecker,
	provideReaderLoanChecker,
	provideBookLocker,
	provideReaderFinder,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
	reader.NewService,
	lending.NewService,
	provideLibrarianService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewRegisterBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewQueryBooksUseCase,
	appreader.NewRegisterReaderUseCase,
	appreader.NewUpdateReaderUseCase,
	appreader.NewDeleteReaderUseCase,
	appreader.NewQueryReadersUseCase,
	applending.NewIssueBookUseCase,
	applending.NewReturnBookUseCase,
	applending.NewUpdateLendingUseCase,
	applending.NewDeleteLendingUseCase,
	applending.NewQueryLendingsUseCase,
	applibrarian.NewRegisterUseCase,
	applibrarian.NewLoginUseCase,
	applibrarian.NewLogoutUseCase,
	dashboard.NewSummaryUseCase,
)

// middlewareSet JWT、会话存储、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	redis.NewSessionStore,
	wire.Bind(new(applibrarian.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器和路由
var handlerSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewReaderHandler,
	handler.NewLendingHandler,
	handler.NewDashboardHandler,
	provideHealthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
	provideApp,
)

// InitializeApp 组装应用,返回的cleanup按创建的逆序释放资源
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
	)
	return nil, nil, nil
}
