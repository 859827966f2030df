// Package router 组装Gin引擎:全局中间件、路由分组和认证
package router

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/library/docs" // swagger文档
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Auth      *handler.AuthHandler
	Book      *handler.BookHandler
	Reader    *handler.ReaderHandler
	Lending   *handler.LendingHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

// New 创建Gin引擎并注册路由
//
// 中间件顺序:Recovery → Tracing → Logger → Metrics → CORS
// Tracing在Logger之前,请求日志才能带上trace_id
func New(cfg *config.Config, log *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	useJSONFieldNames()

	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Tracing(), middleware.Logger(log))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/health", h.Health.Health)
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", h.Auth.Login)

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.POST("/auth/logout", h.Auth.Logout)
		authorized.POST("/librarians", h.Auth.Register)
		authorized.GET("/dashboard", h.Dashboard.Summary)

		books := authorized.Group("/books")
		{
			books.GET("", h.Book.List)
			books.POST("", h.Book.Register)
			books.GET("/:id", h.Book.Get)
			books.PUT("/:id", h.Book.Update)
			books.DELETE("/:id", h.Book.Delete)
		}

		readers := authorized.Group("/readers")
		{
			readers.GET("", h.Reader.List)
			readers.POST("", h.Reader.Register)
			readers.GET("/:id", h.Reader.Get)
			readers.PUT("/:id", h.Reader.Update)
			readers.DELETE("/:id", h.Reader.Delete)
			readers.GET("/:id/lendings", h.Reader.Lendings)
		}

		lendings := authorized.Group("/lendings")
		{
			lendings.GET("", h.Lending.List)
			lendings.POST("/issue", h.Lending.Issue)
			lendings.GET("/open", h.Lending.Open)
			lendings.GET("/overdue", h.Lending.Overdue)
			lendings.GET("/:id", h.Lending.Get)
			lendings.PUT("/:id", h.Lending.Update)
			lendings.DELETE("/:id", h.Lending.Delete)
			lendings.POST("/:id/return", h.Lending.Return)
		}
	}

	return r
}

// useJSONFieldNames binding校验失败时使用json/form字段名
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}
