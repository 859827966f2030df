package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// slowRequest 超过该耗时记录为慢请求
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
// 1. 生成(或沿用客户端传入的)请求ID,写入响应头
// 2. 把带request_id和trace_id的logger放进请求Context,后续通过logger.Ctx取用
// 3. 请求结束后记录方法、路径、状态码、耗时
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := c.Request.Context()
		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLog := base.With(fields...)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLog))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		entry := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			entry = append(entry, zap.String("errors", c.Errors.String()))
		}

		// 认证中间件可能追加了librarian_id字段
		reqLog = logger.Ctx(c.Request.Context())
		switch {
		case status >= 500:
			reqLog.Error("请求失败", entry...)
		case latency > slowRequest:
			reqLog.Warn("慢请求", entry...)
		default:
			reqLog.Info("请求完成", entry...)
		}
	}
}

// Recovery 捕获panic并返回500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Ctx(c.Request.Context()).Error("请求处理panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(500, gin.H{"code": 50000, "message": "系统内部错误"})
	})
}
