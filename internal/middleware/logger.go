package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

func RequestLogger(ctx *gin.Context) {
	requestId := ctx.GetHeader(RequestIdHeader)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	ctx.Header(RequestIdHeader, requestId)

	start := time.Now()
	ctx.Next()

	slog.Info("request",
		"request_id", requestId,
		"method", ctx.Request.Method,
		"path", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"latency", time.Since(start),
	)
}
