package httpapi

import (
	"net/http"

	"github.com/MrEthical07/stackguard"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig wires the optional parts of the router.
type RouterConfig struct {
	Logger         *zap.Logger
	MetricsHandler http.Handler
}

// NewRouter builds the service router: health, metrics and /auth.
func NewRouter(engine *stackguard.Engine, cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	NewAuthHandler(engine, log).Register(r)
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
