package http

import (
	stdhttp "net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/madax098/andrios12/internal/config"
	"github.com/madax098/andrios12/internal/core"
)

// NewRouter builds the gin engine: health, the websocket endpoint, and the
// static browser UI when a directory is configured.
func NewRouter(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	r.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(cfg.StaticDir, "index.html"))
		})
		logger.Info().Str("static", cfg.StaticDir).Msg("serving static ui")
	}

	return r
}
