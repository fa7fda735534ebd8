package http

import (
	stdhttp "net/http"

	"github.com/rs/zerolog"

	"github.com/madax098/andrios12/internal/config"
	"github.com/madax098/andrios12/internal/core"
)

// NewServer builds an HTTP server around the router.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(hub, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
