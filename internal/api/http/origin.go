package http

import (
	"strings"

	"github.com/immersio/meet-relay/internal/config"
)

// originAllowed gates websocket upgrades with the same allow-list the CORS
// middleware applies to REST calls. Requests without an Origin header
// (server-to-server, native clients) pass; browsers always send one. The
// local env is fully permissive.
func originAllowed(cfg *config.Config, origin string) bool {
	if origin == "" {
		return true
	}
	if cfg.Env == "local" {
		return true
	}
	for _, allowed := range cfg.CORS.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
