package internal

import (
	"log/slog"

	"github.com/starling/noteboard/internal/mcpserver"
	"github.com/starling/noteboard/internal/noteservice"
)

// runMCP serves the board tools over MCP stdio instead of HTTP.
func runMCP(svc *noteservice.Service, logger *slog.Logger) error {
	srv := mcpserver.New(svc)
	logger.Info("Starting MCP server on stdio")
	return srv.ServeStdio()
}
