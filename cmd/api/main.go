package main

import (
	"os"

	"github.com/yigit/placementcrm/internal/pkg/logger"
	"github.com/yigit/placementcrm/internal/server"
)

// @title Placement CRM API
// @version 1.0
// @description Student registration, job openings and placement matching for a training institute.

// @contact.name Placement Cell
// @contact.email placements@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions log the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
