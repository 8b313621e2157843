// Main entry point for the celestial observation service
package main

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"celestial-api/internal/config"
	"celestial-api/internal/constellation"
	"celestial-api/internal/ephemeris"
	"celestial-api/internal/handlers"
	"celestial-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// Load the ephemeris once; the provider is immutable afterwards and
	// shared by all requests.
	provider := ephemeris.NewProvider(cfg.DatasetsDir)
	log.Printf("Ephemeris loaded (dataset: %s)", provider.DataSet())

	// Constellation boundary catalog; the resolver degrades to the
	// basic method if the catalog file is absent.
	resolver := constellation.Load(filepath.Join(cfg.DatasetsDir, "constellation_boundaries.dat"))
	if resolver.PreciseAvailable() {
		log.Println("Constellation boundary catalog loaded")
	}

	// Initialize services
	moonService := services.NewMoonService(provider, resolver, cfg.RiseSetSearchDays)
	marsService := services.NewMarsService(provider, resolver, cfg.RiseSetSearchDays)

	// Setup HTTP server
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Setup routes
	handler := handlers.NewHandler(moonService, marsService)
	handlers.SetupRoutes(r, handler)

	// Start server
	log.Printf("celestial-api service listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
