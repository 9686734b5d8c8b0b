package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Juanpgm/api-artefacto-360-dagma/config"
	"github.com/Juanpgm/api-artefacto-360-dagma/db"
	"github.com/Juanpgm/api-artefacto-360-dagma/services"
)

type Server struct {
	Config                   *config.Config
	AuthRepository           db.AuthRepository
	AuthService              services.AuthService
	ReconocimientoRepository db.ReconocimientoRepository
	ReconocimientoService    services.ReconocimientoService
	SeguimientoRepository    db.SeguimientoRepository
	SeguimientoService       services.SeguimientoService
	ParqueRepository         db.ParqueRepository
	PhotoRepository          db.PhotoRepository
	DB                       db.GormDB
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to five seconds.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
