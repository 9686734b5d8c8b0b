package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":       "API Artefacto 360 DAGMA",
			"version":       "1.0.0",
			"status":        "running",
			"documentation": "/health",
		})
	}
}

func (s *Server) handlePing() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
}

// handleHealth reports database connectivity alongside the service status.
func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		if s.DB.DB != nil {
			if sqlDB, err := s.DB.DB.DB(); err != nil || sqlDB.Ping() != nil {
				dbStatus = "unavailable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
