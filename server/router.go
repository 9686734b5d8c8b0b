package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 10})
	limitAuth := limitRateForAuth(store)

	router.GET("/", s.handleRoot())
	router.GET("/ping", s.handlePing())
	router.GET("/health", s.handleHealth())

	router.GET("/init/parques", s.handleGetParques())
	router.POST("/grupo-operativo/reconocimiento", s.handleCreateReconocimiento())
	router.GET("/grupo-operativo/stats", s.handleDashboardStats())
	router.GET("/grupo-operativo/reportes", s.handleGetReportes())
	router.GET("/grupo-operativo/reportes/recent", s.handleGetRecentReportes())
	router.DELETE("/grupo-operativo/eliminar-reporte", s.handleDeleteReporte())

	apirouter := router.Group("/api/v1")
	apirouter.GET("/reportes/seguimiento", s.handleGetReportesSeguimiento())
	apirouter.GET("/reportes/seguimiento/estadisticas", s.handleGetEstadisticas())
	apirouter.POST("/reportes/:id/avance", s.handleRegistrarAvance())
	apirouter.PATCH("/reportes/:id/encargado", s.handleAsignarEncargado())
	apirouter.PATCH("/reportes/:id/prioridad", s.handleCambiarPrioridad())
	apirouter.GET("/reportes/:id/historial", s.handleGetHistorial())
	apirouter.GET("/reportes/:id", s.handleGetReporteCompleto())

	authrouter := router.Group("/auth")
	authrouter.POST("/register", limitAuth, s.handleRegister())
	authrouter.POST("/login", limitAuth, s.handleLogin())

	authorized := authrouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/config", s.handleAuthConfig())
	authorized.GET("/me", s.handleMe())
	authorized.GET("/users", s.handleListUsers())
	authorized.DELETE("/users/:uid", s.handleDeleteUser())
}
