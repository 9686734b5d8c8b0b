package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
	"github.com/Juanpgm/api-artefacto-360-dagma/server/response"
)

// handleRegistrarAvance applies one lifecycle transition to a report.
func (s *Server) handleRegistrarAvance() gin.HandlerFunc {
	return func(c *gin.Context) {
		reporteID := c.Param("id")

		var input models.AvanceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}
		if err := conform.Strings(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}

		historialID, reporte, err := s.SeguimientoService.RegistrarAvance(reporteID, &input)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Avance registrado exitosamente",
			"data": gin.H{
				"historial_id":        historialID,
				"reporte_actualizado": reporte,
			},
		})
	}
}

func (s *Server) handleAsignarEncargado() gin.HandlerFunc {
	return func(c *gin.Context) {
		reporteID := c.Param("id")

		var input models.EncargadoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}
		if err := conform.Strings(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}

		reporte, err := s.SeguimientoService.AsignarEncargado(reporteID, &input)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Encargado asignado exitosamente",
			"data":    reporte,
		})
	}
}

func (s *Server) handleCambiarPrioridad() gin.HandlerFunc {
	return func(c *gin.Context) {
		reporteID := c.Param("id")

		var input models.PrioridadInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}
		if err := conform.Strings(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}

		reporte, err := s.SeguimientoService.CambiarPrioridad(reporteID, &input)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Prioridad actualizada exitosamente",
			"data":    reporte,
		})
	}
}

func (s *Server) handleGetHistorial() gin.HandlerFunc {
	return func(c *gin.Context) {
		reporteID := c.Param("id")

		historial, err := s.SeguimientoService.GetHistorial(reporteID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"reporte_id": reporteID,
				"historial":  historial,
			},
		})
	}
}

func (s *Server) handleGetReporteCompleto() gin.HandlerFunc {
	return func(c *gin.Context) {
		reporte, err := s.SeguimientoService.GetReporteCompleto(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    reporte,
		})
	}
}

func (s *Server) handleGetReportesSeguimiento() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := models.SeguimientoFilters{
			Estado:     c.Query("estado"),
			Prioridad:  c.Query("prioridad"),
			Encargado:  c.Query("encargado"),
			FechaDesde: c.Query("fecha_desde"),
			FechaHasta: c.Query("fecha_hasta"),
		}
		page := queryInt(c, "page", DefaultPage)
		limit := queryInt(c, "limit", DefaultPageSize)

		reportes, pagination, err := s.SeguimientoService.GetReportesSeguimiento(filters, page, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       reportes,
			"pagination": pagination,
		})
	}
}

func (s *Server) handleGetEstadisticas() gin.HandlerFunc {
	return func(c *gin.Context) {
		estadisticas, err := s.SeguimientoService.GetEstadisticas(c.Query("fecha_desde"), c.Query("fecha_hasta"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    estadisticas,
		})
	}
}
