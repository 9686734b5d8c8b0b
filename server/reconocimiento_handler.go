package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
	"github.com/Juanpgm/api-artefacto-360-dagma/server/response"
	"github.com/Juanpgm/api-artefacto-360-dagma/services"
)

const (
	DefaultPageSize = 50
	DefaultPage     = 1
)

func (s *Server) handleGetParques() gin.HandlerFunc {
	return func(c *gin.Context) {
		parques, err := s.ReconocimientoService.GetParques()
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"data":      parques,
			"count":     len(parques),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// handleCreateReconocimiento receives the multipart form from the field
// app: text fields plus a "photos" file list.
func (s *Server) handleCreateReconocimiento() gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation("Formulario multipart inválido", ""))
			return
		}

		input := &services.CreateReconocimientoInput{
			TipoIntervencion:        c.PostForm("tipo_intervencion"),
			DescripcionIntervencion: c.PostForm("descripcion_intervencion"),
			Direccion:               c.PostForm("direccion"),
			Observaciones:           c.PostForm("observaciones"),
			CoordinatesType:         c.PostForm("coordinates_type"),
			CoordinatesData:         c.PostForm("coordinates_data"),
		}
		for field, value := range map[string]string{
			"tipo_intervencion":        input.TipoIntervencion,
			"descripcion_intervencion": input.DescripcionIntervencion,
			"direccion":                input.Direccion,
			"coordinates_type":         input.CoordinatesType,
		} {
			if value == "" {
				response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(field+" es requerido", field))
				return
			}
		}

		view, svcErr := s.ReconocimientoService.CreateReconocimiento(input, form.File["photos"])
		if svcErr != nil {
			respondServiceError(c, svcErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"id":              view.ID,
			"message":         "Reconocimiento registrado exitosamente",
			"coordinates":     view.Coordinates,
			"photosUrl":       view.PhotosURL,
			"thumbnailsUrl":   view.ThumbnailsURL,
			"photos_uploaded": view.PhotosUploaded,
			"timestamp":       view.Timestamp,
		})
	}
}

func (s *Server) handleGetReportes() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := models.ReporteFilters{
			Year:   queryInt(c, "year", 0),
			Month:  queryInt(c, "month", 0),
			Search: c.Query("search"),
			Type:   c.Query("type"),
		}
		page := queryInt(c, "page", DefaultPage)
		limit := queryInt(c, "limit", DefaultPageSize)

		reportes, pagination, err := s.ReconocimientoService.GetReportes(filters, page, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"data":       reportes,
			"pagination": pagination,
			"filters":    filters,
		})
	}
}

func (s *Server) handleGetRecentReportes() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 3)
		reportes, err := s.ReconocimientoService.GetRecentReportes(limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"data":      reportes,
			"count":     len(reportes),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (s *Server) handleDashboardStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := s.ReconocimientoService.GetDashboardStats()
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    stats,
		})
	}
}

// handleDeleteReporte deletes the photos, the report and its tracking
// projection. Unknown ids still succeed with photos_deleted=0.
func (s *Server) handleDeleteReporte() gin.HandlerFunc {
	return func(c *gin.Context) {
		reporteID := c.Query("reporte_id")
		if reporteID == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation("reporte_id es requerido", "reporte_id"))
			return
		}

		photosDeleted, err := s.ReconocimientoService.DeleteReporte(reporteID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"id":             reporteID,
			"message":        "Reporte eliminado exitosamente",
			"photos_deleted": photosDeleted,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// respondServiceError maps a service error onto the response envelope,
// keeping the status the service chose.
func respondServiceError(c *gin.Context, err error) {
	if e, ok := err.(*errs.Error); ok {
		response.JSON(c, "", e.Status, nil, e)
		return
	}
	response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
}
