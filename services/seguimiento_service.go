package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/db"
	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

// transicionesPermitidas encodes the report lifecycle. Cerrado is
// terminal and reachable from every non-terminal estado.
var transicionesPermitidas = map[string][]string{
	models.EstadoNotificado: {models.EstadoRadicado, models.EstadoCerrado},
	models.EstadoRadicado:   {models.EstadoEnGestion, models.EstadoAsignado, models.EstadoCerrado},
	models.EstadoEnGestion:  {models.EstadoAsignado, models.EstadoEnProceso, models.EstadoCerrado},
	models.EstadoAsignado:   {models.EstadoEnProceso, models.EstadoCerrado},
	models.EstadoEnProceso:  {models.EstadoResuelto, models.EstadoCerrado},
	models.EstadoResuelto:   {models.EstadoCerrado},
	models.EstadoCerrado:    {},
}

// ValidarTransicion reports whether a report may move from estadoActual
// to estadoNuevo in a single step.
func ValidarTransicion(estadoActual, estadoNuevo string) bool {
	for _, permitido := range transicionesPermitidas[estadoActual] {
		if permitido == estadoNuevo {
			return true
		}
	}
	return false
}

// validarPorcentajeEstado enforces the floor each estado demands:
// resuelto needs at least 90, cerrado exactly 100.
func validarPorcentajeEstado(estado string, porcentaje int) bool {
	switch estado {
	case models.EstadoResuelto:
		return porcentaje >= 90
	case models.EstadoCerrado:
		return porcentaje == 100
	default:
		return porcentaje >= 0 && porcentaje <= 100
	}
}

type SeguimientoService interface {
	RegistrarAvance(reporteID string, input *models.AvanceInput) (string, *models.ReporteSeguimientoView, error)
	AsignarEncargado(reporteID string, input *models.EncargadoInput) (*models.ReporteSeguimientoView, error)
	CambiarPrioridad(reporteID string, input *models.PrioridadInput) (*models.ReporteSeguimientoView, error)
	GetHistorial(reporteID string) ([]models.HistorialView, error)
	GetReporteCompleto(reporteID string) (*models.ReporteSeguimientoView, error)
	GetReportesSeguimiento(filters models.SeguimientoFilters, page, limit int) ([]models.ReporteSeguimientoView, models.SeguimientoPagination, error)
	GetEstadisticas(fechaDesde, fechaHasta string) (*models.EstadisticasSeguimiento, error)
}

type seguimientoService struct {
	seguimientoRepo    db.SeguimientoRepository
	reconocimientoRepo db.ReconocimientoRepository
}

// NewSeguimientoService instantiates a SeguimientoService
func NewSeguimientoService(seguimientoRepo db.SeguimientoRepository, reconocimientoRepo db.ReconocimientoRepository) SeguimientoService {
	return &seguimientoService{
		seguimientoRepo:    seguimientoRepo,
		reconocimientoRepo: reconocimientoRepo,
	}
}

func (s *seguimientoService) findReconocimiento(reporteID string) (*models.Reconocimiento, error) {
	reconocimiento, err := s.reconocimientoRepo.FindByID(reporteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("No se encontró el reporte con ID: " + reporteID)
		}
		return nil, errs.ErrInternalServerError
	}
	return reconocimiento, nil
}

// currentSeguimiento returns the projection, or the notificado/media/0
// defaults for reports that have never had a lifecycle operation.
func (s *seguimientoService) currentSeguimiento(reporteID string) (*models.ReporteSeguimiento, error) {
	seguimiento, err := s.seguimientoRepo.GetSeguimiento(reporteID)
	if err != nil {
		return nil, errs.ErrInternalServerError
	}
	if seguimiento == nil {
		seguimiento = &models.ReporteSeguimiento{
			ReporteID:        reporteID,
			Estado:           models.EstadoNotificado,
			Prioridad:        models.PrioridadMedia,
			PorcentajeAvance: 0,
		}
	}
	return seguimiento, nil
}

// RegistrarAvance applies one lifecycle transition: it validates the move
// against the transition table and the percentage rules, appends an
// immutable historial entry and updates the projection, in that order.
func (s *seguimientoService) RegistrarAvance(reporteID string, input *models.AvanceInput) (string, *models.ReporteSeguimientoView, error) {
	if _, err := s.findReconocimiento(reporteID); err != nil {
		return "", nil, err
	}

	seguimiento, err := s.currentSeguimiento(reporteID)
	if err != nil {
		return "", nil, err
	}

	estadoAnterior := seguimiento.Estado
	porcentaje := *input.Porcentaje

	if !ValidarTransicion(estadoAnterior, input.EstadoNuevo) {
		return "", nil, errs.NewInvalidTransition(estadoAnterior, input.EstadoNuevo)
	}
	if porcentaje < seguimiento.PorcentajeAvance {
		return "", nil, errs.NewValidation(
			fmt.Sprintf("El porcentaje no puede retroceder. Actual: %d%%, Nuevo: %d%%", seguimiento.PorcentajeAvance, porcentaje),
			"porcentaje")
	}
	if !validarPorcentajeEstado(input.EstadoNuevo, porcentaje) {
		return "", nil, errs.NewValidation(
			fmt.Sprintf("Porcentaje inválido para el estado '%s'", input.EstadoNuevo),
			"porcentaje")
	}

	historial := &models.HistorialAvance{
		ID:             uuid.New().String(),
		ReporteID:      reporteID,
		Fecha:          time.Now().UTC(),
		Autor:          input.Autor,
		Descripcion:    input.Descripcion,
		EstadoAnterior: estadoAnterior,
		EstadoNuevo:    input.EstadoNuevo,
		Porcentaje:     porcentaje,
	}
	if err := s.seguimientoRepo.SaveHistorial(historial); err != nil {
		return "", nil, errs.ErrInternalServerError
	}

	if len(input.Evidencias) > 0 {
		evidencias := make([]models.EvidenciaAvance, 0, len(input.Evidencias))
		for _, ev := range input.Evidencias {
			evidencias = append(evidencias, models.EvidenciaAvance{
				ID:                uuid.New().String(),
				HistorialAvanceID: historial.ID,
				Tipo:              ev.Tipo,
				URL:               ev.URL,
				Descripcion:       ev.Descripcion,
			})
		}
		if err := s.seguimientoRepo.SaveEvidencias(evidencias); err != nil {
			return "", nil, errs.ErrInternalServerError
		}
	}

	seguimiento.Estado = input.EstadoNuevo
	seguimiento.PorcentajeAvance = porcentaje
	if err := s.seguimientoRepo.UpsertSeguimiento(seguimiento); err != nil {
		return "", nil, errs.ErrInternalServerError
	}

	view, err := s.GetReporteCompleto(reporteID)
	if err != nil {
		return "", nil, err
	}
	return historial.ID, view, nil
}

// AsignarEncargado sets the responsible person and centro gestor without
// touching estado or porcentaje. Re-assigning is idempotent.
func (s *seguimientoService) AsignarEncargado(reporteID string, input *models.EncargadoInput) (*models.ReporteSeguimientoView, error) {
	if _, err := s.findReconocimiento(reporteID); err != nil {
		return nil, err
	}
	seguimiento, err := s.currentSeguimiento(reporteID)
	if err != nil {
		return nil, err
	}

	seguimiento.Encargado = &input.Encargado
	seguimiento.CentroGestor = &input.CentroGestor
	if err := s.seguimientoRepo.UpsertSeguimiento(seguimiento); err != nil {
		return nil, errs.ErrInternalServerError
	}
	return s.GetReporteCompleto(reporteID)
}

func (s *seguimientoService) CambiarPrioridad(reporteID string, input *models.PrioridadInput) (*models.ReporteSeguimientoView, error) {
	if _, err := s.findReconocimiento(reporteID); err != nil {
		return nil, err
	}
	seguimiento, err := s.currentSeguimiento(reporteID)
	if err != nil {
		return nil, err
	}

	seguimiento.Prioridad = input.Prioridad
	if err := s.seguimientoRepo.UpsertSeguimiento(seguimiento); err != nil {
		return nil, errs.ErrInternalServerError
	}
	return s.GetReporteCompleto(reporteID)
}

// GetHistorial lists the report's transitions newest first, each with its
// evidencias.
func (s *seguimientoService) GetHistorial(reporteID string) ([]models.HistorialView, error) {
	if _, err := s.findReconocimiento(reporteID); err != nil {
		return nil, err
	}

	historial, err := s.seguimientoRepo.HistorialByReporte(reporteID)
	if err != nil {
		return nil, errs.ErrInternalServerError
	}

	views := make([]models.HistorialView, 0, len(historial))
	for _, entry := range historial {
		evidencias, err := s.seguimientoRepo.EvidenciasByHistorial(entry.ID)
		if err != nil {
			return nil, errs.ErrInternalServerError
		}
		views = append(views, models.HistorialView{HistorialAvance: entry, Evidencias: evidencias})
	}
	return views, nil
}

// GetReporteCompleto assembles the base visit, the projection and the
// full historial into one view.
func (s *seguimientoService) GetReporteCompleto(reporteID string) (*models.ReporteSeguimientoView, error) {
	reconocimiento, err := s.findReconocimiento(reporteID)
	if err != nil {
		return nil, err
	}
	seguimiento, err := s.currentSeguimiento(reporteID)
	if err != nil {
		return nil, err
	}
	historial, err := s.GetHistorial(reporteID)
	if err != nil {
		return nil, err
	}

	return &models.ReporteSeguimientoView{
		ReconocimientoView: reconocimiento.View(),
		Estado:             seguimiento.Estado,
		Prioridad:          seguimiento.Prioridad,
		PorcentajeAvance:   seguimiento.PorcentajeAvance,
		Encargado:          seguimiento.Encargado,
		CentroGestor:       seguimiento.CentroGestor,
		Historial:          historial,
	}, nil
}

// GetReportesSeguimiento lists tracked reports. Estado, prioridad and
// encargado are query filters; the date range applies to the base visit's
// creation date and is filtered here, then the page is sliced out.
func (s *seguimientoService) GetReportesSeguimiento(filters models.SeguimientoFilters, page, limit int) ([]models.ReporteSeguimientoView, models.SeguimientoPagination, error) {
	seguimientos, err := s.seguimientoRepo.FindSeguimientos(filters)
	if err != nil {
		return nil, models.SeguimientoPagination{}, errs.ErrInternalServerError
	}

	desde, hasta, err := parseDateRange(filters.FechaDesde, filters.FechaHasta)
	if err != nil {
		return nil, models.SeguimientoPagination{}, err
	}

	views := make([]models.ReporteSeguimientoView, 0, len(seguimientos))
	for _, seg := range seguimientos {
		view, err := s.GetReporteCompleto(seg.ReporteID)
		if err != nil {
			// an orphaned projection should not break the listing
			log.Printf("skipping seguimiento %s: %v", seg.ReporteID, err)
			continue
		}
		created, err := time.Parse(time.RFC3339, view.CreatedAt)
		if err != nil {
			log.Printf("skipping seguimiento %s: bad created_at %q", seg.ReporteID, view.CreatedAt)
			continue
		}
		if desde != nil && created.Before(*desde) {
			continue
		}
		if hasta != nil && !created.Before(*hasta) {
			continue
		}
		views = append(views, *view)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	total := len(views)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pagination := models.SeguimientoPagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
	return views[start:end], pagination, nil
}

// parseDateRange turns YYYY-MM-DD bounds into UTC instants; hasta is
// pushed one day forward so the whole closing day is included.
func parseDateRange(fechaDesde, fechaHasta string) (*time.Time, *time.Time, error) {
	var desde, hasta *time.Time
	if fechaDesde != "" {
		t, err := time.Parse("2006-01-02", fechaDesde)
		if err != nil {
			return nil, nil, errs.NewValidation("Fecha inválida: "+fechaDesde, "fecha_desde")
		}
		desde = &t
	}
	if fechaHasta != "" {
		t, err := time.Parse("2006-01-02", fechaHasta)
		if err != nil {
			return nil, nil, errs.NewValidation("Fecha inválida: "+fechaHasta, "fecha_hasta")
		}
		t = t.AddDate(0, 0, 1)
		hasta = &t
	}
	return desde, hasta, nil
}

// GetEstadisticas aggregates the full projection set: totals per estado
// and prioridad, integer average progress, per-centro-gestor resolution
// counts and a 30-day transition trend bucketed by day.
func (s *seguimientoService) GetEstadisticas(fechaDesde, fechaHasta string) (*models.EstadisticasSeguimiento, error) {
	desde, hasta, err := parseDateRange(fechaDesde, fechaHasta)
	if err != nil {
		return nil, err
	}

	seguimientos, err := s.seguimientoRepo.AllSeguimientos()
	if err != nil {
		return nil, errs.ErrInternalServerError
	}

	porEstado := make(map[string]int, len(models.Estados))
	for _, estado := range models.Estados {
		porEstado[estado] = 0
	}
	porPrioridad := make(map[string]int, len(models.Prioridades))
	for _, prioridad := range models.Prioridades {
		porPrioridad[prioridad] = 0
	}

	total := 0
	sumaAvance := 0
	centros := make(map[string]*models.CentroGestorStats)
	var centroOrder []string

	for _, seg := range seguimientos {
		created := seg.CreatedAt.UTC()
		if desde != nil && created.Before(*desde) {
			continue
		}
		if hasta != nil && !created.Before(*hasta) {
			continue
		}

		total++
		sumaAvance += seg.PorcentajeAvance
		porEstado[seg.Estado]++
		porPrioridad[seg.Prioridad]++

		if seg.CentroGestor != nil && strings.TrimSpace(*seg.CentroGestor) != "" {
			nombre := *seg.CentroGestor
			stats, ok := centros[nombre]
			if !ok {
				stats = &models.CentroGestorStats{Nombre: nombre}
				centros[nombre] = stats
				centroOrder = append(centroOrder, nombre)
			}
			stats.Total++
			switch seg.Estado {
			case models.EstadoResuelto, models.EstadoCerrado:
				stats.Resueltos++
			case models.EstadoEnProceso:
				stats.EnProceso++
			}
		}
	}

	avancePromedio := 0
	if total > 0 {
		avancePromedio = sumaAvance / total
	}

	porCentroGestor := make([]models.CentroGestorStats, 0, len(centroOrder))
	for _, nombre := range centroOrder {
		porCentroGestor = append(porCentroGestor, *centros[nombre])
	}

	tendencia, err := s.tendenciaUltimos30Dias()
	if err != nil {
		return nil, err
	}

	return &models.EstadisticasSeguimiento{
		TotalReportes:   total,
		AvancePromedio:  avancePromedio,
		PorEstado:       porEstado,
		PorPrioridad:    porPrioridad,
		PorCentroGestor: porCentroGestor,
		Tendencia:       tendencia,
	}, nil
}

// tendenciaUltimos30Dias buckets the last 30 days of transitions by day.
// A "nuevo" is a report leaving notificado, a "resuelto" is any move into
// resuelto or cerrado.
func (s *seguimientoService) tendenciaUltimos30Dias() ([]models.TendenciaDia, error) {
	since := time.Now().UTC().AddDate(0, 0, -30)
	historial, err := s.seguimientoRepo.HistorialSince(since)
	if err != nil {
		return nil, errs.ErrInternalServerError
	}

	dias := make(map[string]*models.TendenciaDia)
	var order []string
	for _, entry := range historial {
		fecha := entry.Fecha.UTC().Format("2006-01-02")
		dia, ok := dias[fecha]
		if !ok {
			dia = &models.TendenciaDia{Fecha: fecha}
			dias[fecha] = dia
			order = append(order, fecha)
		}
		if entry.EstadoAnterior == models.EstadoNotificado && entry.EstadoNuevo != models.EstadoNotificado {
			dia.Nuevos++
		}
		if entry.EstadoNuevo == models.EstadoResuelto || entry.EstadoNuevo == models.EstadoCerrado {
			dia.Resueltos++
		}
	}

	tendencia := make([]models.TendenciaDia, 0, len(order))
	for _, fecha := range order {
		tendencia = append(tendencia, *dias[fecha])
	}
	return tendencia, nil
}
