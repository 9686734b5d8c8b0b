package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

type SeguimientoRepository interface {
	GetSeguimiento(reporteID string) (*models.ReporteSeguimiento, error)
	UpsertSeguimiento(seguimiento *models.ReporteSeguimiento) error
	FindSeguimientos(filters models.SeguimientoFilters) ([]models.ReporteSeguimiento, error)
	AllSeguimientos() ([]models.ReporteSeguimiento, error)
	DeleteSeguimiento(reporteID string) error
	SaveHistorial(entry *models.HistorialAvance) error
	SaveEvidencias(evidencias []models.EvidenciaAvance) error
	HistorialByReporte(reporteID string) ([]models.HistorialAvance, error)
	EvidenciasByHistorial(historialID string) ([]models.EvidenciaAvance, error)
	HistorialSince(since time.Time) ([]models.HistorialAvance, error)
}

type seguimientoRepo struct {
	DB *gorm.DB
}

func NewSeguimientoRepo(db *GormDB) SeguimientoRepository {
	return &seguimientoRepo{db.DB}
}

// GetSeguimiento returns (nil, nil) when no projection exists yet; the
// service layer substitutes the notificado/media/0 defaults.
func (r *seguimientoRepo) GetSeguimiento(reporteID string) (*models.ReporteSeguimiento, error) {
	var seguimiento models.ReporteSeguimiento
	err := r.DB.Where("reporte_id = ?", reporteID).First(&seguimiento).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "fetching seguimiento")
	}
	return &seguimiento, nil
}

func (r *seguimientoRepo) UpsertSeguimiento(seguimiento *models.ReporteSeguimiento) error {
	if err := r.DB.Save(seguimiento).Error; err != nil {
		return errors.Wrap(err, "upserting seguimiento")
	}
	return nil
}

// FindSeguimientos pushes the equality filters down to the query. Date
// range and free-text filtering happen in memory at the service layer.
func (r *seguimientoRepo) FindSeguimientos(filters models.SeguimientoFilters) ([]models.ReporteSeguimiento, error) {
	var seguimientos []models.ReporteSeguimiento
	query := r.DB.Model(&models.ReporteSeguimiento{})
	if filters.Estado != "" {
		query = query.Where("estado = ?", filters.Estado)
	}
	if filters.Prioridad != "" {
		query = query.Where("prioridad = ?", filters.Prioridad)
	}
	if filters.Encargado != "" {
		query = query.Where("encargado = ?", filters.Encargado)
	}
	if err := query.Find(&seguimientos).Error; err != nil {
		return nil, errors.Wrap(err, "listing seguimientos")
	}
	return seguimientos, nil
}

func (r *seguimientoRepo) AllSeguimientos() ([]models.ReporteSeguimiento, error) {
	var seguimientos []models.ReporteSeguimiento
	if err := r.DB.Find(&seguimientos).Error; err != nil {
		return nil, errors.Wrap(err, "scanning seguimientos")
	}
	return seguimientos, nil
}

func (r *seguimientoRepo) DeleteSeguimiento(reporteID string) error {
	if err := r.DB.Where("reporte_id = ?", reporteID).Delete(&models.ReporteSeguimiento{}).Error; err != nil {
		return errors.Wrap(err, "deleting seguimiento")
	}
	return nil
}

func (r *seguimientoRepo) SaveHistorial(entry *models.HistorialAvance) error {
	if err := r.DB.Create(entry).Error; err != nil {
		return errors.Wrap(err, "saving historial")
	}
	return nil
}

func (r *seguimientoRepo) SaveEvidencias(evidencias []models.EvidenciaAvance) error {
	if len(evidencias) == 0 {
		return nil
	}
	if err := r.DB.Create(&evidencias).Error; err != nil {
		return errors.Wrap(err, "saving evidencias")
	}
	return nil
}

func (r *seguimientoRepo) HistorialByReporte(reporteID string) ([]models.HistorialAvance, error) {
	var historial []models.HistorialAvance
	err := r.DB.Where("reporte_id = ?", reporteID).Order("fecha DESC").Find(&historial).Error
	if err != nil {
		return nil, errors.Wrap(err, "fetching historial")
	}
	return historial, nil
}

func (r *seguimientoRepo) EvidenciasByHistorial(historialID string) ([]models.EvidenciaAvance, error) {
	var evidencias []models.EvidenciaAvance
	err := r.DB.Where("historial_avance_id = ?", historialID).Find(&evidencias).Error
	if err != nil {
		return nil, errors.Wrap(err, "fetching evidencias")
	}
	return evidencias, nil
}

func (r *seguimientoRepo) HistorialSince(since time.Time) ([]models.HistorialAvance, error) {
	var historial []models.HistorialAvance
	err := r.DB.Where("fecha >= ?", since).Order("fecha ASC").Find(&historial).Error
	if err != nil {
		return nil, errors.Wrap(err, "fetching historial window")
	}
	return historial, nil
}
