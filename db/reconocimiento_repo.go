package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

type ReconocimientoRepository interface {
	Save(reconocimiento *models.Reconocimiento) error
	FindByID(id string) (*models.Reconocimiento, error)
	FindAll(tipoIntervencion string) ([]models.Reconocimiento, error)
	FindRecent(limit int) ([]models.Reconocimiento, error)
	DeleteByID(id string) error
	CountCreatedSince(since time.Time) (int64, error)
	CountDistinctDireccionSince(since time.Time) (int64, error)
}

type reconocimientoRepo struct {
	DB *gorm.DB
}

func NewReconocimientoRepo(db *GormDB) ReconocimientoRepository {
	return &reconocimientoRepo{db.DB}
}

func (r *reconocimientoRepo) Save(reconocimiento *models.Reconocimiento) error {
	if err := r.DB.Create(reconocimiento).Error; err != nil {
		return errors.Wrap(err, "saving reconocimiento")
	}
	return nil
}

func (r *reconocimientoRepo) FindByID(id string) (*models.Reconocimiento, error) {
	var reconocimiento models.Reconocimiento
	if err := r.DB.Where("id = ?", id).First(&reconocimiento).Error; err != nil {
		return nil, err
	}
	return &reconocimiento, nil
}

// FindAll pushes the tipo_intervencion equality filter down to the query;
// everything else (search, dates) is filtered in memory by the service.
func (r *reconocimientoRepo) FindAll(tipoIntervencion string) ([]models.Reconocimiento, error) {
	var reconocimientos []models.Reconocimiento
	query := r.DB.Order("created_at DESC")
	if tipoIntervencion != "" {
		query = query.Where("tipo_intervencion = ?", tipoIntervencion)
	}
	if err := query.Find(&reconocimientos).Error; err != nil {
		return nil, errors.Wrap(err, "listing reconocimientos")
	}
	return reconocimientos, nil
}

func (r *reconocimientoRepo) FindRecent(limit int) ([]models.Reconocimiento, error) {
	var reconocimientos []models.Reconocimiento
	if err := r.DB.Order("created_at DESC").Limit(limit).Find(&reconocimientos).Error; err != nil {
		return nil, errors.Wrap(err, "listing recent reconocimientos")
	}
	return reconocimientos, nil
}

func (r *reconocimientoRepo) DeleteByID(id string) error {
	if err := r.DB.Where("id = ?", id).Delete(&models.Reconocimiento{}).Error; err != nil {
		return errors.Wrap(err, "deleting reconocimiento")
	}
	return nil
}

func (r *reconocimientoRepo) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Reconocimiento{}).Where("created_at >= ?", since).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting reconocimientos")
	}
	return count, nil
}

func (r *reconocimientoRepo) CountDistinctDireccionSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Reconocimiento{}).
		Where("created_at >= ?", since).
		Distinct("direccion").
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting direcciones visitadas")
	}
	return count, nil
}
