package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

type ParqueRepository interface {
	FindAll() ([]models.Parque, error)
}

type parqueRepo struct {
	DB *gorm.DB
}

func NewParqueRepo(db *GormDB) ParqueRepository {
	return &parqueRepo{db.DB}
}

func (p *parqueRepo) FindAll() ([]models.Parque, error) {
	var parques []models.Parque
	if err := p.DB.Order("nombre ASC").Find(&parques).Error; err != nil {
		return nil, errors.Wrap(err, "listing parques")
	}
	return parques, nil
}
