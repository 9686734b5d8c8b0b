package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

type AuthRepository interface {
	CreateUser(user *models.User) error
	FindUserByUID(uid string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUserByUID(uid string) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) error {
	if err := a.DB.Create(user).Error; err != nil {
		return errors.Wrap(err, "creating user")
	}
	return nil
}

func (a *authRepo) FindUserByUID(uid string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	if err := a.DB.Save(user).Error; err != nil {
		return errors.Wrap(err, "updating user")
	}
	return nil
}

func (a *authRepo) DeleteUserByUID(uid string) error {
	if err := a.DB.Where("uid = ?", uid).Delete(&models.User{}).Error; err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return nil
}
