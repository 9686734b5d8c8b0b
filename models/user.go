package models

import (
	"errors"
	"time"

	goval "github.com/go-passwd/validator"
)

// User mirrors a Firebase account for a funcionario. Authentication itself
// is delegated to Firebase; this row only carries the profile fields the
// identity provider does not store.
type User struct {
	UID                string    `json:"uid" gorm:"type:varchar(128);primaryKey"`
	Email              string    `json:"email" gorm:"uniqueIndex"`
	FullName           string    `json:"full_name"`
	Cellphone          string    `json:"cellphone"`
	NombreCentroGestor string    `json:"nombre_centro_gestor"`
	Rol                string    `json:"rol" gorm:"default:funcionario"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type RegisterUserInput struct {
	Email              string `json:"email" binding:"required,email" conform:"trim,lower"`
	Password           string `json:"password" binding:"required"`
	FullName           string `json:"full_name" binding:"required" conform:"trim,title"`
	Cellphone          string `json:"cellphone" conform:"trim"`
	NombreCentroGestor string `json:"nombre_centro_gestor" conform:"trim"`
}

type LoginInput struct {
	IDToken string `json:"id_token" binding:"required" conform:"trim"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(8, errors.New("password cant be less than 8 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}
