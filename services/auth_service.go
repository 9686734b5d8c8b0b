package services

import (
	"context"
	"net/http"

	"firebase.google.com/go/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"gorm.io/gorm"

	"github.com/Juanpgm/api-artefacto-360-dagma/db"
	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
)

// RegisteredUser is what a successful registration returns: the stored
// profile plus a Firebase custom token the client exchanges for an ID token.
type RegisteredUser struct {
	User        *models.User `json:"user"`
	CustomToken string       `json:"custom_token"`
}

type AuthService interface {
	Register(ctx context.Context, input *models.RegisterUserInput) (*RegisteredUser, error)
	Login(ctx context.Context, idToken string) (*models.User, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, uid string) error
}

type authService struct {
	firebaseAuth *auth.Client
	authRepo     db.AuthRepository
}

// NewAuthService instantiates an AuthService
func NewAuthService(firebaseAuth *auth.Client, authRepo db.AuthRepository) AuthService {
	return &authService{
		firebaseAuth: firebaseAuth,
		authRepo:     authRepo,
	}
}

// Register creates the Firebase account, stores the profile row and mints
// a custom token for the new funcionario.
func (a *authService) Register(ctx context.Context, input *models.RegisterUserInput) (*RegisteredUser, error) {
	if err := models.ValidatePassword(input.Password); err != nil {
		return nil, errs.NewValidation(err.Error(), "password")
	}

	params := (&auth.UserToCreate{}).
		Email(input.Email).
		Password(input.Password).
		DisplayName(input.FullName)
	record, err := a.firebaseAuth.CreateUser(ctx, params)
	if err != nil {
		return nil, errs.New("No se pudo crear la cuenta: "+err.Error(), http.StatusBadRequest)
	}

	user := &models.User{
		UID:                record.UID,
		Email:              input.Email,
		FullName:           input.FullName,
		Cellphone:          input.Cellphone,
		NombreCentroGestor: input.NombreCentroGestor,
		Rol:                "funcionario",
	}
	if err := a.authRepo.CreateUser(user); err != nil {
		return nil, errs.ErrInternalServerError
	}

	token, err := a.firebaseAuth.CustomToken(ctx, record.UID)
	if err != nil {
		return nil, errs.ErrInternalServerError
	}

	return &RegisteredUser{User: user, CustomToken: token}, nil
}

// Login verifies the Firebase ID token and returns the stored profile,
// creating the row on first login for accounts provisioned elsewhere.
func (a *authService) Login(ctx context.Context, idToken string) (*models.User, error) {
	token, err := a.firebaseAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, errs.New("token inválido o expirado", http.StatusUnauthorized)
	}

	user, err := a.authRepo.FindUserByUID(token.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrInternalServerError
	}

	record, err := a.firebaseAuth.GetUser(ctx, token.UID)
	if err != nil {
		return nil, errs.ErrInternalServerError
	}
	user = &models.User{
		UID:      record.UID,
		Email:    record.Email,
		FullName: record.DisplayName,
		Rol:      "funcionario",
	}
	if err := a.authRepo.CreateUser(user); err != nil {
		return nil, errs.ErrInternalServerError
	}
	return user, nil
}

func (a *authService) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return a.firebaseAuth.VerifyIDToken(ctx, idToken)
}

func (a *authService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := a.authRepo.FindUserByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("No se encontró el usuario: " + uid)
		}
		return nil, errs.ErrInternalServerError
	}
	return user, nil
}

// ListUsers walks the Firebase account list and overlays the stored
// profile row when one exists.
func (a *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	iter := a.firebaseAuth.Users(ctx, "")
	for {
		record, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.ErrInternalServerError
		}

		if stored, err := a.authRepo.FindUserByUID(record.UID); err == nil {
			users = append(users, *stored)
			continue
		}
		users = append(users, models.User{
			UID:      record.UID,
			Email:    record.Email,
			FullName: record.DisplayName,
			Rol:      "funcionario",
		})
	}
	return users, nil
}

// DeleteUser removes the Firebase account and the profile row.
func (a *authService) DeleteUser(ctx context.Context, uid string) error {
	if err := a.firebaseAuth.DeleteUser(ctx, uid); err != nil {
		return errs.New("No se pudo eliminar la cuenta: "+err.Error(), http.StatusBadRequest)
	}
	if err := a.authRepo.DeleteUserByUID(uid); err != nil {
		return errs.ErrInternalServerError
	}
	return nil
}
