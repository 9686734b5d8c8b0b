package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/models"
	"github.com/Juanpgm/api-artefacto-360-dagma/server/response"
)

func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.RegisterUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}
		if err := conform.Strings(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}

		registered, err := s.AuthService.Register(c.Request.Context(), &input)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "Usuario registrado exitosamente", http.StatusCreated, registered, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.NewValidation(err.Error(), ""))
			return
		}

		user, err := s.AuthService.Login(c.Request.Context(), input.IDToken)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, gin.H{"user": user}, nil)
	}
}

// handleAuthConfig hands the Firebase web config to authenticated clients
// so the frontend can initialize its SDK without baking keys in.
func (s *Server) handleAuthConfig() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "", http.StatusOK, gin.H{
			"apiKey":        s.Config.FirebaseApiKey,
			"authDomain":    s.Config.FirebaseAuthDomain,
			"projectId":     s.Config.FirebaseProjectID,
			"storageBucket": s.Config.FirebaseStorageBucket,
		}, nil)
	}
}

func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("uid")
		user, err := s.AuthService.GetUser(c.Request.Context(), uid)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"user": user}, nil)
	}
}

func (s *Server) handleListUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.AuthService.ListUsers(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"users": users, "total": len(users)}, nil)
	}
}

func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.Param("uid")
		if err := s.AuthService.DeleteUser(c.Request.Context(), uid); err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "Usuario eliminado exitosamente", http.StatusOK, nil, nil)
	}
}
