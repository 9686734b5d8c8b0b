package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	errs "github.com/Juanpgm/api-artefacto-360-dagma/errors"
	"github.com/Juanpgm/api-artefacto-360-dagma/server/response"
)

// Authorize verifies the Firebase ID token in the Authorization header and
// loads the caller's profile into the context.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		idToken := getTokenFromHeader(c)
		if idToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		token, err := s.AuthService.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		user, err := s.AuthService.GetUser(c.Request.Context(), token.UID)
		if err != nil {
			respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		c.Set("uid", token.UID)
		c.Set("user", user)
		c.Set("access_token", idToken)
		c.Next()
	}
}

func limitRateForAuth(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			respondAndAbort(c, "Demasiadas solicitudes, intente más tarde", http.StatusTooManyRequests, nil,
				errs.New("too many requests", http.StatusTooManyRequests))
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		BeforeResponse: nil,
	})
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return authHeader[7:]
	}
	return ""
}
