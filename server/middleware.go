package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/existflow/quickadd/internal/logger"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// requestLogger logs every request and its response
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		logger.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)

		res := c.Response()
		logger.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return err
	}
}

// authMiddleware checks the bridge secret
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get secret from Authorization header
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, actionResponse{Error: "authorization required"})
		}

		secret := strings.TrimPrefix(auth, "Bearer ")
		if secret == auth {
			return c.JSON(http.StatusUnauthorized, actionResponse{Error: "invalid authorization format"})
		}

		hash, err := s.db.BridgeSecretHash(c.Request().Context())
		if err != nil {
			logger.Error("Failed to read bridge secret", logger.Err(err))
			return c.JSON(http.StatusInternalServerError, actionResponse{Error: "internal error"})
		}
		if hash == "" {
			return c.JSON(http.StatusServiceUnavailable,
				actionResponse{Error: "no bridge secret set, run 'quickadd bridge secret'"})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
			logger.Warn("Rejected bridge request", logger.F("remote", c.RealIP()))
			return c.JSON(http.StatusUnauthorized, actionResponse{Error: "invalid secret"})
		}
		return next(c)
	}
}
