package server

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"accord/internal/domain"
	"accord/internal/services/migration"
)

const callerKey = "accord.caller"

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Request(
			c.Request.Method,
			c.FullPath(),
			c.ClientIP(),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
		)
	}
}

// requireAdmin checks the bearer token, then that X-Accord-User names an
// admin profile. Both checks run before the handler.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.validToken(c.GetHeader(HeaderAuthorization)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid admin token"})
			return
		}

		user := domain.UserID(c.GetHeader(HeaderUser))
		if err := user.Validate(); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing " + HeaderUser})
			return
		}
		caller, err := s.deps.Profiles.GetProfile(c.Request.Context(), user)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.fail(c, err)
			c.Abort()
			return
		}
		if err := migration.Authorize(caller); err != nil {
			s.log.WithUser(user).Warn("admin route refused")
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "admin access required"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

func (s *Server) validToken(header string) bool {
	if s.deps.AdminToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.deps.AdminToken)) == 1
}
