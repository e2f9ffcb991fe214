package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"accord/internal/crypto"
	"accord/internal/domain"
)

func (s *Server) putProfile(c *gin.Context) {
	user := domain.UserID(c.Param("userID"))
	if err := user.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if req.EncryptionPublicKey != "" {
		// Keys are derived from the user ID, so only the derived key is accepted.
		want, err := crypto.ExpectedPublicKey(user)
		if err != nil {
			s.fail(c, err)
			return
		}
		if req.EncryptionPublicKey != want {
			s.fail(c, fmt.Errorf("public key for %q is not the derived key: %w", user, domain.ErrInvalidKey))
			return
		}
	}

	ctx := c.Request.Context()
	profile, err := s.deps.Profiles.GetProfile(ctx, user)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		profile = domain.Profile{UserID: user}
	case err != nil:
		s.fail(c, err)
		return
	}
	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}
	if req.EncryptionPublicKey != "" {
		profile.EncryptionPublicKey = req.EncryptionPublicKey
	}
	if err := s.deps.Profiles.SaveProfile(ctx, profile); err != nil {
		s.fail(c, err)
		return
	}
	saved, err := s.deps.Profiles.GetProfile(ctx, user)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) getPublicKey(c *gin.Context) {
	user := domain.UserID(c.Param("userID"))
	if err := user.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	key, ok, err := s.deps.Profiles.PublicKey(c.Request.Context(), user)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no public key for " + user.String()})
		return
	}
	c.JSON(http.StatusOK, PublicKeyResponse{UserID: user, PublicKey: key})
}

func (s *Server) postMessage(c *gin.Context) {
	var msg domain.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if err := msg.SenderID.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	if err := msg.RecipientID.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	if msg.Kind == "" {
		msg.Kind = domain.MessageText
	}
	if !msg.Kind.Valid() || msg.Content == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message needs a known kind and content"})
		return
	}
	if msg.ID == "" {
		msg.ID = domain.MessageID(uuid.NewString())
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := s.deps.Messages.SaveMessage(c.Request.Context(), msg); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *Server) listMessages(c *gin.Context) {
	user := domain.UserID(c.Query("user"))
	peer := domain.UserID(c.Query("peer"))
	for _, id := range []domain.UserID{user, peer} {
		if err := id.Validate(); err != nil {
			s.fail(c, err)
			return
		}
	}
	msgs, err := s.deps.Messages.ListConversation(c.Request.Context(), user, peer)
	if err != nil {
		s.fail(c, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	c.JSON(http.StatusOK, MessagesResponse{Messages: msgs})
}

func (s *Server) migrateKeys(c *gin.Context) {
	opts := domain.MigrationOptions{}
	if v := c.Query("dryRun"); v != "" {
		dry, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "dryRun must be a boolean"})
			return
		}
		opts.DryRun = dry
	}
	if v := c.Query("concurrency"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "concurrency must be an integer"})
			return
		}
		opts.Concurrency = n
	}

	caller := c.MustGet(callerKey).(domain.Profile)
	s.log.WithUser(caller.UserID).Info("key migration requested")

	sum, err := s.deps.Migration.Run(c.Request.Context(), opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoPublicKey):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrMalformedIdentifier), errors.Is(err, domain.ErrInvalidKey):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		s.log.Error(err, "request failed")
		c.JSON(status, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
