package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"fraudgraph-backend/pkg/auth"
	"fraudgraph-backend/pkg/common"
	apperrors "fraudgraph-backend/pkg/errors"
)

// AuthHandler issues development tokens. It is only mounted outside
// production; real deployments obtain tokens from the identity provider.
type AuthHandler struct {
	generator *auth.JWTGenerator
	logger    *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(generator *auth.JWTGenerator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		generator: generator,
		logger:    logger,
	}
}

// TokenRequest is the body of POST /api/v1/auth/token
type TokenRequest struct {
	UserID string   `json:"userId" validate:"required"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Roles  []string `json:"roles"`
}

// TokenResponse carries the issued token
type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken handles POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.generator.GenerateToken(req.UserID, req.Email, req.Roles)
	if err != nil {
		common.RespondAppError(w, apperrors.NewInternalError("could not issue token"))
		return
	}

	h.logger.Info("development token issued", zap.String("userId", req.UserID))
	common.RespondJSON(w, http.StatusOK, TokenResponse{Token: token})
}
