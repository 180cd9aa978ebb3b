package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-courier/utils"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateJWT(payload map[string]interface{}) (string, error)
}

// AuthController issues session tokens
type AuthController struct {
	Tokens TokenIssuer
	log    *slog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(tokens TokenIssuer, log *slog.Logger) *AuthController {
	return &AuthController{Tokens: tokens, log: log}
}

// IssueToken signs the posted identity payload; it must carry an email
func (ac *AuthController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	token, err := ac.Tokens.GenerateJWT(payload)
	if err != nil {
		if errors.Is(err, utils.ErrMissingEmail) {
			writeMessage(w, http.StatusBadRequest, "email is required")
			return
		}
		writeError(w, r, ac.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Ready answers the liveness check
func Ready(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Courier service is ready")
}
