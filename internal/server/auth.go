package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"paintbrawl/internal/protocol"
	"paintbrawl/internal/store"
)

// AuthStore is the account surface of the persistence layer.
type AuthStore interface {
	AccountByUsername(ctx context.Context, username string) (store.Account, error)
	CreateAccount(ctx context.Context, username, passwordHash string) error
	LastPlayer(ctx context.Context, accountID int) (*protocol.PlayerSnapshot, error)
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	AccountID int    `json:"accountId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// LoginHandler verifies credentials and returns the account id that
// gates create and control_player intents.
func LoginHandler(auth AuthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req authRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, authResponse{Error: "Invalid JSON"})
			return
		}

		account, err := auth.AccountByUsername(r.Context(), req.Username)
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusUnauthorized, authResponse{Error: "Invalid credentials"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, authResponse{Error: "Database error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
			writeJSON(w, http.StatusUnauthorized, authResponse{Error: "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, authResponse{AccountID: account.ID})
	}
}

// RegisterHandler creates an account with a bcrypt password hash.
func RegisterHandler(auth AuthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req authRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, authResponse{Error: "Invalid JSON"})
			return
		}
		if len(req.Username) < 3 || len(req.Password) < 6 {
			writeJSON(w, http.StatusBadRequest, authResponse{
				Error: "Username must be at least 3 characters, password at least 6",
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, authResponse{Error: "Password hashing failed"})
			return
		}

		if err := auth.CreateAccount(r.Context(), req.Username, string(hash)); err != nil {
			writeJSON(w, http.StatusConflict, authResponse{Error: "Username already exists"})
			return
		}
		writeJSON(w, http.StatusOK, authResponse{})
	}
}

// AccountInfoHandler returns the account's last controlled avatar so a
// returning client can resume control without creating a new one.
func AccountInfoHandler(auth AuthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		accountID, err := strconv.Atoi(r.URL.Query().Get("accountId"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Account ID required"})
			return
		}

		player, err := auth.LastPlayer(r.Context(), accountID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"lastPlayer": player})
	}
}
