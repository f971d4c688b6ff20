// Package httpapi exposes the relay server over HTTP JSON. Endpoints mirror
// the request/response types in internal/api; every error is a non-2xx
// status with a uniform {"reason": "..."} body.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/histkeeper/internal/api"
	"github.com/dmitrijs2005/histkeeper/internal/common"
	"github.com/dmitrijs2005/histkeeper/internal/logging"
	"github.com/dmitrijs2005/histkeeper/internal/server/config"
	"github.com/dmitrijs2005/histkeeper/internal/server/services"
)

// Handler carries the services the HTTP endpoints delegate to.
type Handler struct {
	users            *services.UserService
	history          *services.HistoryService
	logger           logging.Logger
	jwtSecret        []byte
	openRegistration bool
}

func NewHandler(us *services.UserService, hs *services.HistoryService, l logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		users:            us,
		history:          hs,
		logger:           l.With("module", "httpapi"),
		jwtSecret:        []byte(cfg.SecretKey),
		openRegistration: cfg.OpenRegistration,
	}
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func (h *Handler) respondWithError(w http.ResponseWriter, code int, reason string) {
	h.respondWithJSON(w, code, api.ErrorResponse{Reason: reason})
}

// respondWithServiceError maps service sentinels onto HTTP codes without
// leaking internals into reasons.
func (h *Handler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		h.respondWithError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorAlreadyExists):
		h.respondWithError(w, http.StatusConflict, "username already taken")
	default:
		h.respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !h.openRegistration {
		h.respondWithError(w, http.StatusForbidden, "this server is not open for registration")
		return
	}

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || len(req.Salt) == 0 || len(req.Verifier) == 0 {
		h.respondWithError(w, http.StatusBadRequest, "username, salt and verifier are required")
		return
	}

	session, err := h.users.Register(r.Context(), req.Username, req.Salt, req.Verifier)
	if err != nil {
		h.logger.Warn(r.Context(), "registration failed", "username", req.Username, "error", err)
		h.respondWithServiceError(w, err)
		return
	}

	h.logger.Info(r.Context(), "user registered", "username", req.Username)
	h.respondWithJSON(w, http.StatusOK, api.RegisterResponse{Session: session})
}

func (h *Handler) handleGetSalt(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		h.respondWithError(w, http.StatusBadRequest, "username is required")
		return
	}

	salt, err := h.users.GetSalt(r.Context(), username)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, api.SaltResponse{Salt: salt})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.users.Login(r.Context(), req.Username, req.Verifier)
	if err != nil {
		h.logger.Warn(r.Context(), "login failed", "username", req.Username)
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, api.LoginResponse{Session: session})
}

func (h *Handler) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req api.AddHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid json")
		return
	}
	for i := range req.History {
		b := &req.History[i]
		if b.Id == "" || b.Timestamp.IsZero() || len(b.Ciphertext) == 0 || len(b.Nonce) == 0 {
			h.respondWithError(w, http.StatusBadRequest, "blob is missing id, timestamp, ciphertext or nonce")
			return
		}
	}

	if err := h.history.Add(r.Context(), userID, req.History); err != nil {
		h.logger.Error(r.Context(), "add history failed", "user", userID, "error", err)
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	count, err := h.history.Count(r.Context(), userID)
	if err != nil {
		h.logger.Error(r.Context(), "count failed", "user", userID, "error", err)
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, api.CountResponse{Count: count})
}

func (h *Handler) handleSyncHistory(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req api.SyncHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid json")
		return
	}

	blobs, err := h.history.Sync(r.Context(), userID, req.SyncTs, req.HistoryTs, req.HistoryId, req.Host)
	if err != nil {
		h.logger.Error(r.Context(), "sync history failed", "user", userID, "error", err)
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, api.SyncHistoryResponse{History: blobs})
}
