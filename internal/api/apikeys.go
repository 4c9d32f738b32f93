package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/store"
)

// apiKeysAPIHandler provides REST handlers for API key management.
type apiKeysAPIHandler struct {
	keys auth.KeyStore
}

// registerAPIKeyRoutes registers API key management routes on r.
func registerAPIKeyRoutes(r chi.Router, keys auth.KeyStore) {
	h := &apiKeysAPIHandler{keys: keys}
	r.Get("/apikeys", h.List)
	r.Post("/apikeys", h.Create)
	r.Delete("/apikeys/{id}", h.Revoke)
}

// List returns the caller's active keys without their secrets.
// GET /api/v1/apikeys
//
// @Summary      List API keys
// @Description  Returns the caller's unrevoked API keys. Key material is never returned.
// @Tags         API Keys
// @Produce      json
// @Success      200  {object}  APIKeyListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /apikeys [get]
func (h *apiKeysAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	records, err := h.keys.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := &APIKeyListResponse{Keys: make([]*APIKeyResponse, 0, len(records))}
	for _, rec := range records {
		resp.Keys = append(resp.Keys, toAPIKeyResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create generates a new key and returns the plaintext once.
// POST /api/v1/apikeys
//
// @Summary      Create an API key
// @Description  Creates an API key for the caller. The plaintext key is only ever returned by this call.
// @Tags         API Keys
// @Accept       json
// @Produce      json
// @Param        body  body      CreateAPIKeyRequest  true  "Key to create"
// @Success      201   {object}  APIKeyCreatedResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /apikeys [post]
func (h *apiKeysAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	plaintext, hash, err := auth.GenerateKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "key generation failed", "INTERNAL_ERROR")
		return
	}
	rec, err := h.keys.Create(r.Context(), user.ID, req.Name, hash, req.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "key creation failed", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusCreated, APIKeyCreatedResponse{
		APIKeyResponse: *toAPIKeyResponse(rec),
		Key:            plaintext,
	})
}

// Revoke soft-deletes a key owned by the caller.
// DELETE /api/v1/apikeys/{id}
//
// @Summary      Revoke an API key
// @Description  Revokes one of the caller's keys. Keys of other users are reported as missing.
// @Tags         API Keys
// @Param        id   path  string  true  "Key ID"
// @Success      204  "No Content"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /apikeys/{id} [delete]
func (h *apiKeysAPIHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	err := h.keys.Revoke(r.Context(), chi.URLParam(r, "id"), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "revoke failed", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toAPIKeyResponse(k *auth.APIKey) *APIKeyResponse {
	resp := &APIKeyResponse{ID: k.ID, Name: k.Name, CreatedAt: k.CreatedAt}
	if k.LastUsedAt.Valid {
		t := k.LastUsedAt.Time
		resp.LastUsedAt = &t
	}
	if k.ExpiresAt.Valid {
		t := k.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	return resp
}
