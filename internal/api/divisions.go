package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/filter"
	"github.com/evesrp/evesrp/internal/store"
)

// divisionsAPIHandler serves divisions and their permission lists.
type divisionsAPIHandler struct {
	divisions *store.DivisionStore
	users     *store.UserStore
	choices   *cache.Choices
}

// registerDivisionRoutes registers division routes on r. Creating a
// division needs a site admin; editing one needs its admin permission.
func registerDivisionRoutes(r chi.Router, divisions *store.DivisionStore, users *store.UserStore, choices *cache.Choices) {
	h := &divisionsAPIHandler{divisions: divisions, users: users, choices: choices}
	r.Get("/divisions", h.List)
	r.With(requireAdmin).Post("/divisions", h.Create)
	r.Get("/divisions/{id}", h.Get)
	r.Post("/divisions/{id}/permissions", h.Grant)
	r.Delete("/divisions/{id}/permissions", h.Revoke)
}

// List returns every division for site admins, otherwise the divisions the
// caller holds a permission in.
// GET /api/v1/divisions
//
// @Summary      List divisions
// @Tags         Divisions
// @Produce      json
// @Success      200  {object}  DivisionListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /divisions [get]
func (h *divisionsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	divs, err := h.divisions.ForUser(r.Context(), user)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if divs == nil {
		divs = []*store.Division{}
	}
	writeJSON(w, http.StatusOK, &DivisionListResponse{Divisions: divs})
}

// Create adds a division.
// POST /api/v1/divisions
//
// @Summary      Create a division (admin)
// @Tags         Divisions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateDivisionRequest  true  "Division to create"
// @Success      201   {object}  store.Division
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /divisions [post]
func (h *divisionsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDivisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", "BAD_REQUEST")
		return
	}

	d, err := h.divisions.Create(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.choices.Invalidate(filter.Division)
	writeJSON(w, http.StatusCreated, d)
}

// Get returns a division with the users holding each permission.
// GET /api/v1/divisions/{id}
//
// @Summary      Get a division
// @Description  Returns a division and its permission holders. Requires the division's admin permission.
// @Tags         Divisions
// @Produce      json
// @Param        id   path      int  true  "Division ID"
// @Success      200  {object}  DivisionResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /divisions/{id} [get]
func (h *divisionsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.administered(w, r)
	if !ok {
		return
	}
	h.writeDivision(w, r, http.StatusOK, d)
}

// Grant gives a user a permission in the division.
// POST /api/v1/divisions/{id}/permissions
//
// @Summary      Grant a division permission
// @Tags         Divisions
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Division ID"
// @Param        body  body      PermissionRequest  true  "Permission and user"
// @Success      200   {object}  DivisionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /divisions/{id}/permissions [post]
func (h *divisionsAPIHandler) Grant(w http.ResponseWriter, r *http.Request) {
	h.changePermission(w, r, h.divisions.Grant)
}

// Revoke removes a user's permission in the division.
// DELETE /api/v1/divisions/{id}/permissions
//
// @Summary      Revoke a division permission
// @Tags         Divisions
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Division ID"
// @Param        body  body      PermissionRequest  true  "Permission and user"
// @Success      200   {object}  DivisionResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /divisions/{id}/permissions [delete]
func (h *divisionsAPIHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	h.changePermission(w, r, h.divisions.Revoke)
}

type permissionChange func(ctx context.Context, divisionID int64, userID string, perm store.Permission) error

func (h *divisionsAPIHandler) changePermission(w http.ResponseWriter, r *http.Request, change permissionChange) {
	d, ok := h.administered(w, r)
	if !ok {
		return
	}

	var req PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	perm, err := store.ParsePermission(req.Permission)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var target *store.User
	switch {
	case req.UserID != "":
		target, err = h.users.GetByID(r.Context(), req.UserID)
	case req.Email != "":
		target, err = h.users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	default:
		writeError(w, http.StatusBadRequest, "user_id or email is required", "BAD_REQUEST")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "unknown user", "BAD_REQUEST")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if err := change(r.Context(), d.ID, target.ID, perm); err != nil {
		writeStoreError(w, err)
		return
	}
	h.writeDivision(w, r, http.StatusOK, d)
}

// administered loads the {id} division and checks the caller holds its
// admin permission. On failure it has already written the response.
func (h *divisionsAPIHandler) administered(w http.ResponseWriter, r *http.Request) (*store.Division, bool) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return nil, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return nil, false
	}
	d, err := h.divisions.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	ok, err := h.divisions.HasPermission(r.Context(), user, d.ID, store.PermAdmin)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	if !ok {
		writeError(w, http.StatusForbidden, "forbidden", "FORBIDDEN")
		return nil, false
	}
	return d, true
}

func (h *divisionsAPIHandler) writeDivision(w http.ResponseWriter, r *http.Request, status int, d *store.Division) {
	entities, err := h.divisions.Entities(r.Context(), d.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	resp := &DivisionResponse{Division: d, Entities: make(map[store.Permission][]EntityResponse, len(entities))}
	for perm, grantees := range entities {
		list := make([]EntityResponse, 0, len(grantees))
		for _, g := range grantees {
			list = append(list, EntityResponse{ID: g.ID, Name: g.Name, Email: g.Email})
		}
		resp.Entities[perm] = list
	}
	writeJSON(w, status, resp)
}
