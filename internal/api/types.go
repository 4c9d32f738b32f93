package api

import (
	"time"

	"github.com/evesrp/evesrp/internal/filter"
	"github.com/evesrp/evesrp/internal/pager"
	"github.com/evesrp/evesrp/internal/store"
)

// --- Request types ---

// RequestListResponse is one page of a request list. Filter is the
// canonical filter segment the page was built from; a client that has
// since moved on to a different filter drops the response.
type RequestListResponse struct {
	Filter      string           `json:"filter"`
	Path        string           `json:"path"`
	State       *filter.State    `json:"state"`
	Count       int              `json:"count"`
	TotalPayout int64            `json:"total_payout"`
	Pager       pager.View       `json:"pager"`
	Requests    []*store.Request `json:"requests"`
}

// RequestResponse is a single request with the statuses the caller may
// move it to and its recorded status changes, oldest first.
type RequestResponse struct {
	*store.Request
	Actions []store.Status  `json:"actions"`
	History []*store.Action `json:"history"`
}

// SetStatusRequest is the request body for POST /api/v1/request/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// ChoicesResponse lists the known values of a filter attribute.
type ChoicesResponse struct {
	Key     string   `json:"key"`
	Choices []string `json:"choices"`
}

// --- API key types ---

// CreateAPIKeyRequest is the request body for POST /api/v1/apikeys.
type CreateAPIKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// APIKeyResponse is the JSON representation of an API key. It never
// carries the key itself.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// APIKeyCreatedResponse is returned once, when a key is created.
type APIKeyCreatedResponse struct {
	APIKeyResponse
	Key string `json:"key"`
}

// APIKeyListResponse lists the caller's active keys.
type APIKeyListResponse struct {
	Keys []*APIKeyResponse `json:"keys"`
}

// --- Division types ---

// CreateDivisionRequest is the request body for POST /api/v1/divisions.
type CreateDivisionRequest struct {
	Name string `json:"name"`
}

// DivisionListResponse lists divisions.
type DivisionListResponse struct {
	Divisions []*store.Division `json:"divisions"`
}

// EntityResponse is a user holding a division permission.
type EntityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DivisionResponse is a division with its permission holders, keyed by
// permission.
type DivisionResponse struct {
	*store.Division
	Entities map[store.Permission][]EntityResponse `json:"entities"`
}

// PermissionRequest is the body of the permission grant and revoke
// endpoints. The user is named by id or by email.
type PermissionRequest struct {
	Permission string `json:"permission"`
	UserID     string `json:"user_id,omitempty"`
	Email      string `json:"email,omitempty"`
}
