package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/listing"
	"github.com/evesrp/evesrp/internal/metrics"
	"github.com/evesrp/evesrp/internal/store"
)

// requestsAPIHandler serves request lists, single requests and status
// changes.
type requestsAPIHandler struct {
	listing  *listing.Service
	requests *store.RequestStore
	log      logrus.FieldLogger
}

// registerRequestRoutes registers request routes on r.
func registerRequestRoutes(r chi.Router, ls *listing.Service, requests *store.RequestStore, log logrus.FieldLogger) {
	h := &requestsAPIHandler{listing: ls, requests: requests, log: log}
	r.Get("/requests/{scope}", h.List)
	r.Get("/requests/{scope}/*", h.List)
	r.Get("/request/{id}", h.Get)
	r.Post("/request/{id}/status", h.SetStatus)
}

// List returns one page of a request list. The path after the scope is a
// filter segment; a non-canonical spelling is redirected.
// GET /api/v1/requests/{scope}/{filter}
//
// @Summary      List requests
// @Description  Returns up to 200 requests of a list scope (personal, review, pay, completed, all) filtered by the trailing path segment, e.g. /requests/all/status/approved,paid/page/2/.
// @Tags         Requests
// @Produce      json
// @Param        scope   path      string  true  "List scope"
// @Success      200     {object}  RequestListResponse
// @Success      301     "Redirect to the canonical filter path"
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Security     BearerToken
// @Router       /requests/{scope}/ [get]
func (h *requestsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	p, err := h.listing.Load(r.Context(), user, chi.URLParam(r, "scope"), r.URL.EscapedPath(), listing.APIPerPage)
	var redirect *listing.RedirectError
	if errors.As(err, &redirect) {
		http.Redirect(w, r, redirect.Location, redirect.Status)
		return
	}
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrInvalidFilter) {
			h.log.WithError(err).Error("list requests")
		}
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NewRequestListResponse(p))
}

// NewRequestListResponse is the JSON form of a listing page. The XHR
// reloads of the HTML list use the same shape.
func NewRequestListResponse(p *listing.Page) *RequestListResponse {
	return &RequestListResponse{
		Filter:      p.Filter.String(),
		Path:        p.Path,
		State:       p.Filter,
		Count:       p.Count,
		TotalPayout: p.TotalPayout,
		Pager:       p.Pager,
		Requests:    p.Requests,
	}
}

// Get returns one request the caller may see.
// GET /api/v1/request/{id}
//
// @Summary      Get a request
// @Description  Returns a request with the statuses the caller may move it to. Requests the caller may not see are reported as missing.
// @Tags         Requests
// @Produce      json
// @Param        id   path      int  true  "Request (killmail) ID"
// @Success      200  {object}  RequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /request/{id} [get]
func (h *requestsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	req, ok := h.visible(w, r, user)
	if !ok {
		return
	}
	h.writeRequest(w, r, req, user)
}

// SetStatus moves a request to a new status.
// POST /api/v1/request/{id}/status
//
// @Summary      Change request status
// @Description  Moves a request along the status machine and records the change with an optional note. Reviewers evaluate, approve, reject or mark incomplete; payers mark approved requests paid.
// @Tags         Requests
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Request (killmail) ID"
// @Param        body  body      SetStatusRequest  true  "New status"
// @Success      200   {object}  RequestResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /request/{id}/status [post]
func (h *requestsAPIHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var body SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	to, err := store.ParseStatus(body.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown status", "BAD_REQUEST")
		return
	}

	req, ok := h.visible(w, r, user)
	if !ok {
		return
	}
	req, err = h.requests.SetStatus(r.Context(), req.ID, user, to, body.Note)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.StatusChangesTotal.WithLabelValues(string(to)).Inc()
	h.log.WithFields(logrus.Fields{"request": req.ID, "status": to, "user": user.ID}).Info("request status changed")
	h.writeRequest(w, r, req, user)
}

// visible loads the {id} request and checks the caller may see it. On
// failure it has already written the response.
func (h *requestsAPIHandler) visible(w http.ResponseWriter, r *http.Request, user *store.User) (*store.Request, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return nil, false
	}
	req, err := h.requests.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	ok, err := h.requests.CanView(r.Context(), req, user)
	if err != nil {
		writeStoreError(w, err)
		return nil, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
		return nil, false
	}
	return req, true
}

func (h *requestsAPIHandler) writeRequest(w http.ResponseWriter, r *http.Request, req *store.Request, user *store.User) {
	actions, err := h.requests.Actions(r.Context(), req, user)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if actions == nil {
		actions = []store.Status{}
	}
	history, err := h.requests.History(r.Context(), req.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &RequestResponse{Request: req, Actions: actions, History: history})
}
