package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/api"
	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/filter"
	"github.com/evesrp/evesrp/internal/listing"
	"github.com/evesrp/evesrp/internal/metrics"
	"github.com/evesrp/evesrp/internal/store"
)

// RequestsPage is the template data for a request list.
type RequestsPage struct {
	BasePage
	*listing.Page
	Scopes     []listing.Scope
	Attributes []string
}

// RequestPage is the template data for a single request.
type RequestPage struct {
	BasePage
	Request *store.Request
	Actions []store.Status
	History []*store.Action
}

// RequestsHandler serves the request lists and request pages.
type RequestsHandler struct {
	flasher
	listing  *listing.Service
	requests *store.RequestStore
	log      logrus.FieldLogger
}

func NewRequestsHandler(f flasher, ls *listing.Service, rs *store.RequestStore, log logrus.FieldLogger) *RequestsHandler {
	return &RequestsHandler{flasher: f, listing: ls, requests: rs, log: log}
}

// List renders a request list, or its JSON form for XHR reloads.
// GET /requests/{scope}/{filter}
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	scope := chi.URLParam(r, "scope")

	p, err := h.listing.Load(r.Context(), user, scope, r.URL.EscapedPath(), listing.HTMLPerPage)
	var redirect *listing.RedirectError
	switch {
	case errors.As(err, &redirect):
		http.Redirect(w, r, redirect.Location, redirect.Status)
		return
	case errors.Is(err, store.ErrNotFound):
		renderError(w, user, http.StatusNotFound, "No such request list.")
		return
	case errors.Is(err, store.ErrInvalidFilter):
		renderError(w, user, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("load request list")
		renderError(w, user, http.StatusInternalServerError, "Could not load requests.")
		return
	}

	if isXHR(r) {
		if err := api.WriteJSON(w, http.StatusOK, api.NewRequestListResponse(p)); err != nil {
			h.log.WithError(err).WithField("path", p.Path).Error("encode request list")
		}
		return
	}
	render(w, "requests.html", RequestsPage{
		BasePage:   h.basePage(r, user, scope),
		Page:       p,
		Scopes:     listing.Scopes,
		Attributes: filter.Attributes,
	})
}

// Filter applies the form's token field or drops its remove field, then
// sends the browser to the new list.
// POST /requests/{scope}/{filter}
func (h *RequestsHandler) Filter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	current := r.URL.EscapedPath()
	base, segment := filter.Split(current)
	next := filter.Join(base, filter.Parse(segment))
	switch {
	case r.PostForm.Get("token") != "":
		tok, err := filter.ParseToken(r.PostForm.Get("token"))
		if err != nil {
			h.set(r, "error", err.Error())
			break
		}
		next = listing.AddFilter(current, tok)
	case r.PostForm.Get("remove") != "":
		tok, err := filter.ParseToken(r.PostForm.Get("remove"))
		if err != nil {
			h.set(r, "error", err.Error())
			break
		}
		next = listing.RemoveFilter(current, tok)
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Show renders one request with the status changes open to the viewer.
// GET /request/{id}
func (h *RequestsHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	req, ok := h.visible(w, r, user)
	if !ok {
		return
	}
	actions, err := h.requests.Actions(r.Context(), req, user)
	if err != nil {
		h.log.WithError(err).Error("load request actions")
		renderError(w, user, http.StatusInternalServerError, "Could not load request.")
		return
	}
	history, err := h.requests.History(r.Context(), req.ID)
	if err != nil {
		h.log.WithError(err).Error("load request history")
		renderError(w, user, http.StatusInternalServerError, "Could not load request.")
		return
	}
	render(w, "request.html", RequestPage{
		BasePage: h.basePage(r, user, ""),
		Request:  req,
		Actions:  actions,
		History:  history,
	})
}

// SetStatus applies the form's status and note to a request.
// POST /request/{id}/status
func (h *RequestsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	req, ok := h.visible(w, r, user)
	if !ok {
		return
	}
	back := "/request/" + strconv.FormatInt(req.ID, 10)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	to, err := store.ParseStatus(r.PostForm.Get("status"))
	if err != nil {
		h.set(r, "error", "Unknown status.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	_, err = h.requests.SetStatus(r.Context(), req.ID, user, to, r.PostForm.Get("note"))
	switch {
	case errors.Is(err, store.ErrForbidden):
		h.set(r, "error", "You may not make that change.")
	case errors.Is(err, store.ErrInvalidTransition):
		h.set(r, "error", "A "+string(req.Status)+" request cannot become "+string(to)+".")
	case err != nil:
		h.log.WithError(err).WithField("request", req.ID).Error("set request status")
		h.set(r, "error", "Could not change the status.")
	default:
		metrics.StatusChangesTotal.WithLabelValues(string(to)).Inc()
		h.log.WithFields(logrus.Fields{"request": req.ID, "status": to, "user": user.ID}).Info("request status changed")
		h.set(r, "success", "Request marked "+string(to)+".")
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// visible loads the {id} request and checks user may see it. On failure it
// has already written the response.
func (h *RequestsHandler) visible(w http.ResponseWriter, r *http.Request, user *store.User) (*store.Request, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		renderError(w, user, http.StatusNotFound, "No such request.")
		return nil, false
	}
	req, err := h.requests.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		renderError(w, user, http.StatusNotFound, "No such request.")
		return nil, false
	}
	if err != nil {
		h.log.WithError(err).Error("load request")
		renderError(w, user, http.StatusInternalServerError, "Could not load request.")
		return nil, false
	}
	ok, err := h.requests.CanView(r.Context(), req, user)
	if err != nil {
		h.log.WithError(err).Error("check request visibility")
		renderError(w, user, http.StatusInternalServerError, "Could not load request.")
		return nil, false
	}
	if !ok {
		renderError(w, user, http.StatusNotFound, "No such request.")
		return nil, false
	}
	return req, true
}
