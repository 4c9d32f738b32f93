package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/filter"
	"github.com/evesrp/evesrp/internal/store"
)

// DivisionsPage is the template data for the division list.
type DivisionsPage struct {
	BasePage
	Divisions []*store.Division
}

// DivisionPage is the template data for a division's permission editor.
type DivisionPage struct {
	BasePage
	Division    *store.Division
	Permissions []store.Permission
	Entities    map[store.Permission][]*store.Grantee
}

// DivisionsHandler serves the division admin pages.
type DivisionsHandler struct {
	flasher
	divisions *store.DivisionStore
	users     *store.UserStore
	choices   *cache.Choices
	log       logrus.FieldLogger
}

func NewDivisionsHandler(f flasher, ds *store.DivisionStore, us *store.UserStore, choices *cache.Choices, log logrus.FieldLogger) *DivisionsHandler {
	return &DivisionsHandler{flasher: f, divisions: ds, users: us, choices: choices, log: log}
}

// Index lists the divisions the user administers.
// GET /divisions
func (h *DivisionsHandler) Index(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	all, err := h.divisions.ForUser(r.Context(), user)
	if err != nil {
		h.log.WithError(err).Error("list divisions")
		renderError(w, user, http.StatusInternalServerError, "Could not load divisions.")
		return
	}
	var divs []*store.Division
	for _, d := range all {
		if ok, err := h.divisions.HasPermission(r.Context(), user, d.ID, store.PermAdmin); err == nil && ok {
			divs = append(divs, d)
		}
	}
	render(w, "divisions.html", DivisionsPage{BasePage: h.basePage(r, user, "divisions"), Divisions: divs})
}

// Create adds a division. Site admins only.
// POST /divisions
func (h *DivisionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostForm.Get("name"))
	if name == "" {
		h.set(r, "error", "Division name is required.")
		http.Redirect(w, r, "/divisions", http.StatusSeeOther)
		return
	}

	d, err := h.divisions.Create(r.Context(), name)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		h.set(r, "error", "A division called "+name+" already exists.")
		http.Redirect(w, r, "/divisions", http.StatusSeeOther)
	case err != nil:
		h.log.WithError(err).Error("create division")
		h.set(r, "error", "Could not create the division.")
		http.Redirect(w, r, "/divisions", http.StatusSeeOther)
	default:
		h.choices.Invalidate(filter.Division)
		h.set(r, "success", "Division "+d.Name+" created.")
		http.Redirect(w, r, divisionPath(d), http.StatusSeeOther)
	}
}

// Show renders the permission editor of a division.
// GET /divisions/{id}
func (h *DivisionsHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	d, ok := h.administered(w, r, user)
	if !ok {
		return
	}
	entities, err := h.divisions.Entities(r.Context(), d.ID)
	if err != nil {
		h.log.WithError(err).Error("load division entities")
		renderError(w, user, http.StatusInternalServerError, "Could not load division.")
		return
	}
	render(w, "division.html", DivisionPage{
		BasePage:    h.basePage(r, user, "divisions"),
		Division:    d,
		Permissions: store.Permissions,
		Entities:    entities,
	})
}

// Update handles the add and delete actions of the permission form. The
// user is named by email for add and by id for delete.
// POST /divisions/{id}
func (h *DivisionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	d, ok := h.administered(w, r, user)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer http.Redirect(w, r, divisionPath(d), http.StatusSeeOther)

	perm, err := store.ParsePermission(r.PostForm.Get("permission"))
	if err != nil {
		h.set(r, "error", "Unknown permission.")
		return
	}

	switch r.PostForm.Get("action") {
	case "add":
		email := strings.TrimSpace(r.PostForm.Get("email"))
		target, err := h.users.GetByEmail(r.Context(), email)
		if err != nil {
			h.set(r, "error", "No user with email "+email+" has logged in yet.")
			return
		}
		err = h.divisions.Grant(r.Context(), d.ID, target.ID, perm)
		switch {
		case errors.Is(err, store.ErrDuplicate):
			h.set(r, "info", target.Name+" already has "+string(perm)+".")
		case err != nil:
			h.log.WithError(err).Error("grant permission")
			h.set(r, "error", "Could not grant the permission.")
		default:
			h.log.WithFields(logrus.Fields{"division": d.ID, "user": target.ID, "permission": perm}).Info("permission granted")
			h.set(r, "success", "Granted "+string(perm)+" to "+target.Name+".")
		}
	case "delete":
		err := h.divisions.Revoke(r.Context(), d.ID, r.PostForm.Get("user_id"), perm)
		switch {
		case errors.Is(err, store.ErrNotFound):
			h.set(r, "error", "That permission was not held.")
		case err != nil:
			h.log.WithError(err).Error("revoke permission")
			h.set(r, "error", "Could not revoke the permission.")
		default:
			h.log.WithFields(logrus.Fields{"division": d.ID, "user": r.PostForm.Get("user_id"), "permission": perm}).Info("permission revoked")
			h.set(r, "success", "Revoked "+string(perm)+".")
		}
	default:
		h.set(r, "error", "Unknown action.")
	}
}

// administered loads the {id} division and checks user holds its admin
// permission. On failure it has already written the response.
func (h *DivisionsHandler) administered(w http.ResponseWriter, r *http.Request, user *store.User) (*store.Division, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		renderError(w, user, http.StatusNotFound, "No such division.")
		return nil, false
	}
	d, err := h.divisions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		renderError(w, user, http.StatusNotFound, "No such division.")
		return nil, false
	}
	if err != nil {
		h.log.WithError(err).Error("load division")
		renderError(w, user, http.StatusInternalServerError, "Could not load division.")
		return nil, false
	}
	ok, err := h.divisions.HasPermission(r.Context(), user, d.ID, store.PermAdmin)
	if err != nil || !ok {
		renderError(w, user, http.StatusForbidden, "You do not administer this division.")
		return nil, false
	}
	return d, true
}

func divisionPath(d *store.Division) string {
	return "/divisions/" + strconv.FormatInt(d.ID, 10)
}
