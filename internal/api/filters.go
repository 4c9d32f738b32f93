package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
)

type filtersAPIHandler struct {
	choices *cache.Choices
}

func registerFilterRoutes(r chi.Router, choices *cache.Choices) {
	h := &filtersAPIHandler{choices: choices}
	r.Get("/filter/{attribute}", h.Choices)
}

// Choices returns the known values of a filter attribute for suggestions.
// GET /api/v1/filter/{attribute}
//
// @Summary      Filter suggestions
// @Description  Returns the distinct values of a request attribute. Status values are fixed and details has no suggestions.
// @Tags         Filters
// @Produce      json
// @Param        attribute  path      string  true  "Filter attribute"
// @Success      200        {object}  ChoicesResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      500        {object}  ErrorResponse
// @Security     BearerToken
// @Router       /filter/{attribute} [get]
func (h *filtersAPIHandler) Choices(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	attribute := chi.URLParam(r, "attribute")
	choices, err := h.choices.Get(r.Context(), attribute)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &ChoicesResponse{Key: attribute, Choices: choices})
}
