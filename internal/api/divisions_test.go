package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/evesrp/evesrp/internal/api"
	"github.com/evesrp/evesrp/internal/store"
)

func TestDivisions_List(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env, adminEmail)
	reviewer := seedUser(t, env, "reviewer@example.com")
	outsider := seedUser(t, env, "outsider@example.com")
	grant(t, env, reviewer, store.PermReview)
	if _, err := env.Divisions.Create(t.Context(), "Beta"); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name string
		user *store.User
		want int
	}{
		{"admin sees all", admin, 2},
		{"member sees own", reviewer, 1},
		{"outsider sees none", outsider, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			env.Router.ServeHTTP(rec, authRequest(httptest.NewRequest("GET", "/divisions", nil), seedKey(t, env, tt.user.ID)))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
			}
			var resp api.DivisionListResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(resp.Divisions) != tt.want {
				t.Errorf("len(divisions) = %d, want %d", len(resp.Divisions), tt.want)
			}
		})
	}
}

func TestDivisions_Create(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env, adminEmail)
	member := seedUser(t, env, "member@example.com")

	tests := []struct {
		name string
		user *store.User
		body string
		want int
	}{
		{"non-admin", member, `{"name":"Gamma"}`, http.StatusForbidden},
		{"empty name", admin, `{"name":""}`, http.StatusBadRequest},
		{"duplicate", admin, `{"name":"Alpha"}`, http.StatusConflict},
		{"created", admin, `{"name":"Gamma"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/divisions", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			env.Router.ServeHTTP(rec, authRequest(req, seedKey(t, env, tt.user.ID)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestDivisions_Permissions(t *testing.T) {
	env := newTestEnv(t)
	admin := seedUser(t, env, adminEmail)
	divAdmin := seedUser(t, env, "director@example.com")
	reviewer := seedUser(t, env, "reviewer@example.com")
	grant(t, env, divAdmin, store.PermAdmin)
	grant(t, env, reviewer, store.PermReview)

	base := "/divisions/" + strconv.FormatInt(env.Alpha.ID, 10)
	do := func(method, path, body string, user *store.User) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		env.Router.ServeHTTP(rec, authRequest(req, seedKey(t, env, user.ID)))
		return rec
	}

	if rec := do("GET", base, "", reviewer); rec.Code != http.StatusForbidden {
		t.Errorf("reviewer GET status = %d, want 403", rec.Code)
	}
	if rec := do("GET", "/divisions/999", "", admin); rec.Code != http.StatusNotFound {
		t.Errorf("missing division status = %d, want 404", rec.Code)
	}

	rec := do("POST", base+"/permissions", `{"permission":"pay","email":"reviewer@example.com"}`, divAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("grant status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.DivisionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pay := resp.Entities[store.PermPay]; len(pay) != 1 || pay[0].ID != reviewer.ID {
		t.Errorf("pay entities = %+v, want reviewer", pay)
	}
	if got := len(resp.Entities[store.PermSubmit]); got != 0 {
		t.Errorf("submit entities = %d, want 0", got)
	}

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"duplicate grant", "POST", `{"permission":"pay","user_id":"` + reviewer.ID + `"}`, http.StatusConflict},
		{"unknown permission", "POST", `{"permission":"fly","user_id":"` + reviewer.ID + `"}`, http.StatusBadRequest},
		{"unknown user", "POST", `{"permission":"pay","email":"nobody@example.com"}`, http.StatusBadRequest},
		{"no user", "POST", `{"permission":"pay"}`, http.StatusBadRequest},
		{"revoke", "DELETE", `{"permission":"pay","user_id":"` + reviewer.ID + `"}`, http.StatusOK},
		{"revoke again", "DELETE", `{"permission":"pay","user_id":"` + reviewer.ID + `"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(tt.method, base+"/permissions", tt.body, admin); rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
