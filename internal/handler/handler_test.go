package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/handler"
	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/internal/testutil"
)

const adminEmail = "admin@example.com"

type testEnv struct {
	router    http.Handler
	sessions  *scs.SessionManager
	users     *store.UserStore
	divisions *store.DivisionStore
	requests  *store.RequestStore
	keys      *auth.SQLKeyStore
	alpha     *store.Division
}

// newTestEnv wires the full router over an in-memory database and seeds
// division Alpha with two requests from pilot@example.com.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log, _ := test.NewNullLogger()

	sm := scs.New()
	sm.Store = memstore.New()
	us := store.NewUserStore(db)
	ds := store.NewDivisionStore(db)
	rs := store.NewRequestStore(db, ds)
	ks := auth.NewSQLKeyStore(db)

	env := &testEnv{sessions: sm, users: us, divisions: ds, requests: rs, keys: ks}
	env.router = handler.NewRouter(handler.Deps{
		SessionManager: sm,
		AuthHandlers:   auth.NewHandlers(nil, sm, us, adminEmail, true, log),
		AuthMiddleware: auth.NewMiddleware(sm, us),
		Users:          us,
		Divisions:      ds,
		Requests:       rs,
		Keys:           ks,
		Choices:        cache.NewChoices(rs, 1, time.Minute, log),
		Log:            log,
	})

	ctx := context.Background()
	var err error
	if env.alpha, err = ds.Create(ctx, "Alpha"); err != nil {
		t.Fatalf("create division: %v", err)
	}
	pilot := env.user(t, "pilot@example.com")
	for i, ship := range []string{"Rifter", "Crow"} {
		_, err := rs.Create(ctx, store.NewRequest{
			ID:            int64(100 + i),
			DivisionID:    env.alpha.ID,
			SubmitterID:   pilot.ID,
			Pilot:         "Paxswill",
			Ship:          ship,
			KillTimestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			BasePayout:    125000000,
		})
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
	}
	return env
}

func (e *testEnv) user(t *testing.T, email string) *store.User {
	t.Helper()
	u, err := e.users.Upsert(context.Background(), "test", "sub-"+email, email, email, adminEmail)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (e *testEnv) grant(t *testing.T, u *store.User, perm store.Permission) {
	t.Helper()
	if err := e.divisions.Grant(context.Background(), e.alpha.ID, u.ID, perm); err != nil {
		t.Fatalf("grant: %v", err)
	}
}

// login returns a session cookie for u.
func (e *testEnv) login(t *testing.T, u *store.User) *http.Cookie {
	t.Helper()
	h := e.sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.sessions.Put(r.Context(), auth.SessionUserIDKey, u.ID)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == e.sessions.Cookie.Name {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (e *testEnv) get(t *testing.T, path string, cookie *http.Cookie, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(t *testing.T, path string, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
