package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/evesrp/evesrp/internal/api"
	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/cache"
	"github.com/evesrp/evesrp/internal/listing"
	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/internal/testutil"
)

const adminEmail = "admin@example.com"

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router    http.Handler
	Users     *store.UserStore
	Divisions *store.DivisionStore
	Requests  *store.RequestStore
	Keys      *auth.SQLKeyStore

	Alpha *store.Division
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores. It seeds division
// Alpha with three requests from pilot@example.com.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log, _ := test.NewNullLogger()

	us := store.NewUserStore(db)
	ds := store.NewDivisionStore(db)
	rs := store.NewRequestStore(db, ds)
	ks := auth.NewSQLKeyStore(db)

	router := api.NewAPIRouter(api.Deps{
		BearerAuth: auth.NewBearerMiddleware(ks, us, log),
		Users:      us,
		Divisions:  ds,
		Requests:   rs,
		Listing:    listing.NewService(rs, ds, log),
		Choices:    cache.NewChoices(rs, 1, time.Minute, log),
		Keys:       ks,
		Log:        log,
	})
	env := &testEnv{Router: router, Users: us, Divisions: ds, Requests: rs, Keys: ks}

	var err error
	env.Alpha, err = ds.Create(context.Background(), "Alpha")
	if err != nil {
		t.Fatalf("create division: %v", err)
	}
	pilot := seedUser(t, env, "pilot@example.com")
	for i, ship := range []string{"Rifter", "Crow", "Rifter"} {
		_, err := rs.Create(context.Background(), store.NewRequest{
			ID:            int64(100 + i),
			DivisionID:    env.Alpha.ID,
			SubmitterID:   pilot.ID,
			Pilot:         "Paxswill",
			Ship:          ship,
			KillTimestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			BasePayout:    1000,
		})
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
	}
	return env
}

// seedUser creates a user and returns the user record. adminEmail is a
// site admin.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	u, err := env.Users.Upsert(context.Background(), "test", "sub-"+email, email, email, adminEmail)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedKey creates a real API key for a user and returns the plaintext Bearer value.
func seedKey(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if _, err := env.Keys.Create(context.Background(), userID, "test-key", hash, nil); err != nil {
		t.Fatalf("create key: %v", err)
	}
	return plaintext
}

// grant gives u perm in Alpha.
func grant(t *testing.T, env *testEnv, u *store.User, perm store.Permission) {
	t.Helper()
	if err := env.Divisions.Grant(context.Background(), env.Alpha.ID, u.ID, perm); err != nil {
		t.Fatalf("grant: %v", err)
	}
}

// authRequest adds a Bearer key to the request.
func authRequest(r *http.Request, key string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+key)
	return r
}
