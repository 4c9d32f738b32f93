package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/evesrp/evesrp/internal/store"
	"github.com/evesrp/evesrp/internal/testutil"
)

// fixture is a small SRP program: two divisions, a reviewer and a payer in
// Alpha, a pilot who submits, and a site admin.
type fixture struct {
	db        *sqlx.DB
	users     *store.UserStore
	divisions *store.DivisionStore
	requests  *store.RequestStore

	alpha, beta                   *store.Division
	admin, reviewer, payer, pilot *store.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	f := &fixture{db: db}
	f.users = store.NewUserStore(db)
	f.divisions = store.NewDivisionStore(db)
	f.requests = store.NewRequestStore(db, f.divisions)

	var err error
	if f.alpha, err = f.divisions.Create(ctx, "Alpha"); err != nil {
		t.Fatalf("create division: %v", err)
	}
	if f.beta, err = f.divisions.Create(ctx, "Beta"); err != nil {
		t.Fatalf("create division: %v", err)
	}

	mkUser := func(sub, email string) *store.User {
		t.Helper()
		u, err := f.users.Upsert(ctx, "test", sub, sub, email, "admin@example.com")
		if err != nil {
			t.Fatalf("upsert %s: %v", sub, err)
		}
		return u
	}
	f.admin = mkUser("admin", "admin@example.com")
	f.reviewer = mkUser("reviewer", "reviewer@example.com")
	f.payer = mkUser("payer", "payer@example.com")
	f.pilot = mkUser("pilot", "pilot@example.com")

	grant := func(d *store.Division, u *store.User, p store.Permission) {
		t.Helper()
		if err := f.divisions.Grant(ctx, d.ID, u.ID, p); err != nil {
			t.Fatalf("grant %s: %v", p, err)
		}
	}
	grant(f.alpha, f.reviewer, store.PermReview)
	grant(f.alpha, f.payer, store.PermPay)
	grant(f.alpha, f.pilot, store.PermSubmit)
	grant(f.beta, f.pilot, store.PermSubmit)
	return f
}

type seed struct {
	id      int64
	pilot   string
	ship    string
	region  string
	payout  int64
	details string
	status  store.Status
	minutes int
}

var seeds = []seed{
	{1, "Paxswill", "Tristan", "Black Rise", 100, "lost to a gatecamp", store.StatusEvaluating, 1},
	{2, "durrHurrDurr", "Crow", "Catch", 200, "cyno died", store.StatusIncomplete, 2},
	{3, "Gevlon Goblin", "Vexor", "Aridia", 300, "roam", store.StatusApproved, 3},
	{4, "Sapporo Jones", "Guardian", "Catch", 400, "bad fit", store.StatusRejected, 4},
	{5, "Zora Aran", "Tristan", "Scalding Pass", 500, "fleet fight", store.StatusPaid, 5},
	{6, "Paxswill", "Crow", "Aridia", 600, "cyno tackled", store.StatusApproved, 6},
}

// seedRequests inserts seeds; requests 4 and 6 go to Beta, the rest to
// Alpha. Statuses and submit times are forced so ordering is deterministic.
func (f *fixture) seedRequests(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range seeds {
		div := f.alpha
		if s.id == 4 || s.id == 6 {
			div = f.beta
		}
		_, err := f.requests.Create(ctx, store.NewRequest{
			ID:            s.id,
			DivisionID:    div.ID,
			SubmitterID:   f.pilot.ID,
			Pilot:         s.pilot,
			Ship:          s.ship,
			Region:        s.region,
			KillTimestamp: base,
			BasePayout:    s.payout,
			Details:       s.details,
		})
		if err != nil {
			t.Fatalf("create request %d: %v", s.id, err)
		}
		_, err = f.db.Exec(f.db.Rebind(`UPDATE requests SET status = ?, submit_timestamp = ? WHERE id = ?`),
			string(s.status), base.Add(time.Duration(s.minutes)*time.Minute), s.id)
		if err != nil {
			t.Fatalf("force status %d: %v", s.id, err)
		}
	}
}
