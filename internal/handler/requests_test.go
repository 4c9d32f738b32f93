package handler_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/evesrp/evesrp/internal/api"
	"github.com/evesrp/evesrp/internal/store"
)

func TestRequestList_HTML(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.user(t, "pilot@example.com"))

	rec := env.get(t, "/requests/personal/", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Personal Requests",
		`href="/request/100"`,
		"1,250,000.00 ISK",
		"2,500,000.00 ISK total payout",
		`href="/requests/personal/sort/pilot/"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRequestList_XHR(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.user(t, "pilot@example.com"))

	rec := env.get(t, "/requests/personal/ship/Crow/", cookie, "X-Requested-With", "XMLHttpRequest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp api.RequestListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Filter != "ship/Crow" || resp.Count != 1 || resp.Requests[0].ID != 101 {
		t.Errorf("got filter %q count %d", resp.Filter, resp.Count)
	}
	if resp.Pager.PerPage != 15 {
		t.Errorf("per page = %d, want 15", resp.Pager.PerPage)
	}
}

func TestRequestList_Statuses(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.user(t, "pilot@example.com"))

	tests := []struct {
		name     string
		path     string
		cookie   bool
		want     int
		location string
	}{
		{name: "anonymous", path: "/requests/all/", want: http.StatusFound, location: "/auth/login?redirect=/requests/all/"},
		{name: "root", path: "/", cookie: true, want: http.StatusFound, location: "/requests/personal/"},
		{name: "no trailing slash", path: "/requests/personal", cookie: true, want: http.StatusMovedPermanently, location: "/requests/personal/"},
		{name: "unsorted values", path: "/requests/personal/ship/Rifter,Crow/", cookie: true, want: http.StatusMovedPermanently, location: "/requests/personal/ship/Crow,Rifter/"},
		{name: "page past end", path: "/requests/personal/page/4/", cookie: true, want: http.StatusFound, location: "/requests/personal/"},
		{name: "unknown scope", path: "/requests/mine/", cookie: true, want: http.StatusNotFound},
		{name: "bad status", path: "/requests/personal/status/lost/", cookie: true, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cookie
			if !tt.cookie {
				c = nil
			}
			rec := env.get(t, tt.path, c)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestRequestList_FilterForm(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.user(t, "pilot@example.com"))

	tests := []struct {
		name string
		path string
		form url.Values
		want string
	}{
		{"add token", "/requests/all/page/2/", url.Values{"token": {"ship:Rifter"}}, "/requests/all/ship/Rifter/"},
		{"add exclude", "/requests/all/ship/Rifter/", url.Values{"token": {"pilot:-Foo Bar"}}, "/requests/all/pilot/-Foo%20Bar/ship/Rifter/"},
		{"remove token", "/requests/all/page/3/ship/Crow,Rifter/", url.Values{"remove": {"ship:Crow"}}, "/requests/all/ship/Rifter/"},
		{"bad token keeps page", "/requests/all/page/2/", url.Values{"token": {"bogus:x"}}, "/requests/all/page/2/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.post(t, tt.path, cookie, tt.form)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequest_ShowAndSetStatus(t *testing.T) {
	env := newTestEnv(t)
	reviewer := env.user(t, "reviewer@example.com")
	env.grant(t, reviewer, store.PermReview)
	cookie := env.login(t, reviewer)
	outsider := env.login(t, env.user(t, "outsider@example.com"))

	if rec := env.get(t, "/request/100", outsider); rec.Code != http.StatusNotFound {
		t.Errorf("outsider status = %d, want 404", rec.Code)
	}

	rec := env.get(t, "/request/100", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("show status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `value="approved"`) {
		t.Error("reviewer has no approve button")
	}

	if !strings.Contains(rec.Body.String(), "No status changes yet.") {
		t.Error("empty history not shown")
	}

	rec = env.post(t, "/request/100/status", cookie, url.Values{"status": {"approved"}, "note": {"Killmail checks out."}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/request/100" {
		t.Fatalf("set status = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	got, err := env.requests.Get(t.Context(), 100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != store.StatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}

	rec = env.get(t, "/request/100", cookie)
	if !strings.Contains(rec.Body.String(), "Request marked approved.") {
		t.Error("flash not shown after status change")
	}
	if !strings.Contains(rec.Body.String(), "by reviewer@example.com") || !strings.Contains(rec.Body.String(), "Killmail checks out.") {
		t.Error("approval missing from history")
	}

	// Reviewers cannot pay.
	env.post(t, "/request/100/status", cookie, url.Values{"status": {"paid"}})
	rec = env.get(t, "/request/100", cookie)
	if !strings.Contains(rec.Body.String(), "You may not make that change.") {
		t.Error("forbidden flash not shown")
	}
}
