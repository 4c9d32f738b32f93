package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/evesrp/evesrp/internal/filter"
)

// Request is a reimbursement claim for one lost ship. Payouts are ISK
// cents.
type Request struct {
	ID              int64     `db:"id" json:"id"`
	DivisionID      int64     `db:"division_id" json:"division_id"`
	DivisionName    string    `db:"division_name" json:"division"`
	SubmitterID     string    `db:"submitter_id" json:"submitter_id"`
	KillmailURL     string    `db:"killmail_url" json:"killmail_url"`
	Pilot           string    `db:"pilot" json:"pilot"`
	Corporation     string    `db:"corporation" json:"corporation"`
	Alliance        string    `db:"alliance" json:"alliance"`
	Ship            string    `db:"ship_type" json:"ship"`
	System          string    `db:"solar_system" json:"system"`
	Constellation   string    `db:"constellation" json:"constellation"`
	Region          string    `db:"region" json:"region"`
	KillTimestamp   time.Time `db:"kill_timestamp" json:"kill_timestamp"`
	SubmitTimestamp time.Time `db:"submit_timestamp" json:"submit_timestamp"`
	BasePayout      int64     `db:"base_payout" json:"base_payout"`
	Payout          int64     `db:"payout" json:"payout"`
	Details         string    `db:"details" json:"details"`
	Status          Status    `db:"status" json:"status"`
}

// NewRequest holds the caller-supplied fields of a request. The id is the
// killmail id.
type NewRequest struct {
	ID            int64
	DivisionID    int64
	SubmitterID   string
	KillmailURL   string
	Pilot         string
	Corporation   string
	Alliance      string
	Ship          string
	System        string
	Constellation string
	Region        string
	KillTimestamp time.Time
	BasePayout    int64
	Details       string
}

const selectRequests = `SELECT r.*, d.name AS division_name FROM requests r
	INNER JOIN divisions d ON d.id = r.division_id`

type RequestStore struct {
	db        *sqlx.DB
	divisions *DivisionStore
}

func NewRequestStore(db *sqlx.DB, divisions *DivisionStore) *RequestStore {
	return &RequestStore{db: db, divisions: divisions}
}

func (s *RequestStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts an evaluating request. Resubmitting a killmail yields
// ErrDuplicate.
func (s *RequestStore) Create(ctx context.Context, n NewRequest) (*Request, error) {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO requests (id, division_id, submitter_id, killmail_url, pilot, corporation, alliance,
			ship_type, solar_system, constellation, region, kill_timestamp, submit_timestamp,
			base_payout, payout, details, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), n.ID, n.DivisionID, n.SubmitterID, n.KillmailURL, n.Pilot, n.Corporation, n.Alliance,
		n.Ship, n.System, n.Constellation, n.Region, n.KillTimestamp.UTC(), time.Now().UTC(),
		n.BasePayout, n.BasePayout, n.Details, string(StatusEvaluating))
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("request %d: %w", n.ID, ErrDuplicate)
		}
		return nil, err
	}
	return s.Get(ctx, n.ID)
}

// Get returns the request with id, or ErrNotFound.
func (s *RequestStore) Get(ctx context.Context, id int64) (*Request, error) {
	var r Request
	err := s.db.GetContext(ctx, &r, s.q(selectRequests+` WHERE r.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CanView reports whether u may see request r: its submitter, any officer
// of its division, or a site admin.
func (s *RequestStore) CanView(ctx context.Context, r *Request, u *User) (bool, error) {
	if r.SubmitterID == u.ID {
		return true, nil
	}
	return s.divisions.HasPermission(ctx, u, r.DivisionID, PermReview, PermPay, PermAdmin)
}

// Action is one recorded status change of a request. Type is the status the
// request moved to.
type Action struct {
	ID        string    `db:"id" json:"id"`
	RequestID int64     `db:"request_id" json:"-"`
	Seq       int       `db:"seq" json:"-"`
	UserID    string    `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"user"`
	Type      Status    `db:"type" json:"type"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

// SetStatus moves request id to status to on behalf of actor and records the
// change with note. The move must be an edge of the status machine and actor
// must hold one of the division permissions that edge allows.
func (s *RequestStore) SetStatus(ctx context.Context, id int64, actor *User, to Status, note string) (*Request, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	perms, err := TransitionPermissions(r.Status, to)
	if err != nil {
		return nil, err
	}
	ok, err := s.divisions.HasPermission(ctx, actor, r.DivisionID, perms...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s to %s: %w", r.Status, to, ErrForbidden)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// The status guard makes a concurrent change lose cleanly.
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE requests SET status = ? WHERE id = ? AND status = ?`),
		string(to), id, string(r.Status))
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("%w: request %d changed concurrently", ErrInvalidTransition, id)
	}
	// The guarded update holds the request row, so seq cannot race.
	var seq int
	if err := tx.GetContext(ctx, &seq, tx.Rebind(`SELECT COALESCE(MAX(seq), 0) + 1 FROM actions WHERE request_id = ?`), id); err != nil {
		return nil, fmt.Errorf("next action seq: %w", err)
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO actions (id, request_id, seq, user_id, type, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), uuid.New().String(), id, seq, actor.ID, string(to), strings.TrimSpace(note), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("record action: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	r.Status = to
	return r, nil
}

// History returns the recorded status changes of request id, oldest first.
func (s *RequestStore) History(ctx context.Context, id int64) ([]*Action, error) {
	actions := []*Action{}
	err := s.db.SelectContext(ctx, &actions, s.q(`
		SELECT a.*, u.name AS user_name FROM actions a
		INNER JOIN users u ON u.id = a.user_id
		WHERE a.request_id = ? ORDER BY a.seq
	`), id)
	if err != nil {
		return nil, fmt.Errorf("request %d history: %w", id, err)
	}
	return actions, nil
}

// Actions returns the statuses actor may move request r to.
func (s *RequestStore) Actions(ctx context.Context, r *Request, actor *User) ([]Status, error) {
	var out []Status
	for _, next := range NextStatuses(r.Status) {
		perms, _ := TransitionPermissions(r.Status, next)
		ok, err := s.divisions.HasPermission(ctx, actor, r.DivisionID, perms...)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, next)
		}
	}
	return out, nil
}

// Scope limits a listing to what a user may see. The zero value restricts
// nothing.
type Scope struct {
	// SubmitterID, when set, shows only that user's requests.
	SubmitterID string
	// RestrictDivisions limits results to DivisionIDs; an empty list then
	// matches nothing.
	RestrictDivisions bool
	DivisionIDs       []int64
	// Statuses, when non-empty, limits results to those statuses.
	Statuses []Status
}

// Query is one page of a filtered listing. A nil Filter lists with default
// ordering, and PerPage of zero or less returns every matching row.
type Query struct {
	Filter  *filter.State
	Scope   Scope
	PerPage int
}

// ListResult is one page of requests plus totals over every matching row.
// TotalPayout leaves out rejected requests.
type ListResult struct {
	Requests    []*Request
	Count       int
	TotalPayout int64
}

// List returns the page of requests matching q.
func (s *RequestStore) List(ctx context.Context, q Query) (*ListResult, error) {
	if q.Filter == nil {
		q.Filter = filter.New()
	}
	w, err := buildWhere(q.Filter, q.Scope)
	if err != nil {
		return nil, err
	}

	var totals struct {
		Count int   `db:"n"`
		Total int64 `db:"total"`
	}
	countQuery := `SELECT COUNT(*) AS n,
		COALESCE(SUM(CASE WHEN r.status <> 'rejected' THEN r.payout ELSE 0 END), 0) AS total
		FROM requests r INNER JOIN divisions d ON d.id = r.division_id` + w.sql()
	if err := s.db.GetContext(ctx, &totals, s.q(countQuery), w.args...); err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}

	requests := []*Request{}
	listQuery := selectRequests + w.sql() + orderBy(q.Filter)
	args := w.args
	if q.PerPage > 0 {
		// Pages past the end select nothing. Checking before multiplying keeps
		// the offset from overflowing on a hand-edited page number.
		if q.Filter.Page-1 >= (totals.Count+q.PerPage-1)/q.PerPage {
			return &ListResult{Requests: requests, Count: totals.Count, TotalPayout: totals.Total}, nil
		}
		listQuery += ` LIMIT ? OFFSET ?`
		args = append(args, q.PerPage, (q.Filter.Page-1)*q.PerPage)
	}
	if err := s.db.SelectContext(ctx, &requests, s.q(listQuery), args...); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return &ListResult{Requests: requests, Count: totals.Count, TotalPayout: totals.Total}, nil
}
