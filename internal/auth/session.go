package auth

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

const (
	SessionUserIDKey = "user_id"
	SessionFlashKey  = "flash"
)

// NewSessionManager creates an scs session manager backed by the application
// database. driver selects the store: "mysql", "postgres", or "sqlite3".
// Cookies are marked Secure unless insecure is set for local development.
func NewSessionManager(db *sqlx.DB, driver string, lifetime time.Duration, insecure bool) *scs.SessionManager {
	sm := scs.New()
	switch driver {
	case "mysql":
		sm.Store = mysqlstore.New(db.DB)
	case "postgres":
		sm.Store = postgresstore.New(db.DB)
	default:
		sm.Store = sqlite3store.New(db.DB)
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "evesrp_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = !insecure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}
