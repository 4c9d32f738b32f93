package handler

import (
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/evesrp/evesrp/internal/auth"
	"github.com/evesrp/evesrp/internal/store"
)

func init() {
	// Flashes are stored in the session, which gob-encodes its values.
	gob.Register(Flash{})
}

// flasher pops and sets one-time session messages.
type flasher struct {
	sessions *scs.SessionManager
}

func (f flasher) set(r *http.Request, typ, message string) {
	f.sessions.Put(r.Context(), auth.SessionFlashKey, Flash{Type: typ, Message: message})
}

// basePage builds the layout data for user, consuming any pending flash.
func (f flasher) basePage(r *http.Request, user *store.User, nav string) BasePage {
	bp := BasePage{User: user, Nav: nav}
	if fl, ok := f.sessions.Pop(r.Context(), auth.SessionFlashKey).(Flash); ok {
		bp.Flash = &fl
	}
	return bp
}
