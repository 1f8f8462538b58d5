package blogfront

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const prefsSessionName = "prefs"

// Preferences are the reader's sticky choices, kept in a cookie session:
// no accounts, no server-side profile.
type Preferences struct {
	Theme            string
	FavoriteCategory Category
}

// DefaultPreferences is what a first-time visitor gets.
var DefaultPreferences = Preferences{
	Theme:            "dark",
	FavoriteCategory: CategoryAll,
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 180,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// ReadPreferences extracts the visitor's preferences from the session,
// falling back to defaults on any problem.
func ReadPreferences(c echo.Context) Preferences {
	sess, err := session.Get(prefsSessionName, c)
	if err != nil {
		return DefaultPreferences
	}
	prefs := DefaultPreferences
	if v, ok := sess.Values["theme"].(string); ok && (v == "light" || v == "dark") {
		prefs.Theme = v
	}
	if v, ok := sess.Values["favorite"].(string); ok {
		cat := Category(v)
		for _, known := range Categories {
			if cat == known {
				prefs.FavoriteCategory = cat
			}
		}
	}
	return prefs
}

// SavePreferences persists prefs into the session cookie.
func SavePreferences(c echo.Context, prefs Preferences) error {
	sess, err := session.Get(prefsSessionName, c)
	if err != nil {
		return err
	}
	sess.Values["theme"] = prefs.Theme
	sess.Values["favorite"] = string(prefs.FavoriteCategory)
	return sess.Save(c.Request(), c.Response())
}
