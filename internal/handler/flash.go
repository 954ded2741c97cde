package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

const (
	// flashCookieName carries a one-shot message across a redirect.
	flashCookieName = "parkiez_flash"

	// flashCookieMaxAge bounds how long an unread flash survives.
	flashCookieMaxAge = 60
)

// setFlash stores a flash message to be shown on the next page render.
func setFlash(w http.ResponseWriter, flash *shared.Flash, isSecure bool) {
	b, err := json.Marshal(flash)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   flashCookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the pending flash message and clears it, so it is shown
// exactly once. Returns nil when there is none or it cannot be decoded.
func popFlash(w http.ResponseWriter, r *http.Request, isSecure bool) *shared.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})

	b, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flash shared.Flash
	if err := json.Unmarshal(b, &flash); err != nil || flash.Message == "" {
		return nil
	}
	return &flash
}
