// Package session issues and verifies the signed operator session cookie
// shared by the handler and middleware packages.
package session

const (
	// CookieName is the name of the cookie that stores the session token.
	CookieName = "parkiez_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"

	// Issuer identifies tokens minted by the console.
	Issuer = "parkiez-console"
)
