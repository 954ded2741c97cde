package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DukeRupert/parkiez/internal/domain"
)

// Claims is the payload of the session cookie. Subject holds the operator
// username; Token holds the backend access token used for API calls.
type Claims struct {
	Token string `json:"tok"`
	jwt.RegisteredClaims
}

// Manager mints and verifies HS256 session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns how long issued sessions stay valid.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session token for the operator.
func (m *Manager) Issue(op *domain.Operator) (string, error) {
	const opName = "session.Issue"
	if op == nil || op.Username == "" || op.AccessToken == "" {
		return "", domain.Invalid(opName, "operator credentials are required")
	}

	now := m.now()
	claims := Claims{
		Token: op.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.Username,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", domain.Internal(err, opName, "failed to sign session")
	}
	return signed, nil
}

// Parse verifies a session token and returns the operator it identifies.
// Expired, tampered or malformed tokens yield an EUNAUTHORIZED error.
func (m *Manager) Parse(tokenString string) (*domain.Operator, error) {
	const opName = "session.Parse"
	if tokenString == "" {
		return nil, domain.Unauthorized(opName, "no session")
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.Unauthorized(opName, "session expired")
		}
		return nil, domain.Unauthorized(opName, "invalid session")
	}
	if !tok.Valid || claims.Subject == "" || claims.Token == "" {
		return nil, domain.Unauthorized(opName, "invalid session")
	}

	return &domain.Operator{
		Username:    claims.Subject,
		AccessToken: claims.Token,
	}, nil
}

// SetCookie writes the session cookie. secure should be true outside development.
func (m *Manager) SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     CookiePath,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
