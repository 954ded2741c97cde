package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/parkiez/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	token, err := m.Issue(&domain.Operator{Username: "9876543210", AccessToken: "backend-token"})
	require.NoError(t, err)

	op, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", op.Username)
	assert.Equal(t, "backend-token", op.AccessToken)
	assert.Equal(t, "Bearer backend-token", op.AuthorizationHeader())
}

func TestManager_IssueRequiresCredentials(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	_, err := m.Issue(nil)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = m.Issue(&domain.Operator{Username: "op"})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestManager_ParseRejectsExpired(t *testing.T) {
	m := NewManager(testSecret, time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(&domain.Operator{Username: "op", AccessToken: "tok"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	require.Error(t, err)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	assert.Equal(t, "session expired", domain.ErrorMessage(err))
}

func TestManager_ParseRejectsForeignSignature(t *testing.T) {
	issuer := NewManager("another-secret-another-secret-xx", time.Hour)
	token, err := issuer.Issue(&domain.Operator{Username: "op", AccessToken: "tok"})
	require.NoError(t, err)

	m := NewManager(testSecret, time.Hour)
	_, err = m.Parse(token)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestManager_ParseRejectsGarbage(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.Parse(token)
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err), "token %q", token)
	}
}

func TestSetAndClearCookie(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, "signed", true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, "signed", cookies[0].Value)
	assert.Equal(t, 7200, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	ClearCookie(rec, false)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
