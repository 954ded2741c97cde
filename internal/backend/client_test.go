package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/parkiez/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

var testOperator = &domain.Operator{Username: "9876543210", AccessToken: "tok-123"}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{}, slog.Default())
	assert.Error(t, err)
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, SignInPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "9876543210", creds.Username)
		assert.Equal(t, "Secret1!", creds.Password)

		json.NewEncoder(w).Encode(SignInResponse{Username: "9876543210", AccessToken: "jwt", TokenType: "Bearer"})
	})

	op, err := c.SignIn(context.Background(), Credentials{Username: "9876543210", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", op.Username)
	assert.Equal(t, "jwt", op.AccessToken)
}

func TestSignIn_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	_, err := c.SignIn(context.Background(), Credentials{Username: "x", Password: "y"})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	assert.Equal(t, "Bad credentials", domain.ErrorMessage(err))
}

func TestListParkings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, GetParkingsPath, r.URL.Path)
		assert.Equal(t, "9876543210", r.URL.Query().Get("phoneNo"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		w.Write([]byte(`[{"parkingId":7,"title":"Main Lot"},{"parkingId":"P-2","title":"Annex"}]`))
	})

	parkings, err := c.ListParkings(context.Background(), testOperator)
	require.NoError(t, err)
	assert.Equal(t, []domain.ParkingOption{
		{ParkingID: "7", Title: "Main Lot"},
		{ParkingID: "P-2", Title: "Annex"},
	}, parkings)
}

func TestListParkings_NoOperator(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called without an operator")
	})

	_, err := c.ListParkings(context.Background(), nil)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestAddAttendant(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, AddAttendantPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var in domain.AttendantInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, domain.AttendantInput{Name: "Ravi", PhoneNo: "9876543210", ParkingID: "7", Password: "Abcdef1!"}, in)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("Attendant added"))
	})

	err := c.AddAttendant(context.Background(), testOperator, domain.AttendantInput{
		Name: "Ravi", PhoneNo: "9876543210", ParkingID: "7", Password: "Abcdef1!",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAddAttendant_ServerErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{"plain text conflict", http.StatusConflict, "Phone number already registered", domain.ECONFLICT, "Phone number already registered"},
		{"json message", http.StatusBadRequest, `{"message":"Parking not found"}`, domain.EINVALID, "Parking not found"},
		{"json error key", http.StatusBadRequest, `{"error":"Bad Request"}`, domain.EINVALID, "Bad Request"},
		{"empty 4xx", http.StatusBadRequest, "", domain.EINTERNAL, "An internal error occurred. Please try again later."},
		{"server error with message", http.StatusInternalServerError, `{"message":"Database down"}`, domain.EUNAVAILABLE, "Database down"},
		{"html error page", http.StatusBadGateway, "<html>bad gateway</html>", domain.EINTERNAL, "An internal error occurred. Please try again later."},
		{"expired token", http.StatusUnauthorized, "", domain.EUNAUTHORIZED, "Your session has expired. Please sign in again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.AddAttendant(context.Background(), testOperator, domain.AttendantInput{})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
			assert.Equal(t, tt.wantMsg, domain.ErrorMessage(err))
		})
	}
}

func TestAddAttendant_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: url, Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	err = c.AddAttendant(context.Background(), testOperator, domain.AttendantInput{})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

func TestExtractMessage(t *testing.T) {
	assert.Equal(t, "", extractMessage(nil))
	assert.Equal(t, "plain", extractMessage([]byte("  plain \n")))
	assert.Equal(t, "quoted", extractMessage([]byte(`"quoted"`)))
	assert.Equal(t, "msg", extractMessage([]byte(`{"message":"msg","error":"err"}`)))
	assert.Equal(t, "err", extractMessage([]byte(`{"error":"err"}`)))
}
