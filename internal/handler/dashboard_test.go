package handler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DukeRupert/parkiez/internal/templ/pages/dashboard"
	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

func TestDashboardShow_ShowsFlashOnce(t *testing.T) {
	renderer := &mockRenderer{}
	h := NewDashboardHandler(renderer, discardLogger(), false)

	// Produce the cookie the way a successful submission does.
	setRec := httptest.NewRecorder()
	setFlash(setRec, shared.Success("Attendant Added Successfully"), false)
	flash := findCookie(setRec, flashCookieName)
	if flash == nil {
		t.Fatal("setFlash wrote no cookie")
	}

	req := withOperator(httptest.NewRequest(http.MethodGet, DashboardPath, nil))
	req.AddCookie(flash)
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	data := renderer.data.(dashboard.PageData)
	if data.Flash == nil || data.Flash.Message != "Attendant Added Successfully" {
		t.Fatalf("flash = %+v", data.Flash)
	}
	if data.Operator != testOperator.Username {
		t.Errorf("Operator = %q", data.Operator)
	}

	// A reload without the cookie shows nothing.
	rec = httptest.NewRecorder()
	h.Show(rec, withOperator(httptest.NewRequest(http.MethodGet, DashboardPath, nil)))
	if data := renderer.data.(dashboard.PageData); data.Flash != nil {
		t.Errorf("flash shown twice: %+v", data.Flash)
	}
}

func TestPopFlash_IgnoresGarbage(t *testing.T) {
	tests := []string{
		"%%%",
		base64.RawURLEncoding.EncodeToString([]byte("{not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"Type":"success"}`)),
	}
	for _, value := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: flashCookieName, Value: value})
		if got := popFlash(httptest.NewRecorder(), req, false); got != nil {
			t.Errorf("popFlash(%q) = %+v, want nil", value, got)
		}
	}
}

func TestDashboardRoot_Redirects(t *testing.T) {
	h := NewDashboardHandler(&mockRenderer{}, discardLogger(), false)

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != DashboardPath {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "{\"status\":\"ok\"}\n" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}
