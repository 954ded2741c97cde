package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layouts/auth.html": {Data: []byte(`{{define "auth"}}<main class="auth">{{template "content" .}}</main>{{end}}`)},
		"layouts/app.html": {Data: []byte(`{{define "app"}}<div id="toast-container">{{toast .Flash}}</div><main>{{template "content" .}}</main>{{end}}`)},
		"partials/greeting.html": {Data: []byte(`{{define "greeting"}}<p>Hello {{.Name}}</p>{{end}}`)},
		"partials/card.html": {Data: []byte(`{{define "card"}}<section>{{template "greeting" .}}</section>{{end}}`)},
		"pages/auth/login.html": {Data: []byte(`{{define "content"}}login {{.Name}}{{end}}`)},
		"pages/dashboard.html": {Data: []byte(`{{define "content"}}{{template "card" .}}{{end}}`)},
		"pages/attendants/new.html": {Data: []byte(`{{define "content"}}new attendant{{end}}`)},
	}
}

type pageData struct {
	Name  string
	Flash *shared.Flash
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererConfig{FS: testTemplates(), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderer_PagesUseTheirLayout(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name string
		want string
	}{
		{"auth/login", `<main class="auth">login Ravi</main>`},
		{"dashboard", `<main><section><p>Hello Ravi</p></section></main>`},
		{"attendants/new", `<main>new attendant</main>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.RenderHTTP(rec, tt.name, pageData{Name: "Ravi"})

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestRenderer_RenderHTTPStatus(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.RenderHTTPStatus(rec, http.StatusUnprocessableEntity, "attendants/new", pageData{})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.RenderHTTP(rec, "missing", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRenderer_FlashRendersToast(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.RenderHTTP(rec, "attendants/new", pageData{Flash: shared.Success("Attendant Added Successfully")})

	body := rec.Body.String()
	if !strings.Contains(body, `data-toast="success"`) {
		t.Errorf("expected success toast, got %q", body)
	}
	if !strings.Contains(body, "Attendant Added Successfully") {
		t.Errorf("expected toast message, got %q", body)
	}
}

func TestRenderer_PartialsCompose(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.RenderPartial(rec, "card", pageData{Name: "<b>Ravi</b>"})

	body := rec.Body.String()
	if body != `<section><p>Hello &lt;b&gt;Ravi&lt;/b&gt;</p></section>` {
		t.Errorf("body = %q", body)
	}
}

func TestRenderer_PartialWithToastAppendsOOB(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.RenderPartialWithToast(rec, "greeting", pageData{Name: "Ravi"}, ToastData{
		Type:    "error",
		Message: `Failed <to> add`,
	})

	body := rec.Body.String()
	if !strings.HasPrefix(body, "<p>Hello Ravi</p>") {
		t.Errorf("partial should come first, got %q", body)
	}
	if !strings.Contains(body, `hx-swap-oob="beforeend:#toast-container"`) {
		t.Errorf("expected OOB wrapper, got %q", body)
	}
	if !strings.Contains(body, "Failed &lt;to&gt; add") {
		t.Errorf("toast message should be escaped, got %q", body)
	}
	if !strings.Contains(body, `role="alert"`) {
		t.Errorf("error toast should use role=alert, got %q", body)
	}
}

func TestRenderer_UnknownPartial(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	r.RenderPartial(rec, "missing", nil)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRenderer_DevModeReloads(t *testing.T) {
	fsys := testTemplates()
	r, err := NewRenderer(RendererConfig{FS: fsys, Logger: discardLogger(), IsDev: true})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	fsys["partials/greeting.html"] = &fstest.MapFile{Data: []byte(`{{define "greeting"}}<p>Hi {{.Name}}</p>{{end}}`)}

	rec := httptest.NewRecorder()
	r.RenderPartial(rec, "greeting", pageData{Name: "Ravi"})

	if rec.Body.String() != "<p>Hi Ravi</p>" {
		t.Errorf("body = %q, want reloaded partial", rec.Body.String())
	}
}
