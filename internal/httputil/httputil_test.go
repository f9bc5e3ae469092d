package httputil

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neboloop/cryptoportal/internal/logging"
)

type resetForm struct {
	Token    string `form:"token"`
	Password string `form:"password"`
	Attempts int    `form:"attempts"`
	Remember bool   `form:"remember"`
}

func TestParseForm(t *testing.T) {
	body := strings.NewReader("password=Secret1%21&attempts=2&remember=true")
	r := httptest.NewRequest(http.MethodPost, "/reset-password?token=abc123", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f resetForm
	if err := Parse(r, &f); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := resetForm{Token: "abc123", Password: "Secret1!", Attempts: 2, Remember: true}
	if f != want {
		t.Errorf("got %+v, want %+v", f, want)
	}
}

func TestParseJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"t","password":"p"}`))
	r.Header.Set("Content-Type", "application/json")

	var f resetForm
	if err := Parse(r, &f); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Token != "t" || f.Password != "p" {
		t.Errorf("got %+v", f)
	}
}

func TestParseBadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	r.Header.Set("Content-Type", "application/json")
	if err := Parse(r, &resetForm{}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTooManyRequests(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequests(rec, 0)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}

func TestHTML(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`<p>{{.}}</p>`))

	rec := httptest.NewRecorder()
	HTML(rec, http.StatusGone, tmpl, "page", "<gone>")
	if rec.Code != http.StatusGone {
		t.Errorf("expected 410, got %d", rec.Code)
	}
	if rec.Body.String() != "<p>&lt;gone&gt;</p>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHTMLTemplateFailure(t *testing.T) {
	logging.Disable()
	defer logging.Enable()

	tmpl := template.Must(template.New("page").Parse(`<p>{{.Missing}}</p>`))
	rec := httptest.NewRecorder()
	HTML(rec, http.StatusOK, tmpl, "page", 42)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<p>") {
		t.Error("partial output leaked")
	}
}
