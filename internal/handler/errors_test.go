package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal %q: %v", rec.Body.String(), err)
	}
	if env.Success {
		t.Error("success = true, want false")
	}
	return env
}

func TestHTTPErrorHandler_NotFound(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/nope", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if env := decodeFailure(t, rec); env.Error != "Not Found" {
		t.Errorf("error = %q, want %q", env.Error, "Not Found")
	}
}

func TestHTTPErrorHandler_PlainError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(testLogger())
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })
	e.GET("/silent", func(echo.Context) error { return errors.New("") })

	tests := []struct {
		path string
		want string
	}{
		{"/boom", "boom"},
		{"/silent", msgUnknownError},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, http.StatusInternalServerError)
		}
		if env := decodeFailure(t, rec); env.Error != tt.want {
			t.Errorf("%s: error = %q, want %q", tt.path, env.Error, tt.want)
		}
	}
}

func TestHTTPErrorHandler_RecoveredPanic(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(testLogger())
	e.Use(echomw.Recover())
	e.GET("/panic", func(echo.Context) error { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if env := decodeFailure(t, rec); !strings.Contains(env.Error, "kaboom") {
		t.Errorf("error = %q, want it to mention the panic value", env.Error)
	}
}

func TestHTTPErrorHandler_BodyLimitOnFetch(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(testLogger())
	e.Use(echomw.BodyLimit("64B"))
	e.POST("/api/fetch", newTestFetchHandler(nil, nil).Handle)

	body := `{"url":"https://example.com/` + strings.Repeat("a", 128) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/fetch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	decodeFailure(t, rec)
}
