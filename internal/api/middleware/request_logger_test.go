package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func serve(t *testing.T, h echo.HandlerFunc) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/ping", h)

	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	req.Header.Set(echo.HeaderXRequestID, "rid-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", buf.String(), err)
	}
	return event
}

func TestRequestLogger_Success(t *testing.T) {
	event := serve(t, func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	if event["level"] != "info" || event["status"] != float64(http.StatusNoContent) {
		t.Fatalf("unexpected event: %v", event)
	}
	if event["uri"] != "/ping?x=1" || event["method"] != http.MethodGet {
		t.Fatalf("unexpected request fields: %v", event)
	}
	if event["request_id"] != "rid-1" {
		t.Fatalf("expected request id from header, got %v", event["request_id"])
	}
}

func TestRequestLogger_ClientError(t *testing.T) {
	event := serve(t, func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})

	if event["level"] != "warn" || event["status"] != float64(http.StatusBadRequest) {
		t.Fatalf("unexpected event: %v", event)
	}
}

func TestRequestLogger_ServerError(t *testing.T) {
	event := serve(t, func(c echo.Context) error {
		return errors.New("store down")
	})

	if event["level"] != "error" || event["status"] != float64(http.StatusInternalServerError) {
		t.Fatalf("unexpected event: %v", event)
	}
	if event["error"] != "store down" {
		t.Fatalf("expected error cause, got %v", event["error"])
	}
}
