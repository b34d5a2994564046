package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

func runErrorHandler(err error, legacy bool) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop(), legacy)(err, c)
	return rec
}

func TestHTTPErrorHandler_Structured(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid id", domain.ErrInvalidID, http.StatusNotFound, "invalid id"},
		{"wrapped invalid id", fmt.Errorf("record exercise: %w", domain.ErrInvalidID), http.StatusNotFound, "invalid id"},
		{"unknown user", domain.ErrUserNotFound, http.StatusNotFound, "unknown user"},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest, "invalid date"},
		{"invalid duration", domain.ErrInvalidDuration, http.StatusBadRequest, "invalid duration"},
		{"invalid username", domain.ErrInvalidUsername, http.StatusBadRequest, "invalid username"},
		{"request in progress", domain.ErrRequestInProgress, http.StatusConflict, "request in progress"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"store failure", errors.New("connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runErrorHandler(tt.err, false)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("expected JSON body, got %q", rec.Body.String())
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_Legacy(t *testing.T) {
	rec := runErrorHandler(fmt.Errorf("record exercise: %w", domain.ErrInvalidID), true)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 in legacy mode, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextPlain) {
		t.Fatalf("expected text/plain, got %q", ct)
	}
	if rec.Body.String() != "invalid id" {
		t.Fatalf("expected plain message, got %q", rec.Body.String())
	}

	rec = runErrorHandler(domain.ErrInvalidDate, true)
	if rec.Code != http.StatusOK || rec.Body.String() != "invalid date" {
		t.Fatalf("unexpected legacy response %d %q", rec.Code, rec.Body.String())
	}
}

func TestHTTPErrorHandler_LegacyBadRequestIsPlainText(t *testing.T) {
	rec := runErrorHandler(echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), true)
	if rec.Code != http.StatusOK || rec.Body.String() != "invalid payload" {
		t.Fatalf("expected legacy 200 invalid payload, got %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMETextPlain) {
		t.Fatalf("expected text/plain, got %q", ct)
	}

	rec = runErrorHandler(echo.ErrNotFound, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown routes keep their status in legacy mode, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_LegacyKeepsStoreFailures500(t *testing.T) {
	rec := runErrorHandler(errors.New("timeout"), true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "timeout") {
		t.Fatalf("store error leaked to client: %q", rec.Body.String())
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusAccepted, "done")

	NewHTTPErrorHandler(zerolog.Nop(), false)(domain.ErrInvalidDate, c)

	if rec.Code != http.StatusAccepted || rec.Body.String() != "done" {
		t.Fatalf("committed response was overwritten: %d %q", rec.Code, rec.Body.String())
	}
}
