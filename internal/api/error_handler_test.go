package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/akira/credential-service/internal/core/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind domain.Kind
		code int
	}{
		{domain.KindConflict, http.StatusConflict},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindBadRequest, http.StatusBadRequest},
		{domain.KindUnauthorized, http.StatusUnauthorized},
		{domain.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.kind); got != tt.code {
			t.Fatalf("%s: expected %d, got %d", tt.kind, tt.code, got)
		}
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "wrapped domain error keeps its kind",
			err:  fmt.Errorf("update password: %w", domain.ErrUserNotFound),
			code: http.StatusNotFound,
			body: `{"message":"` + domain.ErrUserNotFound.Message + `","status":"ERROR","data":null}`,
		},
		{
			name: "echo error",
			err:  echo.NewHTTPError(http.StatusForbidden, "forbidden"),
			code: http.StatusForbidden,
			body: `{"message":"forbidden","status":"ERROR","data":null}`,
		},
		{
			name: "unknown error is hidden",
			err:  errors.New("dial tcp: connection refused"),
			code: http.StatusInternalServerError,
			body: `{"message":"internal server error","status":"ERROR","data":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if got := rec.Body.String(); got != tt.body+"\n" {
				t.Fatalf("unexpected body: %s", got)
			}
		})
	}
}
