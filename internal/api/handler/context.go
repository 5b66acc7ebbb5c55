package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akira/credential-service/internal/api/middleware"
	"github.com/akira/credential-service/internal/core/ports"
)

// ctxIdentity returns the identity injected by the Auth middleware, failing
// fast when the route was mounted without it or the token carried no email.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity.Email == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return identity, nil
}
