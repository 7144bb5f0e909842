package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arabemerge/helpdesk/internal/core/domain"
	"github.com/arabemerge/helpdesk/internal/core/ports"
)

// ctxSession extracts the session injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing e-mail
// means the middleware did not run, so the request is rejected rather than
// passed down with a zero identity.
func ctxSession(c echo.Context) (ports.Session, error) {
	email, _ := c.Get("email").(string)
	if email == "" {
		return ports.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	uid, _ := c.Get("uid").(string)
	role, _ := c.Get("role").(string)

	return ports.Session{
		UserID:  uid,
		Email:   email,
		IsAdmin: role == domain.RoleAdmin,
	}, nil
}
