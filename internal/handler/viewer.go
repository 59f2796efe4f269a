package handler

import (
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/labstack/echo/v4"
)

// viewerFrom builds the rule-layer identity for the request. The uid comes
// from the auth middleware; admin status from our own user table. Lookup
// failures degrade to a regular user rather than failing the request.
func viewerFrom(c echo.Context, users repository.UserRepository) rules.Viewer {
	uid, _ := c.Get("uid").(string)
	v := rules.Viewer{UserID: uid}
	if uid == "" || users == nil {
		return v
	}
	if isAdmin, err := users.IsAdmin(c.Request().Context(), uid); err == nil {
		v.IsAdmin = isAdmin
	}
	return v
}

func uidFrom(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
