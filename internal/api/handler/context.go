package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
)

// currentIdentity extracts the authenticated identity placed by the session
// bridge. Gated handlers only run behind RequireAccount, so ok=false means
// the ordering contract was broken; callers fail closed by redirecting to
// login instead of proceeding with a half-populated context.
func currentIdentity(c echo.Context) (domain.Identity, bool) {
	return middleware.Visitor(c).Identity()
}
