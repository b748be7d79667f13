package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
)

const (
	loginPath     = "/account/login"
	dashboardPath = "/account"
)

// RequireAccount aborts the chain for anonymous visitors: flash notice and
// redirect to login. This is navigation flow, not an API error, so the only
// status is the redirect itself.
func RequireAccount() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !Visitor(c).LoggedIn() {
				metrics.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()
				flash(c, domain.NoticeInfo, "Please log in to view this page.")
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}

// RequireStaff admits only Employee and Admin roles. Anonymous visitors go
// to login; authenticated Clients go back to their dashboard with a
// distinct notice. A missing identity reads as anonymous, so the gate
// fails closed rather than trusting an unpopulated context.
func RequireStaff() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := Visitor(c).Identity()
			if !ok {
				metrics.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()
				flash(c, domain.NoticeInfo, "Please log in to view this page.")
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			if !identity.Role.Staff() {
				metrics.AuthDenialsTotal.WithLabelValues("forbidden").Inc()
				flash(c, domain.NoticeError, "Your account is not authorized for this action.")
				return c.Redirect(http.StatusSeeOther, dashboardPath)
			}
			return next(c)
		}
	}
}

func flash(c echo.Context, kind domain.NoticeKind, message string) {
	if state := SessionState(c); state != nil {
		state.Flash(c, kind, message)
	}
}
