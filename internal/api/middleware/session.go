package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

const (
	// AuthCookie carries the signed bearer token.
	AuthCookie = "jwt"
	// SessionCookie carries the server-side session id (flash + mirror).
	SessionCookie = "sid"

	authCookieMaxAge = 3600

	visitorKey = "visitor"
	stateKey   = "session_state"
)

// SessionBridge verifies the bearer cookie on every request and publishes an
// immutable Visitor into the request context. The token is authoritative;
// the Redis session record only mirrors the last verified identity as a
// read cache and carries the flash queue.
type SessionBridge struct {
	tokens ports.TokenService
	store  ports.SessionStore
	secure bool
	log    zerolog.Logger
}

// NewSessionBridge builds the bridge. secure controls the cookie Secure flag
// and is false only in local development.
func NewSessionBridge(tokens ports.TokenService, store ports.SessionStore, secure bool, log zerolog.Logger) *SessionBridge {
	return &SessionBridge{tokens: tokens, store: store, secure: secure, log: log}
}

// Middleware runs on every request, before any authorization gate. The
// visitor it stores is always exactly one of anonymous or authenticated.
// Verification failures never abort the request here; redirect decisions
// belong to the gates.
func (b *SessionBridge) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := b.loadState(c)
			c.Set(stateKey, state)

			cookie, err := c.Cookie(AuthCookie)
			if err != nil || cookie.Value == "" {
				c.Set(visitorKey, domain.Anonymous())
				return next(c)
			}

			identity, err := b.tokens.Verify(cookie.Value)
			if err != nil {
				// Expired and tampered tokens are handled identically:
				// drop the credential and the mirror, queue a notice.
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				ClearAuthCookie(c, b.secure)
				state.ClearIdentity(c)
				state.Flash(c, domain.NoticeInfo, "Your session has ended. Please log in again.")
				c.Set(visitorKey, domain.Anonymous())
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(visitorKey, domain.Authenticated(identity))
			state.MirrorIdentity(c, identity)
			return next(c)
		}
	}
}

// loadState fetches or creates the server-side session record. Store
// failures degrade to an in-memory record so a Redis hiccup never breaks
// page rendering.
func (b *SessionBridge) loadState(c echo.Context) *State {
	sid := ""
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		sid = cookie.Value
	}

	if sid != "" {
		session, err := b.store.Get(c.Request().Context(), sid)
		if err != nil {
			b.log.Warn().Err(err).Msg("session load failed")
		} else if session != nil {
			return &State{session: session, store: b.store, log: b.log}
		}
	}

	sid = uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &State{session: &domain.Session{ID: sid}, store: b.store, log: b.log}
}

// Visitor returns the request identity placed by the bridge. A request that
// somehow reaches this before the bridge ran reads as anonymous; the
// gates fail closed.
func Visitor(c echo.Context) domain.Visitor {
	if v, ok := c.Get(visitorKey).(domain.Visitor); ok {
		return v
	}
	return domain.Anonymous()
}

// SessionState returns the per-request session wrapper, or nil when the
// bridge did not run.
func SessionState(c echo.Context) *State {
	s, _ := c.Get(stateKey).(*State)
	return s
}

// SetAuthCookie issues the bearer cookie after login or profile update.
func SetAuthCookie(c echo.Context, token string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie removes the bearer cookie on logout, password change, or
// verification failure.
func ClearAuthCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
