package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// State wraps the server-side session record for one request. Mutations are
// written through to the store immediately; a store failure is logged and
// swallowed so the flash queue and mirror never take a page down.
type State struct {
	session *domain.Session
	store   ports.SessionStore
	log     zerolog.Logger
}

// Flash queues a one-shot notice for the next rendered page.
func (s *State) Flash(c echo.Context, kind domain.NoticeKind, message string) {
	s.session.Flash = append(s.session.Flash, domain.Notice{Kind: kind, Message: message})
	s.save(c)
}

// PopNotices returns all queued notices and clears the queue.
func (s *State) PopNotices(c echo.Context) []domain.Notice {
	notices := s.session.Flash
	if len(notices) == 0 {
		return nil
	}
	s.session.Flash = nil
	s.save(c)
	return notices
}

// MirrorIdentity caches the last verified identity in the session record so
// later requests in the same session can read it without re-decoding the
// token. The token remains the authority; this is never consulted for
// authorization.
func (s *State) MirrorIdentity(c echo.Context, identity domain.Identity) {
	if s.session.Identity != nil && *s.session.Identity == identity {
		return
	}
	s.session.Identity = &identity
	s.save(c)
}

// ClearIdentity invalidates the mirror. Called whenever token verification
// fails and on logout; the mirror never outlives the token.
func (s *State) ClearIdentity(c echo.Context) {
	if s.session.Identity == nil {
		return
	}
	s.session.Identity = nil
	s.save(c)
}

// Destroy removes the whole record, flash queue included.
func (s *State) Destroy(c echo.Context) {
	if err := s.store.Delete(c.Request().Context(), s.session.ID); err != nil {
		s.log.Warn().Err(err).Msg("session delete failed")
	}
	s.session.Identity = nil
	s.session.Flash = nil
}

func (s *State) save(c echo.Context) {
	if err := s.store.Save(c.Request().Context(), s.session); err != nil {
		s.log.Warn().Err(err).Msg("session save failed")
	}
}
