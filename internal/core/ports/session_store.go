package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// SessionStore persists the server-side session record: the mirrored
// identity snapshot plus the one-shot flash queue.
type SessionStore interface {
	Get(ctx context.Context, sid string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, sid string) error
}
