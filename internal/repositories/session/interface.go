package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/gymbuddy/gymbuddy/internal/repositories/session Repository

import (
	"context"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

// Repository defines the interface for session data persistence
type Repository interface {
	// SaveSession persists a brand new session
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// ListSessions retrieves every stored session
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// UpdateSession replaces a session record. The write only succeeds when
	// the stored version still matches the version the caller read, so two
	// racing writers cannot silently drop each other's changes.
	UpdateSession(ctx context.Context, input *UpdateSessionInput) (*models.Session, error)
}
