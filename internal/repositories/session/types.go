package session

import "github.com/gymbuddy/gymbuddy/internal/models"

type SaveSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type ListSessionsInput struct {
}

type ListSessionsOutput struct {
	Sessions []*models.Session
}

type UpdateSessionInput struct {
	Session *models.Session
}
