package scheduling

import "context"

// Service defines the interface for session scheduling operations
type Service interface {
	// CreateSession creates a new workout session owned by the acting user
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// GetSession retrieves a session along with the viewer's derived state
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// ListSessions retrieves sessions, optionally filtered by workout type
	// and a free-text query
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// RequestToJoin adds the acting user to a session's pending requests
	RequestToJoin(ctx context.Context, input *RequestToJoinInput) (*RequestToJoinOutput, error)

	// AcceptRequest moves a pending request to the accepted members,
	// creator only
	AcceptRequest(ctx context.Context, input *AcceptRequestInput) (*AcceptRequestOutput, error)

	// RejectRequest drops a pending request, creator only
	RejectRequest(ctx context.Context, input *RejectRequestInput) (*RejectRequestOutput, error)

	// RateSession records the acting user's score for a past session
	RateSession(ctx context.Context, input *RateSessionInput) (*RateSessionOutput, error)
}
