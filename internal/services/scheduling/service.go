package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gymbuddy/gymbuddy/internal/common/clock"
	"github.com/gymbuddy/gymbuddy/internal/common/uuid"
	"github.com/gymbuddy/gymbuddy/internal/models"
	sessionRepo "github.com/gymbuddy/gymbuddy/internal/repositories/session"
)

// Config holds the dependencies for the scheduling service
type Config struct {
	// SessionRepo persists session records
	SessionRepo sessionRepo.Repository

	// Clock supplies the current time
	Clock clock.Clock

	// UUID generates session IDs
	UUID uuid.UUID
}

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	clock       clock.Clock
	uuid        uuid.UUID
}

// New creates a new scheduling service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUID == nil {
		return nil, ErrNilUUID
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
	}, nil
}

// CreateSession creates a new workout session owned by the acting user
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Actor == nil {
		return nil, errors.New("acting user cannot be nil")
	}

	sess, err := newSession(input, input.Actor.Snapshot(), s.clock.Now())
	if err != nil {
		return nil, err
	}
	sess.ID = s.uuid.NewUUID()

	err = s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: sess,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return &CreateSessionOutput{
		Session: sess,
	}, nil
}

// GetSession retrieves a session along with the viewer's derived state
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{
		Session:       sess,
		ViewerStatus:  MemberStatusFor(sess, input.ViewerID),
		AverageRating: AverageRating(sess),
		CanRate:       CanRate(sess, input.ViewerID, s.clock.Now()),
	}, nil
}

// ListSessions retrieves sessions filtered by workout type and free text,
// soonest first
func (s *service) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil {
		input = &ListSessionsInput{}
	}

	output, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	workoutType := strings.ToLower(strings.TrimSpace(input.WorkoutType))
	query := strings.ToLower(strings.TrimSpace(input.Query))

	sessions := make([]*models.Session, 0, len(output.Sessions))
	for _, sess := range output.Sessions {
		if workoutType != "" && strings.ToLower(sess.WorkoutType) != workoutType {
			continue
		}
		if query != "" && !matchesQuery(sess, query) {
			continue
		}
		sessions = append(sessions, sess)
	}

	// Soonest upcoming session first
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartsAt.Before(sessions[j].StartsAt)
	})

	return &ListSessionsOutput{
		Sessions: sessions,
	}, nil
}

// RequestToJoin adds the acting user to a session's pending requests
func (s *service) RequestToJoin(ctx context.Context, input *RequestToJoinInput) (*RequestToJoinOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Actor == nil {
		return nil, errors.New("acting user cannot be nil")
	}

	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := applyJoinRequest(sess, input.Actor.Snapshot()); err != nil {
		return nil, err
	}

	updated, err := s.updateSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &RequestToJoinOutput{
		Session: updated,
	}, nil
}

// AcceptRequest moves a pending request to the accepted members
func (s *service) AcceptRequest(ctx context.Context, input *AcceptRequestInput) (*AcceptRequestOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Actor == nil {
		return nil, errors.New("acting user cannot be nil")
	}

	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := applyAcceptRequest(sess, input.TargetUserID, input.Actor.ID); err != nil {
		return nil, err
	}

	updated, err := s.updateSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &AcceptRequestOutput{
		Session: updated,
	}, nil
}

// RejectRequest drops a pending request
func (s *service) RejectRequest(ctx context.Context, input *RejectRequestInput) (*RejectRequestOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Actor == nil {
		return nil, errors.New("acting user cannot be nil")
	}

	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := applyRejectRequest(sess, input.TargetUserID, input.Actor.ID); err != nil {
		return nil, err
	}

	updated, err := s.updateSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &RejectRequestOutput{
		Session: updated,
	}, nil
}

// RateSession records the acting user's score for a past session
func (s *service) RateSession(ctx context.Context, input *RateSessionInput) (*RateSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Actor == nil {
		return nil, errors.New("acting user cannot be nil")
	}

	sess, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := applyRating(sess, input.Actor.ID, input.Rating, s.clock.Now()); err != nil {
		return nil, err
	}

	updated, err := s.updateSession(ctx, sess)
	if err != nil {
		return nil, err
	}

	return &RateSessionOutput{
		Session: updated,
	}, nil
}

// getSession loads a session, translating the repository's not-found error
func (s *service) getSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session ID is required", ErrValidation)
	}

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return sess, nil
}

// updateSession writes a modified record back. Store failures, including a
// lost optimistic-concurrency race, pass through untouched so the caller can
// re-read and retry.
func (s *service) updateSession(ctx context.Context, sess *models.Session) (*models.Session, error) {
	updated, err := s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
		Session: sess,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrVersionConflict) {
			return nil, err
		}
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return updated, nil
}

// matchesQuery reports whether a session matches a lowercased free-text
// query. The query searches title, location, details, and the creator's
// name; workout type has its own dedicated filter.
func matchesQuery(sess *models.Session, query string) bool {
	return strings.Contains(strings.ToLower(sess.Title), query) ||
		strings.Contains(strings.ToLower(sess.Location), query) ||
		strings.Contains(strings.ToLower(sess.Details), query) ||
		strings.Contains(strings.ToLower(sess.Creator.Name), query)
}
