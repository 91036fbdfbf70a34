package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

// datetimeLocalLayout is what an HTML datetime-local input submits
const datetimeLocalLayout = "2006-01-02T15:04"

// The functions in this file are the session state machine. Each one takes
// the full current record plus the acting identity, checks authorization and
// state preconditions, and mutates the record in place. They do no I/O; the
// service wrappers own reading and writing the record.

// parseStartsAt accepts RFC 3339 or the datetime-local form layout
func parseStartsAt(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(datetimeLocalLayout, raw)
}

// newSession validates a draft and builds the initial session record. The
// caller assigns the ID; invalid drafts never get one.
func newSession(input *CreateSessionInput, creator models.UserSnapshot, now time.Time) (*models.Session, error) {
	title := strings.TrimSpace(input.Title)
	workoutType := strings.TrimSpace(input.WorkoutType)
	location := strings.TrimSpace(input.Location)
	details := strings.TrimSpace(input.Details)

	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if workoutType == "" {
		return nil, fmt.Errorf("%w: workout type is required", ErrValidation)
	}
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrValidation)
	}
	if details == "" {
		return nil, fmt.Errorf("%w: details are required", ErrValidation)
	}
	if strings.TrimSpace(input.StartsAt) == "" {
		return nil, fmt.Errorf("%w: start time is required", ErrValidation)
	}

	startsAt, err := parseStartsAt(strings.TrimSpace(input.StartsAt))
	if err != nil {
		return nil, fmt.Errorf("%w: start time is not a valid timestamp", ErrValidation)
	}

	if !startsAt.After(now) {
		return nil, fmt.Errorf("%w: start time must be in the future", ErrValidation)
	}

	return &models.Session{
		Title:       title,
		WorkoutType: workoutType,
		Location:    location,
		StartsAt:    startsAt,
		Details:     details,
		CreatedAt:   now,
		Creator:     creator,
		Requests:    []models.UserSnapshot{},
		Accepted:    []models.UserSnapshot{},
		Ratings:     []models.Rating{},
	}, nil
}

// applyJoinRequest appends the actor to the pending requests. Creators
// cannot request their own session, and a user holds at most one place
// across requests and accepted members.
func applyJoinRequest(sess *models.Session, actor models.UserSnapshot) error {
	if actor.UserID == sess.Creator.UserID {
		return ErrForbidden
	}

	if snapshotIndex(sess.Requests, actor.UserID) >= 0 || snapshotIndex(sess.Accepted, actor.UserID) >= 0 {
		return ErrAlreadyMember
	}

	sess.Requests = append(sess.Requests, actor)
	return nil
}

// applyAcceptRequest moves a pending request into the accepted members,
// keeping the snapshot captured at request time and the order of the
// remaining requests.
func applyAcceptRequest(sess *models.Session, targetUserID, actorID string) error {
	if actorID != sess.Creator.UserID {
		return ErrForbidden
	}

	idx := snapshotIndex(sess.Requests, targetUserID)
	if idx < 0 {
		return ErrRequestNotFound
	}

	snapshot := sess.Requests[idx]
	sess.Requests = append(sess.Requests[:idx], sess.Requests[idx+1:]...)
	sess.Accepted = append(sess.Accepted, snapshot)
	return nil
}

// applyRejectRequest drops a pending request, order of the rest preserved
func applyRejectRequest(sess *models.Session, targetUserID, actorID string) error {
	if actorID != sess.Creator.UserID {
		return ErrForbidden
	}

	idx := snapshotIndex(sess.Requests, targetUserID)
	if idx < 0 {
		return ErrRequestNotFound
	}

	sess.Requests = append(sess.Requests[:idx], sess.Requests[idx+1:]...)
	return nil
}

// applyRating records an accepted member's score once the session has
// happened. A second rating by the same member overwrites the first.
func applyRating(sess *models.Session, actorID string, value int, now time.Time) error {
	if snapshotIndex(sess.Accepted, actorID) < 0 {
		return ErrForbidden
	}

	if !sess.StartsAt.Before(now) {
		return ErrTooEarly
	}

	if value < 1 || value > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	for i := range sess.Ratings {
		if sess.Ratings[i].UserID == actorID {
			sess.Ratings[i].Value = value
			return nil
		}
	}

	sess.Ratings = append(sess.Ratings, models.Rating{
		UserID: actorID,
		Value:  value,
	})
	return nil
}

// snapshotIndex returns the position of a user in a snapshot list, -1 when
// absent
func snapshotIndex(snapshots []models.UserSnapshot, userID string) int {
	for i := range snapshots {
		if snapshots[i].UserID == userID {
			return i
		}
	}
	return -1
}
