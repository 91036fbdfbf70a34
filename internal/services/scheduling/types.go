package scheduling

import "github.com/gymbuddy/gymbuddy/internal/models"

type CreateSessionInput struct {
	// Title is a short description of the workout
	Title string

	// WorkoutType is the category of workout
	WorkoutType string

	// Location is where the workout happens
	Location string

	// StartsAt is the scheduled moment, RFC 3339 or the HTML
	// datetime-local format (2006-01-02T15:04)
	StartsAt string

	// Details is free-form extra information
	Details string

	// Actor is the user creating the session
	Actor *models.User
}

type CreateSessionOutput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string

	// ViewerID is the user the derived fields are computed for; may be
	// empty for an anonymous viewer
	ViewerID string
}

type GetSessionOutput struct {
	Session *models.Session

	// ViewerStatus is the viewer's relationship to the session
	ViewerStatus models.MemberStatus

	// AverageRating is the mean of all ratings, 0 when there are none
	AverageRating float64

	// CanRate reports whether the viewer may rate the session right now
	CanRate bool
}

type ListSessionsInput struct {
	// WorkoutType filters by category when non-empty, case-insensitive
	WorkoutType string

	// Query filters by a case-insensitive substring match against title,
	// location and workout type when non-empty
	Query string
}

type ListSessionsOutput struct {
	Sessions []*models.Session
}

type RequestToJoinInput struct {
	SessionID string

	// Actor is the user asking to join
	Actor *models.User
}

type RequestToJoinOutput struct {
	Session *models.Session
}

type AcceptRequestInput struct {
	SessionID string

	// TargetUserID is the pending requester being accepted
	TargetUserID string

	// Actor must be the session creator
	Actor *models.User
}

type AcceptRequestOutput struct {
	Session *models.Session
}

type RejectRequestInput struct {
	SessionID string

	// TargetUserID is the pending requester being rejected
	TargetUserID string

	// Actor must be the session creator
	Actor *models.User
}

type RejectRequestOutput struct {
	Session *models.Session
}

type RateSessionInput struct {
	SessionID string

	// Rating is the score, 1 through 5
	Rating int

	// Actor must be an accepted member
	Actor *models.User
}

type RateSessionOutput struct {
	Session *models.Session
}
