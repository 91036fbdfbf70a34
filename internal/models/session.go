package models

import (
	"time"
)

// MemberStatus describes a user's relationship to a session
type MemberStatus string

const (
	// MemberStatusCreator indicates the user created the session
	MemberStatusCreator MemberStatus = "creator"

	// MemberStatusAccepted indicates the user is a confirmed member
	MemberStatusAccepted MemberStatus = "accepted"

	// MemberStatusRequested indicates the user has a pending join request
	MemberStatusRequested MemberStatus = "requested"

	// MemberStatusNone indicates the user has no relationship to the session
	MemberStatusNone MemberStatus = "none"
)

// UserSnapshot is a copy of a user's displayable identity taken at the
// moment of an action. Snapshots are never refreshed from the live profile,
// so sessions keep their historical attribution.
type UserSnapshot struct {
	// UserID is the ID of the user the snapshot was taken from
	UserID string

	// Name is the display name at the time of the action
	Name string

	// ProfilePic is an optional avatar URL at the time of the action
	ProfilePic string
}

// Rating is a single member's score for a session
type Rating struct {
	// UserID is the ID of the member who rated
	UserID string

	// Value is the score, 1 through 5
	Value int
}

// Session represents a scheduled workout event
type Session struct {
	// ID is the unique identifier for this session
	ID string

	// Title is a short description of the workout
	Title string

	// WorkoutType is the category of workout (cardio, strength, ...)
	WorkoutType string

	// Location is where the workout happens
	Location string

	// StartsAt is when the workout happens
	StartsAt time.Time

	// Details is free-form extra information
	Details string

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// Creator is a snapshot of the user who created the session
	Creator UserSnapshot

	// Requests holds pending join requests in arrival order
	Requests []UserSnapshot

	// Accepted holds confirmed members in acceptance order
	Accepted []UserSnapshot

	// Ratings holds post-event scores, at most one per member
	Ratings []Rating

	// Version is bumped on every write and guards concurrent updates
	Version int64
}
