package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gymbuddy/gymbuddy/internal/models"
	sessionRepo "github.com/gymbuddy/gymbuddy/internal/repositories/session"
	"github.com/gymbuddy/gymbuddy/internal/services/identity"
	"github.com/gymbuddy/gymbuddy/internal/services/scheduling"
)

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfilePic string `json:"profilePic,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type createSessionRequest struct {
	Title       string `json:"title"`
	WorkoutType string `json:"workoutType"`
	Location    string `json:"location"`
	Datetime    string `json:"datetime"`
	Details     string `json:"details"`
}

type rateSessionRequest struct {
	Rating int `json:"rating"`
}

type listSessionsResponse struct {
	Sessions []sessionView `json:"sessions"`
}

type userView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic,omitempty"`
}

type snapshotView struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic,omitempty"`
}

type ratingView struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}

type sessionView struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	WorkoutType   string              `json:"workoutType"`
	Location      string              `json:"location"`
	Datetime      string              `json:"datetime"`
	Details       string              `json:"details"`
	CreatedAt     string              `json:"createdAt"`
	Creator       snapshotView        `json:"creator"`
	Requests      []snapshotView      `json:"requests"`
	Accepted      []snapshotView      `json:"accepted"`
	Ratings       []ratingView        `json:"ratings"`
	AverageRating float64             `json:"averageRating"`
	ViewerStatus  models.MemberStatus `json:"viewerStatus"`
	CanRate       bool                `json:"canRate"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// renderUser builds the outward view of an account; the password hash never
// leaves the server
func renderUser(user *models.User) userView {
	return userView{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		ProfilePic: user.ProfilePic,
	}
}

func renderSnapshot(snapshot models.UserSnapshot) snapshotView {
	return snapshotView{
		UserID:     snapshot.UserID,
		Name:       snapshot.Name,
		ProfilePic: snapshot.ProfilePic,
	}
}

// renderSession builds the outward view of a session, including the derived
// fields the client shows on session cards
func renderSession(sess *models.Session, viewerID string) sessionView {
	requests := make([]snapshotView, 0, len(sess.Requests))
	for _, snapshot := range sess.Requests {
		requests = append(requests, renderSnapshot(snapshot))
	}

	accepted := make([]snapshotView, 0, len(sess.Accepted))
	for _, snapshot := range sess.Accepted {
		accepted = append(accepted, renderSnapshot(snapshot))
	}

	ratings := make([]ratingView, 0, len(sess.Ratings))
	for _, rating := range sess.Ratings {
		ratings = append(ratings, ratingView{UserID: rating.UserID, Rating: rating.Value})
	}

	return sessionView{
		ID:            sess.ID,
		Title:         sess.Title,
		WorkoutType:   sess.WorkoutType,
		Location:      sess.Location,
		Datetime:      sess.StartsAt.Format(time.RFC3339),
		Details:       sess.Details,
		CreatedAt:     sess.CreatedAt.Format(time.RFC3339),
		Creator:       renderSnapshot(sess.Creator),
		Requests:      requests,
		Accepted:      accepted,
		Ratings:       ratings,
		AverageRating: scheduling.AverageRating(sess),
		ViewerStatus:  scheduling.MemberStatusFor(sess, viewerID),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service error kinds to HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrValidation) || errors.Is(err, identity.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, scheduling.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, scheduling.ErrSessionNotFound) ||
		errors.Is(err, scheduling.ErrRequestNotFound) ||
		errors.Is(err, identity.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scheduling.ErrAlreadyMember) || errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scheduling.ErrTooEarly):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, sessionRepo.ErrVersionConflict):
		// A concurrent write won; the client should refresh and retry
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
