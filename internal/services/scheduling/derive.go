package scheduling

import (
	"time"

	"github.com/gymbuddy/gymbuddy/internal/models"
)

// MemberStatusFor reports a user's relationship to a session. Creator wins
// over accepted, accepted over requested. Well-formed records keep the three
// roles mutually exclusive, but the priority order still pins down the answer
// for a record that is not.
func MemberStatusFor(sess *models.Session, userID string) models.MemberStatus {
	if userID == "" {
		return models.MemberStatusNone
	}
	if sess.Creator.UserID == userID {
		return models.MemberStatusCreator
	}
	if snapshotIndex(sess.Accepted, userID) >= 0 {
		return models.MemberStatusAccepted
	}
	if snapshotIndex(sess.Requests, userID) >= 0 {
		return models.MemberStatusRequested
	}
	return models.MemberStatusNone
}

// AverageRating returns the arithmetic mean of all ratings, unrounded, and
// 0 for a session nobody has rated.
func AverageRating(sess *models.Session) float64 {
	if len(sess.Ratings) == 0 {
		return 0
	}

	sum := 0
	for _, r := range sess.Ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(sess.Ratings))
}

// CanRate reports whether a user may rate the session right now: they must
// be an accepted member and the session must already have happened. This
// mirrors the preconditions applyRating enforces.
func CanRate(sess *models.Session, userID string, now time.Time) bool {
	return snapshotIndex(sess.Accepted, userID) >= 0 && sess.StartsAt.Before(now)
}
