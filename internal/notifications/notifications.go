// Package notifications aggregates server-origin notification records with
// client-derived system notifications and exposes the read/unread
// operations the portal header consumes.
package notifications

import (
	"strconv"
	"time"
)

// Origin tags where a notification came from. The mark-read branches switch
// exhaustively on the tag; a synthetic notification is never persisted and
// never marked read.
type Origin string

const (
	// OriginServer marks a record fetched from the HR backend.
	OriginServer Origin = "server"
	// OriginSynthetic marks a record derived client-side from profile state.
	OriginSynthetic Origin = "synthetic"
)

// Category is the display category of a notification.
type Category string

const (
	// CategoryInfo is an informational notice.
	CategoryInfo Category = "Info"
	// CategoryAlert is an attention-demanding notice.
	CategoryAlert Category = "Alert"
	// CategoryMessage is a chat or broadcast derived notice.
	CategoryMessage Category = "Message"
)

// SyntheticPhotoID is the fixed id of the missing-profile-photo
// notification. Clicking it navigates to the profile editor instead of
// marking anything read.
const SyntheticPhotoID = "sys_photo_missing"

// ProfileEditRoute is where the synthetic photo notification points.
const ProfileEditRoute = "/profile/edit"

// Notification is one entry of the aggregated list.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Category  Category  `json:"category"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	Origin    Origin    `json:"origin"`
	Route     string    `json:"route,omitempty"`
}

// syntheticPhotoNotification builds the missing-photo entry. Derived on
// every load, always unread, never sent to the backend.
func syntheticPhotoNotification(now time.Time) Notification {
	return Notification{
		ID:        SyntheticPhotoID,
		Title:     "Profile photo missing",
		Message:   "Add a profile photo so colleagues can recognise you.",
		Category:  CategoryAlert,
		Read:      false,
		CreatedAt: now,
		Origin:    OriginSynthetic,
		Route:     ProfileEditRoute,
	}
}

// UnreadCount counts the entries with an unread flag.
func UnreadCount(list []Notification) int {
	n := 0

	for _, item := range list {
		if !item.Read {
			n++
		}
	}

	return n
}

// badgeCap is the largest count the header badge renders as a number.
const badgeCap = 9

// BadgeLabel renders an unread count for the header badge.
func BadgeLabel(count int) string {
	if count > badgeCap {
		return "9+"
	}

	if count <= 0 {
		return ""
	}

	return strconv.Itoa(count)
}
