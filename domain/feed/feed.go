// Package feed maintains the per-user notification log.
package feed

import (
	"slices"
	"wegetchat/domain"

	"github.com/samber/lo"
)

type Feed struct {
	clock     domain.Clock
	newID     domain.IDGenerator
	retention int
}

// New builds a Feed keeping at most retention notifications per user, 0 keeps everything.
func New(clock domain.Clock, newID domain.IDGenerator, retention int) *Feed {
	return &Feed{clock: clock, newID: newID, retention: retention}
}

// Append adds an unread notification to the feed of userID.
// When the user exceeds the retention cap, their oldest notifications are dropped.
func (f *Feed) Append(s *domain.Snapshot, userID, text string) domain.Notification {
	n := domain.Notification{
		ID:        f.newID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: f.clock(),
		Read:      false,
	}
	s.Notifications = append(s.Notifications, n)
	f.enforceRetention(s, userID)
	return n
}

func (f *Feed) enforceRetention(s *domain.Snapshot, userID string) {
	if f.retention <= 0 {
		return
	}
	owned := lo.CountBy(s.Notifications, func(n domain.Notification) bool { return n.UserID == userID })
	excess := owned - f.retention
	if excess <= 0 {
		return
	}
	s.Notifications = lo.Filter(s.Notifications, func(n domain.Notification, _ int) bool {
		if n.UserID == userID && excess > 0 {
			excess--
			return false
		}
		return true
	})
}

// ListForUser returns the feed of userID, newest first. Notifications created at the same
// instant are returned latest-appended first. limit <= 0 returns everything.
func (f *Feed) ListForUser(s *domain.Snapshot, userID string, limit int) []domain.Notification {
	return f.Page(s, userID, 0, limit)
}

// Page is ListForUser starting after the first offset notifications.
func (f *Feed) Page(s *domain.Snapshot, userID string, offset, limit int) []domain.Notification {
	owned := lo.Filter(s.Notifications, func(n domain.Notification, _ int) bool { return n.UserID == userID })
	slices.Reverse(owned)
	slices.SortStableFunc(owned, func(a, b domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	offset = min(max(offset, 0), len(owned))
	owned = owned[offset:]
	if limit > 0 && len(owned) > limit {
		owned = owned[:limit]
	}
	return owned
}

// MarkAllRead flags every notification of userID as read and returns how many changed.
func (f *Feed) MarkAllRead(s *domain.Snapshot, userID string) int {
	marked := 0
	for i := range s.Notifications {
		n := &s.Notifications[i]
		if n.UserID == userID && !n.Read {
			n.Read = true
			marked++
		}
	}
	return marked
}

func (f *Feed) UnreadCount(s *domain.Snapshot, userID string) int {
	return lo.CountBy(s.Notifications, func(n domain.Notification) bool {
		return n.UserID == userID && !n.Read
	})
}
