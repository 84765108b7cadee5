// Package event defines the facts published after a mutation has been persisted.
// Events are informational: the snapshot remains the source of truth.
package event

import "time"

type DomainEvent interface {
	Name() string
	OccurredAt() time.Time
}

type UserRegistered struct {
	UserID   string
	Username string
	At       time.Time
}

func (e UserRegistered) Name() string          { return "user_registered" }
func (e UserRegistered) OccurredAt() time.Time { return e.At }

type ProfileUpdated struct {
	UserID string
	At     time.Time
}

func (e ProfileUpdated) Name() string          { return "profile_updated" }
func (e ProfileUpdated) OccurredAt() time.Time { return e.At }

type FriendAdded struct {
	UserID              string
	FriendID            string
	ConversationID      string
	ConversationCreated bool
	At                  time.Time
}

func (e FriendAdded) Name() string          { return "friend_added" }
func (e FriendAdded) OccurredAt() time.Time { return e.At }

type MessageSent struct {
	MessageID      string
	ConversationID string
	SenderID       string
	RecipientID    string
	HasAttachment  bool
	At             time.Time
}

func (e MessageSent) Name() string          { return "message_sent" }
func (e MessageSent) OccurredAt() time.Time { return e.At }

type ConversationRead struct {
	ConversationID string
	ReaderID       string
	Marked         int
	At             time.Time
}

func (e ConversationRead) Name() string          { return "conversation_read" }
func (e ConversationRead) OccurredAt() time.Time { return e.At }

// NotificationAppended is the hook a push-delivery consumer listens to.
type NotificationAppended struct {
	NotificationID string
	UserID         string
	Text           string
	At             time.Time
}

func (e NotificationAppended) Name() string          { return "notification_appended" }
func (e NotificationAppended) OccurredAt() time.Time { return e.At }

type NotificationsRead struct {
	UserID string
	Marked int
	At     time.Time
}

func (e NotificationsRead) Name() string          { return "notifications_read" }
func (e NotificationsRead) OccurredAt() time.Time { return e.At }
