// Package ledger appends messages to conversations and tracks who has read them.
package ledger

import (
	"fmt"
	"strings"
	"wegetchat/domain"
	"wegetchat/domain/directory"
	"wegetchat/domain/feed"
	"wegetchat/errors"
)

type Ledger struct {
	clock     domain.Clock
	newID     domain.IDGenerator
	directory *directory.Directory
	feed      *feed.Feed
}

func New(clock domain.Clock, newID domain.IDGenerator, directory *directory.Directory, feed *feed.Feed) *Ledger {
	return &Ledger{clock: clock, newID: newID, directory: directory, feed: feed}
}

// Draft is the content of a message about to be sent.
type Draft struct {
	Body       string
	Attachment *domain.Attachment
}

type Appended struct {
	Message      domain.Message
	RecipientID  string
	Notification domain.Notification
}

// Append stores a new message from senderID and notifies the other participant.
// Both effects happen on the same snapshot, so they commit or roll back together.
func (l *Ledger) Append(s *domain.Snapshot, conversationID, senderID string, draft Draft) (Appended, error) {
	c, err := l.directory.Access(s, conversationID, senderID)
	if err != nil {
		return Appended{}, err
	}
	body := strings.TrimSpace(draft.Body)
	hasAttachment := draft.Attachment != nil && draft.Attachment.URL != ""
	if body == "" && !hasAttachment {
		return Appended{}, errors.ErrEmptyMessage
	}
	sender, ok := s.UserByID(senderID)
	if !ok {
		return Appended{}, errors.ErrUserNotFound
	}

	msg := domain.Message{
		ID:             l.newID(),
		ConversationID: c.ID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      l.clock(),
		ReadBy:         []string{senderID},
	}
	if hasAttachment {
		msg.AttachmentURL = draft.Attachment.URL
		msg.AttachmentName = draft.Attachment.Name
	}
	s.Messages = append(s.Messages, msg)

	recipientID := c.Other(senderID)
	n := l.feed.Append(s, recipientID, fmt.Sprintf("New message from %s", sender.Username))
	return Appended{Message: msg.Clone(), RecipientID: recipientID, Notification: n}, nil
}

// MarkRead records readerID on every message of the conversation sent by the other
// participant. It returns how many messages gained the reader. ReadBy never shrinks.
func (l *Ledger) MarkRead(s *domain.Snapshot, conversationID, readerID string) (int, error) {
	c, err := l.directory.Access(s, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	marked := 0
	for i := range s.Messages {
		m := &s.Messages[i]
		if m.ConversationID != c.ID || m.SenderID == readerID || m.IsReadBy(readerID) {
			continue
		}
		m.ReadBy = append(m.ReadBy, readerID)
		marked++
	}
	return marked, nil
}
