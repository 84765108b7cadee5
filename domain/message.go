package domain

import (
	"slices"
	"time"
)

// ReadState is derived from ReadBy at query time and never stored.
type ReadState string

const (
	ReadStateSent     ReadState = "Sent"
	ReadStateRead     ReadState = "Read"
	ReadStateReceived ReadState = "Received"
)

// Attachment references a file already stored by the upload layer.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Message is immutable except for ReadBy, which only grows.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Body           string    `json:"body"`
	AttachmentURL  string    `json:"attachmentUrl"`
	AttachmentName string    `json:"attachmentName"`
	CreatedAt      time.Time `json:"createdAt"`
	ReadBy         []string  `json:"readBy"`
}

func (m Message) HasAttachment() bool {
	return m.AttachmentURL != ""
}

func (m Message) Attachment() *Attachment {
	if !m.HasAttachment() {
		return nil
	}
	return &Attachment{URL: m.AttachmentURL, Name: m.AttachmentName}
}

func (m Message) IsReadBy(userID string) bool {
	return slices.Contains(m.ReadBy, userID)
}

// ReadStateFor derives the display state of m as seen by viewerID.
func (m Message) ReadStateFor(viewerID string) ReadState {
	if m.SenderID != viewerID {
		return ReadStateReceived
	}
	if len(m.ReadBy) > 1 {
		return ReadStateRead
	}
	return ReadStateSent
}

// Clone returns a copy of m that does not share ReadBy.
func (m Message) Clone() Message {
	m.ReadBy = slices.Clone(m.ReadBy)
	return m
}

// Notification is one entry of a user's feed. Read never goes back to false.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}
