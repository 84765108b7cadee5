package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Snapshot is the complete state of the messenger at a point in time.
// Collections keep insertion order, which several queries rely on.
type Snapshot struct {
	Users         []User         `json:"users"`
	Conversations []Conversation `json:"conversations"`
	Messages      []Message      `json:"messages"`
	Friendships   []Friendship   `json:"friendships"`
	Notifications []Notification `json:"notifications"`
}

func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize replaces missing collections with empty ones.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Conversations == nil {
		s.Conversations = []Conversation{}
	}
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	if s.Friendships == nil {
		s.Friendships = []Friendship{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	for i := range s.Messages {
		if s.Messages[i].ReadBy == nil {
			s.Messages[i].ReadBy = []string{}
		}
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Users: slices.Clone(s.Users),
		Conversations: lo.Map(s.Conversations, func(c Conversation, _ int) Conversation {
			c.Participants = slices.Clone(c.Participants)
			return c
		}),
		Messages: lo.Map(s.Messages, func(m Message, _ int) Message {
			return m.Clone()
		}),
		Friendships:   slices.Clone(s.Friendships),
		Notifications: slices.Clone(s.Notifications),
	}
}

func (s *Snapshot) UserByID(id string) (*User, bool) {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) UserByUsername(username string) (*User, bool) {
	key := NormalizeUsername(username)
	for i := range s.Users {
		if s.Users[i].UsernameLower == key {
			return &s.Users[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) ConversationByID(id string) (*Conversation, bool) {
	for i := range s.Conversations {
		if s.Conversations[i].ID == id {
			return &s.Conversations[i], true
		}
	}
	return nil, false
}

// Counts returns the size of each collection, keyed by collection name.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"users":         len(s.Users),
		"conversations": len(s.Conversations),
		"messages":      len(s.Messages),
		"friendships":   len(s.Friendships),
		"notifications": len(s.Notifications),
	}
}

// Clock and IDGenerator are injected into components so tests control time and ids.
type Clock func() time.Time
type IDGenerator func() string

func SystemClock() time.Time { return time.Now().UTC() }

func NewID() string { return uuid.New().String() }
