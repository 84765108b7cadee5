package domain

import "time"

// Friendship is one directed edge of the friend graph.
// Edges are always stored in symmetric pairs and never removed.
type Friendship struct {
	UserID    string    `json:"userId"`
	FriendID  string    `json:"friendId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Conversation is the unique direct channel between two users.
type Conversation struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (c Conversation) Has(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Other returns the participant that is not userID.
func (c Conversation) Other(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// Joins reports whether the conversation is exactly the unordered pair {a, b}.
func (c Conversation) Joins(a, b string) bool {
	return len(c.Participants) == 2 && c.Has(a) && c.Has(b)
}

type ConversationSummary struct {
	ID            string         `json:"id"`
	OtherUser     *PublicProfile `json:"otherUser"`
	LatestMessage *Message       `json:"latestMessage"`
	UnreadCount   int            `json:"unreadCount"`
}

// LatestAt is the ordering key of a summary, zero time when the conversation is empty.
func (s ConversationSummary) LatestAt() time.Time {
	if s.LatestMessage == nil {
		return time.Time{}
	}
	return s.LatestMessage.CreatedAt
}
