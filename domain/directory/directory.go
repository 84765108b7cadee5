// Package directory owns conversations: one per unordered pair of users.
package directory

import (
	"slices"
	"wegetchat/domain"
	"wegetchat/errors"

	"github.com/samber/lo"
)

type Directory struct {
	clock domain.Clock
	newID domain.IDGenerator
}

func New(clock domain.Clock, newID domain.IDGenerator) *Directory {
	return &Directory{clock: clock, newID: newID}
}

// Find returns the conversation joining a and b, in either order.
func (d *Directory) Find(s *domain.Snapshot, a, b string) (*domain.Conversation, bool) {
	for i := range s.Conversations {
		if s.Conversations[i].Joins(a, b) {
			return &s.Conversations[i], true
		}
	}
	return nil, false
}

// GetOrCreate returns the conversation of the pair {a, b}, creating it when absent.
// The boolean reports whether a conversation was created.
// Callers hold the coordinator lock, so the check and the append cannot interleave.
func (d *Directory) GetOrCreate(s *domain.Snapshot, a, b string) (domain.Conversation, bool) {
	if c, ok := d.Find(s, a, b); ok {
		return *c, false
	}
	c := domain.Conversation{
		ID:           d.newID(),
		Participants: []string{a, b},
		CreatedAt:    d.clock(),
	}
	s.Conversations = append(s.Conversations, c)
	return c, true
}

// Access resolves a conversation on behalf of callerID.
func (d *Directory) Access(s *domain.Snapshot, conversationID, callerID string) (*domain.Conversation, error) {
	c, ok := s.ConversationByID(conversationID)
	if !ok {
		return nil, errors.ErrConversationNotFound
	}
	if !c.Has(callerID) {
		return nil, errors.ErrNotParticipant
	}
	return c, nil
}

// Messages returns the messages of a conversation in ascending creation order.
// Messages created at the same instant keep their append order.
func (d *Directory) Messages(s *domain.Snapshot, conversationID, callerID string) ([]domain.Message, error) {
	c, err := d.Access(s, conversationID, callerID)
	if err != nil {
		return nil, err
	}
	msgs := lo.FilterMap(s.Messages, func(m domain.Message, _ int) (domain.Message, bool) {
		return m.Clone(), m.ConversationID == c.ID
	})
	slices.SortStableFunc(msgs, func(a, b domain.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return msgs, nil
}

type tally struct {
	latest *domain.Message
	unread int
}

// ListForUser summarizes every conversation of userID, most recent activity first.
// Conversations without messages come last, in creation order.
func (d *Directory) ListForUser(s *domain.Snapshot, userID string) []domain.ConversationSummary {
	mine := lo.Filter(s.Conversations, func(c domain.Conversation, _ int) bool { return c.Has(userID) })
	tallies := make(map[string]*tally, len(mine))
	for _, c := range mine {
		tallies[c.ID] = &tally{}
	}
	others := lo.SliceToMap(mine, func(c domain.Conversation) (string, string) {
		return c.ID, c.Other(userID)
	})

	for i := range s.Messages {
		m := &s.Messages[i]
		t, ok := tallies[m.ConversationID]
		if !ok {
			continue
		}
		// >= lets the later append win a timestamp tie
		if t.latest == nil || !m.CreatedAt.Before(t.latest.CreatedAt) {
			t.latest = m
		}
		if m.SenderID == others[m.ConversationID] && !m.IsReadBy(userID) {
			t.unread++
		}
	}

	summaries := lo.Map(mine, func(c domain.Conversation, _ int) domain.ConversationSummary {
		t := tallies[c.ID]
		summary := domain.ConversationSummary{ID: c.ID, UnreadCount: t.unread}
		if other, ok := s.UserByID(others[c.ID]); ok {
			summary.OtherUser = lo.ToPtr(other.Public())
		}
		if t.latest != nil {
			summary.LatestMessage = lo.ToPtr(t.latest.Clone())
		}
		return summary
	})
	slices.SortStableFunc(summaries, func(a, b domain.ConversationSummary) int {
		return b.LatestAt().Compare(a.LatestAt())
	})
	return summaries
}
