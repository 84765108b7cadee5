// Package identity holds user records and the symmetric friend graph.
package identity

import (
	"fmt"
	"strings"
	"wegetchat/domain"
	"wegetchat/domain/directory"
	"wegetchat/domain/feed"
	"wegetchat/errors"

	"github.com/samber/lo"
)

const DefaultSearchLimit = 20

type Graph struct {
	clock       domain.Clock
	newID       domain.IDGenerator
	directory   *directory.Directory
	feed        *feed.Feed
	searchLimit int
}

func New(clock domain.Clock, newID domain.IDGenerator, directory *directory.Directory,
	feed *feed.Feed, searchLimit int) *Graph {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &Graph{clock: clock, newID: newID, directory: directory, feed: feed, searchLimit: searchLimit}
}

// Register creates a user. The password is checked and hashed by the caller,
// the graph only keeps the hash.
func (g *Graph) Register(s *domain.Snapshot, username, passwordHash string) (domain.User, error) {
	display := strings.TrimSpace(username)
	key := domain.NormalizeUsername(username)
	if key == "" || passwordHash == "" {
		return domain.User{}, errors.ErrInvalidInput
	}
	if len([]rune(key)) < domain.MinUsernameLength {
		return domain.User{}, errors.ErrUsernameTooShort
	}
	if _, taken := s.UserByUsername(key); taken {
		return domain.User{}, errors.ErrUsernameTaken
	}
	u := domain.User{
		ID:                   g.newID(),
		Username:             display,
		UsernameLower:        key,
		PasswordHash:         passwordHash,
		PfpURL:               "",
		StatusText:           domain.DefaultStatusText,
		NotificationsEnabled: true,
		CreatedAt:            g.clock(),
	}
	s.Users = append(s.Users, u)
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (g *Graph) UpdateProfile(s *domain.Snapshot, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	u, ok := s.UserByID(userID)
	if !ok {
		return domain.User{}, errors.ErrUserNotFound
	}
	if upd.StatusText != nil {
		u.StatusText = domain.TruncateStatus(*upd.StatusText)
	}
	if upd.NotificationsEnabled != nil {
		u.NotificationsEnabled = *upd.NotificationsEnabled
	}
	if upd.PfpURL != nil {
		u.PfpURL = *upd.PfpURL
	}
	return *u, nil
}

// Search matches query as a case-insensitive substring of usernames, in registration order.
func (g *Graph) Search(s *domain.Snapshot, callerID, query string) []domain.UserSummary {
	needle := domain.NormalizeUsername(query)
	friends := lo.SliceToMap(g.FriendsOf(s, callerID), func(id string) (string, struct{}) {
		return id, struct{}{}
	})
	res := make([]domain.UserSummary, 0, g.searchLimit)
	for _, u := range s.Users {
		if len(res) == g.searchLimit {
			break
		}
		if u.ID == callerID || !strings.Contains(u.UsernameLower, needle) {
			continue
		}
		_, isFriend := friends[u.ID]
		res = append(res, domain.UserSummary{PublicProfile: u.Public(), IsFriend: isFriend})
	}
	return res
}

// FriendsOf lists the friend ids of userID in the order the friendships were made.
func (g *Graph) FriendsOf(s *domain.Snapshot, userID string) []string {
	return lo.FilterMap(s.Friendships, func(f domain.Friendship, _ int) (string, bool) {
		return f.FriendID, f.UserID == userID
	})
}

func (g *Graph) AreFriends(s *domain.Snapshot, a, b string) bool {
	return lo.ContainsBy(s.Friendships, func(f domain.Friendship) bool {
		return f.UserID == a && f.FriendID == b
	})
}

type Befriended struct {
	Created             bool
	Conversation        domain.Conversation
	ConversationCreated bool
	Notification        domain.Notification
}

// AddFriend links callerID and targetID. The first call creates both edges, ensures the
// pair has a conversation and notifies the target. Later calls, from either side, change nothing.
func (g *Graph) AddFriend(s *domain.Snapshot, callerID, targetID string) (Befriended, error) {
	if callerID == targetID {
		return Befriended{}, errors.ErrSelfFriend
	}
	caller, ok := s.UserByID(callerID)
	if !ok {
		return Befriended{}, errors.ErrUserNotFound
	}
	if _, ok = s.UserByID(targetID); !ok {
		return Befriended{}, errors.ErrUserNotFound
	}
	if g.AreFriends(s, callerID, targetID) {
		return Befriended{}, nil
	}

	now := g.clock()
	s.Friendships = append(s.Friendships,
		domain.Friendship{UserID: callerID, FriendID: targetID, CreatedAt: now},
		domain.Friendship{UserID: targetID, FriendID: callerID, CreatedAt: now},
	)
	conv, created := g.directory.GetOrCreate(s, callerID, targetID)
	n := g.feed.Append(s, targetID, fmt.Sprintf("%s added you as a friend.", caller.Username))
	return Befriended{Created: true, Conversation: conv, ConversationCreated: created, Notification: n}, nil
}
