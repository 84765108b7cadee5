//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=../mocks/mock_snapshot_store.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"wegetchat/domain"
)

// ISnapshotStore persists the whole messenger state as one unit.
//
// Load is called once at startup. When nothing was saved yet it persists and returns
// an empty snapshot. When the stored data cannot be parsed it sets the data aside,
// logs a warning and starts from an empty snapshot: losing data is preferred over
// refusing to boot.
//
// Save replaces the stored snapshot atomically, a crash never leaves a partial write.
type ISnapshotStore interface {
	Load() (*domain.Snapshot, error)
	Save(snapshot *domain.Snapshot) error
}

// Collection names double as JSON field names and badger key suffixes.
const (
	CollectionUsers         = "users"
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionFriendships   = "friendships"
	CollectionNotifications = "notifications"
)

var Collections = []string{
	CollectionUsers,
	CollectionConversations,
	CollectionMessages,
	CollectionFriendships,
	CollectionNotifications,
}

func encodeDocument(s *domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// decodeDocument accepts documents with missing or unknown collections.
func decodeDocument(data []byte) (*domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s.Normalize()
	return &s, nil
}

// collectionTarget returns a pointer to the slice holding the named collection.
func collectionTarget(s *domain.Snapshot, name string) any {
	switch name {
	case CollectionUsers:
		return &s.Users
	case CollectionConversations:
		return &s.Conversations
	case CollectionMessages:
		return &s.Messages
	case CollectionFriendships:
		return &s.Friendships
	case CollectionNotifications:
		return &s.Notifications
	default:
		return nil
	}
}
