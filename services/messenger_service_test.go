package services_test

import (
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"wegetchat/auth"
	"wegetchat/contract"
	"wegetchat/domain"
	"wegetchat/domain/domaintest"
	"wegetchat/domain/event"
	"wegetchat/domain/ledger"
	"wegetchat/errors"
	"wegetchat/mocks"
	"wegetchat/moderation"
	"wegetchat/repositories"
	"wegetchat/runtime"
	"wegetchat/services"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testHasher = auth.NewArgon2Hasher(1024, 1)

func newService(t *testing.T, store repositories.ISnapshotStore, publisher contract.EventPublisher, opts services.Options) (*services.MessengerService, *runtime.Coordinator) {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	initial, err := store.Load()
	require.NoError(t, err)
	coordinator := runtime.NewCoordinator(log, store, initial, publisher)
	if opts.Clock == nil {
		opts.Clock = domaintest.NewClock(time.Second).Now
	}
	if opts.NewID == nil {
		opts.NewID = domaintest.Sequence("id")
	}
	mod, err := moderation.NewModerator([]string{"badger"}, '*', log)
	require.NoError(t, err)
	return services.NewMessengerService(log, coordinator, testHasher, mod, opts), coordinator
}

func register(t *testing.T, svc *services.MessengerService, username string) domain.Profile {
	t.Helper()
	p, err := svc.Register(username, "1234")
	require.NoError(t, err)
	return p
}

func TestMessengerService_Register(t *testing.T) {
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{})
	register(t, svc, "abc")

	tests := []struct {
		name     string
		username string
		password string
		expected error
	}{
		{"should reject a missing username", "", "1234", errors.ErrInvalidInput},
		{"should reject a missing password", "someone", "", errors.ErrInvalidInput},
		{"should reject a two letters username", "ab", "1234", errors.ErrUsernameTooShort},
		{"should measure the trimmed username", "  ab  ", "1234", errors.ErrUsernameTooShort},
		{"should reject a three letters password", "abcd", "123", errors.ErrPasswordTooShort},
		{"should reject a case-insensitive collision", "ABC", "1234", errors.ErrUsernameTaken},
		{"should reject a collision hidden by spaces", " abc ", "1234", errors.ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := svc.Register(tt.username, tt.password)
			req.ErrorIs(err, tt.expected)
		})
	}

	t.Run("should keep the display casing and apply defaults", func(t *testing.T) {
		req := require.New(t)
		p, err := svc.Register("  Alice ", "1234")
		req.NoError(err)
		req.Equal("Alice", p.Username)
		req.Equal(domain.DefaultStatusText, p.StatusText)
		req.True(p.NotificationsEnabled)
		req.Empty(p.PfpURL)
	})
}

func TestMessengerService_VerifyCredential(t *testing.T) {
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{})
	alice := register(t, svc, "Alice")

	t.Run("should accept the right password whatever the username casing", func(t *testing.T) {
		req := require.New(t)
		p, err := svc.VerifyCredential(" ALICE ", "1234")
		req.NoError(err)
		req.Equal(alice.ID, p.ID)
	})

	t.Run("should report unknown users and wrong passwords identically", func(t *testing.T) {
		req := require.New(t)
		_, unknown := svc.VerifyCredential("nobody", "1234")
		_, wrong := svc.VerifyCredential("alice", "4321")
		req.ErrorIs(unknown, errors.ErrInvalidCredential)
		req.ErrorIs(wrong, errors.ErrInvalidCredential)
		req.Equal(unknown.Error(), wrong.Error())
	})
}

func TestMessengerService_UpdateProfile(t *testing.T) {
	req := require.New(t)
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{})
	alice := register(t, svc, "alice")

	long := strings.Repeat("é", 200)
	p, err := svc.UpdateProfile(alice.ID, domain.ProfileUpdate{StatusText: &long})
	req.NoError(err)
	req.Len([]rune(p.StatusText), domain.MaxStatusLength)
	req.True(p.NotificationsEnabled, "unspecified fields stay unchanged")

	p, err = svc.UpdateProfile(alice.ID, domain.ProfileUpdate{NotificationsEnabled: lo.ToPtr(false)})
	req.NoError(err)
	req.False(p.NotificationsEnabled)
	req.Len([]rune(p.StatusText), domain.MaxStatusLength)

	p, err = svc.UpdateProfile(alice.ID, domain.ProfileUpdate{
		StatusText: lo.ToPtr("I like my badger"),
		PfpURL:     lo.ToPtr("/uploads/me.png"),
	})
	req.NoError(err)
	req.Equal("I like my ******", p.StatusText)
	req.Equal("/uploads/me.png", p.PfpURL)

	stored, err := svc.GetProfile(alice.ID)
	req.NoError(err)
	req.Equal(p, stored)

	_, err = svc.UpdateProfile("ghost", domain.ProfileUpdate{})
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestMessengerService_AddFriend(t *testing.T) {
	svc, coordinator := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	t.Run("should reject befriending oneself", func(t *testing.T) {
		require.ErrorIs(t, svc.AddFriend(alice.ID, alice.ID), errors.ErrSelfFriend)
	})

	t.Run("should reject an unknown target", func(t *testing.T) {
		require.ErrorIs(t, svc.AddFriend(alice.ID, "ghost"), errors.ErrUserNotFound)
	})

	t.Run("should create edges, one conversation and one notification exactly once", func(t *testing.T) {
		req := require.New(t)
		req.NoError(svc.AddFriend(alice.ID, bob.ID))
		req.NoError(svc.AddFriend(alice.ID, bob.ID))
		req.NoError(svc.AddFriend(bob.ID, alice.ID))

		s := coordinator.Snapshot()
		req.Len(s.Friendships, 2)
		req.Len(s.Conversations, 1)
		req.True(s.Conversations[0].Joins(alice.ID, bob.ID))

		notifications, err := svc.ListNotifications(bob.ID)
		req.NoError(err)
		req.Len(notifications, 1)
		req.Equal("alice added you as a friend.", notifications[0].Text)
		req.False(notifications[0].Read)

		mine, err := svc.ListNotifications(alice.ID)
		req.NoError(err)
		req.Empty(mine)

		results, err := svc.SearchUsers(alice.ID, "BO")
		req.NoError(err)
		req.Len(results, 1)
		req.True(results[0].IsFriend)
	})
}

func TestMessengerService_AddFriendPublishesOnce(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockEventPublisher(ctrl)

	var published []event.DomainEvent
	publisher.EXPECT().Publish(gomock.Any()).
		Do(func(events ...event.DomainEvent) { published = append(published, events...) }).
		AnyTimes()

	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), publisher, services.Options{})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	req.Len(published, 2)
	published = nil

	req.NoError(svc.AddFriend(alice.ID, bob.ID))
	req.NoError(svc.AddFriend(bob.ID, alice.ID))

	req.Len(published, 2)
	added, ok := published[0].(event.FriendAdded)
	req.True(ok)
	req.True(added.ConversationCreated)
	notified, ok := published[1].(event.NotificationAppended)
	req.True(ok)
	req.Equal(bob.ID, notified.UserID)
}

func TestMessengerService_SendMessage(t *testing.T) {
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	carol := register(t, svc, "carol")
	require.NoError(t, svc.AddFriend(alice.ID, bob.ID))
	conversations, err := svc.ListConversations(alice.ID)
	require.NoError(t, err)
	convID := conversations[0].ID

	t.Run("should reject a message without body nor attachment", func(t *testing.T) {
		req := require.New(t)
		_, err := svc.SendMessage(alice.ID, convID, ledger.Draft{Body: "   "})
		req.ErrorIs(err, errors.ErrEmptyMessage)
	})

	t.Run("should accept an attachment without body", func(t *testing.T) {
		req := require.New(t)
		sent, err := svc.SendMessage(alice.ID, convID, ledger.Draft{
			Attachment: &domain.Attachment{URL: "/uploads/1-a.pdf", Name: "a.pdf"},
		})
		req.NoError(err)
		req.Equal(domain.ReadStateSent, sent.ReadState)
		req.Equal([]string{alice.ID}, sent.ReadBy)

		messages, err := svc.GetMessages(bob.ID, convID)
		req.NoError(err)
		req.Len(messages, 1)
		req.Equal("/uploads/1-a.pdf", messages[0].AttachmentURL)
		req.Equal("a.pdf", messages[0].AttachmentName)
		req.Equal(domain.ReadStateReceived, messages[0].ReadState)
	})

	t.Run("should hide conversations from non participants", func(t *testing.T) {
		req := require.New(t)
		_, foreign := svc.GetMessages(carol.ID, convID)
		_, missing := svc.GetMessages(carol.ID, "nope")
		req.ErrorIs(foreign, errors.ErrConversationNotFound)
		req.ErrorIs(missing, errors.ErrConversationNotFound)
		req.Equal(missing.Error(), foreign.Error())

		_, err := svc.SendMessage(carol.ID, convID, ledger.Draft{Body: "hi"})
		req.ErrorIs(err, errors.ErrConversationNotFound)
		req.ErrorIs(svc.MarkConversationRead(carol.ID, convID), errors.ErrConversationNotFound)
	})
}

func TestMessengerService_MarkConversationRead(t *testing.T) {
	req := require.New(t)
	svc, coordinator := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	req.NoError(svc.AddFriend(alice.ID, bob.ID))
	conversations, err := svc.ListConversations(bob.ID)
	req.NoError(err)
	convID := conversations[0].ID

	for _, body := range []string{"one", "two", "three"} {
		_, err = svc.SendMessage(alice.ID, convID, ledger.Draft{Body: body})
		req.NoError(err)
	}
	_, err = svc.SendMessage(bob.ID, convID, ledger.Draft{Body: "mine"})
	req.NoError(err)

	conversations, err = svc.ListConversations(bob.ID)
	req.NoError(err)
	req.Equal(3, conversations[0].UnreadCount)

	req.NoError(svc.MarkConversationRead(bob.ID, convID))
	once := lo.Map(coordinator.Snapshot().Messages, func(m domain.Message, _ int) []string { return m.ReadBy })
	version := coordinator.Version()

	req.NoError(svc.MarkConversationRead(bob.ID, convID))
	twice := lo.Map(coordinator.Snapshot().Messages, func(m domain.Message, _ int) []string { return m.ReadBy })
	req.Equal(once, twice)
	req.Equal(version, coordinator.Version(), "second call commits nothing")

	conversations, err = svc.ListConversations(bob.ID)
	req.NoError(err)
	req.Zero(conversations[0].UnreadCount)

	// Bob's own message is not read by alice yet
	conversations, err = svc.ListConversations(alice.ID)
	req.NoError(err)
	req.Equal(1, conversations[0].UnreadCount)
}

func TestMessengerService_Notifications(t *testing.T) {
	req := require.New(t)
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{NotificationPageSize: 2})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	req.NoError(svc.AddFriend(alice.ID, bob.ID))
	conversations, err := svc.ListConversations(alice.ID)
	req.NoError(err)

	_, err = svc.SendMessage(alice.ID, conversations[0].ID, ledger.Draft{Body: "first"})
	req.NoError(err)
	_, err = svc.SendMessage(alice.ID, conversations[0].ID, ledger.Draft{Body: "second"})
	req.NoError(err)

	notifications, err := svc.ListNotifications(bob.ID)
	req.NoError(err)
	req.Len(notifications, 2, "page size applies")
	req.True(notifications[0].CreatedAt.After(notifications[1].CreatedAt))

	req.NoError(svc.MarkAllNotificationsRead(bob.ID))
	req.NoError(svc.MarkAllNotificationsRead(bob.ID))
	notifications, err = svc.ListNotifications(bob.ID)
	req.NoError(err)
	for _, n := range notifications {
		req.True(n.Read)
	}
}

func TestMessengerService_NotificationPages(t *testing.T) {
	req := require.New(t)
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{NotificationPageSize: 2})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	req.NoError(svc.AddFriend(alice.ID, bob.ID))
	conversations, err := svc.ListConversations(alice.ID)
	req.NoError(err)
	for _, body := range []string{"one", "two", "three"} {
		_, err = svc.SendMessage(alice.ID, conversations[0].ID, ledger.Draft{Body: body})
		req.NoError(err)
	}

	var seen []string
	for offset := 0; ; offset += 2 {
		page, err := svc.ListNotificationsPage(bob.ID, offset)
		req.NoError(err)
		if len(page) == 0 {
			break
		}
		req.LessOrEqual(len(page), 2)
		for _, n := range page {
			seen = append(seen, n.ID)
		}
	}
	req.Len(seen, 4, "the friend notification and three messages are all reachable")
	req.Len(lo.Uniq(seen), 4)

	_, err = svc.ListNotificationsPage(bob.ID, -1)
	req.ErrorIs(err, errors.ErrInvalidOffset)
}

func TestMessengerService_NotificationsUnlimited(t *testing.T) {
	req := require.New(t)
	svc, _ := newService(t, repositories.NewMemorySnapshotStore(), nil, services.Options{NotificationPageSize: -1})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	req.NoError(svc.AddFriend(alice.ID, bob.ID))
	conversations, err := svc.ListConversations(alice.ID)
	req.NoError(err)
	for i := 0; i < services.DefaultNotificationPageSize+5; i++ {
		_, err = svc.SendMessage(alice.ID, conversations[0].ID, ledger.Draft{Body: "ping"})
		req.NoError(err)
	}

	notifications, err := svc.ListNotifications(bob.ID)
	req.NoError(err)
	req.Len(notifications, services.DefaultNotificationPageSize+6)
}

func TestMessengerService_RollbackOnPersistenceFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockISnapshotStore(ctrl)
	store.EXPECT().Load().Return(domain.NewSnapshot(), nil)

	healthy := true
	store.EXPECT().Save(gomock.Any()).DoAndReturn(func(*domain.Snapshot) error {
		if healthy {
			return nil
		}
		return stderrors.New("write /var/lib/wegetchat/db.json: no space left on device")
	}).AnyTimes()

	svc, _ := newService(t, store, nil, services.Options{})
	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	req.NoError(svc.AddFriend(alice.ID, bob.ID))
	conversations, err := svc.ListConversations(alice.ID)
	req.NoError(err)

	healthy = false
	_, err = svc.SendMessage(alice.ID, conversations[0].ID, ledger.Draft{Body: "lost"})
	req.ErrorIs(err, errors.ErrPersistence)
	req.NotContains(err.Error(), "/var/lib")

	messages, err := svc.GetMessages(alice.ID, conversations[0].ID)
	req.NoError(err)
	req.Empty(messages)
	notifications, err := svc.ListNotifications(bob.ID)
	req.NoError(err)
	req.Len(notifications, 1, "only the friend notification")

	_, err = svc.Register("carol", "1234")
	req.ErrorIs(err, errors.ErrPersistence)
	healthy = true
	_, err = svc.Register("carol", "1234")
	req.NoError(err, "rolled back registration leaves the username free")
}

func TestMessengerService_EndToEnd(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "db.json")
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store, err := repositories.NewFileSnapshotStore(path, log)
	req.NoError(err)
	svc, _ := newService(t, store, nil, services.Options{})

	// 1. A adds B: B has exactly one unread notification
	a := register(t, svc, "alice")
	b := register(t, svc, "bob")
	req.NoError(svc.AddFriend(a.ID, b.ID))
	notifications, err := svc.ListNotifications(b.ID)
	req.NoError(err)
	req.Len(lo.Filter(notifications, func(n domain.Notification, _ int) bool { return !n.Read }), 1)

	// 2. A sends "hi": B sees one unread message
	conversations, err := svc.ListConversations(b.ID)
	req.NoError(err)
	convID := conversations[0].ID
	_, err = svc.SendMessage(a.ID, convID, ledger.Draft{Body: "hi"})
	req.NoError(err)

	conversations, err = svc.ListConversations(b.ID)
	req.NoError(err)
	req.Len(conversations, 1)
	req.Equal(1, conversations[0].UnreadCount)
	req.Equal("hi", conversations[0].LatestMessage.Body)
	req.Equal(a.ID, conversations[0].OtherUser.ID)

	// 3. B reads: unread drops to 0 and A sees the message as Read
	req.NoError(svc.MarkConversationRead(b.ID, convID))
	conversations, err = svc.ListConversations(b.ID)
	req.NoError(err)
	req.Zero(conversations[0].UnreadCount)
	messages, err := svc.GetMessages(a.ID, convID)
	req.NoError(err)
	req.Equal(domain.ReadStateRead, messages[0].ReadState)

	// 4. Restart: same answers from the reloaded snapshot
	beforeConversations, _ := svc.ListConversations(b.ID)
	beforeMessages, _ := svc.GetMessages(b.ID, convID)
	beforeNotifications, _ := svc.ListNotifications(b.ID)

	reopened, err := repositories.NewFileSnapshotStore(path, log)
	req.NoError(err)
	restarted, _ := newService(t, reopened, nil, services.Options{})

	afterConversations, err := restarted.ListConversations(b.ID)
	req.NoError(err)
	afterMessages, err := restarted.GetMessages(b.ID, convID)
	req.NoError(err)
	afterNotifications, err := restarted.ListNotifications(b.ID)
	req.NoError(err)

	req.Equal(beforeConversations, afterConversations)
	req.Equal(beforeMessages, afterMessages)
	req.Equal(beforeNotifications, afterNotifications)

	_, err = restarted.VerifyCredential("alice", "1234")
	req.NoError(err)
}
