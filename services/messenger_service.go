//go:generate go run go.uber.org/mock/mockgen -source=messenger_service.go -destination=../mocks/mock_messenger_service.go -package=mocks
package services

import (
	"log/slog"
	"strings"
	"wegetchat/auth"
	"wegetchat/domain"
	"wegetchat/domain/directory"
	"wegetchat/domain/event"
	"wegetchat/domain/feed"
	"wegetchat/domain/identity"
	"wegetchat/domain/ledger"
	"wegetchat/errors"
	"wegetchat/moderation"
	"wegetchat/runtime"

	"github.com/samber/lo"
)

const DefaultNotificationPageSize = 30

// IMessengerService is the in-process surface of the messenger.
// Every callerID is an already authenticated user id.
type IMessengerService interface {
	Register(username, password string) (domain.Profile, error)
	VerifyCredential(username, password string) (domain.Profile, error)
	GetProfile(callerID string) (domain.Profile, error)
	UpdateProfile(callerID string, upd domain.ProfileUpdate) (domain.Profile, error)
	SearchUsers(callerID, query string) ([]domain.UserSummary, error)
	AddFriend(callerID, targetID string) error
	ListConversations(callerID string) ([]domain.ConversationSummary, error)
	GetMessages(callerID, conversationID string) ([]MessageView, error)
	SendMessage(callerID, conversationID string, draft ledger.Draft) (MessageView, error)
	MarkConversationRead(callerID, conversationID string) error
	ListNotifications(callerID string) ([]domain.Notification, error)
	ListNotificationsPage(callerID string, offset int) ([]domain.Notification, error)
	MarkAllNotificationsRead(callerID string) error
}

// MessageView is a message as seen by one participant.
type MessageView struct {
	domain.Message
	ReadState domain.ReadState `json:"readState"`
}

func newMessageView(m domain.Message, viewerID string) MessageView {
	return MessageView{Message: m.Clone(), ReadState: m.ReadStateFor(viewerID)}
}

type Options struct {
	Clock                 domain.Clock
	NewID                 domain.IDGenerator
	SearchLimit           int
	NotificationRetention int
	// NotificationPageSize defaults to DefaultNotificationPageSize, a negative value lists everything
	NotificationPageSize int
}

type MessengerService struct {
	log         *slog.Logger
	coordinator *runtime.Coordinator
	hasher      auth.IHasher
	moderator   *moderation.Moderator
	clock       domain.Clock
	identity    *identity.Graph
	directory   *directory.Directory
	ledger      *ledger.Ledger
	feed        *feed.Feed
	pageSize    int
	// compared against when the username is unknown, so both failures cost the same
	decoyHash string
}

var _ IMessengerService = (*MessengerService)(nil)

func NewMessengerService(
	log *slog.Logger,
	coordinator *runtime.Coordinator,
	hasher auth.IHasher,
	moderator *moderation.Moderator,
	opts Options,
) *MessengerService {
	if opts.Clock == nil {
		opts.Clock = domain.SystemClock
	}
	if opts.NewID == nil {
		opts.NewID = domain.NewID
	}
	if opts.NotificationPageSize == 0 {
		opts.NotificationPageSize = DefaultNotificationPageSize
	}

	f := feed.New(opts.Clock, opts.NewID, opts.NotificationRetention)
	d := directory.New(opts.Clock, opts.NewID)
	s := &MessengerService{
		log:         log,
		coordinator: coordinator,
		hasher:      hasher,
		moderator:   moderator,
		clock:       opts.Clock,
		directory:   d,
		feed:        f,
		identity:    identity.New(opts.Clock, opts.NewID, d, f, opts.SearchLimit),
		ledger:      ledger.New(opts.Clock, opts.NewID, d, f),
		pageSize:    opts.NotificationPageSize,
	}
	if decoy, err := hasher.Hash(opts.NewID()); err == nil {
		s.decoyHash = decoy
	}
	return s
}

func (s *MessengerService) Register(username, password string) (domain.Profile, error) {
	// 1. Validate input before any expensive cryptographic operation
	if err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Password: password}); err != nil {
		return domain.Profile{}, s.fail("register", err)
	}

	// 2. Fast path for taken usernames, rechecked under the writer lock
	if _, taken := s.coordinator.Snapshot().UserByUsername(username); taken {
		return domain.Profile{}, s.fail("register", errors.ErrUsernameTaken)
	}

	// 3. Hash outside the critical section
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.Profile{}, s.fail("register", errors.ErrInternal.Wrap(err))
	}

	// 4. Persist the user
	user, err := runtime.Apply(s.coordinator, "register", func(tx *runtime.Tx) (domain.User, error) {
		u, err := s.identity.Register(tx.Snapshot, username, hash)
		if err != nil {
			return domain.User{}, err
		}
		tx.Emit(event.UserRegistered{UserID: u.ID, Username: u.Username, At: u.CreatedAt})
		return u, nil
	})
	if err != nil {
		return domain.Profile{}, s.fail("register", err)
	}
	s.log.Info("User registered", "user_id", user.ID)
	return user.Profile(), nil
}

func (s *MessengerService) VerifyCredential(username, password string) (domain.Profile, error) {
	user, ok := s.coordinator.Snapshot().UserByUsername(username)
	if !ok {
		if s.decoyHash != "" {
			_, _ = s.hasher.Compare(password, s.decoyHash)
		}
		s.log.Debug("Credential rejected", "reason", "unknown user")
		return domain.Profile{}, errors.ErrInvalidCredential
	}

	match, err := s.hasher.Compare(password, user.PasswordHash)
	if err != nil {
		s.log.Warn("Stored credential unreadable", "user_id", user.ID, "err", err)
		return domain.Profile{}, errors.ErrInvalidCredential
	}
	if !match {
		s.log.Debug("Credential rejected", "reason", "bad password", "user_id", user.ID)
		return domain.Profile{}, errors.ErrInvalidCredential
	}
	return user.Profile(), nil
}

func (s *MessengerService) GetProfile(callerID string) (domain.Profile, error) {
	user, ok := s.coordinator.Snapshot().UserByID(callerID)
	if !ok {
		return domain.Profile{}, errors.ErrUserNotFound
	}
	return user.Profile(), nil
}

func (s *MessengerService) UpdateProfile(callerID string, upd domain.ProfileUpdate) (domain.Profile, error) {
	if upd.StatusText != nil {
		censored, words := s.moderator.Censor(domain.TruncateStatus(*upd.StatusText))
		if len(words) > 0 {
			s.log.Info("Status text censored", "user_id", callerID, "words", len(words))
		}
		upd.StatusText = &censored
	}

	user, err := runtime.Apply(s.coordinator, "update_profile", func(tx *runtime.Tx) (domain.User, error) {
		u, err := s.identity.UpdateProfile(tx.Snapshot, callerID, upd)
		if err != nil {
			return domain.User{}, err
		}
		tx.Emit(event.ProfileUpdated{UserID: u.ID, At: s.clock()})
		return u, nil
	})
	if err != nil {
		return domain.Profile{}, s.fail("update_profile", err)
	}
	return user.Profile(), nil
}

func (s *MessengerService) SearchUsers(callerID, query string) ([]domain.UserSummary, error) {
	return s.identity.Search(s.coordinator.Snapshot(), callerID, strings.TrimSpace(query)), nil
}

func (s *MessengerService) AddFriend(callerID, targetID string) error {
	err := s.coordinator.Mutate("add_friend", func(tx *runtime.Tx) error {
		res, err := s.identity.AddFriend(tx.Snapshot, callerID, targetID)
		if err != nil {
			return err
		}
		if !res.Created {
			tx.Unchanged()
			return nil
		}
		tx.Emit(
			event.FriendAdded{
				UserID:              callerID,
				FriendID:            targetID,
				ConversationID:      res.Conversation.ID,
				ConversationCreated: res.ConversationCreated,
				At:                  res.Notification.CreatedAt,
			},
			notificationAppended(res.Notification),
		)
		return nil
	})
	if err != nil {
		return s.fail("add_friend", err)
	}
	return nil
}

func (s *MessengerService) ListConversations(callerID string) ([]domain.ConversationSummary, error) {
	return s.directory.ListForUser(s.coordinator.Snapshot(), callerID), nil
}

func (s *MessengerService) GetMessages(callerID, conversationID string) ([]MessageView, error) {
	messages, err := s.directory.Messages(s.coordinator.Snapshot(), conversationID, callerID)
	if err != nil {
		return nil, s.fail("get_messages", err)
	}
	return lo.Map(messages, func(m domain.Message, _ int) MessageView {
		return newMessageView(m, callerID)
	}), nil
}

func (s *MessengerService) SendMessage(callerID, conversationID string, draft ledger.Draft) (MessageView, error) {
	appended, err := runtime.Apply(s.coordinator, "send_message", func(tx *runtime.Tx) (ledger.Appended, error) {
		res, err := s.ledger.Append(tx.Snapshot, conversationID, callerID, draft)
		if err != nil {
			return ledger.Appended{}, err
		}
		tx.Emit(
			event.MessageSent{
				MessageID:      res.Message.ID,
				ConversationID: res.Message.ConversationID,
				SenderID:       callerID,
				RecipientID:    res.RecipientID,
				HasAttachment:  res.Message.HasAttachment(),
				At:             res.Message.CreatedAt,
			},
			notificationAppended(res.Notification),
		)
		return res, nil
	})
	if err != nil {
		return MessageView{}, s.fail("send_message", err)
	}
	return newMessageView(appended.Message, callerID), nil
}

func (s *MessengerService) MarkConversationRead(callerID, conversationID string) error {
	err := s.coordinator.Mutate("mark_conversation_read", func(tx *runtime.Tx) error {
		marked, err := s.ledger.MarkRead(tx.Snapshot, conversationID, callerID)
		if err != nil {
			return err
		}
		if marked == 0 {
			tx.Unchanged()
			return nil
		}
		tx.Emit(event.ConversationRead{ConversationID: conversationID, ReaderID: callerID, Marked: marked, At: s.clock()})
		return nil
	})
	if err != nil {
		return s.fail("mark_conversation_read", err)
	}
	return nil
}

func (s *MessengerService) ListNotifications(callerID string) ([]domain.Notification, error) {
	return s.ListNotificationsPage(callerID, 0)
}

// ListNotificationsPage skips the newest offset notifications, so every retained one stays reachable.
func (s *MessengerService) ListNotificationsPage(callerID string, offset int) ([]domain.Notification, error) {
	if offset < 0 {
		return nil, s.fail("list_notifications", errors.ErrInvalidOffset)
	}
	return s.feed.Page(s.coordinator.Snapshot(), callerID, offset, s.pageSize), nil
}

func (s *MessengerService) MarkAllNotificationsRead(callerID string) error {
	err := s.coordinator.Mutate("mark_all_notifications_read", func(tx *runtime.Tx) error {
		marked := s.feed.MarkAllRead(tx.Snapshot, callerID)
		if marked == 0 {
			tx.Unchanged()
			return nil
		}
		tx.Emit(event.NotificationsRead{UserID: callerID, Marked: marked, At: s.clock()})
		return nil
	})
	if err != nil {
		return s.fail("mark_all_notifications_read", err)
	}
	return nil
}

// fail logs the internal error and returns what may cross the service boundary.
func (s *MessengerService) fail(op string, err error) error {
	switch errors.KindOf(err) {
	case errors.KindPersistence, errors.KindInternal:
		s.log.Error("Operation failed", "op", op, "err", err)
	default:
		s.log.Debug("Operation rejected", "op", op, "err", err)
	}
	return errors.Public(err)
}

func notificationAppended(n domain.Notification) event.NotificationAppended {
	return event.NotificationAppended{NotificationID: n.ID, UserID: n.UserID, Text: n.Text, At: n.CreatedAt}
}
