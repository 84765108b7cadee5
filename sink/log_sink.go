package sink

import (
	"context"
	"log/slog"
	"wegetchat/contract"
	"wegetchat/domain/event"
)

// LogSink writes one structured line per committed event.
type LogSink struct {
	log *slog.Logger
}

var _ contract.EventSink = (*LogSink)(nil)

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Event committed", append([]any{"event", e.Name(), "at", e.OccurredAt()}, attributes(e)...)...)
	return nil
}

func attributes(e event.DomainEvent) []any {
	switch evt := e.(type) {
	case event.UserRegistered:
		return []any{"user_id", evt.UserID, "username", evt.Username}
	case event.ProfileUpdated:
		return []any{"user_id", evt.UserID}
	case event.FriendAdded:
		return []any{"user_id", evt.UserID, "friend_id", evt.FriendID,
			"conversation_id", evt.ConversationID, "conversation_created", evt.ConversationCreated}
	case event.MessageSent:
		return []any{"message_id", evt.MessageID, "conversation_id", evt.ConversationID,
			"sender_id", evt.SenderID, "recipient_id", evt.RecipientID, "attachment", evt.HasAttachment}
	case event.ConversationRead:
		return []any{"conversation_id", evt.ConversationID, "reader_id", evt.ReaderID, "marked", evt.Marked}
	case event.NotificationAppended:
		return []any{"notification_id", evt.NotificationID, "user_id", evt.UserID}
	case event.NotificationsRead:
		return []any{"user_id", evt.UserID, "marked", evt.Marked}
	default:
		return nil
	}
}
