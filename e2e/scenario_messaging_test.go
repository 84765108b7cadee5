package e2e

import (
	"net/http"
	"strings"
	"testing"
	"wegetchat/domain"
	"wegetchat/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testMessagingSuite struct {
	BaseHTTPSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, &testMessagingSuite{})
}

type userBody struct {
	User domain.Profile `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
}

type conversationsBody struct {
	Conversations []domain.ConversationSummary `json:"conversations"`
}

type messagesBody struct {
	Messages []services.MessageView `json:"messages"`
}

type notificationsBody struct {
	Notifications []domain.Notification `json:"notifications"`
}

func (s *testMessagingSuite) register(t *testing.T, prefix string) (*Client, domain.Profile) {
	c := s.NewClient()
	var body userBody
	status := c.JSON(t, http.MethodPost, "/api/register", map[string]string{
		"username": prefix + "_" + uuid.NewString()[:8],
		"password": "secret",
	}, &body)
	s.Require().Equal(http.StatusOK, status)
	s.Require().NotEmpty(body.User.ID)
	return c, body.User
}

func (s *testMessagingSuite) TestConversationLifecycle() {
	t := s.T()
	req := s.Require()

	s.Step(t, "Register")
	alice, aliceProfile := s.register(t, "alice")
	bob, bobProfile := s.register(t, "bob")
	req.Equal(domain.DefaultStatusText, bobProfile.StatusText)

	s.Step(t, "Search and befriend")
	var search struct {
		Users []domain.UserSummary `json:"users"`
	}
	req.Equal(http.StatusOK, alice.JSON(t, http.MethodGet, "/api/users/search?q="+strings.ToUpper(bobProfile.Username), nil, &search))
	req.Len(search.Users, 1)
	req.False(search.Users[0].IsFriend)

	req.Equal(http.StatusOK, alice.JSON(t, http.MethodPost, "/api/friends/"+bobProfile.ID, nil, nil))
	req.Equal(http.StatusOK, alice.JSON(t, http.MethodPost, "/api/friends/"+bobProfile.ID, nil, nil))

	var notifications notificationsBody
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodGet, "/api/notifications", nil, &notifications))
	req.Len(notifications.Notifications, 1)
	req.Equal(aliceProfile.Username+" added you as a friend.", notifications.Notifications[0].Text)

	var conversations conversationsBody
	req.Equal(http.StatusOK, alice.JSON(t, http.MethodGet, "/api/conversations", nil, &conversations))
	req.Len(conversations.Conversations, 1)
	conversationID := conversations.Conversations[0].ID
	req.Equal(bobProfile.ID, conversations.Conversations[0].OtherUser.ID)
	req.Nil(conversations.Conversations[0].LatestMessage)

	s.Step(t, "Send with attachment")
	var sent struct {
		Message services.MessageView `json:"message"`
	}
	status := alice.Multipart(t, http.MethodPost, "/api/conversations/"+conversationID+"/messages",
		map[string]string{"body": "  Hello Bob  "}, "attachment", "note.txt", []byte("see you at noon"), &sent)
	req.Equal(http.StatusOK, status)
	req.Equal("Hello Bob", sent.Message.Body)
	req.Equal("note.txt", sent.Message.AttachmentName)
	req.Equal(domain.ReadStateSent, sent.Message.ReadState)

	code, content := bob.Get(t, sent.Message.AttachmentURL)
	req.Equal(http.StatusOK, code)
	req.Equal("see you at noon", string(content))

	var empty errorBody
	req.Equal(http.StatusBadRequest, alice.JSON(t, http.MethodPost, "/api/conversations/"+conversationID+"/messages",
		map[string]string{"body": "   "}, &empty))
	req.Equal("Message body or attachment required", empty.Error)

	s.Step(t, "Read receipts")
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodGet, "/api/conversations", nil, &conversations))
	req.Equal(1, conversations.Conversations[0].UnreadCount)

	var messages messagesBody
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodGet, "/api/conversations/"+conversationID+"/messages", nil, &messages))
	req.Len(messages.Messages, 1)
	req.Equal(domain.ReadStateReceived, messages.Messages[0].ReadState)

	req.Equal(http.StatusOK, bob.JSON(t, http.MethodPost, "/api/conversations/"+conversationID+"/read", nil, nil))
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodPost, "/api/conversations/"+conversationID+"/read", nil, nil))
	req.Equal(http.StatusOK, alice.JSON(t, http.MethodGet, "/api/conversations/"+conversationID+"/messages", nil, &messages))
	req.Equal(domain.ReadStateRead, messages.Messages[0].ReadState)
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodGet, "/api/conversations", nil, &conversations))
	req.Zero(conversations.Conversations[0].UnreadCount)

	s.Step(t, "Notifications")
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodGet, "/api/notifications", nil, &notifications))
	req.Len(notifications.Notifications, 2)
	req.Equal("New message from "+aliceProfile.Username, notifications.Notifications[0].Text)
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodPost, "/api/notifications/read-all", nil, nil))
	req.Equal(http.StatusOK, bob.JSON(t, http.MethodGet, "/api/notifications", nil, &notifications))
	for _, n := range notifications.Notifications {
		req.True(n.Read)
	}

	s.Step(t, "Outsiders")
	carol, _ := s.register(t, "carol")
	var notFound, unknown errorBody
	req.Equal(http.StatusNotFound, carol.JSON(t, http.MethodGet, "/api/conversations/"+conversationID+"/messages", nil, &notFound))
	req.Equal(http.StatusNotFound, carol.JSON(t, http.MethodGet, "/api/conversations/"+uuid.NewString()+"/messages", nil, &unknown))
	req.Equal(unknown.Error, notFound.Error)
}

func (s *testMessagingSuite) TestSessionLifecycle() {
	t := s.T()
	req := s.Require()

	client, profile := s.register(t, "dave")

	s.Step(t, "Settings")
	var updated userBody
	status := client.Multipart(t, http.MethodPut, "/api/settings",
		map[string]string{"statusText": strings.Repeat("x", 200), "notificationsEnabled": "false"}, "", "", nil, &updated)
	req.Equal(http.StatusOK, status)
	req.Len(updated.User.StatusText, domain.MaxStatusLength)
	req.False(updated.User.NotificationsEnabled)

	var rejected errorBody
	status = client.Multipart(t, http.MethodPut, "/api/settings", nil, "pfp", "avatar.png", []byte("not an image"), &rejected)
	req.Equal(http.StatusBadRequest, status)

	s.Step(t, "Logout and login")
	req.Equal(http.StatusOK, client.JSON(t, http.MethodPost, "/api/logout", nil, nil))
	req.Equal(http.StatusUnauthorized, client.JSON(t, http.MethodGet, "/api/me", nil, nil))

	var wrong errorBody
	req.Equal(http.StatusUnauthorized, client.JSON(t, http.MethodPost, "/api/login",
		map[string]string{"username": profile.Username, "password": "nope"}, &wrong))
	req.Equal("Invalid username or password", wrong.Error)

	var me userBody
	req.Equal(http.StatusOK, client.JSON(t, http.MethodPost, "/api/login",
		map[string]string{"username": strings.ToUpper(profile.Username), "password": "secret"}, nil))
	req.Equal(http.StatusOK, client.JSON(t, http.MethodGet, "/api/me", nil, &me))
	req.Equal(profile.ID, me.User.ID)

	var taken errorBody
	req.Equal(http.StatusConflict, s.NewClient().JSON(t, http.MethodPost, "/api/register",
		map[string]string{"username": " " + strings.ToUpper(profile.Username) + " ", "password": "secret"}, &taken))
	req.Equal("Username already taken", taken.Error)
}
