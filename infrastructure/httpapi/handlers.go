package httpapi

import (
	"net/http"
	"strconv"
	"wegetchat/auth"
	"wegetchat/domain"
	"wegetchat/domain/ledger"
	"wegetchat/errors"
	"wegetchat/services"

	"github.com/go-chi/chi/v5"
)

type userResponse struct {
	User domain.Profile `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	username, _ := f.value("username")
	password, _ := f.value("password")

	profile, err := s.messenger.Register(username, password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if err = s.startSession(w, profile.ID); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	username, _ := f.value("username")
	password, _ := f.value("password")

	profile, err := s.messenger.VerifyCredential(username, password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if err = s.startSession(w, profile.ID); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: profile})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.issuer.Revoke(auth.TokenFromRequest(r))
	s.clearSession(w)
	writeOK(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{User: currentUser(r)})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	var upd domain.ProfileUpdate
	if status, ok := f.value("statusText"); ok {
		upd.StatusText = &status
	}
	if enabled, ok := f.value("notificationsEnabled"); ok {
		on := enabled == "true"
		upd.NotificationsEnabled = &on
	}
	if header := f.file("pfp"); header != nil {
		url, err := store(header, s.uploads.SavePicture)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		upd.PfpURL = &url
	}

	profile, err := s.messenger.UpdateProfile(currentUser(r).ID, upd)
	if err != nil {
		if upd.PfpURL != nil {
			s.uploads.Remove(*upd.PfpURL)
		}
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: profile})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	users, err := s.messenger.SearchUsers(currentUser(r).ID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Users []domain.UserSummary `json:"users"`
	}{users})
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.messenger.AddFriend(currentUser(r).ID, chi.URLParam(r, "friendId")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.messenger.ListConversations(currentUser(r).ID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Conversations []domain.ConversationSummary `json:"conversations"`
	}{conversations})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messenger.GetMessages(currentUser(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Messages []services.MessageView `json:"messages"`
	}{messages})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	f, err := s.readForm(w, r)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	body, _ := f.value("body")
	draft := ledger.Draft{Body: body}
	if header := f.file("attachment"); header != nil {
		attachment, err := store(header, s.uploads.Save)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		draft.Attachment = &attachment
	}

	message, err := s.messenger.SendMessage(currentUser(r).ID, chi.URLParam(r, "id"), draft)
	if err != nil {
		if draft.Attachment != nil {
			s.uploads.Remove(draft.Attachment.URL)
		}
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message services.MessageView `json:"message"`
	}{message})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := s.messenger.MarkConversationRead(currentUser(r).ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeOK(w)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, s.log, errors.ErrInvalidOffset)
			return
		}
		offset = n
	}
	notifications, err := s.messenger.ListNotificationsPage(currentUser(r).ID, offset)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Notifications []domain.Notification `json:"notifications"`
	}{notifications})
}

func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := s.messenger.MarkAllNotificationsRead(currentUser(r).ID); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeOK(w)
}
