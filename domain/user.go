// Package domain contains core concepts of the messenger.
// Entities live inside a Snapshot, which is the unit of persistence.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 4
	MaxStatusLength   = 140
	DefaultStatusText = "Hey there! I am using WeGetChat."
)

// User is a registered account. UsernameLower is the uniqueness key,
// Username keeps the casing chosen at registration.
type User struct {
	ID                   string    `json:"id"`
	Username             string    `json:"username"`
	UsernameLower        string    `json:"usernameLower"`
	PasswordHash         string    `json:"passwordHash"`
	PfpURL               string    `json:"pfpUrl"`
	StatusText           string    `json:"statusText"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	CreatedAt            time.Time `json:"createdAt"`
}

// Profile is what a user sees about themself.
type Profile struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	PfpURL               string `json:"pfpUrl"`
	StatusText           string `json:"statusText"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

// PublicProfile is what other users see.
type PublicProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	PfpURL   string `json:"pfpUrl"`
}

type UserSummary struct {
	PublicProfile
	IsFriend bool `json:"isFriend"`
}

// ProfileUpdate holds the optional fields of a settings change. Nil means unchanged.
type ProfileUpdate struct {
	StatusText           *string
	NotificationsEnabled *bool
	PfpURL               *string
}

func (u User) Profile() Profile {
	return Profile{
		ID:                   u.ID,
		Username:             u.Username,
		PfpURL:               u.PfpURL,
		StatusText:           u.StatusText,
		NotificationsEnabled: u.NotificationsEnabled,
	}
}

func (u User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username, PfpURL: u.PfpURL}
}

// NormalizeUsername returns the uniqueness key of a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// TruncateStatus cuts a status text to MaxStatusLength characters.
func TruncateStatus(status string) string {
	if utf8.RuneCountInString(status) <= MaxStatusLength {
		return status
	}
	return string([]rune(status)[:MaxStatusLength])
}
