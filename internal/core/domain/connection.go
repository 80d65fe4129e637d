package domain

import (
	"fmt"
	"time"
)

// Connection statuses between two users
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusBlocked  = "blocked"
)

// UserConnection is a peer relationship. Transfers can only target
// accepted connections.
type UserConnection struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	ConnectedUserID  int       `json:"connectedUserId"`
	ConnectionStatus string    `json:"connectionStatus"`
	ConnectedUser    *User     `json:"connectedUser,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// User is the profile summary attached to connections and transfers
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Rank         string `json:"rank,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Phone        string `json:"phone,omitempty"`
	DoDID        string `json:"dodid,omitempty"`
	SignatureURL string `json:"signatureUrl,omitempty"`
}

// ValidConnectionStatus reports whether the status is known
func ValidConnectionStatus(status string) bool {
	switch status {
	case ConnectionStatusPending, ConnectionStatusAccepted, ConnectionStatusBlocked:
		return true
	}
	return false
}

// Accepted reports whether the connection is usable for transfers
func (c *UserConnection) Accepted() bool {
	return c.ConnectionStatus == ConnectionStatusAccepted
}

// PeerID returns the other user's id from the perspective of userID
func (c *UserConnection) PeerID(userID int) int {
	if c.UserID == userID {
		return c.ConnectedUserID
	}
	return c.UserID
}

// DisplayName returns rank and name when both are known
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Rank != "" {
		return fmt.Sprintf("%s %s", u.Rank, u.Name)
	}
	return u.Name
}
