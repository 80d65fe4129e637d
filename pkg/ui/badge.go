package ui

import "strings"

// StatusBadge renders a colored status label for any of the domain status
// vocabularies (property, transfer, document, connection). Unknown values
// render as muted text.
func StatusBadge(status string) string {
	switch strings.ToLower(status) {
	case "active", "approved", "accepted", "completed", "serviceable", "read", "synced":
		return StyleSuccess.Render(status)
	case "pending", "unread", "in_repair", "needs_repair", "maintenance":
		return StyleWarning.Render(status)
	case "rejected", "cancelled", "blocked", "lost", "damaged", "unserviceable", "beyond_repair", "failed":
		return StyleError.Render(status)
	case "archived", "inactive":
		return StyleMuted.Render(status)
	case "new", "offer", "request":
		return StyleAccent.Render(status)
	default:
		return StyleMuted.Render(status)
	}
}

// VerifiedBadge marks verified property records
func VerifiedBadge(verified bool) string {
	if verified {
		return StyleSuccess.Render(IconVerified)
	}
	return StyleMuted.Render("·")
}

// ConnectivityBadge renders the online/offline indicator
func ConnectivityBadge(online bool) string {
	if online {
		return StyleSuccess.Render("online")
	}
	return StyleWarning.Render(IconOffline + " offline")
}
