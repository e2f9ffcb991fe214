package types

import "time"

// NotificationKeyRepaired is queued for each profile whose key was repaired.
const NotificationKeyRepaired = "encryption_key_repaired"

// Notification is a user-facing notice waiting in the notification queue.
type Notification struct {
	UserID    UserID    `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
