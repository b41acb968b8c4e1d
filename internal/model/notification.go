package model

import "time"

// NotificationLevel controls how a notification is presented.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelWarning NotificationLevel = "warning"
)

// Notification is a transient alert surfaced to the user after an action
// succeeds or fails. Underlying error details are logged, never shown here.
type Notification struct {
	// Level is the presentation level (success, error, warning).
	Level NotificationLevel `json:"level"`

	// Title is the short headline, fixed per action.
	Title string `json:"title"`

	// Message is the human-readable body text.
	Message string `json:"message"`

	// CreatedAt is when this notification was raised.
	CreatedAt time.Time `json:"created_at"`
}
