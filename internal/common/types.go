package common

import (
	"time"
)

type NotificationKind string

const (
	LikeKind            NotificationKind = "like"
	CommentKind         NotificationKind = "comment"
	MessageKind         NotificationKind = "message"
	WorkoutReminderKind NotificationKind = "workout_reminder"
)

type NotificationStatus string

const (
	StatusScheduled NotificationStatus = "scheduled"
	StatusSent      NotificationStatus = "sent"
)

// NotificationPayload is the per-kind payload attached to a notification.
// Each variant carries only the fields relevant to its kind, so consumers
// can switch on the concrete type instead of inspecting an untyped blob.
type NotificationPayload interface {
	isNotificationPayload()
}

type LikePayload struct {
	WorkoutID string `json:"workout_id"`
}

type CommentPayload struct {
	WorkoutID string `json:"workout_id"`
}

type MessagePayload struct {
	ConversationID string `json:"conversation_id"`
}

type ReminderPayload struct{}

func (LikePayload) isNotificationPayload()     {}
func (CommentPayload) isNotificationPayload()  {}
func (MessagePayload) isNotificationPayload()  {}
func (ReminderPayload) isNotificationPayload() {}

// NotificationEvent is what flows through the fan-out manager. The primary
// write that produced it has already committed by the time it is published.
type NotificationEvent struct {
	Kind        NotificationKind
	UserID      string // target user
	ActorID     string // user whose action triggered the event, empty for reminders
	Title       string
	Body        string
	Payload     NotificationPayload
	ScheduledAt *time.Time // non-nil only for events replayed from scheduled rows
}

type NotificationResponse struct {
	ID             string     `json:"id"`
	Kind           string     `json:"kind"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	WorkoutID      *string    `json:"workout_id,omitempty"`
	ConversationID *string    `json:"conversation_id,omitempty"`
	Read           bool       `json:"read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
