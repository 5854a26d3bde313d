package notif

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
	"github.com/AmnezziaCS/FitConnect/internal/user"
)

// DatabaseNotificationObserver persists each event as a notification row.
type DatabaseNotificationObserver struct {
	repo dbmysql.NotificationRepository
}

func NewDatabaseNotificationObserver(repo dbmysql.NotificationRepository) *DatabaseNotificationObserver {
	return &DatabaseNotificationObserver{repo: repo}
}

func (d *DatabaseNotificationObserver) Name() string {
	return "database_observer"
}

func (d *DatabaseNotificationObserver) Update(event common.NotificationEvent) error {
	// Scheduled events already have a row: ScheduleReminder writes it
	// synchronously and the ticker replays it through the manager later.
	if event.ScheduledAt != nil {
		return nil
	}

	notification := recordFromEvent(event)
	if err := d.repo.Create(context.Background(), notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// recordFromEvent maps the tagged payload onto the notification columns.
func recordFromEvent(event common.NotificationEvent) *dbmysql.Notification {
	notification := &dbmysql.Notification{
		ID:     uuid.NewString(),
		UserID: event.UserID,
		Kind:   string(event.Kind),
		Title:  event.Title,
		Body:   event.Body,
		Status: string(common.StatusSent),
	}
	if event.ActorID != "" {
		actorID := event.ActorID
		notification.ActorID = &actorID
	}

	switch payload := event.Payload.(type) {
	case common.LikePayload:
		notification.WorkoutID = &payload.WorkoutID
	case common.CommentPayload:
		notification.WorkoutID = &payload.WorkoutID
	case common.MessagePayload:
		notification.ConversationID = &payload.ConversationID
	}

	return notification
}

// FCMNotificationObserver delivers events as push notifications to the
// target user's active devices.
type FCMNotificationObserver struct {
	client     common.PushClient
	deviceRepo user.DeviceRepository
}

func NewFCMNotificationObserver(client common.PushClient, deviceRepo user.DeviceRepository) *FCMNotificationObserver {
	return &FCMNotificationObserver{
		client:     client,
		deviceRepo: deviceRepo,
	}
}

func (f *FCMNotificationObserver) Name() string {
	return "fcm_observer"
}

func (f *FCMNotificationObserver) Update(event common.NotificationEvent) error {
	if event.ScheduledAt != nil && event.ScheduledAt.After(time.Now()) {
		return nil
	}

	devices, err := f.deviceRepo.ActiveByUserID(context.Background(), event.UserID)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	if len(devices) == 0 {
		// The mobile app falls back to a local notification in this case;
		// server side there is nothing to deliver to.
		log.Printf("No active devices for user %s, skipping push", event.UserID)
		return nil
	}

	tokens := make([]string, len(devices))
	for i, device := range devices {
		tokens[i] = device.DeviceToken
	}

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: event.Title,
			Body:  event.Body,
		},
		Data:   pushData(event),
		Tokens: tokens,
	}

	response, err := f.client.SendEachForMulticast(context.Background(), message)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}

	f.handleFailedTokens(response, devices)

	log.Printf("Push sent for user %s: %d success, %d failure",
		event.UserID, response.SuccessCount, response.FailureCount)
	return nil
}

func pushData(event common.NotificationEvent) map[string]string {
	data := map[string]string{
		"kind":    string(event.Kind),
		"user_id": event.UserID,
	}
	switch payload := event.Payload.(type) {
	case common.LikePayload:
		data["workout_id"] = payload.WorkoutID
	case common.CommentPayload:
		data["workout_id"] = payload.WorkoutID
	case common.MessagePayload:
		data["conversation_id"] = payload.ConversationID
	}
	return data
}

func (f *FCMNotificationObserver) handleFailedTokens(response *messaging.BatchResponse, devices []*dbmysql.Device) {
	for i, result := range response.Responses {
		if result.Success || i >= len(devices) {
			continue
		}

		if messaging.IsRegistrationTokenNotRegistered(result.Error) ||
			messaging.IsInvalidArgument(result.Error) {
			token := devices[i].DeviceToken
			if err := f.deviceRepo.UpdateTokenStatus(context.Background(), token, false); err != nil {
				log.Printf("Failed to update token status: %v", err)
				continue
			}
			log.Printf("Marked invalid token as inactive: %s", token)
		}
	}
}

// RedisNotificationObserver publishes events on a per-user channel so
// connected clients refresh their notification badge in real time.
type RedisNotificationObserver struct {
	publisher common.Publisher
}

func NewRedisNotificationObserver(publisher common.Publisher) *RedisNotificationObserver {
	return &RedisNotificationObserver{publisher: publisher}
}

func (r *RedisNotificationObserver) Name() string {
	return "redis_observer"
}

func (r *RedisNotificationObserver) Update(event common.NotificationEvent) error {
	if event.ScheduledAt != nil && event.ScheduledAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"kind":       string(event.Kind),
		"title":      event.Title,
		"body":       event.Body,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := "user_notifications:" + event.UserID
	if err := r.publisher.Publish(context.Background(), channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
