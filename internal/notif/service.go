package notif

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/config"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
	"github.com/AmnezziaCS/FitConnect/internal/user"
)

const commentPreviewLimit = 50

// NotificationService owns the notification store and the fan-out
// pipeline. Send* methods validate, suppress self-notifications and
// enqueue; delivery happens on the manager's workers.
type NotificationService struct {
	manager    *NotificationManager
	repo       dbmysql.NotificationRepository
	deviceRepo user.DeviceRepository
	stop       chan struct{}
}

func NewNotificationService(
	cfg *config.Config,
	repo dbmysql.NotificationRepository,
	deviceRepo user.DeviceRepository,
	pushClient common.PushClient,
	publisher common.Publisher,
) *NotificationService {
	manager := NewNotificationManager(cfg.Notification.Workers, cfg.Notification.ChannelBufferSize)

	manager.Subscribe(NewDatabaseNotificationObserver(repo))

	if pushClient != nil {
		manager.Subscribe(NewFCMNotificationObserver(pushClient, deviceRepo))
	}

	if publisher != nil {
		manager.Subscribe(NewRedisNotificationObserver(publisher))
	}

	s := &NotificationService{
		manager:    manager,
		repo:       repo,
		deviceRepo: deviceRepo,
		stop:       make(chan struct{}),
	}

	interval := time.Duration(cfg.Notification.ScheduledCheckInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	go s.processScheduled(interval)

	return s
}

func (s *NotificationService) SendLikeNotification(ctx context.Context, ownerID, likerID, likerName, workoutID string) error {
	if ownerID == likerID {
		return nil
	}

	event := common.NotificationEvent{
		Kind:    common.LikeKind,
		UserID:  ownerID,
		ActorID: likerID,
		Title:   "Nouveau like ❤️",
		Body:    fmt.Sprintf("%s a aimé ton entraînement", likerName),
		Payload: common.LikePayload{WorkoutID: workoutID},
	}
	return s.send(event)
}

func (s *NotificationService) SendCommentNotification(ctx context.Context, ownerID, commenterID, commenterName, workoutID, comment string) error {
	if ownerID == commenterID {
		return nil
	}

	body := fmt.Sprintf("%s: %s", commenterName, truncate(comment, commentPreviewLimit))

	event := common.NotificationEvent{
		Kind:    common.CommentKind,
		UserID:  ownerID,
		ActorID: commenterID,
		Title:   "Nouveau commentaire 💬",
		Body:    body,
		Payload: common.CommentPayload{WorkoutID: workoutID},
	}
	return s.send(event)
}

func (s *NotificationService) SendMessageNotification(ctx context.Context, recipientID, senderID, senderName, conversationID, preview string) error {
	if recipientID == senderID {
		return nil
	}

	event := common.NotificationEvent{
		Kind:    common.MessageKind,
		UserID:  recipientID,
		ActorID: senderID,
		Title:   fmt.Sprintf("Message de %s 📨", senderName),
		Body:    preview,
		Payload: common.MessagePayload{ConversationID: conversationID},
	}
	return s.send(event)
}

func (s *NotificationService) send(event common.NotificationEvent) error {
	if err := s.validateEvent(event); err != nil {
		return fmt.Errorf("invalid notification event: %w", err)
	}
	s.manager.NotifyAsync(event)
	return nil
}

// ScheduleReminder persists a workout reminder to fire at the given time.
// The row is written here, not by the database observer, so the id can be
// handed back for cancellation.
func (s *NotificationService) ScheduleReminder(ctx context.Context, userID string, at time.Time) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required: %w", common.ErrValidation)
	}
	if !at.After(time.Now()) {
		return "", fmt.Errorf("reminder time must be in the future: %w", common.ErrValidation)
	}

	scheduledAt := at.UTC()
	notification := &dbmysql.Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        string(common.WorkoutReminderKind),
		Title:       "C'est le moment pour t'entraîner ! 💪",
		Body:        "Allez, à toi de jouer !",
		Status:      string(common.StatusScheduled),
		ScheduledAt: &scheduledAt,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return "", fmt.Errorf("failed to schedule reminder: %w", err)
	}

	log.Printf("Reminder scheduled for user %s at %s", userID, scheduledAt.Format(time.RFC3339))
	return notification.ID, nil
}

// CancelScheduled removes a pending reminder. Cancelling one that already
// fired or never existed reports not found.
func (s *NotificationService) CancelScheduled(ctx context.Context, id, userID string) error {
	notification, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("reminder %s: %w", id, common.ErrPermissionDenied)
	}
	if notification.Status != string(common.StatusScheduled) {
		return fmt.Errorf("reminder %s already delivered: %w", id, common.ErrNotFound)
	}
	return s.repo.Delete(ctx, id, userID)
}

// List returns the user's notifications newest first. The store returns
// them unordered, so sorting is done here.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*common.NotificationResponse, error) {
	notifications, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	responses := make([]*common.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		// pending reminders are internal rows, not inbox entries
		if n.Status == string(common.StatusScheduled) {
			continue
		}
		responses = append(responses, &common.NotificationResponse{
			ID:             n.ID,
			Kind:           n.Kind,
			Title:          n.Title,
			Body:           n.Body,
			WorkoutID:      n.WorkoutID,
			ConversationID: n.ConversationID,
			Read:           n.Read,
			ReadAt:         n.ReadAt,
			CreatedAt:      n.CreatedAt,
		})
	}
	return responses, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every unread notification individually, mirroring the
// per-document updates the mobile client issued.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	unread, err := s.repo.Unread(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get unread notifications: %w", err)
	}
	for _, n := range unread {
		if err := s.repo.MarkRead(ctx, n.ID, userID); err != nil {
			return fmt.Errorf("failed to mark %s read: %w", n.ID, err)
		}
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}

// processScheduled sweeps due reminders and replays them through the
// manager. The replayed event keeps its past ScheduledAt so the database
// observer does not write a duplicate row.
func (s *NotificationService) processScheduled(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dispatchDue(context.Background())
		case <-s.stop:
			return
		}
	}
}

func (s *NotificationService) dispatchDue(ctx context.Context) {
	due, err := s.repo.ScheduledDue(ctx, time.Now())
	if err != nil {
		log.Printf("Failed to get scheduled notifications: %v", err)
		return
	}

	for _, n := range due {
		event := common.NotificationEvent{
			Kind:        common.NotificationKind(n.Kind),
			UserID:      n.UserID,
			Title:       n.Title,
			Body:        n.Body,
			Payload:     common.ReminderPayload{},
			ScheduledAt: n.ScheduledAt,
		}
		s.manager.NotifyAsync(event)

		if err := s.repo.UpdateStatus(ctx, n.ID, string(common.StatusSent)); err != nil {
			log.Printf("Failed to update notification status: %v", err)
		}
	}

	if len(due) > 0 {
		log.Printf("Dispatched %d scheduled notifications", len(due))
	}
}

func (s *NotificationService) validateEvent(event common.NotificationEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("user_id is required: %w", common.ErrValidation)
	}
	if event.Title == "" {
		return fmt.Errorf("title is required: %w", common.ErrValidation)
	}
	if event.Body == "" {
		return fmt.Errorf("body is required: %w", common.ErrValidation)
	}
	return nil
}

func (s *NotificationService) Shutdown() {
	close(s.stop)
	s.manager.Shutdown()
	log.Println("NotificationService shutdown complete")
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
