package notif

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type countingObserver struct {
	name  string
	count atomic.Int64
	fail  bool
}

func (o *countingObserver) Name() string { return o.name }

func (o *countingObserver) Update(event common.NotificationEvent) error {
	o.count.Add(1)
	if o.fail {
		return errors.New("observer broke")
	}
	return nil
}

func likeEvent(userID string) common.NotificationEvent {
	return common.NotificationEvent{
		Kind:    common.LikeKind,
		UserID:  userID,
		ActorID: "actor",
		Title:   "Nouveau like ❤️",
		Body:    "Alice a aimé ton entraînement",
		Payload: common.LikePayload{WorkoutID: "w1"},
	}
}

func TestManagerFanOutReachesAllObservers(t *testing.T) {
	manager := NewNotificationManager(3, 100)
	defer manager.Shutdown()

	first := &countingObserver{name: "first"}
	second := &countingObserver{name: "second"}
	manager.Subscribe(first)
	manager.Subscribe(second)

	for i := 0; i < 10; i++ {
		manager.NotifyAsync(likeEvent("u1"))
	}

	assert.Eventually(t, func() bool {
		return first.count.Load() == 10 && second.count.Load() == 10
	}, time.Second, 10*time.Millisecond)
}

func TestManagerFailingObserverDoesNotBlockOthers(t *testing.T) {
	manager := NewNotificationManager(1, 100)
	defer manager.Shutdown()

	broken := &countingObserver{name: "broken", fail: true}
	healthy := &countingObserver{name: "healthy"}
	manager.Subscribe(broken)
	manager.Subscribe(healthy)

	manager.NotifyAsync(likeEvent("u1"))

	assert.Eventually(t, func() bool {
		return healthy.count.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestManagerShutdownDrainsQueue(t *testing.T) {
	manager := NewNotificationManager(2, 100)

	obs := &countingObserver{name: "obs"}
	manager.Subscribe(obs)

	for i := 0; i < 50; i++ {
		manager.NotifyAsync(likeEvent("u1"))
	}

	manager.Shutdown()
	assert.Equal(t, int64(50), obs.count.Load())
}

func TestManagerNotifyAsyncAfterShutdownIsNoop(t *testing.T) {
	manager := NewNotificationManager(1, 10)
	manager.Shutdown()

	assert.NotPanics(t, func() {
		manager.NotifyAsync(likeEvent("u1"))
	})
	// Shutdown twice is safe as well.
	assert.NotPanics(t, manager.Shutdown)
}

func TestManagerUnsubscribeStopsDelivery(t *testing.T) {
	manager := NewNotificationManager(1, 10)
	defer manager.Shutdown()

	obs := &countingObserver{name: "obs"}
	manager.Subscribe(obs)
	manager.Unsubscribe(obs)

	manager.Notify(likeEvent("u1"))
	assert.Zero(t, obs.count.Load())
}

func TestDatabaseObserverStoresPayloadColumns(t *testing.T) {
	repo := newFakeNotificationRepo()
	obs := NewDatabaseNotificationObserver(repo)

	event := common.NotificationEvent{
		Kind:    common.MessageKind,
		UserID:  "u2",
		ActorID: "u1",
		Title:   "Message de Alice 📨",
		Body:    "salut",
		Payload: common.MessagePayload{ConversationID: "c1"},
	}
	require.NoError(t, obs.Update(event))

	n := repo.lastCreated()
	require.NotNil(t, n)
	assert.Equal(t, "u2", n.UserID)
	require.NotNil(t, n.ConversationID)
	assert.Equal(t, "c1", *n.ConversationID)
	assert.Nil(t, n.WorkoutID)
	assert.Equal(t, string(common.StatusSent), n.Status)
}

func TestDatabaseObserverSkipsScheduledEvents(t *testing.T) {
	repo := newFakeNotificationRepo()
	obs := NewDatabaseNotificationObserver(repo)

	at := time.Now().Add(-time.Minute)
	event := likeEvent("u1")
	event.ScheduledAt = &at

	require.NoError(t, obs.Update(event))
	assert.Zero(t, repo.createdCount())
}

type mockPushClient struct {
	mock.Mock
}

func (m *mockPushClient) SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.BatchResponse), args.Error(1)
}

type stubDeviceRepo struct {
	devices []*dbmysql.Device
}

func (s *stubDeviceRepo) CreateOrUpdate(ctx context.Context, userID, deviceToken, platform string) error {
	return nil
}

func (s *stubDeviceRepo) ActiveByUserID(ctx context.Context, userID string) ([]*dbmysql.Device, error) {
	return s.devices, nil
}

func (s *stubDeviceRepo) UpdateTokenStatus(ctx context.Context, token string, isActive bool) error {
	return nil
}

func (s *stubDeviceRepo) DeleteToken(ctx context.Context, token string) error {
	return nil
}

func TestFCMObserverSendsToActiveDevices(t *testing.T) {
	client := new(mockPushClient)
	devices := &stubDeviceRepo{devices: []*dbmysql.Device{
		{DeviceToken: "tok-1", UserID: "u1"},
		{DeviceToken: "tok-2", UserID: "u1"},
	}}
	obs := NewFCMNotificationObserver(client, devices)

	client.On("SendEachForMulticast", mock.Anything, mock.MatchedBy(func(m *messaging.MulticastMessage) bool {
		return len(m.Tokens) == 2 &&
			m.Notification.Title == "Nouveau like ❤️" &&
			m.Data["workout_id"] == "w1"
	})).Return(&messaging.BatchResponse{
		SuccessCount: 2,
		Responses: []*messaging.SendResponse{
			{Success: true},
			{Success: true},
		},
	}, nil)

	require.NoError(t, obs.Update(likeEvent("u1")))
	client.AssertExpectations(t)
}

func TestFCMObserverSkipsWhenNoDevices(t *testing.T) {
	client := new(mockPushClient)
	obs := NewFCMNotificationObserver(client, &stubDeviceRepo{})

	require.NoError(t, obs.Update(likeEvent("u1")))
	client.AssertNotCalled(t, "SendEachForMulticast", mock.Anything, mock.Anything)
}

func TestFCMObserverReportsSendFailure(t *testing.T) {
	client := new(mockPushClient)
	devices := &stubDeviceRepo{devices: []*dbmysql.Device{{DeviceToken: "tok-1", UserID: "u1"}}}
	obs := NewFCMNotificationObserver(client, devices)

	client.On("SendEachForMulticast", mock.Anything, mock.Anything).
		Return(nil, errors.New("fcm unavailable"))

	assert.Error(t, obs.Update(likeEvent("u1")))
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	args := m.Called(ctx, channel, message)
	return args.Get(0).(*redis.IntCmd)
}

func TestRedisObserverPublishesToUserChannel(t *testing.T) {
	publisher := new(mockPublisher)
	obs := NewRedisNotificationObserver(publisher)

	publisher.On("Publish", mock.Anything, "user_notifications:u1", mock.Anything).
		Return(redis.NewIntResult(1, nil))

	require.NoError(t, obs.Update(likeEvent("u1")))
	publisher.AssertExpectations(t)
}

func TestRedisObserverReportsPublishFailure(t *testing.T) {
	publisher := new(mockPublisher)
	obs := NewRedisNotificationObserver(publisher)

	publisher.On("Publish", mock.Anything, "user_notifications:u1", mock.Anything).
		Return(redis.NewIntResult(0, errors.New("connection refused")))

	assert.Error(t, obs.Update(likeEvent("u1")))
}
