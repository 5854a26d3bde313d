package common

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/redis/go-redis/v9"
)

// Observer receives every notification event published to the manager.
type Observer interface {
	Update(event NotificationEvent) error
	Name() string
}

type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(event NotificationEvent)
	NotifyAsync(event NotificationEvent)
}

// PushClient is the slice of *messaging.Client the FCM observer needs.
type PushClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Publisher is the slice of *redis.Client the redis observer needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}
