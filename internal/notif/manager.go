package notif

import (
	"log"
	"sync"

	"github.com/AmnezziaCS/FitConnect/internal/common"
)

// NotificationManager fans notification events out to its observers
// through a worker pool. Events enqueued with NotifyAsync are processed
// after the caller returns; the primary write that produced the event has
// already committed.
type NotificationManager struct {
	mu           sync.RWMutex
	observers    map[string]common.Observer
	eventChannel chan common.NotificationEvent
	closed       bool
	wg           sync.WaitGroup
}

func NewNotificationManager(workers, bufferSize int) *NotificationManager {
	if workers < 1 {
		workers = 1
	}
	if bufferSize < 1 {
		bufferSize = 1000
	}

	nm := &NotificationManager{
		observers:    make(map[string]common.Observer),
		eventChannel: make(chan common.NotificationEvent, bufferSize),
	}

	for i := 0; i < workers; i++ {
		nm.wg.Add(1)
		go nm.processEvents()
	}

	return nm
}

func (nm *NotificationManager) Subscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	nm.observers[observer.Name()] = observer
	log.Printf("Observer %s subscribed", observer.Name())
}

func (nm *NotificationManager) Unsubscribe(observer common.Observer) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.observers, observer.Name())
	log.Printf("Observer %s unsubscribed", observer.Name())
}

// Notify delivers the event to every observer synchronously. A failing
// observer is logged and does not stop delivery to the others.
func (nm *NotificationManager) Notify(event common.NotificationEvent) {
	nm.mu.RLock()
	observers := make([]common.Observer, 0, len(nm.observers))
	for _, obs := range nm.observers {
		observers = append(observers, obs)
	}
	nm.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Printf("Observer %s update failed: %v", observer.Name(), err)
		}
	}
}

// NotifyAsync enqueues the event for the worker pool. When the buffer is
// full the event is dropped with a log line rather than blocking the
// caller.
func (nm *NotificationManager) NotifyAsync(event common.NotificationEvent) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return
	}

	select {
	case nm.eventChannel <- event:
	default:
		log.Printf("Notification channel full, dropping event: %s", event.Kind)
	}
}

func (nm *NotificationManager) processEvents() {
	defer nm.wg.Done()
	for event := range nm.eventChannel {
		nm.Notify(event)
	}
}

// Shutdown stops accepting new events and drains what is already queued.
func (nm *NotificationManager) Shutdown() {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return
	}
	nm.closed = true
	close(nm.eventChannel)
	nm.mu.Unlock()

	nm.wg.Wait()
	log.Println("NotificationManager shutdown complete")
}
