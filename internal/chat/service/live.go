package service

import (
	"sync"

	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

// liveHub delivers full-snapshot updates to open subscriptions: every
// change re-emits the complete recomputed result set, never a delta.
// Channels have capacity 1 and a stale snapshot is replaced rather than
// queued, so a slow consumer only ever skips intermediate states, each of
// which is subsumed by the one that follows.
type liveHub struct {
	mu       sync.Mutex
	nextID   uint64
	messages map[string]map[uint64]chan []*dbmysql.Message  // keyed by conversation id
	inboxes  map[string]map[uint64]chan []*ConversationView // keyed by user id
}

func newLiveHub() *liveHub {
	return &liveHub{
		messages: make(map[string]map[uint64]chan []*dbmysql.Message),
		inboxes:  make(map[string]map[uint64]chan []*ConversationView),
	}
}

func (h *liveHub) subscribeMessages(conversationID string) (<-chan []*dbmysql.Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan []*dbmysql.Message, 1)
	if h.messages[conversationID] == nil {
		h.messages[conversationID] = make(map[uint64]chan []*dbmysql.Message)
	}
	h.messages[conversationID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.messages[conversationID]; ok {
			if sub, ok := subs[id]; ok {
				delete(subs, id)
				close(sub)
			}
			if len(subs) == 0 {
				delete(h.messages, conversationID)
			}
		}
	}
	return ch, cancel
}

func (h *liveHub) subscribeConversations(userID string) (<-chan []*ConversationView, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan []*ConversationView, 1)
	if h.inboxes[userID] == nil {
		h.inboxes[userID] = make(map[uint64]chan []*ConversationView)
	}
	h.inboxes[userID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.inboxes[userID]; ok {
			if sub, ok := subs[id]; ok {
				delete(subs, id)
				close(sub)
			}
			if len(subs) == 0 {
				delete(h.inboxes, userID)
			}
		}
	}
	return ch, cancel
}

func (h *liveHub) publishMessages(conversationID string, snapshot []*dbmysql.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.messages[conversationID] {
		replaceSnapshotMessages(ch, snapshot)
	}
}

func (h *liveHub) publishConversations(userID string, snapshot []*ConversationView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.inboxes[userID] {
		replaceSnapshotConversations(ch, snapshot)
	}
}

func (h *liveHub) hasMessageSubscribers(conversationID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages[conversationID]) > 0
}

func (h *liveHub) hasConversationSubscribers(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.inboxes[userID]) > 0
}

func replaceSnapshotMessages(ch chan []*dbmysql.Message, snapshot []*dbmysql.Message) {
	// drop the stale snapshot if the consumer has not picked it up yet
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}

func replaceSnapshotConversations(ch chan []*ConversationView, snapshot []*ConversationView) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}
