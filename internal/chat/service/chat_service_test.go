package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type fakeConversationRepo struct {
	mu   sync.Mutex
	rows map[string]*dbmysql.Conversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{rows: make(map[string]*dbmysql.Conversation)}
}

func (f *fakeConversationRepo) GetOrCreate(ctx context.Context, conv *dbmysql.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.rows[conv.ID]; ok {
		*conv = *existing
		return nil
	}
	stored := *conv
	f.rows[conv.ID] = &stored
	return nil
}

func (f *fakeConversationRepo) ByID(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *conv
	return &copied, nil
}

func (f *fakeConversationRepo) ByParticipant(ctx context.Context, userID string) ([]*dbmysql.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*dbmysql.Conversation
	for _, conv := range f.rows {
		if conv.ParticipantA == userID || conv.ParticipantB == userID {
			copied := *conv
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (f *fakeConversationRepo) SetLastMessage(ctx context.Context, conversationID string, msg *dbmysql.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conv, ok := f.rows[conversationID]
	if !ok {
		return common.ErrNotFound
	}
	conv.LastMessageID = &msg.ID
	conv.LastMessageText = &msg.Text
	conv.LastMessageSenderID = &msg.SenderID
	conv.LastMessageAt = &msg.CreatedAt
	conv.UpdatedAt = msg.CreatedAt
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*dbmysql.Message
}

func (f *fakeMessageRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *msg
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID string) ([]*dbmysql.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*dbmysql.Message
	for _, msg := range f.messages {
		if msg.ConversationID == conversationID {
			copied := *msg
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for _, msg := range f.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.Read {
			msg.Read = true
			updated++
		}
	}
	return updated, nil
}

type fakeDirectory struct {
	users map[string]*dbmysql.User
}

func (f *fakeDirectory) GetProfile(ctx context.Context, userID string) (*dbmysql.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

type notifyCall struct {
	recipientID    string
	senderID       string
	senderName     string
	conversationID string
	preview        string
}

func (r *recordingNotifier) SendMessageNotification(ctx context.Context, recipientID, senderID, senderName, conversationID, preview string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notifyCall{recipientID, senderID, senderName, conversationID, preview})
	return r.err
}

func (r *recordingNotifier) all() []notifyCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifyCall(nil), r.calls...)
}

func newTestChatService() (ChatService, *fakeConversationRepo, *fakeMessageRepo, *recordingNotifier) {
	conversations := newFakeConversationRepo()
	messages := &fakeMessageRepo{}
	directory := &fakeDirectory{users: map[string]*dbmysql.User{
		"u1": {ID: "u1", DisplayName: "Alice"},
		"u2": {ID: "u2", DisplayName: "Bob"},
	}}
	notifier := &recordingNotifier{}
	svc := NewChatService(conversations, messages, directory, notifier)
	return svc, conversations, messages, notifier
}

func TestGetOrCreateConversationIsSymmetric(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	id1, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	id2, err := svc.GetOrCreateConversation(ctx, "u2", "u1")
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
}

func TestGetOrCreateConversationRejectsSelf(t *testing.T) {
	svc, _, _, _ := newTestChatService()

	_, err := svc.GetOrCreateConversation(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetOrCreateConversationRejectsEmptyParticipant(t *testing.T) {
	svc, _, _, _ := newTestChatService()

	_, err := svc.GetOrCreateConversation(context.Background(), "u1", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestConversationIDIsDeterministic(t *testing.T) {
	assert.Equal(t, ConversationID("u1", "u2"), ConversationID("u2", "u1"))
	assert.NotEqual(t, ConversationID("u1", "u2"), ConversationID("u1", "u3"))
}

func TestSendMessageUpdatesConversationSummary(t *testing.T) {
	svc, conversations, _, _ := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, id, "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.False(t, msg.Read)

	conv, err := conversations.ByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, conv.LastMessageText)
	assert.Equal(t, "hello", *conv.LastMessageText)
	require.NotNil(t, conv.LastMessageSenderID)
	assert.Equal(t, "u1", *conv.LastMessageSenderID)
	assert.Equal(t, msg.CreatedAt, conv.UpdatedAt)
}

func TestSendMessageNotifiesOtherParticipant(t *testing.T) {
	svc, _, _, notifier := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, id, "u1", "on va courir ?")
	require.NoError(t, err)

	calls := notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, "u2", calls[0].recipientID)
	assert.Equal(t, "u1", calls[0].senderID)
	assert.Equal(t, "Alice", calls[0].senderName)
	assert.Equal(t, id, calls[0].conversationID)
	assert.Equal(t, "on va courir ?", calls[0].preview)
}

func TestSendMessageTruncatesPreviewToHundredRunes(t *testing.T) {
	svc, _, _, notifier := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	long := make([]rune, 150)
	for i := range long {
		long[i] = 'é'
	}
	_, err = svc.SendMessage(ctx, id, "u1", string(long))
	require.NoError(t, err)

	calls := notifier.all()
	require.Len(t, calls, 1)
	assert.Equal(t, 100, len([]rune(calls[0].preview)))
}

func TestSendMessageSurvivesNotifierFailure(t *testing.T) {
	svc, _, messages, notifier := newTestChatService()
	notifier.err = errors.New("push gateway down")
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, id, "u1", "hello")
	require.NoError(t, err)

	stored, err := messages.ListByConversation(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, id, "u1", "   ")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.SendMessage(ctx, "missing", "u1", "hello")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.SendMessage(ctx, id, "intruder", "hello")
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
}

func TestMarkReadOnlySkipsReaderOwnMessages(t *testing.T) {
	svc, _, messages, _ := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, id, "u1", "salut")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, id, "u2", "salut toi")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, id, "u2"))

	stored, err := messages.ListByConversation(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, msg := range stored {
		if msg.SenderID == "u1" {
			assert.True(t, msg.Read, "message from the other participant should be read")
		} else {
			assert.False(t, msg.Read, "reader's own message must stay unread")
		}
	}

	// re-marking is a no-op
	require.NoError(t, svc.MarkRead(ctx, id, "u2"))
}

func TestListMessagesOrderedOldestFirst(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	for _, text := range []string{"one", "two", "three"} {
		_, err = svc.SendMessage(ctx, id, "u1", text)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	stored, err := svc.ListMessages(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "one", stored[0].Text)
	assert.Equal(t, "three", stored[2].Text)
}

func TestListConversationsResolvesOtherParticipant(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	_, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	views, err := svc.ListConversations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "u2", views[0].OtherUserID)
	assert.Equal(t, "Bob", views[0].OtherUserName)
}

func TestSubscribeMessagesReceivesSnapshots(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	snapshots, cancel, err := svc.SubscribeMessages(ctx, id)
	require.NoError(t, err)
	defer cancel()

	// initial snapshot is empty
	select {
	case snapshot := <-snapshots:
		assert.Empty(t, snapshot)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}

	_, err = svc.SendMessage(ctx, id, "u1", "hello")
	require.NoError(t, err)

	select {
	case snapshot := <-snapshots:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "hello", snapshot[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after send")
	}
}

func TestSubscribeMessagesUnknownConversation(t *testing.T) {
	svc, _, _, _ := newTestChatService()

	_, _, err := svc.SubscribeMessages(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCancelClosesSnapshotChannel(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	id, err := svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	snapshots, cancel, err := svc.SubscribeMessages(ctx, id)
	require.NoError(t, err)

	cancel()

	// drain whatever was buffered, then expect a closed channel
	for {
		_, ok := <-snapshots
		if !ok {
			return
		}
	}
}

func TestSubscribeConversationsSeesNewConversation(t *testing.T) {
	svc, _, _, _ := newTestChatService()
	ctx := context.Background()

	snapshots, cancel, err := svc.SubscribeConversations(ctx, "u1")
	require.NoError(t, err)
	defer cancel()

	select {
	case snapshot := <-snapshots:
		assert.Empty(t, snapshot)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}

	_, err = svc.GetOrCreateConversation(ctx, "u1", "u2")
	require.NoError(t, err)

	select {
	case snapshot := <-snapshots:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "u2", snapshot[0].OtherUserID)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after conversation creation")
	}
}
