package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AmnezziaCS/FitConnect/internal/chat/repository"
	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

// conversationNamespace seeds the deterministic conversation ids. Changing
// it would orphan every existing conversation.
var conversationNamespace = uuid.MustParse("5f2c1d9e-8a41-4c6b-9f07-3d2e6b1a8c54")

const messagePreviewLimit = 100

// UserDirectory resolves participant profiles for inbox rendering and
// notification titles.
type UserDirectory interface {
	GetProfile(ctx context.Context, userID string) (*dbmysql.User, error)
}

// Notifier receives the direct-message fan-out after a message commits.
// Errors from it are logged, never surfaced to the sender.
type Notifier interface {
	SendMessageNotification(ctx context.Context, recipientID, senderID, senderName, conversationID, preview string) error
}

// ConversationView is one inbox row: the conversation plus the other
// participant's profile summary, so a client renders the list without a
// second round trip per conversation.
type ConversationView struct {
	*dbmysql.Conversation
	OtherUserID    string  `json:"other_user_id"`
	OtherUserName  string  `json:"other_user_name"`
	OtherUserPhoto *string `json:"other_user_photo,omitempty"`
}

type ChatService interface {
	GetOrCreateConversation(ctx context.Context, userID, otherUserID string) (string, error)
	SendMessage(ctx context.Context, conversationID, senderID, text string) (*dbmysql.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string) error
	ListMessages(ctx context.Context, conversationID string) ([]*dbmysql.Message, error)
	ListConversations(ctx context.Context, userID string) ([]*ConversationView, error)

	// Live full-snapshot subscriptions. The returned cancel func is
	// deterministic: after it returns, the channel is closed and nothing
	// more is delivered.
	SubscribeMessages(ctx context.Context, conversationID string) (<-chan []*dbmysql.Message, func(), error)
	SubscribeConversations(ctx context.Context, userID string) (<-chan []*ConversationView, func(), error)
}

type chatService struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	directory     UserDirectory
	notifier      Notifier
	hub           *liveHub
}

func NewChatService(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	directory UserDirectory,
	notifier Notifier,
) ChatService {
	return &chatService{
		conversations: conversations,
		messages:      messages,
		directory:     directory,
		notifier:      notifier,
		hub:           newLiveHub(),
	}
}

// ConversationID derives the canonical id for an unordered pair of users.
func ConversationID(userA, userB string) string {
	a, b := userA, userB
	if b < a {
		a, b = b, a
	}
	return uuid.NewSHA1(conversationNamespace, []byte(a+"|"+b)).String()
}

func (s *chatService) GetOrCreateConversation(ctx context.Context, userID, otherUserID string) (string, error) {
	if userID == "" || otherUserID == "" {
		return "", fmt.Errorf("both participant ids are required: %w", common.ErrValidation)
	}
	if userID == otherUserID {
		return "", fmt.Errorf("cannot open a conversation with yourself: %w", common.ErrValidation)
	}

	a, b := userID, otherUserID
	if b < a {
		a, b = b, a
	}

	conv := &dbmysql.Conversation{
		ID:           ConversationID(a, b),
		ParticipantA: a,
		ParticipantB: b,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.conversations.GetOrCreate(ctx, conv); err != nil {
		return "", fmt.Errorf("failed to get or create conversation: %w", err)
	}

	s.broadcastConversations(ctx, conv.ParticipantA, conv.ParticipantB)

	return conv.ID, nil
}

func (s *chatService) SendMessage(ctx context.Context, conversationID, senderID, text string) (*dbmysql.Message, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required: %w", common.ErrValidation)
	}
	if senderID == "" {
		return nil, fmt.Errorf("sender id is required: %w", common.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("message text cannot be empty: %w", common.ErrValidation)
	}

	conv, err := s.conversations.ByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.ParticipantA != senderID && conv.ParticipantB != senderID {
		return nil, fmt.Errorf("sender is not a participant: %w", common.ErrPermissionDenied)
	}

	msg := &dbmysql.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		Read:           false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	if err := s.conversations.SetLastMessage(ctx, conversationID, msg); err != nil {
		return nil, fmt.Errorf("failed to update conversation summary: %w", err)
	}

	// Fan-out happens after the message has committed. A notification
	// failure is logged and swallowed; it never rolls back the message.
	s.fanOut(ctx, conv, msg)

	s.broadcastMessages(ctx, conversationID)
	s.broadcastConversations(ctx, conv.ParticipantA, conv.ParticipantB)

	return msg, nil
}

func (s *chatService) fanOut(ctx context.Context, conv *dbmysql.Conversation, msg *dbmysql.Message) {
	senderName := "Quelqu'un"
	if sender, err := s.directory.GetProfile(ctx, msg.SenderID); err == nil {
		senderName = sender.DisplayName
	} else {
		log.Printf("chat: could not resolve sender %s: %v", msg.SenderID, err)
	}

	preview := msg.Text
	if runes := []rune(preview); len(runes) > messagePreviewLimit {
		preview = string(runes[:messagePreviewLimit])
	}

	recipient := conv.OtherParticipant(msg.SenderID)
	if err := s.notifier.SendMessageNotification(ctx, recipient, msg.SenderID, senderName, conv.ID, preview); err != nil {
		log.Printf("chat: message notification to %s failed: %v", recipient, err)
	}
}

// MarkRead flips every unread message in the conversation that was not
// sent by the reader. Idempotent: re-marking is a no-op.
func (s *chatService) MarkRead(ctx context.Context, conversationID, readerID string) error {
	if conversationID == "" || readerID == "" {
		return fmt.Errorf("conversation id and reader id are required: %w", common.ErrValidation)
	}

	updated, err := s.messages.MarkRead(ctx, conversationID, readerID)
	if err != nil {
		return err
	}
	if updated > 0 {
		s.broadcastMessages(ctx, conversationID)
	}
	return nil
}

func (s *chatService) ListMessages(ctx context.Context, conversationID string) ([]*dbmysql.Message, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("conversation id is required: %w", common.ErrValidation)
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]*ConversationView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", common.ErrValidation)
	}

	conversations, err := s.conversations.ByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view := &ConversationView{
			Conversation: conv,
			OtherUserID:  conv.OtherParticipant(userID),
		}
		if other, err := s.directory.GetProfile(ctx, view.OtherUserID); err == nil {
			view.OtherUserName = other.DisplayName
			view.OtherUserPhoto = other.PhotoURL
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *chatService) SubscribeMessages(ctx context.Context, conversationID string) (<-chan []*dbmysql.Message, func(), error) {
	if _, err := s.conversations.ByID(ctx, conversationID); err != nil {
		return nil, nil, err
	}

	ch, cancel := s.hub.subscribeMessages(conversationID)

	// deliver the current snapshot immediately, like a firestore listener
	s.broadcastMessages(ctx, conversationID)

	return ch, cancel, nil
}

func (s *chatService) SubscribeConversations(ctx context.Context, userID string) (<-chan []*ConversationView, func(), error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("user id is required: %w", common.ErrValidation)
	}

	ch, cancel := s.hub.subscribeConversations(userID)
	s.broadcastConversations(ctx, userID)

	return ch, cancel, nil
}

func (s *chatService) broadcastMessages(ctx context.Context, conversationID string) {
	if !s.hub.hasMessageSubscribers(conversationID) {
		return
	}
	snapshot, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		log.Printf("chat: failed to recompute message snapshot for %s: %v", conversationID, err)
		return
	}
	s.hub.publishMessages(conversationID, snapshot)
}

func (s *chatService) broadcastConversations(ctx context.Context, userIDs ...string) {
	for _, userID := range userIDs {
		if !s.hub.hasConversationSubscribers(userID) {
			continue
		}
		snapshot, err := s.ListConversations(ctx, userID)
		if err != nil {
			log.Printf("chat: failed to recompute inbox snapshot for %s: %v", userID, err)
			continue
		}
		s.hub.publishConversations(userID, snapshot)
	}
}
