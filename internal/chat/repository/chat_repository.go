package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/AmnezziaCS/FitConnect/internal/common"
	"github.com/AmnezziaCS/FitConnect/internal/dbmysql"
)

type ConversationRepository interface {
	// GetOrCreate loads or inserts the conversation keyed by its
	// deterministic id. Concurrent callers for the same pair converge on
	// the same row.
	GetOrCreate(ctx context.Context, conv *dbmysql.Conversation) error
	ByID(ctx context.Context, id string) (*dbmysql.Conversation, error)
	ByParticipant(ctx context.Context, userID string) ([]*dbmysql.Conversation, error)
	SetLastMessage(ctx context.Context, conversationID string, msg *dbmysql.Message) error
}

type MessageRepository interface {
	Save(ctx context.Context, msg *dbmysql.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]*dbmysql.Message, error)
	// MarkRead flips read=false to true on messages not sent by readerID.
	// Returns the number of rows updated; zero is not an error.
	MarkRead(ctx context.Context, conversationID, readerID string) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, conv *dbmysql.Conversation) error {
	return r.db.WithContext(ctx).
		Where(dbmysql.Conversation{ID: conv.ID}).
		FirstOrCreate(conv).Error
}

func (r *conversationRepository) ByID(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %s: %w", id, common.ErrNotFound)
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ByParticipant(ctx context.Context, userID string) ([]*dbmysql.Conversation, error) {
	var conversations []*dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *conversationRepository) SetLastMessage(ctx context.Context, conversationID string, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_id":        msg.ID,
			"last_message_text":      msg.Text,
			"last_message_sender_id": msg.SenderID,
			"last_message_at":        msg.CreatedAt,
			"updated_at":             msg.CreatedAt,
		}).Error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Save(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND `read` = ?", conversationID, readerID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
