package repository

import (
	"context"
	"time"

	"marketplace-server/internal/models"

	"gorm.io/gorm"
)

// MessageRepository message data access
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindByID finds a message by ID
func (r *MessageRepository) FindByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListForParticipant returns all messages p sent or received, newest first
func (r *MessageRepository) ListForParticipant(ctx context.Context, p models.Participant) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND sender_kind = ?) OR (recipient_id = ? AND recipient_kind = ?)", p.ID, p.Kind, p.ID, p.Kind).
		Order("sent_at DESC").
		Order("id DESC").
		Find(&messages).Error
	return messages, err
}

// ListByJob returns messages tagged with jobID, oldest first
func (r *MessageRepository) ListByJob(ctx context.Context, jobID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("sent_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// ListByConversation returns a conversation's messages, oldest first
func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// LatestInConversation returns the newest message, or nil for an empty conversation
func (r *MessageRepository) LatestInConversation(ctx context.Context, conversationID uint) (*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&messages).Error
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return messages[0], nil
}

// CountUnread counts unread messages from -> to within a conversation
func (r *MessageRepository) CountUnread(ctx context.Context, conversationID uint, from, to models.Participant) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id = ? AND sender_kind = ? AND recipient_id = ? AND recipient_kind = ? AND is_read = ?",
			conversationID, from.ID, from.Kind, to.ID, to.Kind, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead marks a message as read. A message already read keeps its read_at.
func (r *MessageRepository) MarkAsRead(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
}
