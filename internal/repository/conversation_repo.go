package repository

import (
	"context"
	"errors"
	"time"

	"marketplace-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository conversation index data access
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func pairQuery(db *gorm.DB, x, y models.Participant) *gorm.DB {
	a, b := models.NormalizePair(x, y)
	return db.Where("a_id = ? AND a_kind = ? AND b_id = ? AND b_kind = ?", a.ID, a.Kind, b.ID, b.Kind)
}

// FindByPair returns the index for the unordered pair, or nil if none exists.
func (r *ConversationRepository) FindByPair(ctx context.Context, x, y models.Participant) (*models.ConversationIndex, error) {
	var idx models.ConversationIndex
	err := pairQuery(r.db.WithContext(ctx), x, y).First(&idx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &idx, nil
}

// FindByPairLocked is FindByPair with a locking read, so inside a transaction
// it observes rows committed by concurrent transactions.
func (r *ConversationRepository) FindByPairLocked(ctx context.Context, x, y models.Participant) (*models.ConversationIndex, error) {
	var idx models.ConversationIndex
	err := pairQuery(r.db.WithContext(ctx), x, y).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&idx).Error
	if err != nil {
		return nil, err
	}
	return &idx, nil
}

// CreateIfAbsent inserts idx unless a row with the same pair key exists.
// It reports whether this call inserted the row.
func (r *ConversationRepository) CreateIfAbsent(ctx context.Context, idx *models.ConversationIndex) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(idx)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindByID finds a conversation by ID
func (r *ConversationRepository) FindByID(ctx context.Context, id uint) (*models.ConversationIndex, error) {
	var idx models.ConversationIndex
	if err := r.db.WithContext(ctx).First(&idx, id).Error; err != nil {
		return nil, err
	}
	return &idx, nil
}

// ListForParticipant returns every conversation p is part of, most recently
// active first.
func (r *ConversationRepository) ListForParticipant(ctx context.Context, p models.Participant) ([]*models.ConversationIndex, error) {
	var rows []*models.ConversationIndex
	err := r.db.WithContext(ctx).
		Where("(a_id = ? AND a_kind = ?) OR (b_id = ? AND b_kind = ?)", p.ID, p.Kind, p.ID, p.Kind).
		Order("COALESCE(last_message_at, initiated_at) DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// TouchLastMessageAt moves last_message_at forward to at. An older at is ignored.
func (r *ConversationRepository) TouchLastMessageAt(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ConversationIndex{}).
		Where("id = ? AND (last_message_at IS NULL OR last_message_at < ?)", id, at).
		Update("last_message_at", at).Error
}
