package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one *gorm.DB, either the pool or
// an open transaction.
type Store struct {
	db *gorm.DB

	Conversations *ConversationRepository
	Messages      *MessageRepository
	Identities    *IdentityRepository
	Jobs          *JobRepository
}

// NewStore creates a Store on db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Conversations: NewConversationRepository(db),
		Messages:      NewMessageRepository(db),
		Identities:    NewIdentityRepository(db),
		Jobs:          NewJobRepository(db),
	}
}

// DB returns the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a single database transaction.
// fn must only use the Store it is given.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
