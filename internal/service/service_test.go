package service

import (
	"testing"
	"time"

	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
	"marketplace-server/internal/testutil"

	"gorm.io/gorm"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db            *gorm.DB
	store         *repository.Store
	conversations *ConversationService
	messages      *MessageService
	jobs          *JobService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	clock := Clock(testutil.Clock(t0))
	return &fixture{
		db:            db,
		store:         store,
		conversations: NewConversationService(store, NewDirectory(store.Identities, nil), clock),
		messages:      NewMessageService(store, clock),
		jobs:          NewJobService(store),
	}
}

func (f *fixture) user(t *testing.T, first, last string) models.Participant {
	return testutil.CreateUser(t, f.db, first, last).Participant()
}

func (f *fixture) pro(t *testing.T, name string) models.Participant {
	return testutil.CreatePro(t, f.db, name).Participant()
}

func (f *fixture) countConversations(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&models.ConversationIndex{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
