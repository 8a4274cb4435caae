package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
	"marketplace-server/internal/testutil"
	"marketplace-server/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock cache.Service ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(key)
	if card, ok := args.Get(0).(PartnerCard); ok {
		*dest.(*PartnerCard) = card
	}
	return args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(keys).Error(0)
}

func (m *mockCache) IsAvailable() bool { return true }

func (m *mockCache) Ping(ctx context.Context) error { return nil }

func TestDirectory_CardCachesLookups(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	pro := testutil.CreatePro(t, db, "Pat")
	key := cache.ParticipantKey("Pro", pro.ID)
	want := PartnerCard{Name: "Pat", Email: pro.Email}

	c := new(mockCache)
	c.On("Get", key).Return(nil, cache.ErrMiss).Once()
	c.On("Set", key, want, cache.TTLParticipant).Return(nil).Once()

	card, err := NewDirectory(store.Identities, c).Card(context.Background(), pro.Participant())
	require.NoError(t, err)
	assert.Equal(t, want, card)
	c.AssertExpectations(t)
}

func TestDirectory_CardServedFromCache(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	p := models.Participant{ID: 77, Kind: models.KindUser}
	cached := PartnerCard{Name: "Cached Name", Email: "cached@example.com"}

	c := new(mockCache)
	c.On("Get", cache.ParticipantKey("User", 77)).Return(cached, nil).Once()

	card, err := NewDirectory(store.Identities, c).Card(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, cached, card)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestDirectory_CacheFailureFallsBackToStore(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	user := testutil.CreateUser(t, db, "Ula", "Smith")
	key := cache.ParticipantKey("User", user.ID)

	c := new(mockCache)
	c.On("Get", key).Return(nil, errors.New("connection refused"))
	c.On("Set", key, mock.Anything, cache.TTLParticipant).Return(errors.New("connection refused"))

	card, err := NewDirectory(store.Identities, c).Card(context.Background(), user.Participant())
	require.NoError(t, err)
	assert.Equal(t, "Ula Smith", card.Name)
}

func TestDirectory_MissingParticipantGetsPlaceholder(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	d := NewDirectory(store.Identities, nil)

	card, err := d.Card(context.Background(), models.Participant{ID: 5, Kind: models.KindUser})
	require.NoError(t, err)
	assert.Equal(t, PartnerCard{Name: models.PlaceholderUserName}, card)

	card, err = d.Card(context.Background(), models.Participant{ID: 5, Kind: models.KindPro})
	require.NoError(t, err)
	assert.Equal(t, PartnerCard{Name: models.PlaceholderProName}, card)
}
