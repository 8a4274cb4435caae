package service

import (
	"context"
	"errors"

	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
	"marketplace-server/pkg/cache"
	"marketplace-server/pkg/logger"

	"gorm.io/gorm"
)

// PartnerCard is the display information shown for a conversation partner.
type PartnerCard struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func placeholderCard(kind models.ParticipantKind) PartnerCard {
	if kind == models.KindPro {
		return PartnerCard{Name: models.PlaceholderProName}
	}
	return PartnerCard{Name: models.PlaceholderUserName}
}

// Directory resolves participants to display cards, optionally through a cache.
type Directory struct {
	identities *repository.IdentityRepository
	cache      cache.Service
}

// NewDirectory creates a Directory. cache may be nil.
func NewDirectory(identities *repository.IdentityRepository, c cache.Service) *Directory {
	return &Directory{identities: identities, cache: c}
}

// Card returns the card for p. A participant with no record gets a placeholder
// card; only storage failures are returned as errors.
func (d *Directory) Card(ctx context.Context, p models.Participant) (PartnerCard, error) {
	key := cache.ParticipantKey(p.Kind.String(), p.ID)

	if d.cache != nil && d.cache.IsAvailable() {
		var card PartnerCard
		err := d.cache.Get(ctx, key, &card)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.GetLogger().Warn().Err(err).Str("key", key).Msg("participant cache read failed")
		}
	}

	identity, err := d.identities.Lookup(ctx, p)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return placeholderCard(p.Kind), nil
	}
	if err != nil {
		return PartnerCard{}, err
	}

	card := PartnerCard{Name: identity.DisplayName(), Email: identity.GetEmail()}
	if d.cache != nil && d.cache.IsAvailable() {
		if err := d.cache.Set(ctx, key, card, cache.TTLParticipant); err != nil {
			logger.GetLogger().Warn().Err(err).Str("key", key).Msg("participant cache write failed")
		}
	}
	return card, nil
}
