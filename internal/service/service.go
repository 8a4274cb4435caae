package service

import (
	"errors"
	"time"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"

	"gorm.io/gorm"
)

// Clock returns the current time. Services stamp every write with it.
type Clock func() time.Time

// UTCClock is the production clock.
func UTCClock() time.Time { return time.Now().UTC() }

// notFoundOr converts gorm.ErrRecordNotFound into a NotFound error with msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NotFound("%s", msg)
	}
	return err
}

func requireParticipant(p models.Participant, what string) error {
	if !p.Valid() {
		return common.Validation("Valid %s id and type are required", what)
	}
	return nil
}
