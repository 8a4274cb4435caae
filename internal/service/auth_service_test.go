package service

import (
	"context"
	"fmt"
	"testing"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
	"marketplace-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeIssuer(identity models.Identity) (string, error) {
	return fmt.Sprintf("token-for-%s", identity.Participant()), nil
}

func newAuthService(t *testing.T) *AuthService {
	store := repository.NewStore(testutil.NewDB(t))
	return NewAuthService(store.Identities, fakeIssuer)
}

func TestAuthService_RegisterAndLoginUser(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	registered, err := auth.RegisterUser(ctx, RegisterUserInput{
		FirstName: "Ula",
		LastName:  "Smith",
		Email:     " Ula@Example.com ",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-for-User:1", registered.Token)
	assert.Equal(t, "ula@example.com", registered.Profile.Email)
	assert.Equal(t, "Ula Smith", registered.Profile.DisplayName)

	_, err = auth.RegisterUser(ctx, RegisterUserInput{Email: "ula@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, common.ErrConflict)

	loggedIn, err := auth.Login(ctx, models.KindUser, "ULA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.Profile.ID, loggedIn.Profile.ID)

	_, err = auth.Login(ctx, models.KindUser, "ula@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	// the same email is not a pro account
	_, err = auth.Login(ctx, models.KindPro, "ula@example.com", "correct-horse")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthService_RegisterPro(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	registered, err := auth.RegisterPro(ctx, RegisterProInput{
		Name:         "Pat",
		BusinessName: "Pat's Pipes",
		Email:        "pat@example.com",
		Password:     "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KindPro, registered.Profile.Kind)
	assert.Equal(t, "Pat's Pipes", registered.Profile.DisplayName)

	profile, err := auth.Profile(ctx, models.Participant{ID: registered.Profile.ID, Kind: models.KindPro})
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", profile.Email)

	_, err = auth.Profile(ctx, models.Participant{ID: registered.Profile.ID, Kind: models.KindUser})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
