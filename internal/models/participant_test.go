package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePair_OrderIndependent(t *testing.T) {
	user := Participant{ID: 7, Kind: KindUser}
	pro := Participant{ID: 3, Kind: KindPro}

	a1, b1 := NormalizePair(user, pro)
	a2, b2 := NormalizePair(pro, user)

	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, pro, a1, "lower id sorts first")
}

func TestNormalizePair_EqualIDsOrderUserFirst(t *testing.T) {
	user := Participant{ID: 5, Kind: KindUser}
	pro := Participant{ID: 5, Kind: KindPro}

	a, b := NormalizePair(pro, user)
	assert.Equal(t, user, a)
	assert.Equal(t, pro, b)

	a, b = NormalizePair(user, pro)
	assert.Equal(t, user, a)
	assert.Equal(t, pro, b)
}

func TestParticipantKind_Parse(t *testing.T) {
	kind, err := ParseParticipantKind("Pro")
	require.NoError(t, err)
	assert.Equal(t, KindPro, kind)

	_, err = ParseParticipantKind("pro")
	assert.Error(t, err)
	_, err = ParseParticipantKind("")
	assert.Error(t, err)
}

func TestParticipantKind_JSON(t *testing.T) {
	out, err := json.Marshal(Participant{ID: 1, Kind: KindUser})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"kind":"User"}`, string(out))

	var p Participant
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"kind":"Pro"}`), &p))
	assert.Equal(t, Participant{ID: 2, Kind: KindPro}, p)

	assert.Error(t, json.Unmarshal([]byte(`{"id":2,"kind":"Admin"}`), &p))

	_, err = json.Marshal(Participant{ID: 1})
	assert.Error(t, err, "the zero kind is not representable")
}

func TestParticipantKind_ValueAndScan(t *testing.T) {
	v, err := KindPro.Value()
	require.NoError(t, err)
	assert.Equal(t, "Pro", v)

	_, err = ParticipantKind(0).Value()
	assert.Error(t, err)

	var k ParticipantKind
	require.NoError(t, k.Scan([]byte("User")))
	assert.Equal(t, KindUser, k)
	assert.Error(t, k.Scan("Admin"))
	assert.Error(t, k.Scan(42))
}

func TestParticipant_Valid(t *testing.T) {
	assert.True(t, Participant{ID: 1, Kind: KindUser}.Valid())
	assert.False(t, Participant{ID: 0, Kind: KindUser}.Valid())
	assert.False(t, Participant{ID: 1}.Valid())
	assert.False(t, Participant{ID: 1, Kind: ParticipantKind(9)}.Valid())
}

func TestJobStatus_RoundTrip(t *testing.T) {
	v, err := JobInProgress.Value()
	require.NoError(t, err)
	assert.Equal(t, "In Progress", v)

	var s JobStatus
	require.NoError(t, s.Scan("Completed"))
	assert.Equal(t, JobCompleted, s)

	_, err = ParseJobStatus("Done")
	assert.Error(t, err)
}

func TestConversationIndex_Partner(t *testing.T) {
	user := Participant{ID: 9, Kind: KindUser}
	pro := Participant{ID: 2, Kind: KindPro}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	idx := NewConversationIndex(user, pro, now)
	assert.Equal(t, pro, idx.A())
	assert.Equal(t, user, idx.B())
	assert.Equal(t, now, idx.LastActivity())

	partner, ok := idx.Partner(user)
	require.True(t, ok)
	assert.Equal(t, pro, partner)

	partner, ok = idx.Partner(pro)
	require.True(t, ok)
	assert.Equal(t, user, partner)

	_, ok = idx.Partner(Participant{ID: 9, Kind: KindPro})
	assert.False(t, ok)
}

func TestIdentity_DisplayName(t *testing.T) {
	var identities = []struct {
		name     string
		identity Identity
		want     string
	}{
		{"user full name", &User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"user first name only", &User{FirstName: "Ada"}, "Ada"},
		{"user without name", &User{}, PlaceholderUserName},
		{"pro business name wins", &Pro{ProName: "Bob", BusinessName: "Bob's Plumbing"}, "Bob's Plumbing"},
		{"pro name", &Pro{ProName: "Bob"}, "Bob"},
		{"pro without name", &Pro{}, PlaceholderProName},
	}

	for _, tt := range identities {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.DisplayName())
		})
	}
}

func TestUser_Password(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("s3cret-pass"))
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}
