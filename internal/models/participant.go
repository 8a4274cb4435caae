package models

import (
	"database/sql/driver"
	"fmt"
)

// ParticipantKind tells which identity space a participant id belongs to.
type ParticipantKind uint8

const (
	KindUser ParticipantKind = iota + 1
	KindPro
)

var participantKindNames = []string{"", "User", "Pro"}

// ParseParticipantKind parses "User" or "Pro".
func ParseParticipantKind(s string) (ParticipantKind, error) {
	return parseEnum[ParticipantKind](s, participantKindNames, "participant kind")
}

func (k ParticipantKind) String() string { return enumName(k, participantKindNames) }

// Valid reports whether k is one of the declared kinds.
func (k ParticipantKind) Valid() bool { return k == KindUser || k == KindPro }

func (k ParticipantKind) GormDataType() string { return "string" }

func (k ParticipantKind) Value() (driver.Value, error) {
	return enumValue(k, participantKindNames, "participant kind")
}

func (k *ParticipantKind) Scan(src interface{}) error {
	return scanEnum(k, src, participantKindNames, "participant kind")
}

func (k ParticipantKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid participant kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *ParticipantKind) UnmarshalText(b []byte) error {
	parsed, err := ParseParticipantKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Participant identifies one side of a conversation.
type Participant struct {
	ID   uint            `json:"id"`
	Kind ParticipantKind `json:"kind"`
}

func (p Participant) String() string { return fmt.Sprintf("%s:%d", p.Kind, p.ID) }

// Valid reports whether p has a positive id and a known kind.
func (p Participant) Valid() bool { return p.ID > 0 && p.Kind.Valid() }

// less orders participants by id, then User before Pro for equal ids.
func (p Participant) less(o Participant) bool {
	if p.ID != o.ID {
		return p.ID < o.ID
	}
	return p.Kind < o.Kind
}

// NormalizePair returns x and y in canonical order so that (x, y) and (y, x)
// map to the same conversation key.
func NormalizePair(x, y Participant) (Participant, Participant) {
	if y.less(x) {
		return y, x
	}
	return x, y
}

// Identity is implemented by every participant record (User and Pro).
type Identity interface {
	Participant() Participant
	GetEmail() string
	DisplayName() string
}
