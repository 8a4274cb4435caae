package models

import (
	"time"
)

// MaxMessageLength is the maximum number of characters in a message body.
const MaxMessageLength = 1000

// ConversationIndex is the canonical record for one unordered participant pair.
// Side A always sorts before side B (see NormalizePair).
type ConversationIndex struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ParticipantAID   uint            `gorm:"column:a_id;not null;uniqueIndex:idx_conversation_pair,priority:1;index:idx_conversation_a,priority:1" json:"participantAId"`
	ParticipantAKind ParticipantKind `gorm:"column:a_kind;size:10;not null;uniqueIndex:idx_conversation_pair,priority:2;index:idx_conversation_a,priority:2" json:"participantAType"`
	ParticipantBID   uint            `gorm:"column:b_id;not null;uniqueIndex:idx_conversation_pair,priority:3;index:idx_conversation_b,priority:1" json:"participantBId"`
	ParticipantBKind ParticipantKind `gorm:"column:b_kind;size:10;not null;uniqueIndex:idx_conversation_pair,priority:4;index:idx_conversation_b,priority:2" json:"participantBType"`
	InitiatedAt      time.Time       `gorm:"not null" json:"initiatedAt"`
	LastMessageAt    *time.Time      `gorm:"index" json:"lastMessageAt,omitempty"`

	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ConversationIndex) TableName() string { return "conversations" }

// NewConversationIndex builds an unsaved index for the normalized pair.
func NewConversationIndex(x, y Participant, now time.Time) *ConversationIndex {
	a, b := NormalizePair(x, y)
	return &ConversationIndex{
		ParticipantAID:   a.ID,
		ParticipantAKind: a.Kind,
		ParticipantBID:   b.ID,
		ParticipantBKind: b.Kind,
		InitiatedAt:      now,
		LastMessageAt:    &now,
	}
}

func (c *ConversationIndex) A() Participant {
	return Participant{ID: c.ParticipantAID, Kind: c.ParticipantAKind}
}

func (c *ConversationIndex) B() Participant {
	return Participant{ID: c.ParticipantBID, Kind: c.ParticipantBKind}
}

// Partner returns the side of the conversation that is not p.
func (c *ConversationIndex) Partner(p Participant) (Participant, bool) {
	switch p {
	case c.A():
		return c.B(), true
	case c.B():
		return c.A(), true
	}
	return Participant{}, false
}

// LastActivity is LastMessageAt, falling back to InitiatedAt.
func (c *ConversationIndex) LastActivity() time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.InitiatedAt
}

// Message is a single entry in a conversation.
type Message struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint            `gorm:"not null;index:idx_message_conversation,priority:1" json:"conversationId"`
	JobID          *uint           `gorm:"index" json:"jobId,omitempty"`
	SenderID       uint            `gorm:"not null;index:idx_message_sender,priority:1" json:"senderId"`
	SenderKind     ParticipantKind `gorm:"size:10;not null;index:idx_message_sender,priority:2" json:"senderType"`
	RecipientID    uint            `gorm:"not null;index:idx_message_recipient,priority:1" json:"recipientId"`
	RecipientKind  ParticipantKind `gorm:"size:10;not null;index:idx_message_recipient,priority:2" json:"recipientType"`
	Content        string          `gorm:"size:1000;not null" json:"content"`
	SentAt         time.Time       `gorm:"not null;index:idx_message_conversation,priority:2" json:"sentAt"`
	IsRead         bool            `gorm:"default:false;not null" json:"isRead"`
	ReadAt         *time.Time      `json:"readAt,omitempty"`
}

func (m *Message) Sender() Participant {
	return Participant{ID: m.SenderID, Kind: m.SenderKind}
}

func (m *Message) Recipient() Participant {
	return Participant{ID: m.RecipientID, Kind: m.RecipientKind}
}

// Involves reports whether p sent or received the message.
func (m *Message) Involves(p Participant) bool {
	return m.Sender() == p || m.Recipient() == p
}
