package service

import (
	"context"
	"sort"
	"time"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"
	"marketplace-server/pkg/logger"

	"github.com/samber/lo"
)

// ConversationSummary is one row of a participant's conversation list.
type ConversationSummary struct {
	ConversationID uint                   `json:"conversationId"`
	PartnerID      uint                   `json:"userId"`
	PartnerKind    models.ParticipantKind `json:"userType"`
	PartnerName    string                 `json:"userName"`
	PartnerEmail   string                 `json:"userEmail"`
	LastMessage    string                 `json:"lastMessage"`
	LastActivityAt time.Time              `json:"lastMessageTime"`
	UnreadCount    int64                  `json:"unreadCount"`
}

// Partner returns the partner as a participant.
func (s ConversationSummary) Partner() models.Participant {
	return models.Participant{ID: s.PartnerID, Kind: s.PartnerKind}
}

// ConversationService owns the conversation index and the conversation list view.
type ConversationService struct {
	store     *repository.Store
	directory *Directory
	now       Clock
}

// NewConversationService creates a new ConversationService
func NewConversationService(store *repository.Store, directory *Directory, now Clock) *ConversationService {
	return &ConversationService{store: store, directory: directory, now: now}
}

// Resolve returns the conversation for the unordered pair (x, y), creating it
// on first use. It never modifies an existing conversation.
func (s *ConversationService) Resolve(ctx context.Context, x, y models.Participant) (*models.ConversationIndex, error) {
	var idx *models.ConversationIndex
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		idx, err = resolveConversation(ctx, tx, x, y, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// resolveConversation is the get-or-create step shared by Resolve and sends.
// The unique pair index arbitrates concurrent creators: a loser's insert is
// dropped and it re-reads the winner's row.
func resolveConversation(ctx context.Context, store *repository.Store, x, y models.Participant, now time.Time) (*models.ConversationIndex, error) {
	if err := requireParticipant(x, "sender"); err != nil {
		return nil, err
	}
	if err := requireParticipant(y, "recipient"); err != nil {
		return nil, err
	}
	if x == y {
		return nil, common.Validation("Cannot send a message to yourself")
	}

	existing, err := store.Conversations.FindByPair(ctx, x, y)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	idx := models.NewConversationIndex(x, y, now)
	created, err := store.Conversations.CreateIfAbsent(ctx, idx)
	if err != nil {
		return nil, err
	}
	if created {
		logger.GetLogger().Debug().
			Uint("conversation_id", idx.ID).
			Str("a", idx.A().String()).
			Str("b", idx.B().String()).
			Msg("conversation created")
		return idx, nil
	}

	return store.Conversations.FindByPairLocked(ctx, x, y)
}

type partneredConversation struct {
	index   *models.ConversationIndex
	partner models.Participant
}

// collapseByPartner keeps one conversation per partner, the most recently
// active one, ordered by last activity descending.
func collapseByPartner(p models.Participant, rows []*models.ConversationIndex) []partneredConversation {
	withPartner := make([]partneredConversation, 0, len(rows))
	for _, row := range rows {
		partner, ok := row.Partner(p)
		if !ok {
			continue
		}
		withPartner = append(withPartner, partneredConversation{index: row, partner: partner})
	}

	sort.SliceStable(withPartner, func(i, j int) bool {
		ai, aj := withPartner[i].index.LastActivity(), withPartner[j].index.LastActivity()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return withPartner[i].index.ID > withPartner[j].index.ID
	})

	return lo.UniqBy(withPartner, func(c partneredConversation) models.Participant {
		return c.partner
	})
}

// ListConversations returns p's conversations with partner details, the latest
// message preview and the number of unread messages from the partner.
func (s *ConversationService) ListConversations(ctx context.Context, p models.Participant) ([]ConversationSummary, error) {
	if err := requireParticipant(p, "participant"); err != nil {
		return nil, err
	}

	rows, err := s.store.Conversations.ListForParticipant(ctx, p)
	if err != nil {
		return nil, err
	}

	conversations := collapseByPartner(p, rows)
	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		card, err := s.directory.Card(ctx, c.partner)
		if err != nil {
			return nil, err
		}

		preview := ""
		latest, err := s.store.Messages.LatestInConversation(ctx, c.index.ID)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			preview = latest.Content
		}

		unread, err := s.store.Messages.CountUnread(ctx, c.index.ID, c.partner, p)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, ConversationSummary{
			ConversationID: c.index.ID,
			PartnerID:      c.partner.ID,
			PartnerKind:    c.partner.Kind,
			PartnerName:    card.Name,
			PartnerEmail:   card.Email,
			LastMessage:    preview,
			LastActivityAt: c.index.LastActivity(),
			UnreadCount:    unread,
		})
	}
	return summaries, nil
}
