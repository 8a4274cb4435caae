package service

import (
	"context"
	"fmt"
	"strings"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"
	"marketplace-server/internal/repository"

	"github.com/go-playground/validator/v10"
)

var contentLengthRule = fmt.Sprintf("max=%d", models.MaxMessageLength)

// SendInput is a fully resolved send request.
type SendInput struct {
	Sender    models.Participant
	Recipient models.Participant
	Content   string
	JobID     *uint
}

// DirectInput is a direct message request. A zero SenderKind means the
// authenticated sender's kind; a zero RecipientKind is inferred.
type DirectInput struct {
	RecipientID   uint
	SenderKind    models.ParticipantKind
	RecipientKind models.ParticipantKind
	Content       string
}

// MessageService appends messages to conversations and reads them back.
type MessageService struct {
	store    *repository.Store
	now      Clock
	validate *validator.Validate
}

// NewMessageService creates a new MessageService
func NewMessageService(store *repository.Store, now Clock) *MessageService {
	return &MessageService{store: store, now: now, validate: validator.New()}
}

// ValidateContent checks that content is non-blank and at most
// models.MaxMessageLength characters.
func (s *MessageService) ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return common.Validation("Message content is required")
	}
	if err := s.validate.Var(content, contentLengthRule); err != nil {
		return common.Validation("Message content must be at most %d characters", models.MaxMessageLength)
	}
	return nil
}

// Send resolves the sender/recipient conversation, appends the message and
// advances the conversation's last activity, all in one transaction.
func (s *MessageService) Send(ctx context.Context, in SendInput) (*models.Message, error) {
	if err := s.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	var msg *models.Message
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		msg, err = s.send(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) send(ctx context.Context, tx *repository.Store, in SendInput) (*models.Message, error) {
	now := s.now()

	idx, err := resolveConversation(ctx, tx, in.Sender, in.Recipient, now)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: idx.ID,
		JobID:          in.JobID,
		SenderID:       in.Sender.ID,
		SenderKind:     in.Sender.Kind,
		RecipientID:    in.Recipient.ID,
		RecipientKind:  in.Recipient.Kind,
		Content:        in.Content,
		SentAt:         now,
	}
	if err := tx.Messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := tx.Conversations.TouchLastMessageAt(ctx, idx.ID, now); err != nil {
		return nil, err
	}
	return msg, nil
}

// SendDirect sends a message outside any job.
func (s *MessageService) SendDirect(ctx context.Context, sender models.Participant, in DirectInput) (*models.Message, error) {
	if err := s.ValidateContent(in.Content); err != nil {
		return nil, err
	}
	if in.RecipientID == 0 {
		return nil, common.Validation("Valid recipient ID and sender type are required")
	}
	if in.SenderKind != 0 && in.SenderKind != sender.Kind {
		return nil, common.Forbidden("You cannot send messages as a %s", in.SenderKind)
	}

	recipient := models.Participant{ID: in.RecipientID, Kind: in.RecipientKind}
	if recipient.Kind == 0 {
		kind, err := s.inferRecipientKind(ctx, in.RecipientID)
		if err != nil {
			return nil, err
		}
		recipient.Kind = kind
	}

	exists, err := s.store.Identities.Exists(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NotFound("Recipient not found")
	}

	return s.Send(ctx, SendInput{Sender: sender, Recipient: recipient, Content: in.Content})
}

// inferRecipientKind treats id as a Pro when a Pro with that id exists and as
// a User otherwise.
func (s *MessageService) inferRecipientKind(ctx context.Context, id uint) (models.ParticipantKind, error) {
	isPro, err := s.store.Identities.Exists(ctx, models.Participant{ID: id, Kind: models.KindPro})
	if err != nil {
		return 0, err
	}
	if isPro {
		return models.KindPro, nil
	}
	return models.KindUser, nil
}

// SendJobMessage sends a message between a job's owner and its assigned pro.
func (s *MessageService) SendJobMessage(ctx context.Context, jobID uint, sender models.Participant, content string) (*models.Message, error) {
	if err := s.ValidateContent(content); err != nil {
		return nil, err
	}

	job, err := s.store.Jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}

	var recipient models.Participant
	pro, assigned := job.AssignedPro()
	switch {
	case sender == job.Owner():
		if !assigned {
			return nil, common.Validation("No recipient found for this job. Job may not have an assigned professional.")
		}
		recipient = pro
	case assigned && sender == pro:
		recipient = job.Owner()
	default:
		return nil, common.Forbidden("You are not authorized to send messages for this job")
	}

	return s.Send(ctx, SendInput{Sender: sender, Recipient: recipient, Content: content, JobID: &job.ID})
}

// SendBidMessage lets a job owner contact a bidding pro. The bid is flagged as
// having a message exchange in the same transaction as the send.
func (s *MessageService) SendBidMessage(ctx context.Context, bidID uint, sender models.Participant, content string) (*models.Message, error) {
	if err := s.ValidateContent(content); err != nil {
		return nil, err
	}

	bid, err := s.store.Jobs.FindBidByID(ctx, bidID)
	if err != nil {
		return nil, notFoundOr(err, "Bid not found")
	}
	job, err := s.store.Jobs.FindByID(ctx, bid.JobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	if sender != job.Owner() {
		return nil, common.Forbidden("You are not authorized to send messages for this job")
	}

	in := SendInput{
		Sender:    sender,
		Recipient: models.Participant{ID: bid.ProID, Kind: models.KindPro},
		Content:   content,
		JobID:     &job.ID,
	}

	var msg *models.Message
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if msg, err = s.send(ctx, tx, in); err != nil {
			return err
		}
		return tx.Jobs.MarkMessageExchange(ctx, bid.ID)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListAll returns every message p sent or received, newest first.
func (s *MessageService) ListAll(ctx context.Context, p models.Participant) ([]*models.Message, error) {
	if err := requireParticipant(p, "participant"); err != nil {
		return nil, err
	}
	return s.store.Messages.ListForParticipant(ctx, p)
}

// ListJobMessages returns the messages sent about a job, oldest first.
func (s *MessageService) ListJobMessages(ctx context.Context, jobID uint) ([]*models.Message, error) {
	if _, err := s.store.Jobs.FindByID(ctx, jobID); err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return s.store.Messages.ListByJob(ctx, jobID)
}

// ListWithPartner returns the conversation between p and partner, oldest
// first. It never creates a conversation.
func (s *MessageService) ListWithPartner(ctx context.Context, p, partner models.Participant) ([]*models.Message, error) {
	if err := requireParticipant(partner, "partner"); err != nil {
		return nil, err
	}
	idx, err := s.store.Conversations.FindByPair(ctx, p, partner)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return []*models.Message{}, nil
	}
	return s.store.Messages.ListByConversation(ctx, idx.ID)
}

// MarkRead marks a message read on behalf of caller, who must be its sender
// or recipient. The first read's timestamp is kept.
func (s *MessageService) MarkRead(ctx context.Context, caller models.Participant, messageID uint) (*models.Message, error) {
	msg, err := s.store.Messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, notFoundOr(err, "Message not found")
	}
	if !msg.Involves(caller) {
		return nil, common.Forbidden("You are not authorized to mark this message as read.")
	}
	if msg.IsRead {
		return msg, nil
	}

	if err := s.store.Messages.MarkAsRead(ctx, msg.ID, s.now()); err != nil {
		return nil, err
	}
	return s.store.Messages.FindByID(ctx, msg.ID)
}
