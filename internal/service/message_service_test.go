package service

import (
	"context"
	"strings"
	"testing"

	"marketplace-server/internal/common"
	"marketplace-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assignedJob posts a job for owner and assigns it to pro through a bid.
func (f *fixture) assignedJob(t *testing.T, owner, pro models.Participant) *models.Job {
	t.Helper()
	ctx := context.Background()
	job, err := f.jobs.PostJob(ctx, owner, PostJobInput{Title: "Fix sink", Description: "Leaking"})
	require.NoError(t, err)
	bid, err := f.jobs.SubmitBid(ctx, pro, job.ID, BidInput{Message: "I can help"})
	require.NoError(t, err)
	_, err = f.jobs.AcceptBid(ctx, owner, job.ID, bid.ID)
	require.NoError(t, err)
	job, err = f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	return job
}

func TestMessageService_ContentBoundaries(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Ula", "Smith")
	p := f.pro(t, "Pat")

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"exactly the limit", strings.Repeat("a", models.MaxMessageLength), false},
		{"limit counted in characters", strings.Repeat("é", models.MaxMessageLength), false},
		{"one over the limit", strings.Repeat("a", models.MaxMessageLength+1), true},
		{"empty", "", true},
		{"whitespace only", " \t\n ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := f.messages.Send(context.Background(), SendInput{Sender: u, Recipient: p, Content: tt.content})
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				assert.Nil(t, msg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.content, msg.Content)
		})
	}
}

func TestMessageService_RejectedSendLeavesNoConversation(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "Ula", "Smith")
	p := f.pro(t, "Pat")

	_, err := f.messages.Send(context.Background(), SendInput{Sender: u, Recipient: p, Content: "   "})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.EqualValues(t, 0, f.countConversations(t))
}

func TestMessageService_SendLinksConversationAndAdvancesActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Ula", "Smith")
	p := f.pro(t, "Pat")

	first, err := f.messages.Send(ctx, SendInput{Sender: u, Recipient: p, Content: "hi"})
	require.NoError(t, err)
	second, err := f.messages.Send(ctx, SendInput{Sender: p, Recipient: u, Content: "hello"})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Nil(t, first.JobID)
	assert.Equal(t, p, second.Sender())
	assert.Equal(t, u, second.Recipient())
	assert.False(t, second.IsRead)

	idx, err := f.store.Conversations.FindByID(ctx, first.ConversationID)
	require.NoError(t, err)
	require.NotNil(t, idx.LastMessageAt)
	assert.True(t, idx.LastMessageAt.Equal(second.SentAt))
}

func TestMessageService_JobMessageRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Ula", "Smith")
	p := f.pro(t, "Pat")
	job := f.assignedJob(t, u, p)

	content := "When can you start? 🚰 Ünïcödé"
	sent, err := f.messages.SendJobMessage(ctx, job.ID, u, content)
	require.NoError(t, err)
	require.NotNil(t, sent.JobID)
	assert.Equal(t, job.ID, *sent.JobID)
	assert.Equal(t, p, sent.Recipient())

	reply, err := f.messages.SendJobMessage(ctx, job.ID, p, "Tomorrow")
	require.NoError(t, err)
	assert.Equal(t, u, reply.Recipient())
	assert.Equal(t, sent.ConversationID, reply.ConversationID)

	got, err := f.messages.ListJobMessages(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, content, got[0].Content)
	assert.Equal(t, "Tomorrow", got[1].Content)
}

func TestMessageService_JobMessageAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Ula", "Smith")
	assigned := f.pro(t, "Pat")
	outsider := f.pro(t, "Olly")
	job := f.assignedJob(t, owner, assigned)

	_, err := f.messages.SendJobMessage(ctx, job.ID, outsider, "let me in")
	assert.ErrorIs(t, err, common.ErrForbidden)

	otherUser := f.user(t, "Vic", "Jones")
	_, err = f.messages.SendJobMessage(ctx, job.ID, otherUser, "hi")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.messages.SendJobMessage(ctx, 9999, owner, "hi")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.messages.ListJobMessages(ctx, 9999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMessageService_JobMessageWithoutAssignedPro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Ula", "Smith")
	job, err := f.jobs.PostJob(ctx, owner, PostJobInput{Title: "Paint fence", Description: "White"})
	require.NoError(t, err)

	_, err = f.messages.SendJobMessage(ctx, job.ID, owner, "anyone?")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMessageService_BidMessageScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "Ula", "Smith")
	p1 := f.pro(t, "Pat")

	job, err := f.jobs.PostJob(ctx, u1, PostJobInput{Title: "Fix roof", Description: "Leaks"})
	require.NoError(t, err)
	bid, err := f.jobs.SubmitBid(ctx, p1, job.ID, BidInput{Message: "Can do"})
	require.NoError(t, err)
	assert.False(t, bid.HasMessageExchange)

	msg, err := f.messages.SendBidMessage(ctx, bid.ID, u1, "What would it cost?")
	require.NoError(t, err)
	assert.Equal(t, p1, msg.Recipient())
	require.NotNil(t, msg.JobID)
	assert.Equal(t, job.ID, *msg.JobID)

	idx, err := f.store.Conversations.FindByPair(ctx, u1, p1)
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, idx.ID, msg.ConversationID)

	bid, err = f.store.Jobs.FindBidByID(ctx, bid.ID)
	require.NoError(t, err)
	assert.True(t, bid.HasMessageExchange)

	list, err := f.conversations.ListConversations(ctx, u1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p1, list[0].Partner())
	assert.Equal(t, "Pat", list[0].PartnerName)
}

func TestMessageService_BidMessageOnlyFromOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.user(t, "Ula", "Smith")
	u2 := f.user(t, "Vic", "Jones")
	p1 := f.pro(t, "Pat")

	job, err := f.jobs.PostJob(ctx, u1, PostJobInput{Title: "Fix roof", Description: "Leaks"})
	require.NoError(t, err)
	bid, err := f.jobs.SubmitBid(ctx, p1, job.ID, BidInput{})
	require.NoError(t, err)

	_, err = f.messages.SendBidMessage(ctx, bid.ID, u2, "hi")
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.messages.SendBidMessage(ctx, bid.ID, p1, "hi")
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.messages.SendBidMessage(ctx, 9999, u1, "hi")
	assert.ErrorIs(t, err, common.ErrNotFound)

	bid, err = f.store.Jobs.FindBidByID(ctx, bid.ID)
	require.NoError(t, err)
	assert.False(t, bid.HasMessageExchange)
}

func TestMessageService_SendDirect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Ula", "Smith")
	p := f.pro(t, "Pat")
	u2 := f.user(t, "Vic", "Jones")

	msg, err := f.messages.SendDirect(ctx, u, DirectInput{RecipientID: p.ID, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, p, msg.Recipient(), "an existing pro id is taken as a pro")

	msg, err = f.messages.SendDirect(ctx, u, DirectInput{RecipientID: u2.ID, RecipientKind: models.KindUser, Content: "hey"})
	require.NoError(t, err)
	assert.Equal(t, u2, msg.Recipient())

	_, err = f.messages.SendDirect(ctx, u, DirectInput{RecipientID: p.ID, SenderKind: models.KindPro, Content: "hi"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.messages.SendDirect(ctx, u, DirectInput{RecipientID: 4242, RecipientKind: models.KindPro, Content: "hi"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.messages.SendDirect(ctx, u, DirectInput{Content: "hi"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.messages.SendDirect(ctx, u, DirectInput{RecipientID: u.ID, RecipientKind: models.KindUser, Content: "me"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMessageService_ListAllAndWithPartner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Ula", "Smith")
	p1 := f.pro(t, "Pat")
	p2 := f.pro(t, "Quinn")

	_, err := f.messages.Send(ctx, SendInput{Sender: u, Recipient: p1, Content: "first"})
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, SendInput{Sender: p2, Recipient: u, Content: "second"})
	require.NoError(t, err)
	_, err = f.messages.Send(ctx, SendInput{Sender: p1, Recipient: u, Content: "third"})
	require.NoError(t, err)

	all, err := f.messages.ListAll(ctx, u)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Content)
	assert.Equal(t, "first", all[2].Content)

	thread, err := f.messages.ListWithPartner(ctx, u, p1)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Content)
	assert.Equal(t, "third", thread[1].Content)

	stranger := f.pro(t, "Stranger")
	before := f.countConversations(t)
	none, err := f.messages.ListWithPartner(ctx, u, stranger)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, before, f.countConversations(t), "reading never creates a conversation")
}

func TestMessageService_MarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Ula", "Smith")
	p := f.pro(t, "Pat")
	outsider := f.user(t, "Olly", "Other")

	msg, err := f.messages.Send(ctx, SendInput{Sender: p, Recipient: u, Content: "read me"})
	require.NoError(t, err)

	_, err = f.messages.MarkRead(ctx, outsider, msg.ID)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.messages.MarkRead(ctx, u, 9999)
	assert.ErrorIs(t, err, common.ErrNotFound)

	read, err := f.messages.MarkRead(ctx, u, msg.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	again, err := f.messages.MarkRead(ctx, p, msg.ID)
	require.NoError(t, err)
	require.NotNil(t, again.ReadAt)
	assert.True(t, again.ReadAt.Equal(*read.ReadAt))
}
