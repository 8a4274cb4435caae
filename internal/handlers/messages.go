package handlers

import (
	"marketplace-server/internal/middleware"
	"marketplace-server/internal/models"
	"marketplace-server/internal/service"
	"marketplace-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles messaging related requests.
type MessageHandler struct {
	Messages      *service.MessageService
	Conversations *service.ConversationService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService, conversations *service.ConversationService) *MessageHandler {
	return &MessageHandler{Messages: messages, Conversations: conversations}
}

// SendMessageRequest represents the request body for a job or bid message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendDirectMessageRequest represents the request body for a direct message.
type SendDirectMessageRequest struct {
	RecipientID   uint   `json:"recipientId"`
	SenderType    string `json:"senderType"`
	RecipientType string `json:"recipientType"`
	Content       string `json:"content"`
}

// currentParticipant returns the caller, answering 401 when there is none.
func currentParticipant(c *gin.Context) (models.Participant, bool) {
	p, ok := middleware.GetParticipantFromContext(c)
	if !ok {
		utils.Unauthorized(c, "Invalid user authentication")
		return models.Participant{}, false
	}
	return p, true
}

// optionalKind parses an optional userType value. An empty value yields zero.
func optionalKind(c *gin.Context, raw string) (models.ParticipantKind, bool) {
	if raw == "" {
		return 0, true
	}
	kind, err := models.ParseParticipantKind(raw)
	if err != nil {
		utils.BadRequest(c, "UserType must be 'User' or 'Pro'")
		return 0, false
	}
	return kind, true
}

// GetAllMessages returns every message the caller sent or received.
func (h *MessageHandler) GetAllMessages(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}

	messages, err := h.Messages.ListAll(c.Request.Context(), caller)
	if err != nil {
		utils.HandleError(c, "list messages", err)
		return
	}
	utils.Success(c, "Messages retrieved successfully", messages)
}

// GetConversations returns the caller's conversation partners.
func (h *MessageHandler) GetConversations(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	kind, ok := optionalKind(c, c.Query("userType"))
	if !ok {
		return
	}
	if kind != 0 && kind != caller.Kind {
		utils.Forbidden(c, "You can only view your own conversations")
		return
	}

	conversations, err := h.Conversations.ListConversations(c.Request.Context(), caller)
	if err != nil {
		utils.HandleError(c, "list conversations", err)
		return
	}
	utils.Success(c, "Conversations retrieved successfully", conversations)
}

// GetJobMessages returns the messages tagged with a job.
func (h *MessageHandler) GetJobMessages(c *gin.Context) {
	if _, ok := currentParticipant(c); !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "jobId", "job")
	if !ok {
		return
	}

	messages, err := h.Messages.ListJobMessages(c.Request.Context(), jobID)
	if err != nil {
		utils.HandleError(c, "list job messages", err)
		return
	}
	utils.Success(c, "Messages retrieved successfully", messages)
}

// SendJobMessage sends a message between a job's owner and its assigned pro.
func (h *MessageHandler) SendJobMessage(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	jobID, ok := utils.ParseIDParam(c, "jobId", "job")
	if !ok {
		return
	}
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	msg, err := h.Messages.SendJobMessage(c.Request.Context(), jobID, caller, req.Content)
	if err != nil {
		utils.HandleError(c, "send job message", err)
		return
	}
	utils.Created(c, "Message sent successfully", msg)
}

// SendBidMessage lets a job owner message a pro who bid on the job.
func (h *MessageHandler) SendBidMessage(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	bidID, ok := utils.ParseIDParam(c, "bidId", "bid")
	if !ok {
		return
	}
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	msg, err := h.Messages.SendBidMessage(c.Request.Context(), bidID, caller, req.Content)
	if err != nil {
		utils.HandleError(c, "send bid message", err)
		return
	}
	utils.Created(c, "Message sent successfully", msg)
}

// SendDirectMessage sends a message that is not tied to a job.
func (h *MessageHandler) SendDirectMessage(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	var req SendDirectMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	senderKind, ok := optionalKind(c, req.SenderType)
	if !ok {
		return
	}
	recipientKind, ok := optionalKind(c, req.RecipientType)
	if !ok {
		return
	}

	msg, err := h.Messages.SendDirect(c.Request.Context(), caller, service.DirectInput{
		RecipientID:   req.RecipientID,
		SenderKind:    senderKind,
		RecipientKind: recipientKind,
		Content:       req.Content,
	})
	if err != nil {
		utils.HandleError(c, "send direct message", err)
		return
	}
	utils.Created(c, "Message sent successfully", msg)
}

// GetMessagesWithUser returns the caller's conversation with another participant.
func (h *MessageHandler) GetMessagesWithUser(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	partnerID, ok := utils.ParseIDParam(c, "userId", "user")
	if !ok {
		return
	}
	kind, ok := optionalKind(c, c.Query("userType"))
	if !ok {
		return
	}
	if kind == 0 {
		utils.BadRequest(c, "UserType must be 'User' or 'Pro'")
		return
	}

	partner := models.Participant{ID: partnerID, Kind: kind}
	messages, err := h.Messages.ListWithPartner(c.Request.Context(), caller, partner)
	if err != nil {
		utils.HandleError(c, "list messages with partner", err)
		return
	}
	utils.Success(c, "Messages retrieved successfully", messages)
}

// MarkMessageAsRead marks one of the caller's messages as read.
func (h *MessageHandler) MarkMessageAsRead(c *gin.Context) {
	caller, ok := currentParticipant(c)
	if !ok {
		return
	}
	messageID, ok := utils.ParseIDParam(c, "messageId", "message")
	if !ok {
		return
	}

	msg, err := h.Messages.MarkRead(c.Request.Context(), caller, messageID)
	if err != nil {
		utils.HandleError(c, "mark message read", err)
		return
	}
	utils.Success(c, "Message marked as read", msg)
}
