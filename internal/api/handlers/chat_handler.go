package handlers

import (
	"fmt"

	chatapp "chatterbox_service/internal/chat/app"
	"chatterbox_service/pkg/logger"
	"chatterbox_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChatHandler handle conversation and message HTTP requests
type ChatHandler struct {
	Messages      *chatapp.MessageUseCase
	Conversations *chatapp.ConversationUseCase
	Media         *chatapp.MediaUseCase
}

// NewChatHandler create a new ChatHandler
func NewChatHandler(messages *chatapp.MessageUseCase, conversations *chatapp.ConversationUseCase, media *chatapp.MediaUseCase) *ChatHandler {
	return &ChatHandler{
		Messages:      messages,
		Conversations: conversations,
		Media:         media,
	}
}

// SendMessage append a message to the pair's conversation
// @Summary Send a direct message
// @Description Append a message, the sender is taken from the token
// @Tags Chat
// @Accept json
// @Produce json
// @Success 201 {object} string "message and conversation summary"
// @Failure 400 {object} string "invalid request"
// @Failure 404 {object} string "unknown participant"
// @Router /messages/send [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	senderID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenUserID)})
	}

	type request struct {
		ReceiverID  string `json:"receiverId"`
		Content     string `json:"content"`
		MessageType string `json:"messageType"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("SendMessage", zap.String("sender", senderID), zap.String("receiver", req.ReceiverID))

	msg, conv, err := h.Messages.Send(c.Context(), senderID, req.ReceiverID, req.Content, req.MessageType)
	if err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Message sent successfully",
		"data":         msg,
		"conversation": conv,
	})
}

// GetConversationMessages fetch one page of a conversation's history
// @Summary Fetch conversation history
// @Description Chronological page of messages, reading marks them seen
// @Tags Chat
// @Produce json
// @Param conversationId query string false "conversation ID"
// @Param otherUserId query string false "other participant, used when conversationId is absent"
// @Param page query int false "1-based page"
// @Param limit query int false "page size"
// @Success 200 {object} string "messages and pagination"
// @Failure 400 {object} string "missing parameters"
// @Failure 404 {object} string "conversation not found or access denied"
// @Router /messages/conversation [get]
func (h *ChatHandler) GetConversationMessages(c *fiber.Ctx) error {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenUserID)})
	}

	conversationID := c.Query("conversationId")
	otherUserID := c.Query("otherUserId")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	if conversationID == "" && otherUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "conversationId or otherUserId is required"})
	}

	var (
		msgs       interface{}
		pagination interface{}
		err        error
	)
	if conversationID != "" {
		msgs, pagination, err = h.Messages.History(c.Context(), conversationID, userID, page, limit)
	} else {
		msgs, pagination, err = h.Messages.HistoryBetween(c.Context(), userID, otherUserID, page, limit)
	}
	if err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"messages":   msgs,
		"pagination": pagination,
	})
}

// ListConversations list the caller's conversations
// @Summary List conversations
// @Description Most recent message first, annotated with the other participant
// @Tags Chat
// @Produce json
// @Success 200 {object} string "conversation summaries"
// @Router /conversations [get]
func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenUserID)})
	}

	summaries, err := h.Conversations.ListForUser(c.Context(), userID)
	if err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"conversations": summaries})
}

// MarkConversationRead zero the caller's unread counter
// @Summary Mark a conversation read
// @Tags Chat
// @Produce json
// @Param conversationId path string true "conversation ID"
// @Success 200 {object} string "marked"
// @Failure 404 {object} string "conversation not found or access denied"
// @Router /conversations/{conversationId}/read [post]
func (h *ChatHandler) MarkConversationRead(c *fiber.Ctx) error {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenUserID)})
	}

	conversationID := c.Params("conversationId")
	if err := h.Conversations.MarkRead(c.Context(), conversationID, userID); err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "conversation marked read"})
}

// UploadMedia store an attachment, return its URL
// @Summary Upload a media attachment
// @Description The returned URL goes into the content of an image/file/audio message
// @Tags Chat
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} string "url"
// @Failure 400 {object} string "missing file"
// @Router /media/upload [post]
func (h *ChatHandler) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open uploaded file"})
	}
	defer file.Close()

	url, err := h.Media.Upload(c.Context(), fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), file, fileHeader.Size)
	if err != nil {
		return c.Status(statusFromErr(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
