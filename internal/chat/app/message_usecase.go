package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatterbox_service/internal/chat/domain"
	"chatterbox_service/internal/chat/repository"
	userdomain "chatterbox_service/internal/user/domain"
	userrepository "chatterbox_service/internal/user/repository"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"
	"chatterbox_service/pkg/paging"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MessageUseCase handles message append and history reads
type MessageUseCase struct {
	conversations *ConversationUseCase
	msgRepo       repository.MessageRepository
	userRepo      userrepository.UserRepository
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	conversations *ConversationUseCase,
	msgRepo repository.MessageRepository,
	userRepo userrepository.UserRepository,
) *MessageUseCase {
	return &MessageUseCase{
		conversations: conversations,
		msgRepo:       msgRepo,
		userRepo:      userRepo,
	}
}

// Send append a message and update the pair's conversation. The append and
// the conversation update are two writes: when the second fails the message
// stays durable and the unread counter lags, which the registry accepts.
func (uc *MessageUseCase) Send(ctx context.Context, senderID, receiverID, content, messageType string) (*domain.MessageView, *domain.Conversation, error) {
	content = strings.TrimSpace(content)
	if senderID == "" || receiverID == "" || content == "" {
		return nil, nil, errprocess.Validation("sender ID, receiver ID, and content are required")
	}

	msgType, ok := domain.ParseMessageType(messageType)
	if !ok {
		return nil, nil, errprocess.Validation(fmt.Sprintf("unknown message type: %s", messageType))
	}

	sender, err := uc.lookupForSend(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	receiver, err := uc.lookupForSend(ctx, receiverID)
	if err != nil {
		return nil, nil, err
	}

	conv, err := uc.conversations.FindOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, nil, err
	}

	msg := domain.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		MessageType: msgType,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
	if err := uc.msgRepo.Insert(ctx, &msg); err != nil {
		return nil, nil, errprocess.Persistence(fmt.Sprintf("append message failed: %v", err))
	}

	if err := uc.conversations.RecordMessage(ctx, conv.ID, msg.ID, msg.CreatedAt, receiverID); err != nil {
		return nil, nil, err
	}

	// reflect the update locally so the returned summary is current
	conv.LastMessageID = msg.ID
	conv.LastMessageAt = &msg.CreatedAt
	if conv.UnreadCount == nil {
		conv.UnreadCount = map[string]int{}
	}
	conv.UnreadCount[receiverID]++

	logger.Log.Debug("message sent",
		zap.String("message_id", msg.ID),
		zap.String("conversation_id", conv.ID))

	view := domain.MessageView{
		Message:  msg,
		Sender:   participantView(sender),
		Receiver: participantView(receiver),
		Status:   msg.Status(receiver.IsOnline),
	}
	return &view, conv, nil
}

// History fetch one page of a conversation the requester belongs to
func (uc *MessageUseCase) History(ctx context.Context, conversationID, requesterID string, page, limit int) ([]domain.MessageView, paging.Pagination, error) {
	conv, err := uc.conversations.Get(ctx, conversationID)
	if err != nil {
		if errprocess.KindOf(err) == errprocess.KindNotFound {
			return nil, paging.Pagination{}, errprocess.NotFound("conversation not found or access denied")
		}
		return nil, paging.Pagination{}, err
	}
	return uc.history(ctx, conv, requesterID, page, limit)
}

// HistoryBetween fetch history addressed by the participant pair instead of
// a conversation ID. A pair that never talked yields an empty page.
func (uc *MessageUseCase) HistoryBetween(ctx context.Context, requesterID, otherUserID string, page, limit int) ([]domain.MessageView, paging.Pagination, error) {
	page, limit = paging.Normalize(page, limit)

	key := domain.ParticipantKey(requesterID, otherUserID)
	conv, err := uc.conversations.convRepo.FindByParticipants(ctx, key)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []domain.MessageView{}, paging.New(page, limit, 0), nil
		}
		return nil, paging.Pagination{}, errprocess.Persistence(fmt.Sprintf("find conversation failed: %v", err))
	}
	return uc.history(ctx, conv, requesterID, page, limit)
}

func (uc *MessageUseCase) history(ctx context.Context, conv *domain.Conversation, requesterID string, page, limit int) ([]domain.MessageView, paging.Pagination, error) {
	page, limit = paging.Normalize(page, limit)

	if !conv.HasParticipant(requesterID) {
		return nil, paging.Pagination{}, errprocess.NotFound("conversation not found or access denied")
	}
	otherID := conv.OtherParticipant(requesterID)

	requester, err := uc.conversations.resolveUser(ctx, requesterID)
	if err != nil {
		return nil, paging.Pagination{}, err
	}
	other, err := uc.conversations.resolveUser(ctx, otherID)
	if err != nil {
		return nil, paging.Pagination{}, err
	}

	// Reading marks everything addressed to the requester read and zeroes
	// their counter. Best effort: a failure here must not block the page.
	if _, err := uc.msgRepo.MarkRead(ctx, requesterID, otherID, time.Now()); err != nil {
		logger.Log.Warn("bulk mark-read failed",
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
	}
	if err := uc.conversations.resetUnread(ctx, conv.ID, requesterID); err != nil {
		logger.Log.Warn("unread reset failed",
			zap.String("conversation_id", conv.ID),
			zap.Error(err))
	}

	skip := int64(page-1) * int64(limit)
	msgs, err := uc.msgRepo.FindBetween(ctx, requesterID, otherID, skip, int64(limit))
	if err != nil {
		return nil, paging.Pagination{}, errprocess.Persistence(fmt.Sprintf("fetch history failed: %v", err))
	}

	total, err := uc.msgRepo.CountBetween(ctx, requesterID, otherID)
	if err != nil {
		return nil, paging.Pagination{}, errprocess.Persistence(fmt.Sprintf("count history failed: %v", err))
	}

	participants := map[string]domain.Participant{
		requester.ID: participantView(requester),
		other.ID:     participantView(other),
	}
	online := map[string]bool{
		requester.ID: requester.IsOnline,
		other.ID:     other.IsOnline,
	}

	// storage order is newest first, callers get chronological pages
	views := make([]domain.MessageView, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		views = append(views, domain.MessageView{
			Message:  m,
			Sender:   participants[m.SenderID],
			Receiver: participants[m.ReceiverID],
			Status:   m.Status(online[m.ReceiverID]),
		})
	}

	return views, paging.New(page, limit, total), nil
}

func (uc *MessageUseCase) lookupForSend(ctx context.Context, userID string) (*userdomain.User, error) {
	user, err := uc.userRepo.FindUser(ctx, &userdomain.UserQuery{ID: &userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.Validation("invalid sender or receiver ID")
		}
		return nil, errprocess.Persistence(fmt.Sprintf("find user failed: %v", err))
	}
	return user, nil
}
