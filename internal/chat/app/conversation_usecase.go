package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatterbox_service/internal/chat/domain"
	"chatterbox_service/internal/chat/repository"
	userdomain "chatterbox_service/internal/user/domain"
	userrepository "chatterbox_service/internal/user/repository"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ConversationUseCase owns the conversation registry: one record per
// participant pair, unread counters, last-message bookkeeping
type ConversationUseCase struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	userRepo userrepository.UserRepository
}

// NewConversationUseCase init conversation registry use case
func NewConversationUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	userRepo userrepository.UserRepository,
) *ConversationUseCase {
	return &ConversationUseCase{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		userRepo: userRepo,
	}
}

// FindOrCreate return the conversation for the unordered pair, creating it
// with zeroed counters on first contact. Idempotent: the sorted pair is
// unique-indexed, so a concurrent create loses and we re-read.
func (uc *ConversationUseCase) FindOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	if _, err := uc.resolveUser(ctx, userA); err != nil {
		return nil, err
	}
	if _, err := uc.resolveUser(ctx, userB); err != nil {
		return nil, err
	}

	key := domain.ParticipantKey(userA, userB)
	conv, err := uc.convRepo.FindByParticipants(ctx, key)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errprocess.Persistence(fmt.Sprintf("find conversation failed: %v", err))
	}

	conv = &domain.Conversation{
		ID:           uuid.New().String(),
		Participants: key,
		UnreadCount:  map[string]int{userA: 0, userB: 0},
		CreatedAt:    time.Now(),
	}
	if err := uc.convRepo.Create(ctx, conv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// lost the race, the winner's record is the conversation
			return uc.FindOrCreate(ctx, userA, userB)
		}
		return nil, errprocess.Persistence(fmt.Sprintf("create conversation failed: %v", err))
	}

	logger.Log.Info("conversation created",
		zap.String("conversation_id", conv.ID),
		zap.Strings("participants", conv.Participants))

	return conv, nil
}

// Get load a conversation by ID
func (uc *ConversationUseCase) Get(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.NotFound("conversation not found")
		}
		return nil, errprocess.Persistence(fmt.Sprintf("find conversation failed: %v", err))
	}
	return conv, nil
}

// RecordMessage point the conversation at the new message and bump the
// recipient's unread counter. No rollback path: on failure the caller must
// not assume any of it was applied.
func (uc *ConversationUseCase) RecordMessage(ctx context.Context, conversationID, messageID string, at time.Time, receiverID string) error {
	if err := uc.convRepo.RecordMessage(ctx, conversationID, messageID, at, receiverID); err != nil {
		return errprocess.Persistence(fmt.Sprintf("record message on conversation failed: %v", err))
	}
	return nil
}

// MarkRead zero the participant's unread counter
func (uc *ConversationUseCase) MarkRead(ctx context.Context, conversationID, userID string) error {
	conv, err := uc.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return errprocess.NotFound("conversation not found or access denied")
	}
	if conv.UnreadFor(userID) == 0 {
		return nil
	}
	return uc.resetUnread(ctx, conversationID, userID)
}

func (uc *ConversationUseCase) resetUnread(ctx context.Context, conversationID, userID string) error {
	if err := uc.convRepo.ResetUnread(ctx, conversationID, userID); err != nil {
		return errprocess.Persistence(fmt.Sprintf("reset unread failed: %v", err))
	}
	return nil
}

// ListForUser return the user's conversations, most recent message first,
// each annotated with the other participant and the caller's unread count
func (uc *ConversationUseCase) ListForUser(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	if _, err := uc.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	convs, err := uc.convRepo.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, errprocess.Persistence(fmt.Sprintf("list conversations failed: %v", err))
	}

	summaries := make([]domain.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		otherID := conv.OtherParticipant(userID)
		other, err := uc.resolveUser(ctx, otherID)
		if err != nil {
			logger.Log.Warn("skip conversation, other participant unresolved",
				zap.String("conversation_id", conv.ID),
				zap.String("user_id", otherID))
			continue
		}

		summary := domain.ConversationSummary{
			ID:               conv.ID,
			OtherParticipant: participantView(other),
			LastMessageAt:    conv.LastMessageAt,
			UnreadCount:      conv.UnreadFor(userID),
			CreatedAt:        conv.CreatedAt,
		}

		if conv.LastMessageID != "" {
			msg, err := uc.msgRepo.FindByID(ctx, conv.LastMessageID)
			if err != nil {
				// tolerated: the pointer is non-owning, listing goes on
				logger.Log.Warn("last message unresolved",
					zap.String("conversation_id", conv.ID),
					zap.String("message_id", conv.LastMessageID))
			} else {
				summary.LastMessage = msg
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (uc *ConversationUseCase) resolveUser(ctx context.Context, userID string) (*userdomain.User, error) {
	user, err := uc.userRepo.FindUser(ctx, &userdomain.UserQuery{ID: &userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errprocess.NotFound(fmt.Sprintf("user %s not found", userID))
		}
		return nil, errprocess.Persistence(fmt.Sprintf("find user failed: %v", err))
	}
	return user, nil
}

func participantView(u *userdomain.User) domain.Participant {
	return domain.Participant{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}
