package app

import (
	"context"
	"testing"
	"time"

	"chatterbox_service/internal/chat/domain"
	userdomain "chatterbox_service/internal/user/domain"
	errprocess "chatterbox_service/pkg/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

func newMessageFixture() (*mockConversationRepo, *mockMessageRepo, *mockUserRepo, *MessageUseCase) {
	convRepo := new(mockConversationRepo)
	msgRepo := new(mockMessageRepo)
	userRepo := new(mockUserRepo)
	convUC := NewConversationUseCase(convRepo, msgRepo, userRepo)
	return convRepo, msgRepo, userRepo, NewMessageUseCase(convUC, msgRepo, userRepo)
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	alice := &userdomain.User{ID: "alice", Username: "alice"}
	bob := &userdomain.User{ID: "bob", Username: "bob"}

	t.Run("appends and bumps the receiver's unread counter", func(t *testing.T) {
		convRepo, msgRepo, userRepo, usecase := newMessageFixture()

		userRepo.On("FindUser", ctx, matchUserQueryID("alice")).Return(alice, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("bob")).Return(bob, nil)

		conv := &domain.Conversation{
			ID:           "conv-1",
			Participants: []string{"alice", "bob"},
			UnreadCount:  map[string]int{"alice": 0, "bob": 0},
		}
		convRepo.On("FindByParticipants", ctx, []string{"alice", "bob"}).Return(conv, nil)
		msgRepo.On("Insert", ctx, mock.MatchedBy(func(m *domain.Message) bool {
			return m.SenderID == "alice" && m.ReceiverID == "bob" &&
				m.Content == "hello" && m.MessageType == domain.MessageTypeText && !m.IsRead
		})).Return(nil)
		convRepo.On("RecordMessage", ctx, "conv-1", mock.Anything, mock.Anything, "bob").Return(nil)

		view, got, err := usecase.Send(ctx, "alice", "bob", "hello", "")
		assert.NoError(t, err)
		assert.Equal(t, "hello", view.Content)
		assert.Equal(t, domain.StatusSent, view.Status)
		assert.Equal(t, 1, got.UnreadFor("bob"))
		assert.Equal(t, view.ID, got.LastMessageID)
		convRepo.AssertExpectations(t)
		msgRepo.AssertExpectations(t)
	})

	t.Run("online receiver yields delivered", func(t *testing.T) {
		convRepo, msgRepo, userRepo, usecase := newMessageFixture()

		online := &userdomain.User{ID: "bob", Username: "bob", IsOnline: true}
		userRepo.On("FindUser", ctx, matchUserQueryID("alice")).Return(alice, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("bob")).Return(online, nil)

		conv := &domain.Conversation{ID: "conv-1", Participants: []string{"alice", "bob"}}
		convRepo.On("FindByParticipants", ctx, []string{"alice", "bob"}).Return(conv, nil)
		msgRepo.On("Insert", ctx, mock.Anything).Return(nil)
		convRepo.On("RecordMessage", ctx, "conv-1", mock.Anything, mock.Anything, "bob").Return(nil)

		view, _, err := usecase.Send(ctx, "alice", "bob", "hello", "text")
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, view.Status)
	})

	t.Run("blank content is rejected", func(t *testing.T) {
		_, msgRepo, _, usecase := newMessageFixture()

		_, _, err := usecase.Send(ctx, "alice", "bob", "   ", "")
		assert.Error(t, err)
		assert.Equal(t, errprocess.KindValidation, errprocess.KindOf(err))
		msgRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("unknown message type is rejected", func(t *testing.T) {
		_, _, _, usecase := newMessageFixture()

		_, _, err := usecase.Send(ctx, "alice", "bob", "hello", "video")
		assert.Error(t, err)
		assert.Equal(t, errprocess.KindValidation, errprocess.KindOf(err))
	})

	t.Run("unresolved receiver is rejected", func(t *testing.T) {
		_, _, userRepo, usecase := newMessageFixture()

		userRepo.On("FindUser", ctx, matchUserQueryID("alice")).Return(alice, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("ghost")).Return(nil, mongo.ErrNoDocuments)

		_, _, err := usecase.Send(ctx, "alice", "ghost", "hello", "")
		assert.Error(t, err)
		assert.Equal(t, errprocess.KindValidation, errprocess.KindOf(err))
		assert.Equal(t, "invalid sender or receiver ID", err.Error())
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	alice := &userdomain.User{ID: "alice", Username: "alice"}
	bob := &userdomain.User{ID: "bob", Username: "bob"}

	conv := &domain.Conversation{
		ID:           "conv-1",
		Participants: []string{"alice", "bob"},
		UnreadCount:  map[string]int{"alice": 2},
	}

	t.Run("marks incoming messages read before the page is built", func(t *testing.T) {
		convRepo, msgRepo, userRepo, usecase := newMessageFixture()

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("alice")).Return(alice, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("bob")).Return(bob, nil)

		msgRepo.On("MarkRead", ctx, "alice", "bob", mock.Anything).Return(int64(2), nil)
		convRepo.On("ResetUnread", ctx, "conv-1", "alice").Return(nil)

		// stored newest first, read flags already flipped by MarkRead
		readAt := time.Now()
		stored := []domain.Message{
			{ID: "m2", SenderID: "bob", ReceiverID: "alice", Content: "second", IsRead: true, ReadAt: &readAt, CreatedAt: time.Now()},
			{ID: "m1", SenderID: "alice", ReceiverID: "bob", Content: "first", CreatedAt: time.Now().Add(-time.Minute)},
		}
		msgRepo.On("FindBetween", ctx, "alice", "bob", int64(0), int64(50)).Return(stored, nil)
		msgRepo.On("CountBetween", ctx, "alice", "bob").Return(int64(2), nil)

		views, pagination, err := usecase.History(ctx, "conv-1", "alice", 1, 50)
		assert.NoError(t, err)
		assert.Len(t, views, 2)

		// chronological order, oldest first
		assert.Equal(t, "m1", views[0].ID)
		assert.Equal(t, "m2", views[1].ID)

		// the message addressed to the reader comes back seen
		assert.Equal(t, domain.StatusSeen, views[1].Status)

		assert.Equal(t, int64(2), pagination.TotalCount)
		assert.False(t, pagination.HasMore)
		msgRepo.AssertExpectations(t)
		convRepo.AssertExpectations(t)
	})

	t.Run("pagination reports remaining pages", func(t *testing.T) {
		convRepo, msgRepo, userRepo, usecase := newMessageFixture()

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("alice")).Return(alice, nil)
		userRepo.On("FindUser", ctx, matchUserQueryID("bob")).Return(bob, nil)
		msgRepo.On("MarkRead", ctx, "alice", "bob", mock.Anything).Return(int64(0), nil)
		convRepo.On("ResetUnread", ctx, "conv-1", "alice").Return(nil)

		msgRepo.On("FindBetween", ctx, "alice", "bob", int64(0), int64(2)).
			Return([]domain.Message{{ID: "m5"}, {ID: "m4"}}, nil)
		msgRepo.On("CountBetween", ctx, "alice", "bob").Return(int64(5), nil)

		_, pagination, err := usecase.History(ctx, "conv-1", "alice", 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, 3, pagination.TotalPages)
		assert.True(t, pagination.HasMore)
	})

	t.Run("requester outside the conversation is denied", func(t *testing.T) {
		convRepo, msgRepo, _, usecase := newMessageFixture()

		convRepo.On("FindByID", ctx, "conv-1").Return(conv, nil)

		_, _, err := usecase.History(ctx, "conv-1", "mallory", 1, 50)
		assert.Error(t, err)
		assert.Equal(t, "conversation not found or access denied", err.Error())
		msgRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown conversation reads as not found", func(t *testing.T) {
		convRepo, _, _, usecase := newMessageFixture()

		convRepo.On("FindByID", ctx, "missing").Return(nil, mongo.ErrNoDocuments)

		_, _, err := usecase.History(ctx, "missing", "alice", 1, 50)
		assert.Error(t, err)
		assert.Equal(t, errprocess.KindNotFound, errprocess.KindOf(err))
	})
}

func TestHistoryBetween(t *testing.T) {
	ctx := context.Background()

	t.Run("pair that never talked yields an empty page", func(t *testing.T) {
		convRepo, msgRepo, _, usecase := newMessageFixture()

		convRepo.On("FindByParticipants", ctx, []string{"alice", "bob"}).
			Return(nil, mongo.ErrNoDocuments)

		views, pagination, err := usecase.HistoryBetween(ctx, "alice", "bob", 1, 20)
		assert.NoError(t, err)
		assert.Empty(t, views)
		assert.Equal(t, int64(0), pagination.TotalCount)
		assert.False(t, pagination.HasMore)
		msgRepo.AssertNotCalled(t, "FindBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
