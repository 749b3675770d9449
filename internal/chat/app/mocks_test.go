package app

import (
	"context"
	"time"

	"chatterbox_service/internal/chat/domain"
	userdomain "chatterbox_service/internal/user/domain"

	"github.com/stretchr/testify/mock"
)

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *mockConversationRepo) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) FindByParticipants(ctx context.Context, participants []string) (*domain.Conversation, error) {
	args := m.Called(ctx, participants)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) FindByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) RecordMessage(ctx context.Context, conversationID, messageID string, at time.Time, receiverID string) error {
	args := m.Called(ctx, conversationID, messageID, at, receiverID)
	return args.Error(0)
}

func (m *mockConversationRepo) ResetUnread(ctx context.Context, conversationID, userID string) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}

func (m *mockConversationRepo) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepo) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) FindBetween(ctx context.Context, userA, userB string, skip, limit int64) ([]domain.Message, error) {
	args := m.Called(ctx, userA, userB, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockMessageRepo) CountBetween(ctx context.Context, userA, userB string) (int64, error) {
	args := m.Called(ctx, userA, userB)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error) {
	args := m.Called(ctx, receiverID, senderID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *userdomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindUser(ctx context.Context, query *userdomain.UserQuery) (*userdomain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*userdomain.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

func (m *mockUserRepo) Search(ctx context.Context, query, excludeID string, skip, limit int64) ([]userdomain.User, int64, error) {
	args := m.Called(ctx, query, excludeID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]userdomain.User), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) SetOnlineStatus(ctx context.Context, userID string, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

func (m *mockUserRepo) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// matchUserQueryID match a FindUser query on its ID condition
func matchUserQueryID(id string) interface{} {
	return mock.MatchedBy(func(q *userdomain.UserQuery) bool {
		return q.ID != nil && *q.ID == id
	})
}
