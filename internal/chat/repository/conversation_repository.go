package repository

import (
	"context"
	"time"

	"chatterbox_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository definition conversation registry access
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	// FindByParticipants look up the conversation for a canonicalized pair
	FindByParticipants(ctx context.Context, participants []string) (*domain.Conversation, error)
	FindByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error)
	// RecordMessage point the conversation at its newest message and bump
	// the receiver's unread counter in one atomic update
	RecordMessage(ctx context.Context, conversationID, messageID string, at time.Time, receiverID string) error
	ResetUnread(ctx context.Context, conversationID, userID string) error
	EnsureIndexes(ctx context.Context) error
}

type conversationRepository struct {
	coll *mongo.Collection
}

// NewMongoConversationRepository create a ConversationRepository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &conversationRepository{
		coll: db.Collection("conversations"),
	}
}

func (r *conversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	_, err := r.coll.InsertOne(ctx, conv)
	return err
}

func (r *conversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.coll.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByParticipants(ctx context.Context, participants []string) (*domain.Conversation, error) {
	// participants are stored sorted, exact match is enough
	filter := bson.M{"participants": participants}
	var conv domain.Conversation
	if err := r.coll.FindOne(ctx, filter).Decode(&conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByParticipant list every conversation the user belongs to, most
// recent message first. Conversations without messages sort last because
// a missing last_message_at ranks below any timestamp in descending order.
func (r *conversationRepository) FindByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	filter := bson.M{"participants": userID}
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var convs []domain.Conversation
	if err := cur.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepository) RecordMessage(ctx context.Context, conversationID, messageID string, at time.Time, receiverID string) error {
	filter := bson.M{"_id": conversationID}
	update := bson.M{
		"$set": bson.M{
			"last_message":    messageID,
			"last_message_at": at,
		},
		"$inc": bson.M{"unread_count." + receiverID: 1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *conversationRepository) ResetUnread(ctx context.Context, conversationID, userID string) error {
	filter := bson.M{"_id": conversationID}
	update := bson.M{"$set": bson.M{"unread_count." + userID: 0}}
	_, err := r.coll.UpdateOne(ctx, filter, update)
	return err
}

func (r *conversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// one conversation per participant pair
			Keys:    bson.D{{Key: "participants", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "last_message_at", Value: -1}}},
	})
	return err
}
