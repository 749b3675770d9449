package repository

import (
	"context"
	"time"

	"chatterbox_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition append-only message store access
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	// FindBetween messages exchanged between exactly this pair, newest first
	FindBetween(ctx context.Context, userA, userB string, skip, limit int64) ([]domain.Message, error)
	CountBetween(ctx context.Context, userA, userB string) (int64, error)
	// MarkRead flip every unread message from senderID to receiverID,
	// returns how many were flipped
	MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	var msg domain.Message
	if err := r.coll.FindOne(ctx, bson.M{"_id": messageID}).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func betweenFilter(userA, userB string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": userA, "receiver_id": userB},
		bson.M{"sender_id": userB, "receiver_id": userA},
	}}
}

func (r *messageRepository) FindBetween(ctx context.Context, userA, userB string, skip, limit int64) ([]domain.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, betweenFilter(userA, userB), opts)
	if err != nil {
		return nil, err
	}
	var msgs []domain.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) CountBetween(ctx context.Context, userA, userB string) (int64, error) {
	return r.coll.CountDocuments(ctx, betweenFilter(userA, userB))
}

func (r *messageRepository) MarkRead(ctx context.Context, receiverID, senderID string, at time.Time) (int64, error) {
	filter := bson.M{
		"receiver_id": receiverID,
		"sender_id":   senderID,
		"is_read":     false,
	}
	update := bson.M{"$set": bson.M{
		"is_read": true,
		"read_at": at,
	}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *messageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_read", Value: 1}}},
	})
	return err
}
