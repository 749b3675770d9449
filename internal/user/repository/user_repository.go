package repository

import (
	"context"
	"time"

	"chatterbox_service/internal/user/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository definition get user info
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUser(ctx context.Context, query *domain.UserQuery) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
	Search(ctx context.Context, query, excludeID string, skip, limit int64) ([]domain.User, int64, error)
	SetOnlineStatus(ctx context.Context, userID string, online bool) error
	EnsureIndexes(ctx context.Context) error
}

type userRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository create a UserRepository backed by the users collection
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		coll: db.Collection("users"),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return err
}

func (r *userRepository) FindUser(ctx context.Context, query *domain.UserQuery) (*domain.User, error) {
	filter := bson.M{}
	if query.ID != nil {
		filter["_id"] = *query.ID
	}
	if query.Username != nil {
		filter["username"] = *query.Username
	}
	if query.Email != nil {
		filter["email"] = *query.Email
	}

	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}}

	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Search case-insensitive substring match on username or email, requester
// excluded, sorted by username ascending
func (r *userRepository) Search(ctx context.Context, query, excludeID string, skip, limit int64) ([]domain.User, int64, error) {
	pattern := primitive.Regex{Pattern: regexQuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"username": pattern},
				bson.M{"email": pattern},
			}},
			bson.M{"_id": bson.M{"$ne": excludeID}},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) SetOnlineStatus(ctx context.Context, userID string, online bool) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{
		"is_online": online,
		"last_seen": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "is_online", Value: 1}}},
	})
	return err
}

// regexQuoteMeta escape regex metacharacters so the query is a literal match
func regexQuoteMeta(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		for j := 0; j < len(special); j++ {
			if s[i] == special[j] {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, s[i])
	}
	return string(out)
}
