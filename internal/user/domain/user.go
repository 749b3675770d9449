package domain

import (
	"time"

	"chatterbox_service/pkg/encrypt"
)

// User represents a directory entry with identity and presence
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FullName  string    `bson:"full_name" json:"fullName"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Avatar    string    `bson:"avatar,omitempty" json:"avatar"`
	IsOnline  bool      `bson:"is_online" json:"isOnline"`
	LastSeen  time.Time `bson:"last_seen" json:"lastSeen"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// IsPasswordMatch check the given password against the stored hash
func (u *User) IsPasswordMatch(inputPwd string) error {
	err := encrypt.CheckPassword(u.Password, inputPwd)
	return err
}

// UserQuery join conditions are used to query users
type UserQuery struct {
	ID       *string
	Username *string
	Email    *string
}

// UserSession represents a logged-in user's session
type UserSession struct {
	Token        string    `json:"Token"`
	UserID       string    `json:"UserID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsExpired check whether the session has passed its expiry
func (s *UserSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}
