package domain

import (
	"sort"
	"time"

	"chatterbox_service/pkg"
)

// Conversation one record per unordered participant pair. Participants are
// stored sorted so the pair itself is the uniqueness key; unread_count maps
// participant ID to count, leaving room for N-way conversations.
type Conversation struct {
	ID            string         `bson:"_id,omitempty" json:"id"`
	Participants  []string       `bson:"participants" json:"participants"`
	LastMessageID string         `bson:"last_message,omitempty" json:"lastMessageId,omitempty"`
	LastMessageAt *time.Time     `bson:"last_message_at,omitempty" json:"lastMessageAt,omitempty"`
	UnreadCount   map[string]int `bson:"unread_count" json:"unreadCount"`
	CreatedAt     time.Time      `bson:"created_at" json:"createdAt"`
}

// ParticipantKey canonicalize a pair of user IDs into the stored form
func ParticipantKey(userA, userB string) []string {
	key := []string{userA, userB}
	sort.Strings(key)
	return key
}

// HasParticipant check userID belongs to the conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return pkg.Contains(c.Participants, userID)
}

// OtherParticipant return the participant that is not userID
func (c *Conversation) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// UnreadFor return userID's unread counter, zero when absent
func (c *Conversation) UnreadFor(userID string) int {
	if c.UnreadCount == nil {
		return 0
	}
	return c.UnreadCount[userID]
}

// ConversationSummary a conversation annotated for one participant's listing
type ConversationSummary struct {
	ID               string      `json:"id"`
	OtherParticipant Participant `json:"otherParticipant"`
	LastMessage      *Message    `json:"lastMessage,omitempty"`
	LastMessageAt    *time.Time  `json:"lastMessageAt,omitempty"`
	UnreadCount      int         `json:"unreadCount"`
	CreatedAt        time.Time   `json:"createdAt"`
}
