package domain

import "time"

// MessageType tag for the message payload
type MessageType string

const (
	// MessageTypeText plain text content
	MessageTypeText MessageType = "text"
	// MessageTypeImage content is an image URL
	MessageTypeImage MessageType = "image"
	// MessageTypeFile content is a file URL
	MessageTypeFile MessageType = "file"
	// MessageTypeAudio content is an audio URL
	MessageTypeAudio MessageType = "audio"
)

// ParseMessageType map the wire value to a MessageType, empty means text
func ParseMessageType(s string) (MessageType, bool) {
	switch MessageType(s) {
	case "":
		return MessageTypeText, true
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeAudio:
		return MessageType(s), true
	}
	return "", false
}

// DeliveryStatus derived presentation state of a message
type DeliveryStatus string

const (
	// StatusSent receiver was offline and has not read it
	StatusSent DeliveryStatus = "sent"
	// StatusDelivered receiver is online but has not read it
	StatusDelivered DeliveryStatus = "delivered"
	// StatusSeen receiver has read it
	StatusSeen DeliveryStatus = "seen"
)

// Message one direct message between two users
type Message struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	SenderID    string      `bson:"sender_id" json:"senderId"`
	ReceiverID  string      `bson:"receiver_id" json:"receiverId"`
	Content     string      `bson:"content" json:"content"`
	MessageType MessageType `bson:"message_type" json:"messageType"`
	IsRead      bool        `bson:"is_read" json:"isRead"`
	ReadAt      *time.Time  `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"createdAt"`
}

// Status derive the delivery status from the read flag and the receiver's
// presence. Not persisted, so the two can't drift apart.
func (m *Message) Status(receiverOnline bool) DeliveryStatus {
	if m.IsRead {
		return StatusSeen
	}
	if receiverOnline {
		return StatusDelivered
	}
	return StatusSent
}

// Participant the slice of user info the chat views need
type Participant struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// MessageView message plus its derived status and participant info
type MessageView struct {
	Message
	Sender   Participant    `json:"sender"`
	Receiver Participant    `json:"receiver"`
	Status   DeliveryStatus `json:"status"`
}
