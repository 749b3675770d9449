package bdd

import (
	"fmt"
	"strings"
	"time"

	"chatterbox_service/internal/chat/domain"

	"github.com/cucumber/godog"
)

func registerMessagingSteps(s *godog.ScenarioContext) {
	s.Step(`^a user "([^"]*)" exists$`, aUserExists)
	s.Step(`^"([^"]*)" sends "([^"]*)" to "([^"]*)"$`, userSendsTo)
	s.Step(`^a conversation between "([^"]*)" and "([^"]*)" should exist$`, conversationShouldExist)
	s.Step(`^"([^"]*)" should have (\d+) unread messages? from "([^"]*)"$`, userShouldHaveUnread)
	s.Step(`^"([^"]*)" reads the conversation with "([^"]*)"$`, userReadsConversation)
	s.Step(`^the message "([^"]*)" should be marked "([^"]*)"$`, messageShouldBeMarked)
	s.Step(`^the send should be rejected$`, sendShouldBeRejected)
}

var (
	knownUsers     map[string]bool
	conversations  map[string]*domain.Conversation
	messages       []*domain.Message
	lastSendFailed bool
)

func resetMessagingState() {
	knownUsers = map[string]bool{}
	conversations = map[string]*domain.Conversation{}
	messages = nil
	lastSendFailed = false
}

func pairID(a, b string) string {
	return strings.Join(domain.ParticipantKey(a, b), "|")
}

func aUserExists(name string) error {
	knownUsers[name] = true
	return nil
}

func userSendsTo(sender, content, receiver string) error {
	if !knownUsers[sender] || !knownUsers[receiver] {
		lastSendFailed = true
		return nil
	}

	id := pairID(sender, receiver)
	conv, ok := conversations[id]
	if !ok {
		conv = &domain.Conversation{
			ID:           id,
			Participants: domain.ParticipantKey(sender, receiver),
			UnreadCount:  map[string]int{sender: 0, receiver: 0},
			CreatedAt:    time.Now(),
		}
		conversations[id] = conv
	}

	msg := &domain.Message{
		ID:          fmt.Sprintf("msg-%d", len(messages)+1),
		SenderID:    sender,
		ReceiverID:  receiver,
		Content:     content,
		MessageType: domain.MessageTypeText,
		CreatedAt:   time.Now(),
	}
	messages = append(messages, msg)

	now := time.Now()
	conv.LastMessageID = msg.ID
	conv.LastMessageAt = &now
	conv.UnreadCount[receiver]++
	return nil
}

func conversationShouldExist(a, b string) error {
	if _, ok := conversations[pairID(a, b)]; !ok {
		return fmt.Errorf("no conversation between %s and %s", a, b)
	}
	return nil
}

func userShouldHaveUnread(user string, count int, other string) error {
	conv, ok := conversations[pairID(user, other)]
	if !ok {
		if count == 0 {
			return nil
		}
		return fmt.Errorf("no conversation between %s and %s", user, other)
	}
	if got := conv.UnreadFor(user); got != count {
		return fmt.Errorf("expected %d unread for %s, got %d", count, user, got)
	}
	return nil
}

func userReadsConversation(reader, other string) error {
	conv, ok := conversations[pairID(reader, other)]
	if !ok {
		return fmt.Errorf("no conversation between %s and %s", reader, other)
	}

	now := time.Now()
	for _, msg := range messages {
		if msg.ReceiverID == reader && msg.SenderID == other && !msg.IsRead {
			msg.IsRead = true
			msg.ReadAt = &now
		}
	}
	conv.UnreadCount[reader] = 0
	return nil
}

func messageShouldBeMarked(content, expected string) error {
	for _, msg := range messages {
		if msg.Content == content {
			if got := string(msg.Status(false)); got != expected {
				return fmt.Errorf("message %q is %s, expected %s", content, got, expected)
			}
			return nil
		}
	}
	return fmt.Errorf("message %q not found", content)
}

func sendShouldBeRejected() error {
	if !lastSendFailed {
		return fmt.Errorf("send was accepted, expected rejection")
	}
	return nil
}
