package domain

import "time"

// ActivityType classifies an inbound conversation event.
type ActivityType string

const (
	ActivityMessage            ActivityType = "message"
	ActivityConversationUpdate ActivityType = "conversationUpdate"
)

// Account identifies a participant of a conversation (user or bot).
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationRef identifies the conversation an activity belongs to.
type ConversationRef struct {
	ID string `json:"id"`
}

// Activity is a single inbound event delivered by a channel.
// The shape follows the Bot Framework activity schema, trimmed to what the bot reads.
type Activity struct {
	ID           string          `json:"id,omitempty"`
	Type         ActivityType    `json:"type"`
	ChannelID    string          `json:"channelId,omitempty"`
	Conversation ConversationRef `json:"conversation"`
	From         Account         `json:"from"`
	Recipient    Account         `json:"recipient"`
	Text         string          `json:"text,omitempty"`
	// Value carries structured submissions (e.g. card buttons).
	Value        map[string]any `json:"value,omitempty"`
	MembersAdded []Account      `json:"membersAdded,omitempty"`
	Timestamp    time.Time      `json:"timestamp,omitempty"`
}

// Message builds a message activity, mostly useful for channels and tests.
func Message(conversationID, userID, text string) Activity {
	return Activity{
		Type:         ActivityMessage,
		Conversation: ConversationRef{ID: conversationID},
		From:         Account{ID: userID},
		Text:         text,
		Timestamp:    time.Now().UTC(),
	}
}
